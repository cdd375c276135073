package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gonewx/legends/pkg/utils"
)

// LightRigPath 灯光配置文件路径
const LightRigPath = "data/lights.yaml"

// DirectionalLight 指向原点的平行光
type DirectionalLight struct {
	Intensity float64    `yaml:"intensity"`
	Position  [3]float64 `yaml:"position"` // 光源位置，光线方向为 position -> 原点
}

// Direction 从表面指向光源的单位向量
func (l DirectionalLight) Direction() utils.Vec3 {
	return utils.V3(l.Position[0], l.Position[1], l.Position[2]).Normalize()
}

// LightRig 场景中固定的一组平行光
type LightRig struct {
	Lights []DirectionalLight `yaml:"lights"`
}

// DefaultLightRig 七盏静态平行光，与 data/lights.yaml 一致
func DefaultLightRig() *LightRig {
	return &LightRig{Lights: []DirectionalLight{
		{Intensity: 0.5, Position: [3]float64{0, 0.15, 1}},
		{Intensity: 0.25, Position: [3]float64{1, -1, 2}},
		{Intensity: 0.25, Position: [3]float64{-1, -1, 2}},
		{Intensity: 0.125, Position: [3]float64{1, 3, 1}},
		{Intensity: 0.125, Position: [3]float64{-1, 3, 1}},
		{Intensity: 0.25, Position: [3]float64{1, 0, 0}},
		{Intensity: 0.25, Position: [3]float64{-1, 0, 0}},
	}}
}

// LoadLightRig 加载灯光配置
func LoadLightRig(path string) (*LightRig, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read light rig: %w", err)
	}

	var rig LightRig
	if err := yaml.Unmarshal(data, &rig); err != nil {
		return nil, fmt.Errorf("failed to parse light rig: %w", err)
	}
	if err := rig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid light rig: %w", err)
	}
	return &rig, nil
}

// Validate 验证灯光配置
func (r *LightRig) Validate() error {
	if len(r.Lights) == 0 {
		return fmt.Errorf("at least one light is required")
	}
	for i, l := range r.Lights {
		if l.Intensity < 0 {
			return fmt.Errorf("light %d: intensity must be >= 0, got %v", i, l.Intensity)
		}
		if l.Position == [3]float64{} {
			return fmt.Errorf("light %d: position must not be the origin", i)
		}
	}
	return nil
}

// Diffuse 计算给定法线上的漫反射光照总量（Lambert）
func (r *LightRig) Diffuse(normal utils.Vec3) float64 {
	var sum float64
	for _, l := range r.Lights {
		if d := normal.Dot(l.Direction()); d > 0 {
			sum += d * l.Intensity
		}
	}
	return sum
}
