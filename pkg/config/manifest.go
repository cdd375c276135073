package config

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// LegendManifest 描述一张卡牌的全部资源
//
// 服务端以 JSON 提供，JSON 是 YAML 的子集，直接用 yaml.v3 解析。
type LegendManifest struct {
	Back   string         `yaml:"back"`   // 卡背油墨标签
	Border string         `yaml:"border"` // 边框油墨标签
	Ink    string         `yaml:"ink"`    // 油墨颜色标签
	Maps   ManifestMaps   `yaml:"maps"`
	Colors ManifestColors `yaml:"colors"`
	Views  ManifestViews  `yaml:"views"`
	NRI    ManifestNRI    `yaml:"nri"`
}

// ManifestMaps 纹理路径
type ManifestMaps struct {
	Normal     string   `yaml:"normal"`
	Layers     []string `yaml:"layers"`
	Back       string   `yaml:"back"`
	Border     string   `yaml:"border"`
	Background string   `yaml:"background"`
}

// ManifestColors 油墨颜色（十六进制 sRGB）
type ManifestColors struct {
	Base     string `yaml:"base"`
	Specular string `yaml:"specular"`
	Emissive string `yaml:"emissive"`
}

// ManifestViews 其他展示形式的链接
type ManifestViews struct {
	Flat        string `yaml:"flat"`
	SideBySide  string `yaml:"sideBySide"`
	Animated    string `yaml:"animated"`
	Interactive string `yaml:"interactive"`
}

// ManifestNRI 各属性的稀有度指数，范围 [0,1]
type ManifestNRI struct {
	Back   float64 `yaml:"back"`
	Border float64 `yaml:"border"`
	Ink    float64 `yaml:"ink"`
	Avg    float64 `yaml:"avg"`
}

// InkColors 解析后的线性空间油墨颜色
type InkColors struct {
	Base     LinearColor
	Specular LinearColor
	Emissive LinearColor
}

// ParseLegendManifest 解析清单并校验必需字段
func ParseLegendManifest(data []byte) (*LegendManifest, error) {
	var m LegendManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse legend manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid legend manifest: %w", err)
	}
	return &m, nil
}

// Validate 检查纹理路径和颜色
//
// 图层列表允许为空，此时合成结果只有环境光。
func (m *LegendManifest) Validate() error {
	required := []struct{ key, value string }{
		{"maps.normal", m.Maps.Normal},
		{"maps.back", m.Maps.Back},
		{"maps.border", m.Maps.Border},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required", r.key)
		}
	}
	for i, layer := range m.Maps.Layers {
		if layer == "" {
			return fmt.Errorf("maps.layers[%d] is empty", i)
		}
	}
	if _, err := m.InkColors(); err != nil {
		return err
	}
	return nil
}

// InkColors 把清单中的十六进制颜色转换到线性空间
func (m *LegendManifest) InkColors() (InkColors, error) {
	var out InkColors
	var err error
	if out.Base, err = ParseLinearColor(m.Colors.Base); err != nil {
		return InkColors{}, fmt.Errorf("colors.base: %w", err)
	}
	if out.Specular, err = ParseLinearColor(m.Colors.Specular); err != nil {
		return InkColors{}, fmt.Errorf("colors.specular: %w", err)
	}
	if out.Emissive, err = ParseLinearColor(m.Colors.Emissive); err != nil {
		return InkColors{}, fmt.Errorf("colors.emissive: %w", err)
	}
	return out, nil
}

// TexturePaths 按加载顺序返回全部纹理路径：法线、卡背、边框、各图层
func (m *LegendManifest) TexturePaths() []string {
	paths := []string{m.Maps.Normal, m.Maps.Back, m.Maps.Border}
	return append(paths, m.Maps.Layers...)
}

// Percent 把稀有度指数换算成向下取整的百分比
func Percent(nri float64) int {
	return int(math.Floor(nri * 100))
}
