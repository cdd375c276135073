package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gonewx/legends/pkg/embedded"
	"github.com/gonewx/legends/pkg/utils"
)

// CardConfigPath 卡牌配置文件在嵌入文件系统中的路径
const CardConfigPath = "data/card.yaml"

// CardConfig 卡牌渲染引擎的全部可调参数
//
// 配置文件位置: data/card.yaml
type CardConfig struct {
	Shape       ShapeConfig       `yaml:"shape"`
	Composite   CompositeConfig   `yaml:"composite"`
	Orientation OrientationConfig `yaml:"orientation"`
	Performance PerformanceConfig `yaml:"performance"`
	Ink         InkConfig         `yaml:"ink"`
	View        ViewConfig        `yaml:"view"`
}

// ShapeConfig 卡牌轮廓与挤出参数（卡牌局部单位）
type ShapeConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	CornerRadius  float64 `yaml:"cornerRadius"`
	Depth         float64 `yaml:"depth"`
	CurveSegments int     `yaml:"curveSegments"`
}

// CompositeConfig 视差合成参数
type CompositeConfig struct {
	TargetWidth    int     `yaml:"targetWidth"`    // 渲染目标宽度（与原画像素一致）
	TargetHeight   int     `yaml:"targetHeight"`   // 渲染目标高度
	ArtScale       float64 `yaml:"artScale"`       // 原画像素到卡牌单位的换算系数
	CameraDistance float64 `yaml:"cameraDistance"` // 正交相机到原点的距离
	LayerDepth     float64 `yaml:"layerDepth"`     // 图层沿 -Z 铺开的总深度
	Ambient        float64 `yaml:"ambient"`        // 环境光强度
	ParallaxSwing  float64 `yaml:"parallaxSwing"`  // 相机水平摆幅
	ClearColor     string  `yaml:"clearColor"`     // 清屏颜色（十六进制）
}

// OrientationConfig 朝向控制参数
type OrientationConfig struct {
	PointerDegrees   float64            `yaml:"pointerDegrees"` // 指针在 [-1,1] 两端对应的倾斜角度
	HoverLift        float64            `yaml:"hoverLift"`      // 悬停时沿 +Z 的抬升量
	TiltClamp        float64            `yaml:"tiltClamp"`      // 设备旋转速率的截断范围
	TiltCoefficients TiltCoefficients   `yaml:"tiltCoefficients"`
	Settle           utils.SpringConfig `yaml:"settle"`   // 离散事件后的弹簧参数
	Tracking         utils.SpringConfig `yaml:"tracking"` // 连续跟随指针时的弹簧参数
	RestPrecision    float64            `yaml:"restPrecision"`
}

// TiltCoefficients 设备倾斜在各轴上的缩放系数（乘以 π）
type TiltCoefficients struct {
	Alpha float64 `yaml:"alpha"` // 作用于 X 旋转
	Beta  float64 `yaml:"beta"`  // 作用于 Y 旋转
	Gamma float64 `yaml:"gamma"` // 作用于 Z 旋转
}

// PerformanceConfig 性能调节参数
type PerformanceConfig struct {
	SlowFPS         float64 `yaml:"slowFps"`         // 低于该帧率视为慢帧
	MonitorMin      float64 `yaml:"monitorMin"`      // 性能分数下限
	MonitorMax      float64 `yaml:"monitorMax"`      // 性能分数上限
	MonitorDebounce float64 `yaml:"monitorDebounce"` // 降级后恢复满分的等待时间（秒）
}

// InkConfig 油墨贴花参数
type InkConfig struct {
	PlaneWidth        float64 `yaml:"planeWidth"`
	PlaneHeight       float64 `yaml:"planeHeight"`
	BackZ             float64 `yaml:"backZ"`
	BorderZ           float64 `yaml:"borderZ"`
	BorderNormalScale float64 `yaml:"borderNormalScale"`
	BackNormalScale   float64 `yaml:"backNormalScale"`
	EdgeNormalScale   float64 `yaml:"edgeNormalScale"`
	EmissiveIntensity float64 `yaml:"emissiveIntensity"`
	Shininess         float64 `yaml:"shininess"`
	BackTint          string  `yaml:"backTint"` // 背面底色（十六进制）
}

// ViewConfig 观察相机参数
type ViewConfig struct {
	FOV     float64 `yaml:"fov"` // 垂直视角（度）
	CameraZ float64 `yaml:"cameraZ"`
	Near    float64 `yaml:"near"`
}

// DefaultCardConfig 返回与 data/card.yaml 一致的默认配置
func DefaultCardConfig() *CardConfig {
	return &CardConfig{
		Shape: ShapeConfig{
			Width:         2.75,
			Height:        4.75,
			CornerRadius:  0.125,
			Depth:         0.025,
			CurveSegments: 12,
		},
		Composite: CompositeConfig{
			TargetWidth:    2681,
			TargetHeight:   4191,
			ArtScale:       1.41 / 1000,
			CameraDistance: 20,
			LayerDepth:     20,
			Ambient:        0.5,
			ParallaxSwing:  4,
			ClearColor:     "#000000",
		},
		Orientation: OrientationConfig{
			PointerDegrees:   5,
			HoverLift:        0.1,
			TiltClamp:        10,
			TiltCoefficients: TiltCoefficients{Alpha: 0.025, Beta: 0.1, Gamma: 0.01},
			Settle:           utils.SpringConfig{Mass: 10, Tension: 300, Friction: 85},
			Tracking:         utils.SpringConfig{Mass: 30, Tension: 300, Friction: 100},
			RestPrecision:    1e-4,
		},
		Performance: PerformanceConfig{
			SlowFPS:         15,
			MonitorMin:      0.1,
			MonitorMax:      1,
			MonitorDebounce: 10,
		},
		Ink: InkConfig{
			PlaneWidth:        2.74,
			PlaneHeight:       4.75,
			BackZ:             -0.026,
			BorderZ:           0.0265,
			BorderNormalScale: 0.03,
			BackNormalScale:   0.05,
			EdgeNormalScale:   0.03,
			EmissiveIntensity: 0.125,
			Shininess:         200,
			BackTint:          "#111111",
		},
		View: ViewConfig{
			FOV:     75,
			CameraZ: 5,
			Near:    0.1,
		},
	}
}

// LoadCardConfig 加载卡牌配置
//
// 优先从嵌入文件系统读取，未初始化或不存在时回退到本地文件。
// 文件中缺省的字段保留默认值。
func LoadCardConfig(path string) (*CardConfig, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read card config: %w", err)
	}
	return ParseCardConfig(data)
}

// ParseCardConfig 解析 YAML 格式的卡牌配置并校验
func ParseCardConfig(data []byte) (*CardConfig, error) {
	cfg := DefaultCardConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse card config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid card config: %w", err)
	}
	return cfg, nil
}

// Validate 验证配置有效性
func (c *CardConfig) Validate() error {
	s := c.Shape
	if s.Width <= 0 || s.Height <= 0 || s.CornerRadius <= 0 || s.Depth <= 0 {
		return fmt.Errorf("shape dimensions must be positive: %vx%v r=%v d=%v",
			s.Width, s.Height, s.CornerRadius, s.Depth)
	}
	if s.CurveSegments < 1 {
		return fmt.Errorf("shape curveSegments must be >= 1, got %d", s.CurveSegments)
	}

	cp := c.Composite
	if cp.TargetWidth <= 0 || cp.TargetHeight <= 0 {
		return fmt.Errorf("composite target must be positive, got %dx%d", cp.TargetWidth, cp.TargetHeight)
	}
	if cp.ArtScale <= 0 || cp.CameraDistance <= 0 || cp.LayerDepth < 0 {
		return fmt.Errorf("composite artScale/cameraDistance must be positive and layerDepth >= 0")
	}
	if cp.LayerDepth >= cp.CameraDistance*2 {
		return fmt.Errorf("composite layerDepth %v puts layers behind the far plane", cp.LayerDepth)
	}
	if cp.Ambient < 0 || cp.Ambient > 1 {
		return fmt.Errorf("composite ambient must be in [0,1], got %v", cp.Ambient)
	}
	if _, err := ParseLinearColor(cp.ClearColor); err != nil {
		return fmt.Errorf("composite clearColor: %w", err)
	}

	o := c.Orientation
	if o.TiltClamp <= 0 {
		return fmt.Errorf("orientation tiltClamp must be positive, got %v", o.TiltClamp)
	}
	if !o.Settle.Valid() {
		return fmt.Errorf("orientation settle spring invalid: %+v", o.Settle)
	}
	if !o.Tracking.Valid() {
		return fmt.Errorf("orientation tracking spring invalid: %+v", o.Tracking)
	}
	if o.RestPrecision <= 0 {
		return fmt.Errorf("orientation restPrecision must be positive, got %v", o.RestPrecision)
	}

	p := c.Performance
	if p.SlowFPS <= 0 {
		return fmt.Errorf("performance slowFps must be positive, got %v", p.SlowFPS)
	}
	if p.MonitorMin < 0 || p.MonitorMin > p.MonitorMax {
		return fmt.Errorf("performance monitor range invalid: min(%v) > max(%v)", p.MonitorMin, p.MonitorMax)
	}
	if p.MonitorDebounce < 0 {
		return fmt.Errorf("performance monitorDebounce must be >= 0, got %v", p.MonitorDebounce)
	}

	ink := c.Ink
	if ink.PlaneWidth <= 0 || ink.PlaneHeight <= 0 {
		return fmt.Errorf("ink plane must be positive, got %vx%v", ink.PlaneWidth, ink.PlaneHeight)
	}
	if ink.BackZ >= 0 || ink.BorderZ <= s.Depth {
		return fmt.Errorf("ink decals must sit outside the card: backZ=%v borderZ=%v depth=%v", ink.BackZ, ink.BorderZ, s.Depth)
	}
	if ink.Shininess <= 0 {
		return fmt.Errorf("ink shininess must be positive, got %v", ink.Shininess)
	}
	if _, err := ParseLinearColor(ink.BackTint); err != nil {
		return fmt.Errorf("ink backTint: %w", err)
	}

	v := c.View
	if v.FOV <= 0 || v.FOV >= 180 {
		return fmt.Errorf("view fov must be in (0,180), got %v", v.FOV)
	}
	if v.CameraZ <= v.Near || v.Near <= 0 {
		return fmt.Errorf("view camera must sit beyond the near plane: z=%v near=%v", v.CameraZ, v.Near)
	}
	return nil
}

// readConfigFile 优先读取嵌入文件，失败时读取本地文件
func readConfigFile(path string) ([]byte, error) {
	if embedded.IsInitialized() && embedded.Exists(path) {
		return embedded.ReadFile(path)
	}
	return os.ReadFile(path)
}
