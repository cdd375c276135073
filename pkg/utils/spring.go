package utils

import "math"

// SpringConfig 阻尼弹簧参数（质量、张力、摩擦）
//
// 单位约定：张力 N/m、摩擦 N·s/m、质量 kg，时间以秒计。
type SpringConfig struct {
	Mass     float64 `yaml:"mass"`
	Tension  float64 `yaml:"tension"`
	Friction float64 `yaml:"friction"`
}

// DampingRatio 阻尼比 ζ = c / (2·sqrt(k·m))
//
// ζ < 1 欠阻尼（会有一次或多次回弹），ζ = 1 临界阻尼，ζ > 1 过阻尼。
func (c SpringConfig) DampingRatio() float64 {
	return c.Friction / (2 * math.Sqrt(c.Tension*c.Mass))
}

// AngularFrequency 无阻尼角频率 ω = sqrt(k/m)
func (c SpringConfig) AngularFrequency() float64 {
	return math.Sqrt(c.Tension / c.Mass)
}

// Valid 检查参数是否可用于积分
func (c SpringConfig) Valid() bool {
	return c.Mass > 0 && c.Tension > 0 && c.Friction >= 0
}

const (
	// SpringSubstep 积分子步长（秒），与帧率无关
	SpringSubstep = 0.001
	// MaxSpringFrameTime 单帧最大积分时长，窗口挂起后恢复时不会一次性积分数秒
	MaxSpringFrameTime = 0.25
)

// Spring 一维弹簧状态
type Spring struct {
	Value    float64
	Velocity float64
}

// Step 以固定 1ms 子步长的半隐式欧拉法将弹簧向目标推进 dt 秒
func (s *Spring) Step(dt, target float64, cfg SpringConfig) {
	if !(dt > 0) || !cfg.Valid() {
		return
	}
	if dt > MaxSpringFrameTime {
		dt = MaxSpringFrameTime
	}
	steps := int(math.Ceil(dt / SpringSubstep))
	h := dt / float64(steps)
	for i := 0; i < steps; i++ {
		accel := (-cfg.Tension*(s.Value-target) - cfg.Friction*s.Velocity) / cfg.Mass
		s.Velocity += accel * h
		s.Value += s.Velocity * h
	}
}

// AtRest 位移与速度都低于精度时视为静止
func (s Spring) AtRest(target, precision float64) bool {
	return math.Abs(s.Value-target) <= precision && math.Abs(s.Velocity) <= precision
}

// Spring3 三个独立分量的弹簧
type Spring3 struct {
	X, Y, Z Spring
}

// NewSpring3 以给定初值创建静止的弹簧
func NewSpring3(initial Vec3) Spring3 {
	return Spring3{
		X: Spring{Value: initial.X},
		Y: Spring{Value: initial.Y},
		Z: Spring{Value: initial.Z},
	}
}

// Step 推进所有分量
func (s *Spring3) Step(dt float64, target Vec3, cfg SpringConfig) {
	s.X.Step(dt, target.X, cfg)
	s.Y.Step(dt, target.Y, cfg)
	s.Z.Step(dt, target.Z, cfg)
}

// Value 当前值
func (s Spring3) Value() Vec3 {
	return Vec3{X: s.X.Value, Y: s.Y.Value, Z: s.Z.Value}
}

// Velocity 当前速度
func (s Spring3) Velocity() Vec3 {
	return Vec3{X: s.X.Velocity, Y: s.Y.Velocity, Z: s.Z.Velocity}
}

// AtRest 三个分量都静止
func (s Spring3) AtRest(target Vec3, precision float64) bool {
	return s.X.AtRest(target.X, precision) &&
		s.Y.AtRest(target.Y, precision) &&
		s.Z.AtRest(target.Z, precision)
}

// SnapTo 直接置为目标值并清零速度
func (s *Spring3) SnapTo(target Vec3) {
	*s = NewSpring3(target)
}
