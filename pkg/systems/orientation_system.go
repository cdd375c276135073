package systems

import (
	"math"

	"github.com/gonewx/legends/pkg/components"
	"github.com/gonewx/legends/pkg/config"
	"github.com/gonewx/legends/pkg/ecs"
	"github.com/gonewx/legends/pkg/utils"
)

// TiltFactors 把设备旋转速率截断到 [-clamp, clamp]、归一化后按轴缩放成弧度
func TiltFactors(tilt components.TiltState, clamp float64, k config.TiltCoefficients) (x, y, z float64) {
	norm := func(v float64) float64 {
		return utils.Clamp(v, -clamp, clamp) / clamp * math.Pi
	}
	return norm(tilt.Alpha) * k.Alpha, norm(tilt.Beta) * k.Beta, norm(tilt.Gamma) * k.Gamma
}

// ComputeTarget 由翻面状态、指针与设备倾斜计算目标旋转和位置
//
// 指针坐标先截断到 [-1,1]，NaN 视为 0。
func ComputeTarget(o *components.OrientationComponent, cfg *config.OrientationConfig) (rotation, position utils.Vec3) {
	px := utils.Clamp(o.Pointer.X, -1, 1)
	py := utils.Clamp(o.Pointer.Y, -1, 1)
	tx, ty, tz := TiltFactors(o.Tilt, cfg.TiltClamp, cfg.TiltCoefficients)

	base := math.Pi
	if o.Flip {
		base = 0
	}

	rotation = utils.Vec3{
		X: utils.DegToRad(py*cfg.PointerDegrees) + tx,
		Y: base - utils.DegToRad(px*cfg.PointerDegrees) + ty,
		Z: tz,
	}
	if o.Pointer.Hovering {
		position.Z = cfg.HoverLift
	}
	return rotation, position
}

// OrientationSystem 每帧重新计算目标并推进弹簧，结果写入 TransformComponent
type OrientationSystem struct {
	entityManager *ecs.EntityManager
	config        *config.OrientationConfig
}

// NewOrientationSystem 创建朝向系统
func NewOrientationSystem(em *ecs.EntityManager, cfg *config.OrientationConfig) *OrientationSystem {
	return &OrientationSystem{entityManager: em, config: cfg}
}

// SpringConfigFor 返回弹簧模式对应的参数
func (s *OrientationSystem) SpringConfigFor(mode components.SpringMode) utils.SpringConfig {
	if mode == components.SpringTracking {
		return s.config.Tracking
	}
	return s.config.Settle
}

// Update 推进所有卡牌的朝向弹簧
func (s *OrientationSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith3[
		*components.OrientationComponent,
		*components.SpringComponent,
		*components.TransformComponent,
	](s.entityManager)

	for _, id := range entities {
		orient, _ := ecs.GetComponent[*components.OrientationComponent](s.entityManager, id)
		spring, _ := ecs.GetComponent[*components.SpringComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)

		// 指针移动时切到跟随模式，离散事件把模式设回 settle
		if orient.Moved {
			orient.Mode = components.SpringTracking
			orient.Moved = false
		}

		orient.TargetRotation, orient.TargetPosition = ComputeTarget(orient, s.config)
		// 已静止的弹簧吸附到目标，不再积分
		if p := s.config.RestPrecision; spring.Rotation.AtRest(orient.TargetRotation, p) &&
			spring.Position.AtRest(orient.TargetPosition, p) {
			spring.Rotation.SnapTo(orient.TargetRotation)
			spring.Position.SnapTo(orient.TargetPosition)
		} else {
			cfg := s.SpringConfigFor(orient.Mode)
			spring.Rotation.Step(deltaTime, orient.TargetRotation, cfg)
			spring.Position.Step(deltaTime, orient.TargetPosition, cfg)
		}

		transform.Rotation = spring.Rotation.Value()
		transform.Position = spring.Position.Value()
	}
}

// ToggleFlip 翻面：只改变目标，不改变当前旋转
func ToggleFlip(o *components.OrientationComponent) {
	o.Flip = !o.Flip
	o.Mode = components.SpringSettle
}

// PointerEnter 指针进入卡牌
func PointerEnter(o *components.OrientationComponent) {
	o.Pointer.Hovering = true
	o.Mode = components.SpringSettle
}

// PointerLeave 指针离开卡牌，指针位置归零
func PointerLeave(o *components.OrientationComponent) {
	o.Pointer = components.PointerState{}
	o.Mode = components.SpringSettle
	o.Moved = false
}

// PointerMove 更新指针位置（已归一化）
func PointerMove(o *components.OrientationComponent, x, y float64) {
	o.Pointer.X = utils.Clamp(x, -1, 1)
	o.Pointer.Y = utils.Clamp(y, -1, 1)
	o.Moved = true
}
