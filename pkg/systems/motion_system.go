package systems

import (
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/legends/pkg/components"
	"github.com/gonewx/legends/pkg/ecs"
)

// MotionSource 设备旋转速率来源（度/秒）
type MotionSource interface {
	// RotationRate 返回最近一次读数；设备不支持时 ok 为 false
	RotationRate() (alpha, beta, gamma float64, ok bool)
}

// NoMotion 不支持设备运动的平台
type NoMotion struct{}

// RotationRate 始终返回不支持
func (NoMotion) RotationRate() (float64, float64, float64, bool) {
	return 0, 0, 0, false
}

// PushMotionSource 由平台代码（移动端传感器回调）推送读数
//
// Push 可能在其他 goroutine 中调用，读写加锁。
type PushMotionSource struct {
	mu                 sync.Mutex
	alpha, beta, gamma float64
	received           bool
}

// Push 记录一次读数，NaN 按 0 处理
func (s *PushMotionSource) Push(alpha, beta, gamma float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alpha, s.beta, s.gamma = zeroNaN(alpha), zeroNaN(beta), zeroNaN(gamma)
	s.received = true
}

// RotationRate 返回最近一次推送的读数
func (s *PushMotionSource) RotationRate() (float64, float64, float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alpha, s.beta, s.gamma, s.received
}

func zeroNaN(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// GamepadMotionSource 用手柄摇杆模拟设备旋转
//
// 左摇杆 X/Y 映射到 beta/alpha，右摇杆 X 映射到 gamma，满偏对应 Scale 度/秒。
type GamepadMotionSource struct {
	Scale float64
	ids   []ebiten.GamepadID
}

// RotationRate 读取第一个标准布局手柄
func (g *GamepadMotionSource) RotationRate() (float64, float64, float64, bool) {
	g.ids = ebiten.AppendGamepadIDs(g.ids[:0])
	for _, id := range g.ids {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		return ly * g.Scale, lx * g.Scale, rx * g.Scale, true
	}
	return 0, 0, 0, false
}

// MotionSystem 把设备运动读数写入卡牌的倾斜状态
type MotionSystem struct {
	entityManager *ecs.EntityManager
	source        MotionSource
	permitted     func() bool
}

// NewMotionSystem 创建设备运动系统
//
// permitted 为 nil 时视为已授权；未授权或设备不支持时倾斜保持为 0。
func NewMotionSystem(em *ecs.EntityManager, source MotionSource, permitted func() bool) *MotionSystem {
	if source == nil {
		source = NoMotion{}
	}
	if permitted == nil {
		permitted = func() bool { return true }
	}
	return &MotionSystem{entityManager: em, source: source, permitted: permitted}
}

// Update 读取一次运动数据并写入所有卡牌
func (s *MotionSystem) Update(deltaTime float64) {
	var tilt components.TiltState
	if s.permitted() {
		if a, b, g, ok := s.source.RotationRate(); ok {
			tilt = components.TiltState{Alpha: a, Beta: b, Gamma: g}
		}
	}

	for _, id := range ecs.GetEntitiesWith1[*components.OrientationComponent](s.entityManager) {
		orient, _ := ecs.GetComponent[*components.OrientationComponent](s.entityManager, id)
		orient.Tilt = tilt
	}
}
