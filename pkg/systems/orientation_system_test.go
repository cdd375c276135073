package systems

import (
	"math"
	"testing"

	"github.com/gonewx/legends/pkg/components"
	"github.com/gonewx/legends/pkg/config"
	"github.com/gonewx/legends/pkg/ecs"
	"github.com/gonewx/legends/pkg/geometry"
	"github.com/gonewx/legends/pkg/utils"
)

func TestComputeTarget(t *testing.T) {
	cfg := config.DefaultCardConfig().Orientation

	tests := []struct {
		name    string
		orient  components.OrientationComponent
		wantRot utils.Vec3
		wantPos utils.Vec3
	}{
		{
			name:    "no interaction shows back",
			orient:  components.OrientationComponent{},
			wantRot: utils.V3(0, math.Pi, 0),
		},
		{
			name:    "flipped shows front",
			orient:  components.OrientationComponent{Flip: true},
			wantRot: utils.V3(0, 0, 0),
		},
		{
			name: "pointer at right top edge while hovering",
			orient: components.OrientationComponent{
				Flip:    true,
				Pointer: components.PointerState{X: 1, Y: 1, Hovering: true},
			},
			wantRot: utils.V3(utils.DegToRad(5), -utils.DegToRad(5), 0),
			wantPos: utils.V3(0, 0, 0.1),
		},
		{
			name: "pointer outside range is clamped",
			orient: components.OrientationComponent{
				Flip:    true,
				Pointer: components.PointerState{X: -7, Y: math.NaN()},
			},
			wantRot: utils.V3(0, utils.DegToRad(5), 0),
		},
		{
			name: "tilt is clamped and scaled per axis",
			orient: components.OrientationComponent{
				Flip: true,
				Tilt: components.TiltState{Alpha: 100, Beta: -5, Gamma: 10},
			},
			wantRot: utils.V3(math.Pi*0.025, -0.5*math.Pi*0.1, math.Pi*0.01),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rot, pos := ComputeTarget(&tt.orient, &cfg)
			if rot.Distance(tt.wantRot) > 1e-12 {
				t.Errorf("rotation = %+v, want %+v", rot, tt.wantRot)
			}
			if pos.Distance(tt.wantPos) > 1e-12 {
				t.Errorf("position = %+v, want %+v", pos, tt.wantPos)
			}
		})
	}
}

func TestTiltFactors_UnsupportedIsZero(t *testing.T) {
	cfg := config.DefaultCardConfig().Orientation
	x, y, z := TiltFactors(components.TiltState{}, cfg.TiltClamp, cfg.TiltCoefficients)
	if x != 0 || y != 0 || z != 0 {
		t.Errorf("TiltFactors(zero) = %v, %v, %v", x, y, z)
	}
}

// 翻面只改变目标，当前旋转在一帧内只移动一个积分步的量
func TestOrientationSystem_FlipDoesNotSnap(t *testing.T) {
	cfg := config.DefaultCardConfig()
	em := ecs.NewEntityManager()
	id := newTestCard(em, false)
	sys := NewOrientationSystem(em, &cfg.Orientation)

	// 静止在背面
	for i := 0; i < 10; i++ {
		sys.Update(1.0 / 60)
	}
	transform, _ := ecs.GetComponent[*components.TransformComponent](em, id)
	if math.Abs(transform.Rotation.Y-math.Pi) > 1e-9 {
		t.Fatalf("rest rotation Y = %v, want π", transform.Rotation.Y)
	}

	orient, _ := ecs.GetComponent[*components.OrientationComponent](em, id)
	ToggleFlip(orient)

	// 切换后、下一帧之前旋转不变
	if transform.Rotation.Y != math.Pi {
		t.Fatalf("toggle changed rotation immediately: %v", transform.Rotation.Y)
	}

	sys.Update(1.0 / 60)
	if orient.TargetRotation.Y != 0 {
		t.Errorf("target Y = %v, want 0", orient.TargetRotation.Y)
	}
	moved := math.Pi - transform.Rotation.Y
	if moved <= 0 {
		t.Errorf("rotation should start moving toward the target, moved %v", moved)
	}
	// 一帧 (1/60 s) 内的位移远小于 180°
	if moved > 0.2 {
		t.Errorf("rotation moved %v rad in one frame, expected a gradual turn", moved)
	}

	// 足够多帧后到达目标
	for i := 0; i < 600; i++ {
		sys.Update(1.0 / 60)
	}
	if math.Abs(transform.Rotation.Y) > 1e-3 {
		t.Errorf("rotation Y after settling = %v, want ~0", transform.Rotation.Y)
	}
}

func TestOrientationSystem_ModeSelection(t *testing.T) {
	cfg := config.DefaultCardConfig()
	em := ecs.NewEntityManager()
	id := newTestCard(em, true)
	sys := NewOrientationSystem(em, &cfg.Orientation)
	orient, _ := ecs.GetComponent[*components.OrientationComponent](em, id)

	PointerEnter(orient)
	sys.Update(1.0 / 60)
	if orient.Mode != components.SpringSettle {
		t.Errorf("after enter mode = %s, want settle", orient.Mode)
	}

	PointerMove(orient, 0.5, -0.5)
	sys.Update(1.0 / 60)
	if orient.Mode != components.SpringTracking {
		t.Errorf("after move mode = %s, want tracking", orient.Mode)
	}
	if orient.Moved {
		t.Error("Moved flag should be consumed by the orientation system")
	}

	// 没有新的移动时保持跟随模式
	sys.Update(1.0 / 60)
	if orient.Mode != components.SpringTracking {
		t.Errorf("mode without new events = %s, want tracking", orient.Mode)
	}

	PointerLeave(orient)
	sys.Update(1.0 / 60)
	if orient.Mode != components.SpringSettle {
		t.Errorf("after leave mode = %s, want settle", orient.Mode)
	}
	if orient.Pointer != (components.PointerState{}) {
		t.Errorf("leave should reset pointer, got %+v", orient.Pointer)
	}

	if got := sys.SpringConfigFor(components.SpringTracking); got != cfg.Orientation.Tracking {
		t.Errorf("tracking config = %+v", got)
	}
}

// 两张卡牌各自维护朝向状态，但共享同一个网格
func TestOrientationSystem_IndependentCardsShareMesh(t *testing.T) {
	cfg := config.DefaultCardConfig()
	em := ecs.NewEntityManager()
	a := newTestCard(em, true)
	b := newTestCard(em, true)
	sys := NewOrientationSystem(em, &cfg.Orientation)

	oa, _ := ecs.GetComponent[*components.OrientationComponent](em, a)
	ob, _ := ecs.GetComponent[*components.OrientationComponent](em, b)
	PointerEnter(oa)
	PointerEnter(ob)

	for frame := 0; frame < 60; frame++ {
		PointerMove(oa, 0.8, 0.2)
		PointerMove(ob, -0.6, -0.9)
		sys.Update(1.0 / 60)
	}

	ta, _ := ecs.GetComponent[*components.TransformComponent](em, a)
	tb, _ := ecs.GetComponent[*components.TransformComponent](em, b)
	if ta.Rotation.Distance(tb.Rotation) < 1e-3 {
		t.Errorf("rotations should diverge: a=%+v b=%+v", ta.Rotation, tb.Rotation)
	}
	if ta.Position.Z <= 0 || tb.Position.Z <= 0 {
		t.Errorf("hovering cards should lift: a=%v b=%v", ta.Position.Z, tb.Position.Z)
	}

	ca, _ := ecs.GetComponent[*components.CardComponent](em, a)
	cb, _ := ecs.GetComponent[*components.CardComponent](em, b)
	if ca.Mesh != cb.Mesh || ca.Mesh != geometry.SharedCardMesh() {
		t.Error("cards should share the same mesh instance")
	}
}

func TestOrientationSystem_SnapsOnceAtRest(t *testing.T) {
	cfg := config.DefaultCardConfig()
	em := ecs.NewEntityManager()
	id := newTestCard(em, false)
	sys := NewOrientationSystem(em, &cfg.Orientation)

	orient, _ := ecs.GetComponent[*components.OrientationComponent](em, id)
	spring, _ := ecs.GetComponent[*components.SpringComponent](em, id)
	transform, _ := ecs.GetComponent[*components.TransformComponent](em, id)

	ToggleFlip(orient)
	sys.Update(1.0 / 60)
	if spring.Rotation.AtRest(orient.TargetRotation, cfg.Orientation.RestPrecision) {
		t.Fatal("spring should be moving right after a flip")
	}

	for i := 0; i < 900; i++ {
		sys.Update(1.0 / 60)
	}
	// 进入精度范围后精确落在目标上
	if transform.Rotation != orient.TargetRotation || transform.Position != orient.TargetPosition {
		t.Errorf("settled transform = %+v, want target rotation %+v position %+v",
			transform.Transform, orient.TargetRotation, orient.TargetPosition)
	}
	if spring.Rotation.Velocity() != (utils.Vec3{}) {
		t.Errorf("settled velocity = %+v, want zero", spring.Rotation.Velocity())
	}
}
