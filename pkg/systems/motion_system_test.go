package systems

import (
	"math"
	"testing"

	"github.com/gonewx/legends/pkg/components"
	"github.com/gonewx/legends/pkg/config"
	"github.com/gonewx/legends/pkg/ecs"
)

func TestMotionSystem_Permission(t *testing.T) {
	em := ecs.NewEntityManager()
	id := newTestCard(em, false)
	orient, _ := ecs.GetComponent[*components.OrientationComponent](em, id)

	source := &PushMotionSource{}
	source.Push(10, 20, 30)

	allowed := false
	sys := NewMotionSystem(em, source, func() bool { return allowed })

	sys.Update(1.0 / 60)
	if orient.Tilt != (components.TiltState{}) {
		t.Errorf("tilt without permission = %+v, want zero", orient.Tilt)
	}

	allowed = true
	sys.Update(1.0 / 60)
	want := components.TiltState{Alpha: 10, Beta: 20, Gamma: 30}
	if orient.Tilt != want {
		t.Errorf("tilt = %+v, want %+v", orient.Tilt, want)
	}

	// 撤销授权后倾斜回到 0
	allowed = false
	sys.Update(1.0 / 60)
	if orient.Tilt != (components.TiltState{}) {
		t.Errorf("tilt after revoke = %+v, want zero", orient.Tilt)
	}
}

func TestMotionSystem_Unsupported(t *testing.T) {
	em := ecs.NewEntityManager()
	id := newTestCard(em, false)
	orient, _ := ecs.GetComponent[*components.OrientationComponent](em, id)
	orient.Tilt = components.TiltState{Alpha: 5}

	NewMotionSystem(em, nil, nil).Update(1.0 / 60)
	if orient.Tilt != (components.TiltState{}) {
		t.Errorf("tilt on unsupported device = %+v, want zero", orient.Tilt)
	}

	// 尚未收到任何读数的推送源同样视为不支持
	NewMotionSystem(em, &PushMotionSource{}, nil).Update(1.0 / 60)
	if orient.Tilt != (components.TiltState{}) {
		t.Errorf("tilt before first reading = %+v, want zero", orient.Tilt)
	}
}

func TestPushMotionSource_NonFinite(t *testing.T) {
	s := &PushMotionSource{}
	s.Push(math.NaN(), math.Inf(1), 4)

	a, b, g, ok := s.RotationRate()
	if !ok {
		t.Fatal("expected a reading after Push")
	}
	if a != 0 || b != 0 || g != 4 {
		t.Errorf("RotationRate = (%v, %v, %v), want (0, 0, 4)", a, b, g)
	}
}

func TestStatsLines(t *testing.T) {
	card := &components.CardComponent{Index: 42}
	if got := StatsLines(card); len(got) != 1 || got[0] != "Mint: #42" {
		t.Errorf("StatsLines without manifest = %v", got)
	}

	card.Manifest = &config.LegendManifest{
		Back:   "Gold",
		Border: "Holo",
		Ink:    "Crimson",
		Views:  config.ManifestViews{Animated: "https://example.com/42.mp4"},
		NRI:    config.ManifestNRI{Back: 0.129, Border: 0.5, Ink: 0.999, Avg: 0.542},
	}
	want := []string{
		"Mint: #42",
		"Back: Gold (NRI 12%)",
		"Border: Holo (NRI 50%)",
		"Ink: Crimson (NRI 99%)",
		"Average NRI: 54%",
		"Animated View: https://example.com/42.mp4",
	}
	got := StatsLines(card)
	if len(got) != len(want) {
		t.Fatalf("StatsLines = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
