package systems

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/legends/pkg/components"
	"github.com/gonewx/legends/pkg/config"
	"github.com/gonewx/legends/pkg/ecs"
	"github.com/gonewx/legends/pkg/utils"
)

func TestViewAngleOffset(t *testing.T) {
	tests := []struct {
		name string
		rotY float64
		want float64
	}{
		{"face on", 0, 0},
		{"back on", math.Pi, 0},
		{"slight right turn", 0.1, 0.1 / math.Pi},
		{"slight left turn", -0.1, -0.1 / math.Pi},
		{"just past back", math.Pi + 0.1, 0.1 / math.Pi},
		{"just before back", math.Pi - 0.1, -0.1 / math.Pi},
		{"past quarter turn right", 2, (2 - math.Pi) / math.Pi},
		{"past quarter turn left", -2, (math.Pi - 2) / math.Pi},
		{"just past back turning left", -math.Pi - 0.1, -0.1 / math.Pi},
		{"just before back turning left", -math.Pi + 0.1, 0.1 / math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ViewAngleOffset(tt.rotY); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("ViewAngleOffset(%v) = %v, want %v", tt.rotY, got, tt.want)
			}
			// 左右转动对称
			if got, neg := ViewAngleOffset(tt.rotY), ViewAngleOffset(-tt.rotY); math.Abs(got+neg) > 1e-12 {
				t.Errorf("ViewAngleOffset(%v) = %v but ViewAngleOffset(%v) = %v", tt.rotY, got, -tt.rotY, neg)
			}
		})
	}
}

func TestCompositeCamera(t *testing.T) {
	cfg := config.DefaultCardConfig()

	cam := CompositeCamera(0, cfg.Shape, cfg.Composite)
	if cam.Position != utils.V3(0, 0, 20) {
		t.Errorf("face-on camera = %+v, want (0,0,20)", cam.Position)
	}
	if cam.Width != 2.75 || cam.Height != 4.75 {
		t.Errorf("frustum = %vx%v, want 2.75x4.75", cam.Width, cam.Height)
	}

	// 向右转时相机向左移动，摆幅为 ParallaxSwing/2
	cam = CompositeCamera(math.Pi/4, cfg.Shape, cfg.Composite)
	if want := -0.25 * 4 / 2; math.Abs(cam.Position.X-want) > 1e-12 {
		t.Errorf("camera x = %v, want %v", cam.Position.X, want)
	}
}

func TestLayerPlacements_Empty(t *testing.T) {
	cfg := config.DefaultCardConfig()
	cam := CompositeCamera(0, cfg.Shape, cfg.Composite)
	if p := LayerPlacements(nil, cam, cfg.Composite); p != nil {
		t.Errorf("empty stack placements = %v, want nil", p)
	}
}

func TestLayerPlacements_OrderAndDepth(t *testing.T) {
	cfg := config.DefaultCardConfig()
	cam := CompositeCamera(0, cfg.Shape, cfg.Composite)
	layers := []*ebiten.Image{ebiten.NewImage(4, 4), ebiten.NewImage(4, 4), ebiten.NewImage(4, 4), ebiten.NewImage(4, 4)}

	placements := LayerPlacements(layers, cam, cfg.Composite)
	if len(placements) != 4 {
		t.Fatalf("got %d placements, want 4", len(placements))
	}
	// 从远到近
	for i, p := range placements {
		wantIndex := 3 - i
		if p.Index != wantIndex {
			t.Errorf("placement %d index = %d, want %d", i, p.Index, wantIndex)
		}
		if want := -20.0 / 4 * float64(wantIndex); math.Abs(p.Z-want) > 1e-12 {
			t.Errorf("layer %d z = %v, want %v", p.Index, p.Z, want)
		}
	}
}

// 正对时图层平面居中，尺寸为原画像素乘以 ArtScale 再按视锥换算
func TestLayerPlacements_FaceOnMapping(t *testing.T) {
	cfg := config.DefaultCardConfig()
	cc := cfg.Composite
	cam := CompositeCamera(0, cfg.Shape, cc)
	layer := ebiten.NewImage(100, 200)

	p := LayerPlacements([]*ebiten.Image{layer}, cam, cc)[0]

	tw, th := float64(cc.TargetWidth), float64(cc.TargetHeight)
	pw, ph := tw*cc.ArtScale, th*cc.ArtScale

	// 纹理中心落在渲染目标中心
	cx, cy := p.GeoM.Apply(50, 100)
	if math.Abs(cx-tw/2) > 1e-6 || math.Abs(cy-th/2) > 1e-6 {
		t.Errorf("layer centre maps to (%v, %v), want (%v, %v)", cx, cy, tw/2, th/2)
	}

	// 纹理宽度映射为平面宽度占视锥宽度的比例
	x0, _ := p.GeoM.Apply(0, 0)
	x1, _ := p.GeoM.Apply(100, 0)
	if want := pw / cfg.Shape.Width * tw; math.Abs((x1-x0)-want) > 1e-6 {
		t.Errorf("mapped width = %v, want %v", x1-x0, want)
	}
	_, y0 := p.GeoM.Apply(0, 0)
	_, y1 := p.GeoM.Apply(0, 200)
	if want := ph / cfg.Shape.Height * th; math.Abs((y1-y0)-want) > 1e-6 {
		t.Errorf("mapped height = %v, want %v", y1-y0, want)
	}
}

// 相机偏离正面时，越远的图层平移越多
func TestLayerPlacements_ParallaxGrowsWithDepth(t *testing.T) {
	cfg := config.DefaultCardConfig()
	cam := CompositeCamera(0.3, cfg.Shape, cfg.Composite)
	layers := []*ebiten.Image{ebiten.NewImage(10, 10), ebiten.NewImage(10, 10), ebiten.NewImage(10, 10)}

	placements := LayerPlacements(layers, cam, cfg.Composite)
	shift := map[int]float64{}
	for _, p := range placements {
		x, _ := p.GeoM.Apply(5, 5)
		shift[p.Index] = math.Abs(x - float64(cfg.Composite.TargetWidth)/2)
	}
	if !(shift[0] < shift[1] && shift[1] < shift[2]) {
		t.Errorf("parallax shifts should grow with depth: %v", shift)
	}
}

func TestCompositeSystem_EmptyStackRenders(t *testing.T) {
	cfg := config.DefaultCardConfig()
	cfg.Composite.TargetWidth, cfg.Composite.TargetHeight = 64, 96

	em := ecs.NewEntityManager()
	id := newTestCard(em, false)
	ecs.AddComponent(em, id, &components.CompositeComponent{Target: ebiten.NewImage(64, 96)})

	sys := NewCompositeSystem(em, cfg)
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("rendering an empty stack panicked: %v", r)
		}
	}()
	sys.Update()

	comp, _ := ecs.GetComponent[*components.CompositeComponent](em, id)
	if comp.ViewAngle != math.Pi {
		t.Errorf("view angle = %v, want card rotation π", comp.ViewAngle)
	}
}

func TestCompositeSystem_RendersLayers(t *testing.T) {
	cfg := config.DefaultCardConfig()
	cfg.Composite.TargetWidth, cfg.Composite.TargetHeight = 64, 96

	em := ecs.NewEntityManager()
	id := newTestCard(em, true)
	ecs.AddComponent(em, id, &components.CompositeComponent{
		Target: ebiten.NewImage(64, 96),
		Layers: []*ebiten.Image{ebiten.NewImage(32, 48), nil, ebiten.NewImage(32, 48)},
	})

	sys := NewCompositeSystem(em, cfg)
	sys.Update()

	comp, _ := ecs.GetComponent[*components.CompositeComponent](em, id)
	if got := len(LayerPlacements(comp.Layers, comp.Camera, cfg.Composite)); got != 2 {
		t.Errorf("placements = %d, want 2 (nil layer skipped)", got)
	}
}
