package systems

import (
	"image"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/legends/pkg/components"
	"github.com/gonewx/legends/pkg/config"
	"github.com/gonewx/legends/pkg/ecs"
	"github.com/gonewx/legends/pkg/geometry"
	"github.com/gonewx/legends/pkg/utils"
)

func testProjection() Projection {
	return Projection{Camera: testViewCamera(), Width: 800, Height: 600}
}

func TestAssembleCardFaces_Culling(t *testing.T) {
	em := ecs.NewEntityManager()
	id := newTestCard(em, true)
	card, _ := ecs.GetComponent[*components.CardComponent](em, id)
	rig := config.DefaultLightRig()
	size := image.Pt(2681, 4191)

	tests := []struct {
		name      string
		rotY      float64
		wantFront bool
		wantBack  bool
	}{
		{"front faces camera", 0, true, false},
		{"back faces camera", math.Pi, false, true},
		{"slightly turned front", 0.2, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := utils.Transform{Rotation: utils.V3(0, tt.rotY, 0)}
			batches := AssembleCardFaces(card, tr, testProjection(), size, rig, PhongMaterial{Shininess: 200})

			for i, b := range batches {
				if b.Role != geometry.FaceRoles[i] {
					t.Errorf("batch %d role = %s, want %s", i, b.Role, geometry.FaceRoles[i])
				}
			}
			front := batches[geometry.FaceFront].Triangles()
			back := batches[geometry.FaceBack].Triangles()
			if (front > 0) != tt.wantFront {
				t.Errorf("front triangles = %d, want visible=%v", front, tt.wantFront)
			}
			if (back > 0) != tt.wantBack {
				t.Errorf("back triangles = %d, want visible=%v", back, tt.wantBack)
			}

			// 凸体剔除后至多一半侧边可见
			edgeTotal := card.Mesh.Group(geometry.FaceEdge).Count / 3
			if edge := batches[geometry.FaceEdge].Triangles(); edge > edgeTotal/2+2 {
				t.Errorf("edge triangles = %d of %d, culling looks wrong", edge, edgeTotal)
			}
		})
	}
}

func TestAssembleCardFaces_CompositeUV(t *testing.T) {
	em := ecs.NewEntityManager()
	id := newTestCard(em, true)
	card, _ := ecs.GetComponent[*components.CardComponent](em, id)
	size := image.Pt(2681, 4191)

	batches := AssembleCardFaces(card, utils.Transform{}, testProjection(), size, config.DefaultLightRig(), PhongMaterial{})
	front := batches[geometry.FaceFront]
	if front.Kind != components.MaterialComposite {
		t.Fatalf("front material = %v, want composite", front.Kind)
	}

	var minY, maxY float32 = math.MaxFloat32, -math.MaxFloat32
	for _, v := range front.Vertices {
		if v.SrcX < -0.01 || v.SrcX > 2681.01 || v.SrcY < -0.01 || v.SrcY > 4191.01 {
			t.Fatalf("composite src (%v, %v) outside target", v.SrcX, v.SrcY)
		}
		if v.ColorR <= 0 || v.ColorR > 1 {
			t.Fatalf("front lighting %v out of (0,1]", v.ColorR)
		}
		minY, maxY = min(minY, v.DstY), max(maxY, v.DstY)
	}
	// 纹理 v 轴向上：屏幕最上方的顶点采样纹理最上方
	for _, v := range front.Vertices {
		if v.DstY == minY && v.SrcY > 4191/2 {
			t.Errorf("top of card samples SrcY=%v, expected upper half of the composite", v.SrcY)
		}
	}
}

func TestAssembleDecal_Visibility(t *testing.T) {
	proj := testProjection()
	border := components.InkDecal{Z: 0.0265}
	back := components.InkDecal{Z: -0.026, BackSide: true}
	mask := image.Pt(64, 96)

	frontOn := utils.Transform{}
	backOn := utils.Transform{Rotation: utils.V3(0, math.Pi, 0)}

	if _, ok := AssembleDecal(border, 2.74, 4.75, frontOn, proj, mask); !ok {
		t.Error("border ink should be visible when the front faces the camera")
	}
	if _, ok := AssembleDecal(back, 2.74, 4.75, frontOn, proj, mask); ok {
		t.Error("back ink should be hidden when the front faces the camera")
	}
	if _, ok := AssembleDecal(border, 2.74, 4.75, backOn, proj, mask); ok {
		t.Error("border ink should be hidden when the back faces the camera")
	}
	m, ok := AssembleDecal(back, 2.74, 4.75, backOn, proj, mask)
	if !ok {
		t.Fatal("back ink should be visible when the back faces the camera")
	}
	if len(m.Vertices) != (decalCols+1)*(decalRows+1) || len(m.Indices) != decalCols*decalRows*6 {
		t.Errorf("decal mesh = %d vertices %d indices", len(m.Vertices), len(m.Indices))
	}
	last := m.Vertices[len(m.Vertices)-1]
	if last.SrcX != 64 || last.SrcY != 96 {
		t.Errorf("last vertex src = (%v, %v), want mask corner (64, 96)", last.SrcX, last.SrcY)
	}
}

func TestShadePhong(t *testing.T) {
	rig := config.DefaultLightRig()
	m := PhongMaterial{
		Base:              config.LinearColor{R: 1},
		Specular:          config.LinearColor{G: 1},
		Emissive:          config.LinearColor{B: 1},
		EmissiveIntensity: 0.125,
		Shininess:         200,
	}
	facing := ShadePhong(utils.V3(0, 0, 1), m, rig)
	away := ShadePhong(utils.V3(0, 0, -1), m, rig)

	if facing.R <= away.R {
		t.Errorf("diffuse facing lights %v should exceed facing away %v", facing.R, away.R)
	}
	if away.B != 0.125 || facing.B != 0.125 {
		t.Errorf("emissive = %v/%v, want 0.125", facing.B, away.B)
	}
	if away.G != 0 {
		t.Errorf("no specular expected facing away, got %v", away.G)
	}
}

func TestCardRenderSystem_DrawDoesNotPanic(t *testing.T) {
	cfg := config.DefaultCardConfig()
	em := ecs.NewEntityManager()
	id := newTestCard(em, true)
	ecs.AddComponent(em, id, &components.CompositeComponent{Target: ebiten.NewImage(32, 48)})
	ecs.AddComponent(em, id, &components.InkComponent{
		Border:            components.InkDecal{Mask: ebiten.NewImage(16, 24), Z: 0.0265, NormalScale: 0.03},
		Back:              components.InkDecal{Mask: ebiten.NewImage(16, 24), Z: -0.026, NormalScale: 0.05, BackSide: true},
		PlaneWidth:        2.74,
		PlaneHeight:       4.75,
		EmissiveIntensity: 0.125,
		Shininess:         200,
	})

	// 降级模式走平面光照，不需要编译着色器
	sys := NewCardRenderSystem(em, cfg, config.DefaultLightRig(), func() bool { return true })
	screen := ebiten.NewImage(320, 240)
	sys.Draw(screen)

	if sys.Camera().Position.Z != cfg.View.CameraZ {
		t.Errorf("camera z = %v, want %v", sys.Camera().Position.Z, cfg.View.CameraZ)
	}
}

func TestInkUniforms(t *testing.T) {
	rig := config.DefaultLightRig()
	u := inkUniforms(utils.Identity3(), -1, 0.05, PhongMaterial{Shininess: 200}, rig)

	if got := u["LightDir"].([]float32); len(got) != maxShaderLights*3 {
		t.Errorf("LightDir len = %d, want %d", len(got), maxShaderLights*3)
	}
	intensities := u["LightIntensity"].([]float32)
	if intensities[0] != 0.5 || intensities[len(rig.Lights)] != 0 {
		t.Errorf("intensities = %v", intensities)
	}
	rot := u["Rotation"].([]float32)
	if rot[0] != 1 || rot[4] != 1 || rot[8] != 1 || rot[1] != 0 {
		t.Errorf("identity rotation uniform = %v", rot)
	}
	if u["FaceSign"].(float32) != -1 {
		t.Errorf("FaceSign = %v", u["FaceSign"])
	}

	// 绕 Z 轴 90°：按列主序展开
	rz := inkUniforms(utils.RotationXYZ(utils.V3(0, 0, math.Pi/2)), 1, 0.05, PhongMaterial{Shininess: 200}, rig)
	rot = rz["Rotation"].([]float32)
	if math.Abs(float64(rot[1])-1) > 1e-6 || math.Abs(float64(rot[3])+1) > 1e-6 || math.Abs(float64(rot[8])-1) > 1e-6 {
		t.Errorf("Z rotation uniform = %v, want column-major [0 1 0 -1 0 0 0 0 1]", rot)
	}
}
