package systems

import (
	"image"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/legends/pkg/components"
	"github.com/gonewx/legends/pkg/config"
	"github.com/gonewx/legends/pkg/ecs"
	"github.com/gonewx/legends/pkg/geometry"
	"github.com/gonewx/legends/pkg/utils"
)

// 贴花平面的网格细分，减轻仿射纹理映射在透视下的扭曲
const (
	decalCols = 8
	decalRows = 12
)

// FaceBatch 一个面组在本帧的可见三角形
type FaceBatch struct {
	Role     geometry.FaceRole
	Kind     components.MaterialKind
	Vertices []ebiten.Vertex
	Indices  []uint16
}

// Triangles 可见三角形数量
func (b FaceBatch) Triangles() int {
	return len(b.Indices) / 3
}

// Projection 观察相机与输出尺寸
type Projection struct {
	Camera        utils.PerspectiveCamera
	Width, Height float64
}

// facesCamera 世界空间法线 n 在点 p 处是否朝向相机
func (p Projection) facesCamera(n, at utils.Vec3) bool {
	return n.Dot(p.Camera.Position.Sub(at)) > 0
}

// AssembleCardFaces 把共享网格按卡牌变换投影到屏幕，剔除背向三角形并按材质着色
//
// 结果按面组的固定顺序（正面、侧边、背面）排列。卡牌是凸体，剔除后
// 可见三角形互不遮挡，无需深度排序。
func AssembleCardFaces(card *components.CardComponent, transform utils.Transform, proj Projection,
	compositeSize image.Point, rig *config.LightRig, phong PhongMaterial) [3]FaceBatch {
	mesh := card.Mesh
	rot := transform.Matrix()
	cw, ch := float64(compositeSize.X), float64(compositeSize.Y)

	var batches [3]FaceBatch
	for slot, group := range mesh.Groups() {
		mat := card.Materials[slot]
		batch := FaceBatch{Role: group.Role, Kind: mat.Kind}

		for i := group.Start; i+2 < group.End(); i += 3 {
			tri := mesh.Vertices[i : i+3]
			n := rot.MulVec(tri[0].Normal)

			var world [3]utils.Vec3
			for k := range tri {
				world[k] = transform.Apply(tri[k].Position)
			}
			center := world[0].Add(world[1]).Add(world[2]).Scale(1.0 / 3)
			if !proj.facesCamera(n, center) {
				continue
			}

			var cr, cg, cb float32
			switch mat.Kind {
			case components.MaterialComposite:
				k := float32(utils.Clamp(rig.Diffuse(n), 0, 1))
				cr, cg, cb = k, k, k
			case components.MaterialLitTint:
				m := phong
				m.Base = mat.Tint
				cr, cg, cb = ShadePhong(n, m, rig).Components()
			default:
				cr, cg, cb = ShadeLambert(n, mat.Tint, rig).Components()
			}

			var verts [3]ebiten.Vertex
			ok := true
			for k := range tri {
				sx, sy, _, visible := proj.Camera.Project(world[k], proj.Width, proj.Height)
				if !visible {
					ok = false
					break
				}
				v := ebiten.Vertex{
					DstX: float32(sx), DstY: float32(sy),
					SrcX: 1, SrcY: 1,
					ColorR: cr, ColorG: cg, ColorB: cb, ColorA: 1,
				}
				if mat.Kind == components.MaterialComposite {
					uv := tri[k].UV
					v.SrcX = float32(uv.U * cw)
					v.SrcY = float32((1 - uv.V) * ch)
				}
				verts[k] = v
			}
			if !ok {
				continue
			}

			base := uint16(len(batch.Vertices))
			batch.Vertices = append(batch.Vertices, verts[:]...)
			batch.Indices = append(batch.Indices, base, base+1, base+2)
		}
		batches[slot] = batch
	}
	return batches
}

// DecalMesh 一块贴花平面本帧的屏幕网格
type DecalMesh struct {
	Vertices []ebiten.Vertex
	Indices  []uint16
	// Normal 贴花朝外的世界空间法线
	Normal utils.Vec3
}

// AssembleDecal 细分贴花平面并投影；贴花所在一侧背向相机时返回 false
func AssembleDecal(decal components.InkDecal, planeW, planeH float64, transform utils.Transform,
	proj Projection, maskSize image.Point) (DecalMesh, bool) {
	local := utils.Vec3{Z: 1}
	if decal.BackSide {
		local.Z = -1
	}
	n := transform.Matrix().MulVec(local)
	if !proj.facesCamera(n, transform.Apply(utils.Vec3{Z: decal.Z})) {
		return DecalMesh{}, false
	}

	mw, mh := float64(maskSize.X), float64(maskSize.Y)
	out := DecalMesh{
		Vertices: make([]ebiten.Vertex, 0, (decalCols+1)*(decalRows+1)),
		Indices:  make([]uint16, 0, decalCols*decalRows*6),
		Normal:   n,
	}
	for r := 0; r <= decalRows; r++ {
		fv := float64(r) / decalRows
		for c := 0; c <= decalCols; c++ {
			fu := float64(c) / decalCols
			p := transform.Apply(utils.V3(-planeW/2+fu*planeW, planeH/2-fv*planeH, decal.Z))
			sx, sy, _, ok := proj.Camera.Project(p, proj.Width, proj.Height)
			if !ok {
				return DecalMesh{}, false
			}
			out.Vertices = append(out.Vertices, ebiten.Vertex{
				DstX: float32(sx), DstY: float32(sy),
				SrcX: float32(fu * mw), SrcY: float32(fv * mh),
				ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
			})
		}
	}
	for r := 0; r < decalRows; r++ {
		for c := 0; c < decalCols; c++ {
			i := uint16(r*(decalCols+1) + c)
			j := i + decalCols + 1
			out.Indices = append(out.Indices, i, i+1, j, i+1, j+1, j)
		}
	}
	return out, true
}

// CardRenderSystem 组装卡牌的三个面材质与油墨贴花并绘制到屏幕
type CardRenderSystem struct {
	entityManager *ecs.EntityManager
	camera        utils.PerspectiveCamera
	rig           *config.LightRig
	regressed     func() bool

	shader      *InkShader
	shaderTried bool
	white       *ebiten.Image
	debugOnce   bool
}

// NewCardRenderSystem 创建卡牌渲染系统
//
// regressed 返回宿主是否处于降级状态：降级时关闭抗锯齿，油墨改用平面光照。
func NewCardRenderSystem(em *ecs.EntityManager, cfg *config.CardConfig, rig *config.LightRig, regressed func() bool) *CardRenderSystem {
	if regressed == nil {
		regressed = func() bool { return false }
	}
	return &CardRenderSystem{
		entityManager: em,
		camera: utils.PerspectiveCamera{
			FOV:      cfg.View.FOV,
			Position: utils.V3(0, 0, cfg.View.CameraZ),
			Near:     cfg.View.Near,
		},
		rig:       rig,
		regressed: regressed,
	}
}

// Camera 观察相机，输入系统用同一相机做射线检测
func (s *CardRenderSystem) Camera() utils.PerspectiveCamera {
	return s.camera
}

// whiteImage 纯色三角形使用的 1x1 白色源图
func (s *CardRenderSystem) whiteImage() *ebiten.Image {
	if s.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		s.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return s.white
}

// Draw 绘制所有卡牌
func (s *CardRenderSystem) Draw(screen *ebiten.Image) {
	proj := Projection{
		Camera: s.camera,
		Width:  float64(screen.Bounds().Dx()),
		Height: float64(screen.Bounds().Dy()),
	}
	regressed := s.regressed()

	entities := ecs.GetEntitiesWith3[
		*components.CardComponent,
		*components.TransformComponent,
		*components.CompositeComponent,
	](s.entityManager)

	for _, id := range entities {
		card, _ := ecs.GetComponent[*components.CardComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		comp, _ := ecs.GetComponent[*components.CompositeComponent](s.entityManager, id)
		ink, _ := ecs.GetComponent[*components.InkComponent](s.entityManager, id)

		phong := PhongMaterial{
			Base:     card.Colors.Base,
			Specular: card.Colors.Specular,
			Emissive: card.Colors.Emissive,
		}
		if ink != nil {
			phong.EmissiveIntensity = ink.EmissiveIntensity
			phong.Shininess = ink.Shininess
		}

		s.drawCard(screen, card, transform.Transform, comp, proj, phong, regressed)
		if ink != nil {
			s.drawInk(screen, ink, transform.Transform, proj, phong, regressed)
		}
	}
}

func (s *CardRenderSystem) drawCard(screen *ebiten.Image, card *components.CardComponent, transform utils.Transform,
	comp *components.CompositeComponent, proj Projection, phong PhongMaterial, regressed bool) {
	var compositeSize image.Point
	if comp.Target != nil {
		compositeSize = comp.Target.Bounds().Size()
	}

	batches := AssembleCardFaces(card, transform, proj, compositeSize, s.rig, phong)
	op := &ebiten.DrawTrianglesOptions{AntiAlias: !regressed}
	for _, b := range batches {
		if len(b.Indices) == 0 {
			continue
		}
		src := s.whiteImage()
		if b.Kind == components.MaterialComposite {
			if comp.Target == nil {
				continue
			}
			src = comp.Target
		}
		screen.DrawTriangles(b.Vertices, b.Indices, src, op)
	}

	if !s.debugOnce {
		log.Printf("[CardRenderSystem] 可见三角形: 正面=%d 侧边=%d 背面=%d",
			batches[0].Triangles(), batches[1].Triangles(), batches[2].Triangles())
		s.debugOnce = true
	}
}

func (s *CardRenderSystem) drawInk(screen *ebiten.Image, ink *components.InkComponent, transform utils.Transform,
	proj Projection, phong PhongMaterial, regressed bool) {
	if !regressed && !s.shaderTried {
		s.shader = mustInkShader()
		s.shaderTried = true
	}

	for _, decal := range []components.InkDecal{ink.Back, ink.Border} {
		if decal.Mask == nil {
			continue
		}
		mesh, visible := AssembleDecal(decal, ink.PlaneWidth, ink.PlaneHeight, transform, proj, decal.Mask.Bounds().Size())
		if !visible {
			continue
		}

		useShader := !regressed && s.shader != nil && ink.NormalMap != nil &&
			ink.NormalMap.Bounds().Size() == decal.Mask.Bounds().Size()
		if useShader {
			faceSign := 1.0
			if decal.BackSide {
				faceSign = -1
			}
			op := &ebiten.DrawTrianglesShaderOptions{AntiAlias: true}
			op.Images[0] = decal.Mask
			op.Images[1] = ink.NormalMap
			op.Uniforms = inkUniforms(transform.Matrix(), faceSign, decal.NormalScale, phong, s.rig)
			screen.DrawTrianglesShader(mesh.Vertices, mesh.Indices, s.shader.shader, op)
			continue
		}

		// 平面光照：整块贴花使用同一颜色，遮罩 alpha 决定形状
		r, g, b := ShadePhong(mesh.Normal, phong, s.rig).Components()
		for i := range mesh.Vertices {
			mesh.Vertices[i].ColorR, mesh.Vertices[i].ColorG, mesh.Vertices[i].ColorB = r, g, b
		}
		screen.DrawTriangles(mesh.Vertices, mesh.Indices, decal.Mask, &ebiten.DrawTrianglesOptions{AntiAlias: !regressed})
	}
}
