package systems

import (
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/legends/pkg/components"
	"github.com/gonewx/legends/pkg/config"
	"github.com/gonewx/legends/pkg/ecs"
	"github.com/gonewx/legends/pkg/utils"
)

// LayerPlacement 一个图层平面在渲染目标上的仿射映射
type LayerPlacement struct {
	Index int
	Z     float64
	// GeoM 把图层纹理像素坐标映射到渲染目标像素坐标
	GeoM ebiten.GeoM
}

// ViewAngleOffset 把卡牌 Y 旋转折算为 [-1,1] 内相对正面的偏转比例
//
// 旋转先对 π 取模，再把 (π/2, π) 和 (-π, -π/2) 分别折回，结果关于 0 对称，
// 正面与背面朝向时都为 0。
func ViewAngleOffset(rotY float64) float64 {
	ry := math.Mod(rotY, math.Pi)
	switch {
	case ry > math.Pi/2:
		ry -= math.Pi
	case ry < -math.Pi/2:
		ry += math.Pi
	}
	return utils.Clamp(ry, -math.Pi, math.Pi) / math.Pi
}

// CompositeCamera 根据视角计算合成用正交相机
func CompositeCamera(viewAngle float64, shape config.ShapeConfig, cfg config.CompositeConfig) utils.OrthoCamera {
	cy := ViewAngleOffset(viewAngle)
	return utils.OrthoCamera{
		Width:    shape.Width,
		Height:   shape.Height,
		Position: utils.V3(-cy*cfg.ParallaxSwing/2, 0, cfg.CameraDistance),
	}
}

// LayerPlacements 计算每个图层平面经正交相机投影后在渲染目标上的位置，按从远到近排序
//
// 第 i 个图层（共 n 个）位于 z = -LayerDepth/n*i，平面尺寸为原画像素乘以 ArtScale。
// 正交投影是仿射变换，因此平面的投影可以用一个 GeoM 精确表达。
func LayerPlacements(layers []*ebiten.Image, camera utils.OrthoCamera, cfg config.CompositeConfig) []LayerPlacement {
	n := len(layers)
	if n == 0 {
		return nil
	}

	tw, th := float64(cfg.TargetWidth), float64(cfg.TargetHeight)
	pw, ph := tw*cfg.ArtScale, th*cfg.ArtScale
	project := func(x, y, z float64) (float64, float64) {
		u, v := camera.Project(utils.V3(x, y, z))
		return u * tw, v * th
	}

	placements := make([]LayerPlacement, 0, n)
	for i := n - 1; i >= 0; i-- {
		img := layers[i]
		if img == nil {
			continue
		}
		z := -cfg.LayerDepth / float64(n) * float64(i)
		iw, ih := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
		if iw == 0 || ih == 0 {
			continue
		}

		ox, oy := project(-pw/2, ph/2, z)  // 纹理左上角
		xx, xy := project(pw/2, ph/2, z)   // 纹理右上角
		yx, yy := project(-pw/2, -ph/2, z) // 纹理左下角

		var g ebiten.GeoM
		g.SetElement(0, 0, (xx-ox)/iw)
		g.SetElement(0, 1, (yx-ox)/ih)
		g.SetElement(0, 2, ox)
		g.SetElement(1, 0, (xy-oy)/iw)
		g.SetElement(1, 1, (yy-oy)/ih)
		g.SetElement(1, 2, oy)

		placements = append(placements, LayerPlacement{Index: i, Z: z, GeoM: g})
	}
	return placements
}

// CompositeSystem 每帧把视差图层渲染进每张卡牌独占的渲染目标
type CompositeSystem struct {
	entityManager *ecs.EntityManager
	shape         config.ShapeConfig
	config        config.CompositeConfig
	clear         config.LinearColor
	debugOnce     bool
}

// NewCompositeSystem 创建视差合成系统
func NewCompositeSystem(em *ecs.EntityManager, cfg *config.CardConfig) *CompositeSystem {
	return &CompositeSystem{
		entityManager: em,
		shape:         cfg.Shape,
		config:        cfg.Composite,
		clear:         config.MustParseLinearColor(cfg.Composite.ClearColor),
	}
}

// Update 根据当前卡牌旋转更新合成相机，然后重新渲染
func (s *CompositeSystem) Update() {
	entities := ecs.GetEntitiesWith2[*components.CompositeComponent, *components.TransformComponent](s.entityManager)
	for _, id := range entities {
		comp, _ := ecs.GetComponent[*components.CompositeComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)

		comp.ViewAngle = transform.Rotation.Y
		comp.Camera = CompositeCamera(comp.ViewAngle, s.shape, s.config)
		s.Render(comp)
	}
}

// Render 清空渲染目标并按从远到近绘制图层
//
// 只写入 comp.Target，不触碰任何其他图像；没有图层时目标只含清屏色。
func (s *CompositeSystem) Render(comp *components.CompositeComponent) {
	if comp.Target == nil {
		return
	}
	comp.Target.Fill(s.clear.ToSRGB())

	placements := LayerPlacements(comp.Layers, comp.Camera, s.config)
	if !s.debugOnce {
		log.Printf("[CompositeSystem] 合成 %d 个图层到 %dx%d 渲染目标", len(placements),
			comp.Target.Bounds().Dx(), comp.Target.Bounds().Dy())
		s.debugOnce = true
	}

	amb := float32(s.config.Ambient)
	for _, p := range placements {
		op := &ebiten.DrawImageOptions{}
		op.GeoM = p.GeoM
		op.Filter = ebiten.FilterLinear
		op.ColorScale.Scale(amb, amb, amb, 1)
		comp.Target.DrawImage(comp.Layers[p.Index], op)
	}
}
