package systems

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/legends/pkg/components"
	"github.com/gonewx/legends/pkg/ecs"
	"github.com/gonewx/legends/pkg/utils"
)

// PointerSource 屏幕指针输入
type PointerSource interface {
	// Position 指针的屏幕坐标，ok 为 false 表示当前没有指针（如触摸已抬起）
	Position() (x, y float64, ok bool)
	// JustClicked 本帧是否发生了一次点击
	JustClicked() bool
}

// EbitenPointer 读取鼠标与触摸输入
type EbitenPointer struct {
	touchIDs  []ebiten.TouchID
	lastTouch [2]float64
	hasTouch  bool
}

// Position 优先使用触摸点，其次使用鼠标
func (p *EbitenPointer) Position() (float64, float64, bool) {
	p.touchIDs = ebiten.AppendTouchIDs(p.touchIDs[:0])
	if len(p.touchIDs) > 0 {
		x, y := ebiten.TouchPosition(p.touchIDs[0])
		p.lastTouch = [2]float64{float64(x), float64(y)}
		p.hasTouch = true
		return p.lastTouch[0], p.lastTouch[1], true
	}
	if p.hasTouch {
		// 触摸刚结束时没有悬停概念
		return 0, 0, false
	}
	x, y := ebiten.CursorPosition()
	return float64(x), float64(y), true
}

// JustClicked 鼠标左键按下或触摸抬起
func (p *EbitenPointer) JustClicked() bool {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		p.hasTouch = false
		return true
	}
	return len(inpututil.AppendJustReleasedTouchIDs(nil)) > 0
}

// NormalizePointer 将命中点按包围盒归一化到 [-1,1]
//
// 按坐标符号选择除以包围盒的正半边或负半边，原点处结果为 0；
// 某一半边长度为 0 时该轴返回 0。
func NormalizePointer(point utils.Vec3, lo, hi utils.Vec3) (x, y float64) {
	half := func(v, lo, hi float64) float64 {
		if v >= 0 {
			if hi == 0 {
				return 0
			}
			return v / hi
		}
		if lo == 0 {
			return 0
		}
		return -v / lo
	}
	x = utils.Clamp(half(point.X, lo.X, hi.X), -1, 1)
	y = utils.Clamp(half(point.Y, lo.Y, hi.Y), -1, 1)
	return x, y
}

// CardHit 一次射线命中的结果
type CardHit struct {
	Local utils.Vec3 // 卡牌局部坐标
	World utils.Vec3
}

// HitTestCard 用屏幕坐标发出射线，与卡牌中间平面求交并检查是否落在轮廓内
func HitTestCard(camera utils.PerspectiveCamera, transform utils.Transform, card *components.CardComponent,
	sx, sy, width, height float64) (CardHit, bool) {
	ray := camera.Ray(sx, sy, width, height)

	// 变换到卡牌局部空间
	inv := transform.Matrix().Transpose()
	local := utils.Ray{
		Origin: inv.MulVec(ray.Origin.Sub(transform.Position)),
		Dir:    inv.MulVec(ray.Dir),
	}

	mid := utils.Vec3{Z: card.Mesh.Depth / 2}
	p, _, ok := local.IntersectPlane(mid, utils.Vec3{Z: 1})
	if !ok || !card.Mesh.Shape.Contains(p.X, p.Y) {
		return CardHit{}, false
	}
	return CardHit{Local: p, World: transform.Apply(p)}, true
}

// CardWorldBounds 卡牌包围盒八个角变换后的世界坐标轴对齐包围盒
func CardWorldBounds(transform utils.Transform, card *components.CardComponent) (lo, hi utils.Vec3) {
	b := card.Mesh.Bounds
	first := true
	for _, x := range []float64{b.Min.X, b.Max.X} {
		for _, y := range []float64{b.Min.Y, b.Max.Y} {
			for _, z := range []float64{0, card.Mesh.Depth} {
				p := transform.Apply(utils.V3(x, y, z))
				if first {
					lo, hi = p, p
					first = false
					continue
				}
				lo = utils.V3(min(lo.X, p.X), min(lo.Y, p.Y), min(lo.Z, p.Z))
				hi = utils.V3(max(hi.X, p.X), max(hi.Y, p.Y), max(hi.Z, p.Z))
			}
		}
	}
	return lo, hi
}

// InputSystem 把指针输入转换为卡牌的悬停、移动和翻面事件
type InputSystem struct {
	entityManager *ecs.EntityManager
	pointer       PointerSource
	camera        utils.PerspectiveCamera
	width, height float64
}

// NewInputSystem 创建输入系统
func NewInputSystem(em *ecs.EntityManager, pointer PointerSource, camera utils.PerspectiveCamera) *InputSystem {
	return &InputSystem{entityManager: em, pointer: pointer, camera: camera}
}

// SetScreenSize 设置射线投射使用的屏幕尺寸
func (s *InputSystem) SetScreenSize(width, height float64) {
	s.width, s.height = width, height
}

// Update 处理本帧输入
func (s *InputSystem) Update(deltaTime float64) {
	if s.width <= 0 || s.height <= 0 {
		return
	}
	sx, sy, present := s.pointer.Position()
	clicked := s.pointer.JustClicked()

	entities := ecs.GetEntitiesWith3[
		*components.CardComponent,
		*components.OrientationComponent,
		*components.HoverComponent,
	](s.entityManager)

	for _, id := range entities {
		card, _ := ecs.GetComponent[*components.CardComponent](s.entityManager, id)
		orient, _ := ecs.GetComponent[*components.OrientationComponent](s.entityManager, id)
		hover, _ := ecs.GetComponent[*components.HoverComponent](s.entityManager, id)

		transform := utils.Transform{}
		if tc, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id); ok {
			transform = tc.Transform
		}

		var hit CardHit
		inside := false
		if present {
			hit, inside = HitTestCard(s.camera, transform, card, sx, sy, s.width, s.height)
		}

		entering := inside && !hover.Inside
		switch {
		case entering:
			PointerEnter(orient)
			log.Printf("[InputSystem] 指针进入卡牌 %d", id)
		case !inside && hover.Inside:
			PointerLeave(orient)
			log.Printf("[InputSystem] 指针离开卡牌 %d", id)
		}

		moved := !hover.HasLast || sx != hover.LastScreenX || sy != hover.LastScreenY
		if inside && (moved || entering) {
			lo, hi := CardWorldBounds(transform, card)
			x, y := NormalizePointer(hit.World, lo, hi)
			if entering {
				// 进入事件本身按离散事件处理，不切换到跟随模式
				orient.Pointer.X, orient.Pointer.Y = x, y
			} else {
				PointerMove(orient, x, y)
			}
		}

		if inside && clicked {
			ToggleFlip(orient)
			log.Printf("[InputSystem] 翻面卡牌 %d: flip=%v", id, orient.Flip)
		}

		hover.Inside = inside
		hover.LocalX, hover.LocalY = hit.Local.X, hit.Local.Y
		hover.LastScreenX, hover.LastScreenY = sx, sy
		hover.HasLast = present
	}
}
