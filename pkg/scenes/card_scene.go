package scenes

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/legends/pkg/config"
	"github.com/gonewx/legends/pkg/ecs"
	"github.com/gonewx/legends/pkg/entities"
	"github.com/gonewx/legends/pkg/game"
	"github.com/gonewx/legends/pkg/geometry"
	"github.com/gonewx/legends/pkg/systems"
)

var cardBackground = color.RGBA{R: 0x0b, G: 0x0b, B: 0x0e, A: 0xff}

// CardSceneOptions 卡牌场景的外部依赖，零值字段使用默认实现
type CardSceneOptions struct {
	Config *config.CardConfig
	Lights *config.LightRig
	// Pointer 指针输入，默认读取鼠标与触摸
	Pointer systems.PointerSource
	// Motion 设备运动来源，默认不支持
	Motion systems.MotionSource
	// MotionPermitted 是否已获得设备运动权限
	MotionPermitted func() bool
	// NativeDensity 设备原生像素比，默认 ebiten.Monitor().DeviceScaleFactor()
	NativeDensity func() float64
	// Clock 墙钟，默认 time.Now
	Clock func() time.Time
}

// CardScene 展示一张可交互的卡牌
//
// 每帧的阶段顺序：性能采样 → 指针与设备运动 → 朝向弹簧 → 视差合成 → 卡牌绘制 → 信息面板。
type CardScene struct {
	entityManager *ecs.EntityManager
	cardID        ecs.EntityID

	performanceSystem *systems.PerformanceSystem
	inputSystem       *systems.InputSystem
	motionSystem      *systems.MotionSystem
	orientationSystem *systems.OrientationSystem
	compositeSystem   *systems.CompositeSystem
	cardRenderSystem  *systems.CardRenderSystem
	overlaySystem     *systems.OverlaySystem

	clock     func() time.Time
	startTime time.Time
	showInfo  bool
	disposed  bool
}

// NewCardScene 为已加载的资源创建卡牌实体与全部系统
func NewCardScene(assets *game.LegendAssets, opts CardSceneOptions) (*CardScene, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultCardConfig()
	}
	rig := opts.Lights
	if rig == nil {
		rig = config.DefaultLightRig()
	}
	pointer := opts.Pointer
	if pointer == nil {
		pointer = &systems.EbitenPointer{}
	}
	native := opts.NativeDensity
	if native == nil {
		native = func() float64 { return ebiten.Monitor().DeviceScaleFactor() }
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	em := ecs.NewEntityManager()
	shape := cfg.Shape
	mesh := geometry.SharedCardMeshFor(geometry.MeshParams{
		Width:    shape.Width,
		Height:   shape.Height,
		Radius:   shape.CornerRadius,
		Depth:    shape.Depth,
		Segments: shape.CurveSegments,
	})
	cardID, err := entities.NewLegendCard(em, mesh, assets, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create legend card: %w", err)
	}

	monitor := systems.NewPerformanceMonitor(cfg.Performance)
	s := &CardScene{
		entityManager:     em,
		cardID:            cardID,
		performanceSystem: systems.NewPerformanceSystem(em, monitor, cfg.Performance, native),
		motionSystem:      systems.NewMotionSystem(em, opts.Motion, opts.MotionPermitted),
		orientationSystem: systems.NewOrientationSystem(em, &cfg.Orientation),
		compositeSystem:   systems.NewCompositeSystem(em, cfg),
		cardRenderSystem:  systems.NewCardRenderSystem(em, cfg, rig, monitor.Regressed),
		clock:             clock,
		startTime:         clock(),
		showInfo:          true,
	}
	s.inputSystem = systems.NewInputSystem(em, pointer, s.cardRenderSystem.Camera())
	s.overlaySystem = systems.NewOverlaySystem(em, s.performanceSystem.PixelDensity)

	log.Printf("[CardScene] 卡牌场景就绪: #%d", assets.Index)
	return s, nil
}

// Update 按固定顺序推进输入、运动与朝向系统
//
// 一次显示帧内可能运行零次或多次 Update，帧间计时在 Draw 中采样。
func (s *CardScene) Update(deltaTime float64) {
	if s.disposed {
		return
	}
	s.handleKeys()

	s.inputSystem.Update(deltaTime)
	s.motionSystem.Update(deltaTime)
	s.orientationSystem.Update(deltaTime)
}

// handleKeys 键盘快捷键：I 切换信息面板，D 切换调试信息
func (s *CardScene) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		s.showInfo = !s.showInfo
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		s.overlaySystem.Debug = !s.overlaySystem.Debug
		log.Printf("[CardScene] 调试信息: %v", s.overlaySystem.Debug)
	}
}

// Draw 每个显示帧调用一次：先采样帧间计时，再重绘视差合成纹理，最后把卡牌绘制到屏幕
func (s *CardScene) Draw(screen *ebiten.Image) {
	if s.disposed {
		return
	}
	s.performanceSystem.Update(s.clock().Sub(s.startTime).Seconds())
	b := screen.Bounds()
	s.inputSystem.SetScreenSize(float64(b.Dx()), float64(b.Dy()))

	s.compositeSystem.Update()

	screen.Fill(cardBackground)
	s.cardRenderSystem.Draw(screen)
	if s.showInfo {
		s.overlaySystem.Draw(screen)
	}
}

// PixelDensity 性能调节器选择的输出像素密度
func (s *CardScene) PixelDensity() float64 {
	return s.performanceSystem.PixelDensity()
}

// CardID 场景中卡牌实体的 ID
func (s *CardScene) CardID() ecs.EntityID {
	return s.cardID
}

// EntityManager 场景的实体管理器
func (s *CardScene) EntityManager() *ecs.EntityManager {
	return s.entityManager
}

// Dispose 释放卡牌独占的渲染目标
func (s *CardScene) Dispose() {
	if s.disposed {
		return
	}
	entities.DestroyLegendCard(s.entityManager, s.cardID)
	s.entityManager.RemoveMarkedEntities()
	s.disposed = true
}
