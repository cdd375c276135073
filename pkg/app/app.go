// Package app 提供卡牌查看器的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/gonewx/legends/pkg/config"
	"github.com/gonewx/legends/pkg/entities"
	"github.com/gonewx/legends/pkg/game"
	"github.com/gonewx/legends/pkg/scenes"
	"github.com/gonewx/legends/pkg/systems"
)

// 默认窗口尺寸（逻辑像素）
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Source 资源来源：http(s) 地址或本地目录；为空时使用演示卡牌
	Source string
	// Index 卡牌编号；< 0 时使用上次查看的编号
	Index int
	// Demo 强制使用本地生成的演示卡牌
	Demo bool
	// Width/Height 窗口逻辑尺寸
	Width, Height int
	// Motion 设备运动来源，为 nil 时不支持
	Motion systems.MotionSource
	// MotionAlwaysPermitted 平台不需要运动权限（桌面手柄模拟）
	MotionAlwaysPermitted bool
	// Storage 设置存储；为 nil 时尝试打开默认存储，失败则只在内存中保存
	Storage *gdata.Manager
}

// App 是卡牌查看器的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	loader       *game.AssetLoader
	verbose      bool

	width, height            int
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化查看器
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入配置。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = DefaultWidth, DefaultHeight
	}

	cardConfig, err := config.LoadCardConfig(config.CardConfigPath)
	if err != nil {
		return nil, fmt.Errorf("卡牌配置加载失败: %w", err)
	}
	lights, err := config.LoadLightRig(config.LightRigPath)
	if err != nil {
		return nil, fmt.Errorf("灯光配置加载失败: %w", err)
	}
	log.Printf("[Config] 加载 %d 盏方向光", len(lights.Lights))

	storage := cfg.Storage
	if storage == nil {
		storage, err = gdata.Open(gdata.Config{AppName: "legends_viewer"})
		if err != nil {
			log.Printf("[App] 设置存储不可用，仅内存保存: %v", err)
			storage = nil
		}
	}
	settings := game.NewSettingsManager(storage)
	ebiten.SetFullscreen(settings.GetSettings().Fullscreen)

	index := cfg.Index
	if index < 0 {
		index = settings.GetSettings().LastIndex
	}

	permitted := settings.MotionGranted
	if cfg.MotionAlwaysPermitted {
		permitted = func() bool { return true }
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(assets *game.LegendAssets) game.Scene {
		scene, err := scenes.NewCardScene(assets, scenes.CardSceneOptions{
			Config:          cardConfig,
			Lights:          lights,
			Motion:          cfg.Motion,
			MotionPermitted: permitted,
		})
		if err != nil {
			log.Printf("[App] 卡牌场景创建失败: %v", err)
			return scenes.NewLoadingScene(game.NewLoadedAssets(nil, err), sceneManager)
		}
		settings.SetLastIndex(assets.Index)
		if err := settings.Save(); err != nil {
			log.Printf("[App] 设置保存失败: %v", err)
		}
		return scene
	})

	var loader *game.AssetLoader
	if cfg.Demo || cfg.Source == "" {
		log.Printf("[App] 使用演示卡牌 #%d", index)
		loader = game.NewLoadedAssets(entities.NewDemoAssets(index, cardConfig))
	} else {
		log.Printf("[App] 从 %s 加载卡牌 #%d", cfg.Source, index)
		loader = game.NewAssetLoader(game.NewAssetSource(cfg.Source), index)
		loader.Start(context.Background())
	}
	sceneManager.SwitchTo(scenes.NewLoadingScene(loader, sceneManager))

	return &App{
		sceneManager: sceneManager,
		settings:     settings,
		loader:       loader,
		verbose:      cfg.Verbose,
		width:        cfg.Width,
		height:       cfg.Height,
	}, nil
}

// Update 更新查看器逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.width, a.height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.width, a.height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏，并记住选择
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	if fullscreen {
		ebiten.SetFullscreen(true)
	} else {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	}

	a.settings.SetFullscreen(fullscreen)
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] 设置保存失败: %v", err)
	}
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 实现 ebiten.Game；实现了 LayoutF 时 ebiten 不会调用它
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := a.LayoutF(float64(outsideWidth), float64(outsideHeight))
	return int(w), int(h)
}

// LayoutF 按性能调节器选择的像素密度返回屏幕尺寸
//
// 密度为 1 时按逻辑像素渲染，否则按设备原生像素渲染。
func (a *App) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return ScreenSize(outsideWidth, outsideHeight, a.sceneManager.PixelDensity(), ebiten.Monitor().DeviceScaleFactor())
}

// ScreenSize 把窗口逻辑尺寸换算为渲染尺寸；density <= 0 时使用 native
func ScreenSize(outsideWidth, outsideHeight, density, native float64) (float64, float64) {
	if density <= 0 {
		density = native
	}
	if density <= 0 {
		density = 1
	}
	return outsideWidth * density, outsideHeight * density
}

// SetMotionPermission 记录设备运动权限并持久化
func (a *App) SetMotionPermission(p game.MotionPermission) {
	a.settings.SetMotionPermission(p)
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] 设置保存失败: %v", err)
	}
}

// Close 取消未完成的加载并释放当前场景
func (a *App) Close() {
	a.loader.Cancel()
	a.sceneManager.SwitchTo(nil)
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// Settings 返回设置管理器
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
