package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 资源就绪后用于创建卡牌场景，避免 game 与 scenes 之间的循环依赖
type SceneFactory func(assets *LegendAssets) Scene

// SceneManager manages the viewer's high-level state by controlling which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置卡牌场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene to the provided scene.
// The previous scene is disposed when it implements Disposer.
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene == scene {
		return
	}
	if d, ok := sm.currentScene.(Disposer); ok {
		d.Dispose()
	}
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有活动场景时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// ShowCard 用已加载的资源创建卡牌场景并切换过去
func (sm *SceneManager) ShowCard(assets *LegendAssets) {
	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] 错误: SceneFactory 未设置")
		return
	}

	newScene := sm.sceneFactory(assets)
	if newScene == nil {
		log.Printf("[SceneManager] 错误: 无法创建卡牌场景 #%d", assets.Index)
		return
	}
	sm.SwitchTo(newScene)
	log.Printf("[SceneManager] 切换到卡牌 #%d", assets.Index)
}

// PixelDensity 返回当前场景请求的像素密度，<= 0 表示原生密度
func (sm *SceneManager) PixelDensity() float64 {
	if p, ok := sm.currentScene.(DensityProvider); ok {
		return p.PixelDensity()
	}
	return 0
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
// deltaTime is the time elapsed since the last update in seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
