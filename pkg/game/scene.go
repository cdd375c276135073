package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a viewer scene (loading screen, card viewer).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	// screen is the target image where the scene should be drawn.
	Draw(screen *ebiten.Image)
}

// Disposer 是一个可选接口，场景被替换时释放自己持有的 GPU 资源
//
// 卡牌场景持有离屏渲染目标，切换场景时由 SceneManager 调用 Dispose()。
type Disposer interface {
	Dispose()
}

// DensityProvider 是一个可选接口，场景决定逻辑像素到物理像素的密度
//
// 返回值 <= 0 表示使用设备原生密度。
type DensityProvider interface {
	PixelDensity() float64
}
