package components

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/legends/pkg/utils"
)

// CompositeComponent 视差合成状态
//
// Target 由本卡牌独占，不可与其他卡牌共享。
type CompositeComponent struct {
	// Layers 已加载的图层纹理，下标越大离相机越远
	Layers []*ebiten.Image
	// Target 离屏渲染目标，尺寸与原画一致
	Target *ebiten.Image
	// Camera 合成用正交相机，X 位置随卡牌 Y 旋转变化
	Camera utils.OrthoCamera
	// ViewAngle 最近一次使用的视角（卡牌 Y 旋转）
	ViewAngle float64
}
