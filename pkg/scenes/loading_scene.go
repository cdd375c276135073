package scenes

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gonewx/legends/pkg/game"
	"github.com/gonewx/legends/pkg/utils"
)

// 占位球体的轨道参数
const (
	orbitRadius  = 60.0
	sphereRadius = 18.0
	orbitSpeed   = 1.6 // 弧度/秒
	pulsePeriod  = 1.8 // 提示文字呼吸周期（秒）
)

var loadingBackground = color.RGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xff}

// LoadingScene 资源加载期间显示绕行的占位球体
//
// 每帧轮询 AssetProvider，就绪后在游戏循环中上传纹理并切换到卡牌场景。
type LoadingScene struct {
	provider     AssetProvider
	sceneManager *game.SceneManager

	elapsedTime float64
	failed      error
	face        *text.GoTextFace
}

// NewLoadingScene 创建加载场景
func NewLoadingScene(provider AssetProvider, sceneManager *game.SceneManager) *LoadingScene {
	s := &LoadingScene{provider: provider, sceneManager: sceneManager}
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Printf("[LoadingScene] 字体加载失败: %v", err)
		return s
	}
	s.face = &text.GoTextFace{Source: source, Size: 16}
	return s
}

// Update 推进动画并检查加载状态
func (s *LoadingScene) Update(deltaTime float64) {
	s.elapsedTime += deltaTime
	if s.failed != nil {
		return
	}

	switch s.provider.State() {
	case game.LoadReady:
		decoded, err := s.provider.Result()
		if err != nil {
			s.failed = err
			return
		}
		log.Printf("[LoadingScene] 资源就绪，上传 %d 个视差层", len(decoded.Layers))
		s.sceneManager.ShowCard(decoded.Upload())
	case game.LoadFailed:
		_, s.failed = s.provider.Result()
		log.Printf("[LoadingScene] 加载失败: %v", s.failed)
	}
}

// Failed 返回加载错误，仍在加载或已成功时为 nil
func (s *LoadingScene) Failed() error {
	return s.failed
}

// OrbitPosition 占位球体在时刻 t 的屏幕位置
func OrbitPosition(t, cx, cy float64) (x, y float64) {
	a := t * orbitSpeed
	// 椭圆轨道，纵向压扁营造透视感
	return cx + math.Cos(a)*orbitRadius, cy + math.Sin(a)*orbitRadius*0.4
}

// Draw 绘制背景、占位球体与状态文字
func (s *LoadingScene) Draw(screen *ebiten.Image) {
	screen.Fill(loadingBackground)
	b := screen.Bounds()
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2

	x, y := OrbitPosition(s.elapsedTime, cx, cy)
	// 由暗到亮的同心圆，高光偏向左上
	for i := 0; i < 4; i++ {
		k := float64(i) / 4
		r := sphereRadius * (1 - k*0.7)
		shade := uint8(90 + 50*i)
		vector.DrawFilledCircle(screen,
			float32(x-k*sphereRadius*0.35), float32(y-k*sphereRadius*0.35), float32(r),
			color.RGBA{R: shade, G: shade, B: shade, A: 0xff}, true)
	}

	if s.face == nil {
		return
	}
	msg := "Loading legend..."
	clr := color.RGBA{R: 0xc8, G: 0xc0, B: 0xb0, A: 0xff}
	if s.failed != nil {
		msg = fmt.Sprintf("Failed to load legend: %v", s.failed)
		clr = color.RGBA{R: 0xec, G: 0x4e, B: 0x20, A: 0xff}
	}
	w, _ := text.Measure(msg, s.face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(cx-w/2, cy+orbitRadius+24)
	op.ColorScale.ScaleWithColor(clr)
	if s.failed == nil {
		op.ColorScale.ScaleAlpha(float32(utils.Lerp(0.45, 1, utils.Pulse(s.elapsedTime, pulsePeriod))))
	}
	text.Draw(screen, msg, s.face, op)
}
