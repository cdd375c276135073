package systems

import (
	"bytes"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gonewx/legends/pkg/components"
	"github.com/gonewx/legends/pkg/config"
	"github.com/gonewx/legends/pkg/ecs"
)

// StatsLines 信息面板的文本行
func StatsLines(card *components.CardComponent) []string {
	lines := []string{fmt.Sprintf("Mint: #%d", card.Index)}
	m := card.Manifest
	if m == nil {
		return lines
	}
	lines = append(lines,
		fmt.Sprintf("Back: %s (NRI %d%%)", m.Back, config.Percent(m.NRI.Back)),
		fmt.Sprintf("Border: %s (NRI %d%%)", m.Border, config.Percent(m.NRI.Border)),
		fmt.Sprintf("Ink: %s (NRI %d%%)", m.Ink, config.Percent(m.NRI.Ink)),
		fmt.Sprintf("Average NRI: %d%%", config.Percent(m.NRI.Avg)),
	)
	if m.Views.SideBySide != "" {
		lines = append(lines, "Static View: "+m.Views.SideBySide)
	}
	if m.Views.Animated != "" {
		lines = append(lines, "Animated View: "+m.Views.Animated)
	}
	return lines
}

// OverlaySystem 在画面左上角绘制卡牌信息
type OverlaySystem struct {
	entityManager *ecs.EntityManager
	face          *text.GoTextFace
	// Debug 附加显示帧率、像素密度与弹簧模式
	Debug   bool
	density func() float64
}

// NewOverlaySystem 创建信息面板系统，字体使用内置的 Go Regular
func NewOverlaySystem(em *ecs.EntityManager, density func() float64) *OverlaySystem {
	s := &OverlaySystem{entityManager: em, density: density}
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Printf("[OverlaySystem] 字体加载失败，信息面板不可用: %v", err)
		return s
	}
	s.face = &text.GoTextFace{
		Source:    source,
		Size:      14,
		Direction: text.DirectionLeftToRight,
	}
	return s
}

// Draw 绘制信息面板
func (s *OverlaySystem) Draw(screen *ebiten.Image) {
	if s.face == nil {
		return
	}

	// 文字大小跟随像素密度，保持逻辑尺寸不变
	scale := 1.0
	if s.density != nil {
		if d := s.density(); d > 0 {
			scale = d
		}
	}
	lineHeight := s.face.Size * 1.4 * scale

	y := 12 * scale
	for _, id := range ecs.GetEntitiesWith1[*components.CardComponent](s.entityManager) {
		card, _ := ecs.GetComponent[*components.CardComponent](s.entityManager, id)
		lines := StatsLines(card)

		if s.Debug {
			lines = append(lines, fmt.Sprintf("TPS: %.0f FPS: %.0f", ebiten.ActualTPS(), ebiten.ActualFPS()))
			if s.density != nil {
				lines = append(lines, fmt.Sprintf("Pixel density: %.2f", s.density()))
			}
			if orient, ok := ecs.GetComponent[*components.OrientationComponent](s.entityManager, id); ok {
				lines = append(lines, fmt.Sprintf("Spring: %s flip=%v", orient.Mode, orient.Flip))
			}
		}

		for _, line := range lines {
			op := &text.DrawOptions{}
			op.GeoM.Scale(scale, scale)
			op.GeoM.Translate(12*scale, y)
			op.ColorScale.ScaleWithColor(color.RGBA{R: 0xe8, G: 0xe0, B: 0xc8, A: 0xff})
			text.Draw(screen, line, s.face, op)
			y += lineHeight
		}
		y += lineHeight / 2
	}
}
