package entities

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"

	"github.com/gonewx/legends/pkg/config"
	"github.com/gonewx/legends/pkg/game"
)

// 演示原画的分辨率（合成目标的 1/5）
const (
	demoArtWidth  = 536
	demoArtHeight = 838
	demoMaskScale = 0.1 // 遮罩与法线贴图相对合成目标的比例
)

// NewDemoAssets 生成一张不依赖资源服务器的演示卡牌
//
// 三个视差层由近到远分别是光点、山峦剪影与天空，油墨遮罩与法线贴图也在本地绘制。
// 只在 CPU 上生成，调用方通过 Upload() 上传到 GPU。
func NewDemoAssets(index int, cfg *config.CardConfig) (*game.DecodedAssets, error) {
	sparks, err := drawSparks(index)
	if err != nil {
		return nil, fmt.Errorf("demo sparks: %w", err)
	}
	hills, err := drawHills()
	if err != nil {
		return nil, fmt.Errorf("demo hills: %w", err)
	}
	sky, err := drawSky()
	if err != nil {
		return nil, fmt.Errorf("demo sky: %w", err)
	}

	mw := int(float64(cfg.Composite.TargetWidth) * demoMaskScale)
	mh := int(float64(cfg.Composite.TargetHeight) * demoMaskScale)
	border, err := drawBorderMask(mw, mh)
	if err != nil {
		return nil, fmt.Errorf("demo border: %w", err)
	}
	back, err := drawBackMask(mw, mh)
	if err != nil {
		return nil, fmt.Errorf("demo back: %w", err)
	}

	return &game.DecodedAssets{
		Manifest: DemoManifest(index),
		Index:    index,
		Normal:   RippleNormalMap(mw, mh, 9),
		Back:     game.AlphaMask(back),
		Border:   game.AlphaMask(border),
		Layers:   []image.Image{sparks, hills, sky},
	}, nil
}

// DemoManifest 演示卡牌的清单，只填充信息面板与油墨颜色用到的字段
func DemoManifest(index int) *config.LegendManifest {
	return &config.LegendManifest{
		Back:   "Orbit",
		Border: "Thin Copper",
		Ink:    "Copper",
		Maps: config.ManifestMaps{
			Normal: "demo://normal",
			Back:   "demo://back",
			Border: "demo://border",
			Layers: []string{"demo://sparks", "demo://hills", "demo://sky"},
		},
		Colors: config.ManifestColors{Base: "#b87333", Specular: "#ffe0c0", Emissive: "#3b1f0d"},
		NRI:    config.ManifestNRI{Back: 0.42, Border: 0.17, Ink: 0.66, Avg: 0.4166},
	}
}

// drawSparks 近景：按编号散布的发光圆点
func drawSparks(seed int) (image.Image, error) {
	dc := gg.NewContext(demoArtWidth, demoArtHeight)
	defer dc.Close()

	// 简单的线性同余序列，同一编号得到同一布局
	state := uint32(seed)*2654435761 + 1
	next := func() float64 {
		state = state*1664525 + 1013904223
		return float64(state>>8) / float64(1<<24)
	}
	for range 24 {
		x, y := next()*demoArtWidth, next()*demoArtHeight
		r := 3 + next()*9
		dc.SetRGBA(1, 0.85, 0.5, 0.35)
		dc.DrawCircle(x, y, r*2)
		if err := dc.Fill(); err != nil {
			return nil, err
		}
		dc.SetRGBA(1, 0.95, 0.8, 0.9)
		dc.DrawCircle(x, y, r)
		if err := dc.Fill(); err != nil {
			return nil, err
		}
	}
	return dc.Image(), nil
}

// drawHills 中景：两道起伏的山峦剪影
func drawHills() (image.Image, error) {
	dc := gg.NewContext(demoArtWidth, demoArtHeight)
	defer dc.Close()

	w, h := float64(demoArtWidth), float64(demoArtHeight)
	ridges := []struct {
		base  float64
		color gg.RGBA
	}{
		{0.62, gg.RGB(0.18, 0.2, 0.32)},
		{0.74, gg.RGB(0.08, 0.09, 0.16)},
	}
	for i, r := range ridges {
		y := h * r.base
		dc.MoveTo(0, h)
		dc.LineTo(0, y)
		amp := h * (0.08 - 0.02*float64(i))
		dc.CubicTo(w*0.25, y-amp, w*0.35, y+amp, w*0.5, y)
		dc.CubicTo(w*0.65, y-amp*1.5, w*0.8, y+amp*0.5, w, y-amp*0.3)
		dc.LineTo(w, h)
		dc.ClosePath()
		dc.SetColor(r.color.Color())
		if err := dc.Fill(); err != nil {
			return nil, err
		}
	}
	return dc.Image(), nil
}

// drawSky 远景：竖直渐变的天空与太阳
func drawSky() (image.Image, error) {
	dc := gg.NewContext(demoArtWidth, demoArtHeight)
	defer dc.Close()

	w, h := float64(demoArtWidth), float64(demoArtHeight)
	grad := gg.NewLinearGradientBrush(0, 0, 0, h).
		AddColorStop(0, gg.RGB(0.05, 0.07, 0.2)).
		AddColorStop(0.6, gg.RGB(0.55, 0.3, 0.35)).
		AddColorStop(1, gg.RGB(0.95, 0.6, 0.3))
	dc.SetFillBrush(grad)
	dc.DrawRectangle(0, 0, w, h)
	if err := dc.Fill(); err != nil {
		return nil, err
	}

	dc.SetRGB(1, 0.85, 0.55)
	dc.DrawCircle(w*0.62, h*0.48, w*0.12)
	if err := dc.Fill(); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// drawBorderMask 边框油墨：沿卡牌边缘的圆角环带（白色为油墨）
func drawBorderMask(w, h int) (image.Image, error) {
	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.ClearWithColor(gg.RGB(0, 0, 0))

	fw, fh := float64(w), float64(h)
	inset := fw * 0.03
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(fw * 0.025)
	dc.DrawRoundedRectangle(inset, inset, fw-2*inset, fh-2*inset, fw*0.05)
	if err := dc.Stroke(); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// drawBackMask 卡背油墨：居中的圆环与菱形徽记
func drawBackMask(w, h int) (image.Image, error) {
	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.ClearWithColor(gg.RGB(0, 0, 0))

	cx, cy := float64(w)/2, float64(h)/2
	r := float64(w) * 0.3
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(float64(w) * 0.02)
	dc.DrawCircle(cx, cy, r)
	if err := dc.Stroke(); err != nil {
		return nil, err
	}
	dc.MoveTo(cx, cy-r*0.7)
	dc.LineTo(cx+r*0.45, cy)
	dc.LineTo(cx, cy+r*0.7)
	dc.LineTo(cx-r*0.45, cy)
	dc.ClosePath()
	if err := dc.Fill(); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// RippleNormalMap 同心波纹的切线空间法线贴图
//
// 高度场 h = sin(k·d)，法线 (-∂h/∂x, -∂h/∂y, 1) 归一化后编码到 [0,255]。
func RippleNormalMap(w, h int, rings float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	k := rings * 2 * math.Pi / math.Hypot(cx, cy)
	const amp = 0.6

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			d := math.Hypot(dx, dy)
			var nx, ny float64
			if d > 0 {
				slope := amp * math.Cos(k*d)
				nx, ny = -slope*dx/d, -slope*dy/d
			}
			inv := 1 / math.Sqrt(nx*nx+ny*ny+1)
			// 图像 y 向下，切线空间 y 向上
			img.SetNRGBA(x, y, color.NRGBA{
				R: encodeNormal(nx * inv),
				G: encodeNormal(-ny * inv),
				B: encodeNormal(inv),
				A: 0xff,
			})
		}
	}
	return img
}

func encodeNormal(v float64) uint8 {
	return uint8(math.Round((v*0.5 + 0.5) * 255))
}
