package game

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // 注册 JPEG 解码器
	_ "image/png"  // 注册 PNG 解码器

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // 注册 WebP 解码器
)

// DecodeImage 解码 PNG/JPEG/WebP 纹理
func DecodeImage(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty %s image", format)
	}
	return img, nil
}

// AlphaMask 把灰度遮罩转换为白色 + alpha 的纹理
//
// 遮罩的绿色通道决定不透明度，与常见 alphaMap 约定一致。
func AlphaMask(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA).G
			dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: g})
		}
	}
	return dst
}

// ResizeImage 用 Catmull-Rom 重采样到指定尺寸；尺寸相同时只复制
func ResizeImage(src image.Image, size image.Point) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	if src.Bounds().Size() == size {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
		return dst
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
