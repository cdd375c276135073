package config

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// LinearColor 线性空间 RGB 颜色，分量范围 [0,1]
type LinearColor struct {
	R, G, B float64
}

// ParseLinearColor 解析十六进制 sRGB 颜色（#rgb 或 #rrggbb）并转换到线性空间
func ParseLinearColor(hex string) (LinearColor, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return LinearColor{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.LinearRgb()
	return LinearColor{R: r, G: g, B: b}, nil
}

// MustParseLinearColor 同 ParseLinearColor，解析失败时 panic（仅用于常量颜色）
func MustParseLinearColor(hex string) LinearColor {
	c, err := ParseLinearColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Scale 各分量乘以 k
func (c LinearColor) Scale(k float64) LinearColor {
	return LinearColor{R: c.R * k, G: c.G * k, B: c.B * k}
}

// Add 分量相加
func (c LinearColor) Add(o LinearColor) LinearColor {
	return LinearColor{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B}
}

// Mul 分量相乘
func (c LinearColor) Mul(o LinearColor) LinearColor {
	return LinearColor{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B}
}

// ToSRGB 转回 sRGB 空间用于屏幕输出（截断到 [0,1]）
func (c LinearColor) ToSRGB() color.RGBA {
	r, g, b := colorful.LinearRgb(c.R, c.G, c.B).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Components 返回 sRGB 空间的 float32 分量，供顶点颜色使用
func (c LinearColor) Components() (r, g, b float32) {
	s := colorful.LinearRgb(c.R, c.G, c.B).Clamped()
	return float32(s.R), float32(s.G), float32(s.B)
}
