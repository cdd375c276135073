package entities

import (
	"image"
	"testing"

	"github.com/gonewx/legends/pkg/config"
)

func TestNewDemoAssets(t *testing.T) {
	cfg := config.DefaultCardConfig()
	d, err := NewDemoAssets(5, cfg)
	if err != nil {
		t.Fatalf("NewDemoAssets() error = %v", err)
	}

	if d.Index != 5 {
		t.Errorf("Index = %d, want 5", d.Index)
	}
	if err := d.Manifest.Validate(); err != nil {
		t.Errorf("demo manifest invalid: %v", err)
	}
	if len(d.Layers) != 3 {
		t.Fatalf("layers = %d, want 3", len(d.Layers))
	}
	for i, l := range d.Layers {
		if l.Bounds().Size() != image.Pt(demoArtWidth, demoArtHeight) {
			t.Errorf("layer %d size = %v", i, l.Bounds().Size())
		}
	}

	maskSize := image.Pt(268, 419)
	for name, img := range map[string]image.Image{"normal": d.Normal, "back": d.Back, "border": d.Border} {
		if img.Bounds().Size() != maskSize {
			t.Errorf("%s size = %v, want %v", name, img.Bounds().Size(), maskSize)
		}
	}

	// 卡背徽记中心有油墨，角落没有
	if a := d.Back.NRGBAAt(134, 209).A; a < 200 {
		t.Errorf("back emblem centre alpha = %d, want opaque", a)
	}
	if a := d.Back.NRGBAAt(2, 2).A; a != 0 {
		t.Errorf("back corner alpha = %d, want 0", a)
	}
	// 边框环带内部透明
	if a := d.Border.NRGBAAt(134, 209).A; a != 0 {
		t.Errorf("border centre alpha = %d, want 0", a)
	}
}

func TestNewDemoAssets_SeedStable(t *testing.T) {
	cfg := config.DefaultCardConfig()
	a, err := NewDemoAssets(1, cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewDemoAssets(1, cfg)
	if err != nil {
		t.Fatal(err)
	}
	pa := a.Layers[0].(*image.RGBA).Pix
	pb := b.Layers[0].(*image.RGBA).Pix
	if string(pa) != string(pb) {
		t.Error("same index should produce the same spark layout")
	}
}

func TestRippleNormalMap(t *testing.T) {
	img := RippleNormalMap(32, 32, 4)

	c := img.NRGBAAt(16, 16)
	if c.R != 128 || c.G != 128 || c.B != 255 {
		t.Errorf("centre normal = %v, want flat (128,128,255)", c)
	}
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if img.NRGBAAt(x, y).B < 128 {
				t.Fatalf("normal at (%d,%d) points into the surface", x, y)
			}
		}
	}
}
