package geometry

import (
	"math"
	"testing"
)

func TestNewCardShape_ClampsRadius(t *testing.T) {
	s := NewCardShape(1, 2, 5)
	if s.Radius() != 0.5 {
		t.Errorf("Radius() = %v, want 0.5", s.Radius())
	}
	if err := s.CheckTangentContinuity(); err != nil {
		t.Errorf("clamped shape should stay tangent continuous: %v", err)
	}
}

func TestNewCardShape_PanicsOnInvalidInput(t *testing.T) {
	cases := []struct {
		name    string
		w, h, r float64
	}{
		{"zero width", 0, 1, 0.1},
		{"negative height", 1, -1, 0.1},
		{"zero radius", 1, 1, 0},
		{"NaN", math.NaN(), 1, 0.1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for %vx%v r=%v", tc.w, tc.h, tc.r)
				}
			}()
			NewCardShape(tc.w, tc.h, tc.r)
		})
	}
}

func TestCardShape_Bounds(t *testing.T) {
	s := NewCardShape(CardWidth, CardHeight, CardCornerRadius)
	b := s.Bounds()

	if math.Abs(b.Width()-CardWidth) > 1e-9 || math.Abs(b.Height()-CardHeight) > 1e-9 {
		t.Errorf("Bounds() = %v, want %vx%v", b, CardWidth, CardHeight)
	}
	if math.Abs(b.Min.X+CardWidth/2) > 1e-9 || math.Abs(b.Min.Y+CardHeight/2) > 1e-9 {
		t.Errorf("shape should be centred at origin, got min %v", b.Min)
	}
}

func TestCardShape_Contains(t *testing.T) {
	s := NewCardShape(CardWidth, CardHeight, CardCornerRadius)

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"centre", 0, 0, true},
		{"near right edge", CardWidth/2 - 0.01, 0, true},
		{"outside right", CardWidth/2 + 0.01, 0, false},
		{"outside top", 0, CardHeight/2 + 0.01, false},
		// 矩形角被圆角切掉
		{"cut corner", CardWidth/2 - 0.005, CardHeight/2 - 0.005, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestCardShape_Outline(t *testing.T) {
	s := NewCardShape(CardWidth, CardHeight, CardCornerRadius)
	points, closed := s.Outline(CardCurveSegments)

	if !closed {
		t.Fatal("outline should be closed")
	}
	// 4 段圆角各 12 个采样点 + 4 条直边终点
	if want := 4*CardCurveSegments + 4; len(points) != want {
		t.Errorf("len(points) = %d, want %d", len(points), want)
	}
	if signedArea(points) <= 0 {
		t.Error("outline should be counter-clockwise")
	}
	for i, p := range points {
		next := points[(i+1)%len(points)]
		if p.Distance(next) < 1e-12 {
			t.Errorf("duplicate consecutive outline point at %d: %v", i, p)
		}
	}
}

func TestCardShape_TangentContinuity(t *testing.T) {
	dims := [][3]float64{
		{CardWidth, CardHeight, CardCornerRadius},
		{1, 1, 0.5},
		{3, 1, 0.2},
		{0.1, 10, 0.01},
	}
	for _, d := range dims {
		s := NewCardShape(d[0], d[1], d[2])
		if err := s.CheckTangentContinuity(); err != nil {
			t.Errorf("shape %v: %v", d, err)
		}
	}
}
