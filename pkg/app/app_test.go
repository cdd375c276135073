package app

import "testing"

func TestScreenSize(t *testing.T) {
	tests := []struct {
		name         string
		density      float64
		native       float64
		wantW, wantH float64
	}{
		{"governor picks 1", 1, 2, 800, 600},
		{"governor picks native", 2, 2, 1600, 1200},
		{"no card scene uses native", 0, 1.5, 1200, 900},
		{"unknown native falls back to 1", 0, 0, 800, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ScreenSize(800, 600, tt.density, tt.native)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("ScreenSize = %vx%v, want %vx%v", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
