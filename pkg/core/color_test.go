package core

import (
	"math"
	"testing"
)

func TestEncodeColor(t *testing.T) {
	tests := []struct {
		name    string
		color   Color
		r, g, b uint8
	}{
		{"pure red", NewColor(1, 0, 0), 255, 0, 0},
		{"black", Black, 0, 0, 0},
		{"white", White, 255, 255, 255},
		{"quarter is gamma encoded to half", NewColor(0.25, 0.25, 0.25), 127, 127, 127},
		{"overbright clamps", NewColor(4, 1.2, 1.0001), 255, 255, 255},
		{"negative clamps to zero", NewColor(-0.5, 0, 0), 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := EncodeColor(tt.color)
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("Expected (%d,%d,%d), got (%d,%d,%d)", tt.r, tt.g, tt.b, r, g, b)
			}
		})
	}
}

func TestEncodeChannel_NaN(t *testing.T) {
	if got := EncodeChannel(math.NaN()); got != 0 {
		t.Errorf("NaN should encode to 0, got %d", got)
	}
}

func TestToRGBA_Opaque(t *testing.T) {
	c := ToRGBA(NewColor(0.75, 0.85, 1.0))
	if c.A != 255 {
		t.Errorf("Expected opaque alpha, got %d", c.A)
	}
	if c.B != 255 {
		t.Errorf("Expected blue channel 255, got %d", c.B)
	}
}
