package core

import (
	"image/color"
	"math"
)

// Color is a linear RGB triple stored in a Vec3 (X=R, Y=G, Z=B)
type Color = Vec3

// NewColor creates a new linear color
func NewColor(r, g, b float64) Color {
	return Color{X: r, Y: g, Z: b}
}

var (
	Black = NewColor(0, 0, 0)
	White = NewColor(1, 1, 1)
)

// EncodeChannel converts a linear channel value to an 8-bit display value:
// square-root gamma, clamp to [0, 0.999], scale by 255.999, truncate.
// The order of these steps is fixed.
func EncodeChannel(linear float64) uint8 {
	gamma := math.Sqrt(linear)
	if math.IsNaN(gamma) {
		// negative or NaN input
		gamma = 0
	}
	clamped := max(0.0, min(0.999, gamma))
	return uint8(255.999 * clamped)
}

// EncodeColor applies EncodeChannel to each channel of c
func EncodeColor(c Color) (r, g, b uint8) {
	return EncodeChannel(c.X), EncodeChannel(c.Y), EncodeChannel(c.Z)
}

// ToRGBA converts a linear color to an opaque display color
func ToRGBA(c Color) color.RGBA {
	r, g, b := EncodeColor(c)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
