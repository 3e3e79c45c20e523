package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

func vecNear(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestCamera_FilmGeometry(t *testing.T) {
	camera := NewCamera(core.NewVec3(0, 0, 1), 16.0/9.0)

	if camera.FilmWidth != 4.0 {
		t.Errorf("Expected film width 4, got %f", camera.FilmWidth)
	}
	if math.Abs(camera.FilmHeight-2.25) > 1e-12 {
		t.Errorf("Expected film height 2.25, got %f", camera.FilmHeight)
	}
	if camera.FilmDistance != 1.0 {
		t.Errorf("Expected film distance 1, got %f", camera.FilmDistance)
	}

	expected := core.NewVec3(-2, -1.125, 0)
	if got := camera.FilmLowerLeftCorner(); !vecNear(got, expected, 1e-12) {
		t.Errorf("Expected lower left corner %v, got %v", expected, got)
	}
}

func TestCamera_GetRay(t *testing.T) {
	camera := NewCamera(core.NewVec3(0, 0, 1), 16.0/9.0)

	tests := []struct {
		name      string
		u, v      float64
		direction core.Vec3
	}{
		{"center", 0.5, 0.5, core.NewVec3(0, 0, -1)},
		{"lower left", 0, 0, core.NewVec3(-2, -1.125, -1)},
		{"upper right", 1, 1, core.NewVec3(2, 1.125, -1)},
		{"upper left", 0, 1, core.NewVec3(-2, 1.125, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.u, tt.v)
			if ray.Origin != camera.Position {
				t.Errorf("Ray should start at the eye %v, got %v", camera.Position, ray.Origin)
			}
			if !vecNear(ray.Direction, tt.direction, 1e-12) {
				t.Errorf("Expected direction %v, got %v", tt.direction, ray.Direction)
			}
		})
	}
}

func TestCamera_ImageHeight(t *testing.T) {
	tests := []struct {
		aspect   float64
		width    int
		expected int
	}{
		{16.0 / 9.0, 256, 144},
		{1.0, 100, 100},
		{16.0 / 9.0, 1, 1},
	}

	for _, tt := range tests {
		camera := NewCamera(core.Vec3{}, tt.aspect)
		if got := camera.ImageHeight(tt.width); got != tt.expected {
			t.Errorf("ImageHeight(%d) with aspect %f = %d, expected %d", tt.width, tt.aspect, got, tt.expected)
		}
	}
}
