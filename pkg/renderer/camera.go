package renderer

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// DefaultFilmWidth is the world-space width of the film plane
const DefaultFilmWidth = 4.0

// DefaultFilmDistance is the focal length: eye to film plane distance
const DefaultFilmDistance = 1.0

// Camera is a pinhole camera looking down -Z with its film plane parallel
// to the XY plane. Film height follows from the aspect ratio.
type Camera struct {
	Position     core.Point3
	AspectRatio  float64
	FilmDistance float64
	FilmWidth    float64
	FilmHeight   float64
}

// NewCamera creates a camera at position with the default film geometry
func NewCamera(position core.Point3, aspectRatio float64) *Camera {
	return &Camera{
		Position:     position,
		AspectRatio:  aspectRatio,
		FilmDistance: DefaultFilmDistance,
		FilmWidth:    DefaultFilmWidth,
		FilmHeight:   DefaultFilmWidth / aspectRatio,
	}
}

// FilmLowerLeftCorner returns the world position of the film's (0,0) corner
func (c *Camera) FilmLowerLeftCorner() core.Point3 {
	return c.Position.Add(core.NewVec3(-c.FilmWidth/2.0, -c.FilmHeight/2.0, -c.FilmDistance))
}

// Horizontal spans the film from left to right
func (c *Camera) Horizontal() core.Vec3 {
	return core.NewVec3(c.FilmWidth, 0, 0)
}

// Vertical spans the film from bottom to top
func (c *Camera) Vertical() core.Vec3 {
	return core.NewVec3(0, c.FilmHeight, 0)
}

// GetRay generates a ray for film coordinates (u, v) where 0 <= u,v <= 1.
// (0,0) is the lower left corner. The direction is left unnormalized.
func (c *Camera) GetRay(u, v float64) core.Ray {
	direction := c.FilmLowerLeftCorner().
		Add(c.Horizontal().Multiply(u)).
		Add(c.Vertical().Multiply(v)).
		Subtract(c.Position)

	return core.NewRay(c.Position, direction)
}

// ImageHeight returns the pixel height matching width and the aspect ratio
func (c *Camera) ImageHeight(width int) int {
	return max(1, int(float64(width)/c.AspectRatio))
}
