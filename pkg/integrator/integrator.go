package integrator

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along ray. The sampler is
	// owned by the caller's goroutine for the duration of the call.
	RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler) core.Vec3
}

// Config holds the per-render constants used by the integrators
type Config struct {
	MaxDepth  int       // Bounce budget; a ray at depth <= 0 gathers nothing
	TMin      float64   // Lower bound of the hit window, suppresses self-intersection
	TMax      float64   // Upper bound of the hit window
	SkyTop    core.Vec3 // Background color for rays pointing straight up
	SkyBottom core.Vec3 // Background color for rays pointing straight down
}

// DefaultConfig returns the standard hit window and sky
func DefaultConfig() Config {
	return Config{
		MaxDepth:  50,
		TMin:      0.001,
		TMax:      200.0,
		SkyTop:    core.NewColor(0.5, 0.7, 1.0),
		SkyBottom: core.White,
	}
}

// Background returns the sky gradient for a ray that escapes the scene.
// The blend factor depends only on the normalized direction's y component.
func (c Config) Background(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	return c.SkyBottom.Lerp(c.SkyTop, t)
}
