package material

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// DefaultReflectance is the grey reflectance used when none is given
const DefaultReflectance = 0.5

// Diffuse approximates a matte surface: each bounce heads toward a random
// point on the unit sphere centred one normal-length above the hit point.
type Diffuse struct {
	Reflectance core.Vec3 // Per-channel fraction of gathered light that is kept
}

// NewDiffuse creates a grey diffuse material with the given reflectance
func NewDiffuse(reflectance float64) *Diffuse {
	return &Diffuse{Reflectance: core.NewVec3(reflectance, reflectance, reflectance)}
}

// NewColoredDiffuse creates a diffuse material with per-channel reflectance
func NewColoredDiffuse(reflectance core.Vec3) *Diffuse {
	return &Diffuse{Reflectance: reflectance}
}

// Scatter implements the Material interface
func (d *Diffuse) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	target := hit.Point.Add(hit.Normal).Add(core.RandomUnitVector(sampler))
	direction := target.Subtract(hit.Point)

	// The sample landed exactly opposite the normal
	if direction.IsZero() {
		direction = hit.Normal
	}

	scattered := core.NewRay(hit.Point, direction)

	return ScatterResult{
		Scattered:   scattered,
		Attenuation: d.Reflectance,
	}, true
}
