package integrator

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
)

// NormalShading colors each hit by its surface normal mapped to [0,1].
// It is a debugging aid and never bounces.
type NormalShading struct {
	config Config
}

// NewNormalShading creates a normal shading integrator
func NewNormalShading(config Config) *NormalShading {
	return &NormalShading{config: config}
}

// RayColor implements Integrator
func (ns *NormalShading) RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler) core.Vec3 {
	hit, isHit := world.Hit(ray, ns.config.TMin, ns.config.TMax)
	if !isHit {
		return ns.config.Background(ray)
	}
	return core.Scale(0.5, hit.Normal.Add(core.NewVec3(1, 1, 1)))
}
