package integrator

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// PathTracingIntegrator implements unidirectional path tracing with diffuse bounces
type PathTracingIntegrator struct {
	config   Config
	fallback material.Material // used for shapes without a material
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config Config) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		config:   config,
		fallback: material.NewDiffuse(material.DefaultReflectance),
	}
}

// RayColor computes the color for a single ray.
//
// Each bounce multiplies the running attenuation by the material's
// attenuation; the path ends black when the depth budget runs out or the
// material absorbs the ray, and ends on the sky when nothing is hit.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)

	for depth := pt.config.MaxDepth; depth > 0; depth-- {
		hit, isHit := world.Hit(ray, pt.config.TMin, pt.config.TMax)
		if !isHit {
			return throughput.MultiplyVec(pt.config.Background(ray))
		}

		mat := hit.Material
		if mat == nil {
			mat = pt.fallback
		}

		scatter, didScatter := mat.Scatter(ray, *hit, sampler)
		if !didScatter {
			return core.Black
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	// Bounce limit exceeded, no more light is gathered
	return core.Black
}
