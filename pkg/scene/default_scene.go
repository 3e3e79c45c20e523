package scene

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// NewDefaultScene creates the two-sphere scene: a large sphere straight
// ahead of the camera and a small one below and to the left.
func NewDefaultScene() *Scene {
	camera := renderer.NewCamera(core.NewPoint3(0, 0, 1), 16.0/9.0)
	grey := material.NewDiffuse(material.DefaultReflectance)

	return &Scene{
		Camera: camera,
		Shapes: []geometry.Shape{
			geometry.NewSphere(core.NewPoint3(0, 0, -1), 0.5, grey),
			geometry.NewSphere(core.NewPoint3(-1, -1, -1), 0.25, grey),
		},
		HitPolicy: geometry.HitNearest,
		Config:    integrator.DefaultConfig(),
	}
}
