package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// ErrInvalidScene is returned when a scene cannot be rendered
var ErrInvalidScene = errors.New("invalid scene")

// Scene contains all the elements needed for rendering.
// It is read-only once rendering starts.
type Scene struct {
	Camera    *renderer.Camera
	Shapes    []geometry.Shape // Objects in the scene, in list order
	HitPolicy geometry.HitPolicy
	Config    integrator.Config // Depth budget, hit window and sky
}

// World returns the shapes as a single hittable list
func (s *Scene) World() *geometry.ShapeList {
	return geometry.NewShapeList(s.HitPolicy, s.Shapes...)
}

// Validate rejects scenes that would render nonsense
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return fmt.Errorf("%w: no camera", ErrInvalidScene)
	}
	if !(s.Camera.AspectRatio > 0) {
		return fmt.Errorf("%w: aspect ratio %f", ErrInvalidScene, s.Camera.AspectRatio)
	}
	for i, shape := range s.Shapes {
		if sphere, ok := shape.(*geometry.Sphere); ok && !(sphere.Radius > 0) {
			return fmt.Errorf("%w: sphere %d has radius %f", ErrInvalidScene, i, sphere.Radius)
		}
	}
	if s.Config.MaxDepth < 0 {
		return fmt.Errorf("%w: negative max depth %d", ErrInvalidScene, s.Config.MaxDepth)
	}
	if !(s.Config.TMin < s.Config.TMax) {
		return fmt.Errorf("%w: empty hit window (%f, %f)", ErrInvalidScene, s.Config.TMin, s.Config.TMax)
	}
	return nil
}
