package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

const tolerance = 1e-9

func vecNear(a, b core.Vec3) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "unnormalized direction scales t",
			rayOrigin:      core.NewVec3(0, 3, 0),
			rayDirection:   core.NewVec3(0, -4, 0),
			expectedT:      0.5,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > tolerance {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			if !vecNear(hit.Normal, tt.expectedNormal) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestSphere_Hit_TangentIsMiss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	// Discriminant is exactly zero for this ray
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected tangent ray to miss, got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	// Test tMax bound
	hit, isHit := sphere.Hit(ray, 0.001, 0.5)
	if isHit {
		t.Errorf("Expected miss due to tMax bound, but got hit at t=%f", hit.T)
	}

	// Test tMin bound
	hit, isHit = sphere.Hit(ray, 3.5, 1000.0)
	if isHit {
		t.Errorf("Expected miss due to tMin bound, but got hit at t=%f", hit.T)
	}

	// Endpoints are excluded
	hit, isHit = sphere.Hit(ray, 0.001, 1.0)
	if isHit {
		t.Errorf("Expected t=1 to be excluded by tMax=1, got hit at t=%f", hit.T)
	}

	// Near root excluded, far root accepted
	hit, isHit = sphere.Hit(ray, 1.0, 1000.0)
	if !isHit {
		t.Fatal("Expected far root to be accepted")
	}
	if math.Abs(hit.T-3.0) > tolerance {
		t.Errorf("Expected far root t=3, got %f", hit.T)
	}
	if hit.FrontFace {
		t.Error("Far root is an exit point and should not be a front face")
	}
}

func TestSphere_Hit_ClosestIntersection(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	if math.Abs(hit.T-1.0) > tolerance {
		t.Errorf("Expected closest intersection t=1.0, got t=%f", hit.T)
	}
}

func TestSphere_Hit_NonPositiveRadius(t *testing.T) {
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	for _, radius := range []float64{0, -0.5, math.NaN()} {
		sphere := NewSphere(core.NewVec3(0, 0, 0), radius, nil)
		if _, isHit := sphere.Hit(ray, 0.001, 1000.0); isHit {
			t.Errorf("Sphere with radius %f should never be hit", radius)
		}
	}
}

func TestSphere_Hit_ZeroDirection(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.Vec3{})

	if _, isHit := sphere.Hit(ray, 0.001, 1000.0); isHit {
		t.Error("Degenerate ray should not hit")
	}
}

// Rays aimed through random interior points always hit on the surface
func TestSphere_Hit_RandomInteriorRays(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	center := core.NewVec3(1, -2, 0.5)
	radius := 1.5
	sphere := NewSphere(center, radius, nil)

	randomUnit := func() core.Vec3 {
		return core.SampleUnitVector(core.NewVec2(random.Float64(), random.Float64()))
	}

	for i := 0; i < 2000; i++ {
		var origin, direction core.Vec3
		originOutside := i%2 == 0
		if originOutside {
			origin = center.Add(randomUnit().Multiply(radius + 2 + random.Float64()*8))
			interior := center.Add(randomUnit().Multiply(radius * 0.9 * random.Float64()))
			direction = interior.Subtract(origin)
		} else {
			origin = center.Add(randomUnit().Multiply(radius * 0.5 * random.Float64()))
			direction = randomUnit().Multiply(0.5 + random.Float64())
		}
		ray := core.NewRay(origin, direction)

		hit, isHit := sphere.Hit(ray, 0.001, 200.0)
		if !isHit {
			t.Fatalf("Ray %d from %v along %v missed", i, origin, direction)
		}
		if !(hit.T > 0.001 && hit.T < 200.0) {
			t.Fatalf("Hit t=%f outside window", hit.T)
		}
		if d := hit.Point.Subtract(center).Length(); math.Abs(d-radius) > 1e-6 {
			t.Fatalf("Hit point %v is %f from center, expected %f", hit.Point, d, radius)
		}
		if ray.Direction.Dot(hit.Normal) > 0 {
			t.Fatalf("Normal %v does not oppose ray direction %v", hit.Normal, ray.Direction)
		}
		if hit.FrontFace != originOutside {
			t.Fatalf("FrontFace=%t but origin outside=%t", hit.FrontFace, originOutside)
		}
		if math.Abs(hit.Normal.Length()-1.0) > 1e-9 {
			t.Fatalf("Normal %v is not unit length", hit.Normal)
		}
	}
}

// Rays whose closest approach exceeds the radius always miss
func TestSphere_Hit_RandomMissingRays(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	center := core.NewVec3(0, 0, -1)
	radius := 0.5
	sphere := NewSphere(center, radius, nil)

	for i := 0; i < 1000; i++ {
		direction := core.SampleUnitVector(core.NewVec2(random.Float64(), random.Float64()))
		// Any vector perpendicular to direction
		perp := direction.Cross(core.NewVec3(0, 1, 0))
		if perp.LengthSquared() < 1e-6 {
			perp = direction.Cross(core.NewVec3(1, 0, 0))
		}
		closest := center.Add(perp.Normalize().Multiply(radius * (1.01 + random.Float64())))
		origin := closest.Subtract(direction.Multiply(5 + random.Float64()*5))
		ray := core.NewRay(origin, direction)

		if hit, isHit := sphere.Hit(ray, 0.001, 200.0); isHit {
			t.Fatalf("Ray %d passing outside the sphere reported a hit at t=%f", i, hit.T)
		}
	}
}

func TestSphere_Hit_Idempotent(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0.3, 0.1, -1), 0.5, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0.1, 0.05, -1))

	first, ok1 := sphere.Hit(ray, 0.001, 200.0)
	second, ok2 := sphere.Hit(ray, 0.001, 200.0)
	if !ok1 || !ok2 {
		t.Fatal("Expected both queries to hit")
	}
	if *first != *second {
		t.Errorf("Repeated queries differ: %+v vs %+v", *first, *second)
	}
}
