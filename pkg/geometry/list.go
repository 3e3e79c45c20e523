package geometry

import (
	"fmt"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// HitPolicy selects which hit a ShapeList reports when several shapes
// intersect the same ray.
type HitPolicy int

const (
	// HitNearest reports the closest hit across all shapes
	HitNearest HitPolicy = iota
	// HitFirst reports the first shape in list order with any in-range hit,
	// matching the reference images rendered by the original tool
	HitFirst
)

func (p HitPolicy) String() string {
	switch p {
	case HitNearest:
		return "nearest"
	case HitFirst:
		return "first"
	default:
		return fmt.Sprintf("HitPolicy(%d)", int(p))
	}
}

// ParseHitPolicy parses "nearest" or "first"
func ParseHitPolicy(s string) (HitPolicy, error) {
	switch s {
	case "nearest", "":
		return HitNearest, nil
	case "first":
		return HitFirst, nil
	default:
		return HitNearest, fmt.Errorf("unknown hit policy %q (want nearest or first)", s)
	}
}

// ShapeList is an ordered, read-only collection of shapes
type ShapeList struct {
	Shapes []Shape
	Policy HitPolicy
}

// NewShapeList creates a list using the given selection policy
func NewShapeList(policy HitPolicy, shapes ...Shape) *ShapeList {
	return &ShapeList{Shapes: shapes, Policy: policy}
}

// Hit tests the ray against every shape and applies the list's policy
func (l *ShapeList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, shape := range l.Shapes {
		hit, isHit := shape.Hit(ray, tMin, closestSoFar)
		if !isHit {
			continue
		}
		if l.Policy == HitFirst {
			return hit, true
		}
		closestSoFar = hit.T
		closestHit = hit
	}

	return closestHit, closestHit != nil
}
