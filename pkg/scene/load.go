package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// Description is the on-disk JSON form of a scene
type Description struct {
	Camera     CameraDescription      `json:"camera"`
	Background *BackgroundDescription `json:"background,omitempty"`
	HitPolicy  string                 `json:"hit_policy,omitempty"`
	Objects    []ObjectDescription    `json:"objects"`
}

// CameraDescription places the eye
type CameraDescription struct {
	Position    [3]float64 `json:"position"`
	AspectRatio float64    `json:"aspect_ratio"`
}

// BackgroundDescription sets the sky gradient. A missing color keeps its
// default.
type BackgroundDescription struct {
	Top    *[3]float64 `json:"top,omitempty"`
	Bottom *[3]float64 `json:"bottom,omitempty"`
}

// ObjectDescription is a single shape with its material
type ObjectDescription struct {
	Type     string               `json:"type"`
	Center   [3]float64           `json:"center"`
	Radius   float64              `json:"radius"`
	Material *MaterialDescription `json:"material,omitempty"`
}

// MaterialDescription describes surface properties
type MaterialDescription struct {
	Type        string      `json:"type"`
	Reflectance *float64    `json:"reflectance,omitempty"` // nil means DefaultReflectance, 0 is a perfect absorber
	Color       *[3]float64 `json:"color,omitempty"`       // per-channel reflectance, overrides Reflectance
}

func vec(a [3]float64) core.Vec3 {
	return core.NewVec3(a[0], a[1], a[2])
}

// Load reads a scene description from a JSON file and builds it
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	desc, err := Decode(f)
	if err != nil {
		return nil, err
	}
	return desc.Build()
}

// Decode parses a scene description
func Decode(r io.Reader) (*Description, error) {
	var desc Description
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&desc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &desc, nil
}

// Save writes a scene description to a JSON file
func Save(path string, desc *Description) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(desc); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}

// Build turns the description into a validated Scene
func (d *Description) Build() (*Scene, error) {
	aspect := d.Camera.AspectRatio
	if aspect == 0 {
		aspect = 16.0 / 9.0
	}

	policy, err := geometry.ParseHitPolicy(d.HitPolicy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}

	config := integrator.DefaultConfig()
	if bg := d.Background; bg != nil {
		if bg.Top != nil {
			config.SkyTop = vec(*bg.Top)
		}
		if bg.Bottom != nil {
			config.SkyBottom = vec(*bg.Bottom)
		}
	}

	s := &Scene{
		Camera:    renderer.NewCamera(vec(d.Camera.Position), aspect),
		Shapes:    make([]geometry.Shape, 0, len(d.Objects)),
		HitPolicy: policy,
		Config:    config,
	}

	for i, obj := range d.Objects {
		mat, err := obj.Material.build()
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		switch obj.Type {
		case "sphere":
			s.Shapes = append(s.Shapes, geometry.NewSphere(vec(obj.Center), obj.Radius, mat))
		default:
			return nil, fmt.Errorf("%w: object %d has unsupported type %q", ErrInvalidScene, i, obj.Type)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *MaterialDescription) build() (material.Material, error) {
	if m == nil {
		return material.NewDiffuse(material.DefaultReflectance), nil
	}
	switch m.Type {
	case "diffuse", "lambert", "":
		if m.Color != nil {
			return material.NewColoredDiffuse(vec(*m.Color)), nil
		}
		if m.Reflectance != nil {
			return material.NewDiffuse(*m.Reflectance), nil
		}
		return material.NewDiffuse(material.DefaultReflectance), nil
	default:
		return nil, fmt.Errorf("%w: unsupported material %q", ErrInvalidScene, m.Type)
	}
}

// DefaultDescription returns the description of NewDefaultScene
func DefaultDescription() *Description {
	grey := material.DefaultReflectance
	return &Description{
		Camera: CameraDescription{Position: [3]float64{0, 0, 1}, AspectRatio: 16.0 / 9.0},
		Objects: []ObjectDescription{
			{Type: "sphere", Center: [3]float64{0, 0, -1}, Radius: 0.5, Material: &MaterialDescription{Type: "diffuse", Reflectance: &grey}},
			{Type: "sphere", Center: [3]float64{-1, -1, -1}, Radius: 0.25, Material: &MaterialDescription{Type: "diffuse", Reflectance: &grey}},
		},
	}
}
