package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

func TestPixelStats(t *testing.T) {
	var ps PixelStats
	if ps.GetColor() != (core.Vec3{}) {
		t.Errorf("Empty pixel should be black, got %v", ps.GetColor())
	}
	if ps.Variance() != 0 {
		t.Errorf("Empty pixel should have zero variance, got %f", ps.Variance())
	}

	ps.AddSample(core.NewColor(1, 1, 1))
	ps.AddSample(core.NewColor(0, 0, 0))

	if ps.SampleCount != 2 {
		t.Errorf("Expected 2 samples, got %d", ps.SampleCount)
	}
	if got := ps.GetColor(); got != core.NewColor(0.5, 0.5, 0.5) {
		t.Errorf("Expected mean (0.5,0.5,0.5), got %v", got)
	}
	// Luminance of white is 1, of black is 0
	if math.Abs(ps.Variance()-0.25) > 1e-9 {
		t.Errorf("Expected variance 0.25, got %f", ps.Variance())
	}
}

func TestRenderStats_MergeAndFinalize(t *testing.T) {
	var a, b RenderStats
	for i := 0; i < 3; i++ {
		ps := PixelStats{}
		for s := 0; s < 4; s++ {
			ps.AddSample(core.White)
		}
		a.addPixel(&ps)
	}
	ps := PixelStats{}
	ps.AddSample(core.White)
	b.addPixel(&ps)

	a.merge(b)
	a.finalize()

	if a.TotalPixels != 4 || a.TotalSamples != 13 {
		t.Errorf("Unexpected totals %+v", a)
	}
	if math.Abs(a.AverageSamples-3.25) > 1e-12 {
		t.Errorf("Expected 3.25 average samples, got %f", a.AverageSamples)
	}
}

func TestPixelStats_AverageDividesBySampleCount(t *testing.T) {
	// 1/49 is not exact in float64, so multiplying by the reciprocal
	// would give 0.9999999999999999 here
	var ps PixelStats
	for i := 0; i < 49; i++ {
		ps.AddSample(core.White)
	}
	if got := ps.GetColor(); got != core.White {
		t.Errorf("Expected exactly white, got %v", got)
	}
}
