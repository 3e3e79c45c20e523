package renderer

import (
	"math"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of samples taken
	AverageSamples  float64       // Average samples per pixel
	MeanStdDev      float64       // Mean per-pixel luminance standard deviation
	Workers         int           // Goroutines used
	Duration        time.Duration // Wall time of the render
	stdDevAccum     float64
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator for noise estimate
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Divide(float64(ps.SampleCount))
}

// Variance returns the luminance variance of the samples taken so far
func (ps *PixelStats) Variance() float64 {
	if ps.SampleCount == 0 {
		return 0
	}
	n := float64(ps.SampleCount)
	mean := ps.LuminanceAccum / n
	return math.Max(0, ps.LuminanceSqAccum/n-mean*mean)
}

// addPixel folds a finished pixel into the totals
func (s *RenderStats) addPixel(ps *PixelStats) {
	s.TotalPixels++
	s.TotalSamples += ps.SampleCount
	s.stdDevAccum += math.Sqrt(ps.Variance())
}

// merge folds another partial result into s
func (s *RenderStats) merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
	s.stdDevAccum += other.stdDevAccum
}

// finalize calculates final statistics after all pixels are rendered
func (s *RenderStats) finalize() {
	if s.TotalPixels == 0 {
		return
	}
	s.AverageSamples = float64(s.TotalSamples) / float64(s.TotalPixels)
	s.MeanStdDev = s.stdDevAccum / float64(s.TotalPixels)
}
