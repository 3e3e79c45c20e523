package renderer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
)

// ErrInvalidDimensions is returned for non-positive image sizes or sample counts
var ErrInvalidDimensions = errors.New("invalid render dimensions")

// RenderConfig contains rendering configuration
type RenderConfig struct {
	Width           int   // Image width in pixels
	Height          int   // Image height in pixels
	SamplesPerPixel int   // Number of rays per pixel
	NumWorkers      int   // 1 renders sequentially from a single random source, 0 uses the CPU count
	Seed            int64 // Seed for the random sources
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:           256,
		Height:          144,
		SamplesPerPixel: 100,
		NumWorkers:      1,
		Seed:            42, // Deterministic for testing
	}
}

// Validate checks that the configuration describes a renderable image
func (c RenderConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("%w: %d samples per pixel", ErrInvalidDimensions, c.SamplesPerPixel)
	}
	return nil
}

// Raytracer drives the pixel loop: it asks the camera for jittered rays,
// shades them with the integrator and averages the samples of each pixel.
type Raytracer struct {
	world      geometry.Shape
	camera     *Camera
	integrator integrator.Integrator
	config     RenderConfig
	logger     core.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(world geometry.Shape, camera *Camera, integ integrator.Integrator, config RenderConfig) (*Raytracer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Raytracer{
		world:      world,
		camera:     camera,
		integrator: integ,
		config:     config,
		logger:     core.NopLogger{},
	}, nil
}

// SetLogger sets where progress is reported; nil silences it
func (rt *Raytracer) SetLogger(logger core.Logger) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	rt.logger = logger
}

// Render renders the whole image. The context is checked between rows.
func (rt *Raytracer) Render(ctx context.Context) (*Frame, RenderStats, error) {
	start := time.Now()
	frame := NewFrame(rt.config.Width, rt.config.Height)

	workers := rt.config.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var stats RenderStats
	var err error
	if workers == 1 {
		stats, err = rt.renderSequential(ctx, frame)
	} else {
		stats, err = rt.renderParallel(ctx, frame, workers)
	}
	if err != nil {
		return nil, stats, fmt.Errorf("render aborted: %w", err)
	}

	stats.Workers = workers
	stats.Duration = time.Since(start)
	stats.finalize()

	rt.logger.Printf("\nRendered %dx%d, %.1f samples per pixel in %v\n",
		rt.config.Width, rt.config.Height, stats.AverageSamples, stats.Duration)
	return frame, stats, nil
}

// renderSequential visits rows top to bottom and pixels left to right,
// drawing every random number from one sampler.
func (rt *Raytracer) renderSequential(ctx context.Context, frame *Frame) (RenderStats, error) {
	sampler := core.NewSeededSampler(rt.config.Seed)
	var stats RenderStats

	for j := rt.config.Height - 1; j >= 0; j-- {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		rt.logger.Printf("\rScanlines remaining: %d ", j+1)
		stats.merge(rt.renderRow(j, frame.Row(rt.config.Height-1-j), sampler))
	}

	return stats, nil
}

// renderParallel hands one row per task to a worker pool. Each row gets
// its own random source so the image does not depend on scheduling.
func (rt *Raytracer) renderParallel(ctx context.Context, frame *Frame, workers int) (RenderStats, error) {
	pool := NewWorkerPool(rt, workers, rt.config.Height)
	pool.Start()

	for j := rt.config.Height - 1; j >= 0; j-- {
		pool.SubmitTask(RowTask{
			Ctx:    ctx,
			Row:    j,
			Pixels: frame.Row(rt.config.Height - 1 - j),
			Seed:   rowSeed(rt.config.Seed, j),
		})
	}
	pool.Stop()

	var stats RenderStats
	var firstErr error
	remaining := rt.config.Height
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		remaining--
		rt.logger.Printf("\rScanlines remaining: %d ", remaining)
		stats.merge(result.Stats)
	}

	return stats, firstErr
}

// renderRow renders film row j (row 0 is the bottom of the film) into pixels
func (rt *Raytracer) renderRow(j int, pixels []core.Vec3, sampler core.Sampler) RenderStats {
	var stats RenderStats
	for i := 0; i < rt.config.Width; i++ {
		var ps PixelStats
		rt.samplePixel(i, j, &ps, sampler)
		pixels[i] = ps.GetColor()
		stats.addPixel(&ps)
	}
	return stats
}

// samplePixel averages SamplesPerPixel rays jittered inside pixel (i, j)
func (rt *Raytracer) samplePixel(i, j int, ps *PixelStats, sampler core.Sampler) {
	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		u := (float64(i) + sampler.Get1D()) / float64(rt.config.Width)
		v := (float64(j) + sampler.Get1D()) / float64(rt.config.Height)

		ray := rt.camera.GetRay(u, v)
		ps.AddSample(rt.integrator.RayColor(ray, rt.world, sampler))
	}
}

// rowSeed derives an independent seed for one row
func rowSeed(seed int64, row int) int64 {
	return seed*1_000_003 + int64(row)
}
