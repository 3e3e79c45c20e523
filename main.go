package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/config"
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/output"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, help, err := parseFlags(os.Args[1:], cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if help {
		printHelp(os.Stdout)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Progress goes to stderr when the image itself is written to stdout
	var logger core.Logger = renderer.NewDefaultLogger()
	if cfg.OutputPath == "-" {
		logger = stderrLogger{}
	}

	if err := run(ctx, cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cliFlags binds the command line to a Config
type cliFlags struct {
	set       *flag.FlagSet
	thumbSize *uint
	help      *bool
}

func newFlagSet(cfg *config.Config) cliFlags {
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ScenePath, "scene", cfg.ScenePath, "JSON scene file (empty renders the built-in two-sphere scene)")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Image width in pixels; height follows the camera aspect ratio")
	fs.Float64Var(&cfg.AspectRatio, "aspect", cfg.AspectRatio, "Aspect ratio of the built-in scene's camera")
	fs.IntVar(&cfg.SamplesPerPixel, "samples", cfg.SamplesPerPixel, "Samples per pixel")
	fs.IntVar(&cfg.MaxDepth, "depth", cfg.MaxDepth, "Maximum number of bounces")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Render goroutines (1 = sequential, 0 = one per CPU)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")
	fs.StringVar(&cfg.HitPolicy, "hit", cfg.HitPolicy, "Hit selection: 'nearest' or 'first' (empty keeps the scene's policy)")
	fs.StringVar(&cfg.Shading, "shading", cfg.Shading, "Shading mode: 'path' or 'normal'")
	fs.StringVar(&cfg.OutputPath, "out", cfg.OutputPath, "Output file (.ppm or .png, '-' writes PPM to stdout)")
	fs.StringVar(&cfg.ThumbnailPath, "thumb", cfg.ThumbnailPath, "Optional thumbnail PNG path")

	return cliFlags{
		set:       fs,
		thumbSize: fs.Uint("thumb-size", cfg.ThumbnailSize, "Thumbnail bounding box in pixels"),
		help:      fs.Bool("help", false, "Show help information"),
	}
}

// parseFlags applies command line overrides on top of cfg
func parseFlags(args []string, cfg config.Config) (config.Config, bool, error) {
	flags := newFlagSet(&cfg)
	if err := flags.set.Parse(args); err != nil {
		return cfg, false, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	cfg.ThumbnailSize = *flags.thumbSize
	return cfg, *flags.help, nil
}

func printHelp(w io.Writer) {
	cfg := config.Default()
	flags := newFlagSet(&cfg)
	flags.set.SetOutput(w)

	fmt.Fprintln(w, "Sphere Path Tracer")
	fmt.Fprintln(w, "Usage: pathtracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	flags.set.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Settings are also read from PT_* environment variables and an optional .env file.")
	fmt.Fprintln(w, "Set S3_BUCKET (and S3_REGION, S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY, S3_PREFIX) to upload the result.")
}

// buildScene loads the scene file or the built-in scene and applies the
// render-wide overrides from cfg
func buildScene(cfg config.Config) (*scene.Scene, error) {
	var s *scene.Scene
	if cfg.ScenePath == "" {
		s = scene.NewDefaultScene()
		s.Camera = renderer.NewCamera(s.Camera.Position, cfg.AspectRatio)
	} else {
		loaded, err := scene.Load(cfg.ScenePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load scene %s: %w", cfg.ScenePath, err)
		}
		s = loaded
	}

	if cfg.HitPolicy != "" {
		policy, err := geometry.ParseHitPolicy(cfg.HitPolicy)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
		}
		s.HitPolicy = policy
	}
	s.Config.MaxDepth = cfg.MaxDepth

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// newIntegrator picks the shading mode
func newIntegrator(shading string, ic integrator.Config) (integrator.Integrator, error) {
	switch shading {
	case "", "path":
		return integrator.NewPathTracingIntegrator(ic), nil
	case "normal":
		return integrator.NewNormalShading(ic), nil
	default:
		return nil, fmt.Errorf("%w: unknown shading mode %q", config.ErrInvalidConfig, shading)
	}
}

// run renders one image according to cfg and writes it to every configured sink
func run(ctx context.Context, cfg config.Config, logger core.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s, err := buildScene(cfg)
	if err != nil {
		return err
	}
	integ, err := newIntegrator(cfg.Shading, s.Config)
	if err != nil {
		return err
	}

	renderConfig := renderer.RenderConfig{
		Width:           cfg.Width,
		Height:          s.Camera.ImageHeight(cfg.Width),
		SamplesPerPixel: cfg.SamplesPerPixel,
		NumWorkers:      cfg.Workers,
		Seed:            cfg.Seed,
	}
	raytracer, err := renderer.NewRaytracer(s.World(), s.Camera, integ, renderConfig)
	if err != nil {
		return err
	}
	raytracer.SetLogger(logger)

	logger.Printf("Rendering %dx%d, %d samples per pixel, max depth %d...\n",
		renderConfig.Width, renderConfig.Height, renderConfig.SamplesPerPixel, s.Config.MaxDepth)

	frame, stats, err := raytracer.Render(ctx)
	if err != nil {
		return err
	}
	logger.Printf("Render completed in %v (%d samples, mean noise %.4f)\n",
		stats.Duration, stats.TotalSamples, stats.MeanStdDev)

	format, err := output.FormatForPath(cfg.OutputPath)
	if err != nil {
		return err
	}
	var encoded bytes.Buffer
	if err := format.Encode(&encoded, frame); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format.Name, err)
	}
	if err := writeOutput(cfg.OutputPath, encoded.Bytes()); err != nil {
		return err
	}
	if cfg.OutputPath != "-" {
		logger.Printf("Render saved as %s\n", cfg.OutputPath)
	}

	var thumbnail bytes.Buffer
	if cfg.ThumbnailPath != "" {
		if err := output.WriteThumbnail(&thumbnail, frame, cfg.ThumbnailSize); err != nil {
			return err
		}
		if err := writeOutput(cfg.ThumbnailPath, thumbnail.Bytes()); err != nil {
			return err
		}
		logger.Printf("Thumbnail saved as %s\n", cfg.ThumbnailPath)
	}

	if !cfg.S3.Enabled() {
		return nil
	}
	s3Uploader, err := output.NewS3Uploader(cfg.S3)
	if err != nil {
		return err
	}
	return publish(ctx, s3Uploader, logger, cfg, format, encoded.Bytes(), thumbnail.Bytes())
}

// uploader is the part of output.S3Uploader the driver needs
type uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// publish uploads the image, and the thumbnail when one was produced, under
// a timestamped key
func publish(ctx context.Context, up uploader, logger core.Logger, cfg config.Config, format output.Format, image, thumbnail []byte) error {
	stamp := time.Now().UTC().Format("20060102_150405")

	key, err := up.Upload(ctx, fmt.Sprintf("render_%s.%s", stamp, format.Name), format.ContentType, image)
	if err != nil {
		return err
	}
	logger.Printf("Uploaded s3://%s/%s\n", cfg.S3.Bucket, key)

	if len(thumbnail) == 0 {
		return nil
	}
	key, err = up.Upload(ctx, fmt.Sprintf("render_%s_thumb.png", stamp), output.PNG.ContentType, thumbnail)
	if err != nil {
		return err
	}
	logger.Printf("Uploaded s3://%s/%s\n", cfg.S3.Bucket, key)
	return nil
}

// writeOutput writes data to path, creating parent directories; "-" is stdout
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// stderrLogger keeps progress output off stdout
type stderrLogger struct{}

func (stderrLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}
