package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/output"
)

// ErrInvalidConfig is returned when a setting is out of range
var ErrInvalidConfig = errors.New("invalid config")

// Config holds everything the CLI needs to run a render
type Config struct {
	Width           int
	AspectRatio     float64
	SamplesPerPixel int
	MaxDepth        int
	Workers         int
	Seed            int64
	HitPolicy       string // empty keeps the scene's own policy
	Shading         string // "path" or "normal"
	ScenePath       string // empty renders the built-in scene
	OutputPath      string
	ThumbnailPath   string // empty disables the preview
	ThumbnailSize   uint
	S3              output.S3Config
}

// Default returns the built-in defaults
func Default() Config {
	return Config{
		Width:           256,
		AspectRatio:     16.0 / 9.0,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Workers:         1,
		Seed:            42,
		Shading:         "path",
		OutputPath:      "result.ppm",
		ThumbnailSize:   128,
	}
}

// Load reads envFile (if it exists) into the process environment and then
// builds a Config from PT_* variables layered over the defaults.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment
func FromEnv() (Config, error) {
	cfg := Default()
	var err error

	if cfg.Width, err = getEnvInt("PT_WIDTH", cfg.Width); err != nil {
		return cfg, err
	}
	if cfg.AspectRatio, err = getEnvFloat("PT_ASPECT_RATIO", cfg.AspectRatio); err != nil {
		return cfg, err
	}
	if cfg.SamplesPerPixel, err = getEnvInt("PT_SAMPLES", cfg.SamplesPerPixel); err != nil {
		return cfg, err
	}
	if cfg.MaxDepth, err = getEnvInt("PT_MAX_DEPTH", cfg.MaxDepth); err != nil {
		return cfg, err
	}
	if cfg.Workers, err = getEnvInt("PT_WORKERS", cfg.Workers); err != nil {
		return cfg, err
	}
	seed, err := getEnvInt("PT_SEED", int(cfg.Seed))
	if err != nil {
		return cfg, err
	}
	cfg.Seed = int64(seed)
	thumb, err := getEnvInt("PT_THUMBNAIL_SIZE", int(cfg.ThumbnailSize))
	if err != nil {
		return cfg, err
	}
	if thumb < 0 {
		return cfg, fmt.Errorf("%w: PT_THUMBNAIL_SIZE=%d", ErrInvalidConfig, thumb)
	}
	cfg.ThumbnailSize = uint(thumb)

	cfg.HitPolicy = getEnv("PT_HIT_POLICY", cfg.HitPolicy)
	cfg.Shading = getEnv("PT_SHADING", cfg.Shading)
	cfg.ScenePath = getEnv("PT_SCENE", cfg.ScenePath)
	cfg.OutputPath = getEnv("PT_OUTPUT", cfg.OutputPath)
	cfg.ThumbnailPath = getEnv("PT_THUMBNAIL", cfg.ThumbnailPath)

	cfg.S3 = output.S3Config{
		Bucket:    os.Getenv("S3_BUCKET"),
		Region:    getEnv("S3_REGION", "us-east-1"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Prefix:    os.Getenv("S3_PREFIX"),
	}

	return cfg, nil
}

// Validate checks ranges and enumerations
func (c Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("%w: width %d", ErrInvalidConfig, c.Width)
	}
	if !(c.AspectRatio > 0) {
		return fmt.Errorf("%w: aspect ratio %f", ErrInvalidConfig, c.AspectRatio)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("%w: samples per pixel %d", ErrInvalidConfig, c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth %d", ErrInvalidConfig, c.MaxDepth)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := geometry.ParseHitPolicy(c.HitPolicy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Shading != "path" && c.Shading != "normal" {
		return fmt.Errorf("%w: shading %q (want path or normal)", ErrInvalidConfig, c.Shading)
	}
	if _, err := output.FormatForPath(c.OutputPath); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.ThumbnailPath != "" && c.ThumbnailSize == 0 {
		return fmt.Errorf("%w: thumbnail requested with size 0", ErrInvalidConfig)
	}
	return nil
}

// Helper to get environment variables with a default value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, value)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, value)
	}
	return f, nil
}
