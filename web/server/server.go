package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/output"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// Server renders images on request
type Server struct {
	port    int
	console chan ConsoleMessage
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{
		port:    port,
		console: make(chan ConsoleMessage, 100),
	}
}

// RenderRequest holds the parsed query parameters of a render
type RenderRequest struct {
	Width           int
	AspectRatio     float64
	SamplesPerPixel int
	MaxDepth        int
	Seed            int64
	HitPolicy       *geometry.HitPolicy // nil keeps the scene's own policy
	Shading         string
	Format          output.Format
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/scene", s.handleScene)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	go s.drainConsole()

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// drainConsole copies render progress into the server log
func (s *Server) drainConsole() {
	for msg := range s.console {
		if text := strings.TrimSpace(msg.Message); text != "" {
			log.Printf("[%s] %s", msg.RenderID, text)
		}
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScene returns the built-in scene as a JSON description, a starting
// point for POSTing custom scenes to /api/render
func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(scene.DefaultDescription())
}

// handleRender renders the built-in scene (GET) or a JSON scene description
// (POST) and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	var sceneObj *scene.Scene
	switch r.Method {
	case http.MethodGet:
		sceneObj = scene.NewDefaultScene()
		sceneObj.Camera = renderer.NewCamera(sceneObj.Camera.Position, req.AspectRatio)
	case http.MethodPost:
		desc, err := scene.Decode(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if sceneObj, err = desc.Build(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if req.HitPolicy != nil {
		sceneObj.HitPolicy = *req.HitPolicy
	}
	sceneObj.Config.MaxDepth = req.MaxDepth

	var integ integrator.Integrator = integrator.NewPathTracingIntegrator(sceneObj.Config)
	if req.Shading == "normal" {
		integ = integrator.NewNormalShading(sceneObj.Config)
	}

	raytracer, err := renderer.NewRaytracer(sceneObj.World(), sceneObj.Camera, integ, renderer.RenderConfig{
		Width:           req.Width,
		Height:          sceneObj.Camera.ImageHeight(req.Width),
		SamplesPerPixel: req.SamplesPerPixel,
		NumWorkers:      0, // Auto-detect
		Seed:            req.Seed,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	raytracer.SetLogger(NewWebLogger(renderID, s.console))

	// Use request context to stop rendering when the client disconnects
	frame, stats, err := raytracer.Render(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, r.Context().Err()) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), status)
		return
	}

	var buf bytes.Buffer
	if err := req.Format.Encode(&buf, frame); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode image: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", req.Format.ContentType)
	w.Header().Set("X-Render-Id", renderID)
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.Header().Set("X-Render-Duration-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// parseRenderRequest parses and validates the query parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.AspectRatio, err = parseFloatParam(values, "aspect", 16.0/9.0, 0.1, 10); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(values, "samples", 16, 1, 10000); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "depth", 50, 0, 1000); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(values, "seed", 42, 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)

	if hit := values.Get("hit"); hit != "" {
		policy, err := geometry.ParseHitPolicy(hit)
		if err != nil {
			return nil, err
		}
		req.HitPolicy = &policy
	}

	req.Shading = values.Get("shading")
	switch req.Shading {
	case "":
		req.Shading = "path"
	case "path", "normal":
	default:
		return nil, fmt.Errorf("shading must be path or normal, got: %s", req.Shading)
	}

	format := values.Get("format")
	if format == "" {
		format = "png"
	}
	if req.Format, err = output.FormatForPath("render." + format); err != nil {
		return nil, err
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
