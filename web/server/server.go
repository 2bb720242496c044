package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// DefaultTileSize is the tile edge used for web renders
const DefaultTileSize = 32

// Server handles web requests for the raytracer
type Server struct {
	port      int
	staticDir string
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port, staticDir: "static/"}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string  `json:"scene"`      // Scene ID as listed by /api/scenes
	Width      int     `json:"width"`      // Image width
	Height     int     `json:"height"`     // Image height
	MaxDepth   int     `json:"maxDepth"`   // Reflection recursion budget
	Gamma      float64 `json:"gamma"`      // Display gamma (1 = none)
	ShadowBias float64 `json:"shadowBias"` // Shadow ray origin offset
}

// Handler returns the HTTP routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/stream", s.handleStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and discovered scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	scenes, err := scene.ListAllScenes()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(scenes)
}

// parseCommonSceneParams parses the parameters shared by /api/render and /api/stream
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	if sceneName := query.Get("scene"); sceneName != "" {
		req.Scene = sceneName
	} else {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, 16, 2000); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", 300, 16, 2000); err != nil {
		return err
	}
	if req.MaxDepth, err = parseIntParam(query, "depth", integrator.DefaultMaxDepth, 0, 50); err != nil {
		return err
	}
	if req.Gamma, err = parseFloatParam(query, "gamma", 1, 0.1, 5); err != nil {
		return err
	}
	if req.ShadowBias, err = parseFloatParam(query, "shadowBias", 0, 0, 1); err != nil {
		return err
	}
	return nil
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
		if !(parsed >= min && parsed <= max) {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// RenderingSetup holds the per-request scene, tracer and camera
type RenderingSetup struct {
	Scene     *scene.Scene
	Raytracer *renderer.Raytracer
	Camera    *geometry.Camera
}

// createRenderingSetup builds the scene, integrator, raytracer and camera for a request
func (s *Server) createRenderingSetup(req *RenderRequest, logger core.Logger) (*RenderingSetup, error) {
	sceneObj, err := scene.CreateRegistered(req.Scene)
	if err != nil {
		return nil, err
	}
	logger.Printf("Scene %s: %d shapes, %d lights\n", req.Scene, sceneObj.GetPrimitiveCount(), len(sceneObj.Lights))

	integ, err := integrator.NewWhittedIntegrator(integrator.Config{
		MaxDepth:   req.MaxDepth,
		ShadowBias: req.ShadowBias,
	})
	if err != nil {
		return nil, err
	}

	camera, err := sceneObj.NewCamera(req.Width, req.Height)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", req.Scene, err)
	}

	rt := renderer.NewRaytracer(sceneObj, integ, req.Width, req.Height)
	rt.SetGamma(req.Gamma)

	return &RenderingSetup{Scene: sceneObj, Raytracer: rt, Camera: camera}, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := output.Encode(&buf, img, output.PNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
