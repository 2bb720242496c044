package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this tile
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`  // Current tile number in this pass (1-based)
	TotalTiles  int    `json:"totalTiles"`  // Total number of tiles in the image
	TotalPasses int    `json:"totalPasses"` // Total number of passes planned
}

// PassUpdate is sent when a progressive pass finishes
type PassUpdate struct {
	Event          string `json:"event"`
	PassNumber     int    `json:"passNumber"`
	TotalPasses    int    `json:"totalPasses"`
	BlockSize      int    `json:"blockSize"`
	ElapsedMs      int64  `json:"elapsedMs"`
	TotalPixels    int    `json:"totalPixels"`
	TracedPixels   int    `json:"tracedPixels"`
	PrimitiveCount int    `json:"primitiveCount"`
	ImageData      string `json:"imageData"` // Base64 encoded PNG of the whole frame
	IsComplete     bool   `json:"isComplete"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "passComplete", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderingPipeline contains the configured setup and progressive raytracer
type RenderingPipeline struct {
	*RenderingSetup
	Progressive *renderer.ProgressiveRaytracer
}

// handleRender handles progressive rendering with real-time tile streaming via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	// The writer follows the client connection; everything else stops when the handler returns
	ctx, cancel := context.WithCancel(r.Context())

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, r.Context(), sseEventChan)
	}()

	// Setup console logging and streaming. The console channel is never closed since
	// render goroutines may still log after cancellation.
	consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	defer func() {
		cancel()
		<-consoleDone
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	startTime := time.Now()
	renderOptions := renderer.RenderOptions{TileUpdates: true}
	passChan, tileChan, errChan := pipeline.Progressive.RenderProgressive(ctx, renderOptions)

	s.handleRenderingEvents(ctx, sseEventChan, passChan, tileChan, errChan, pipeline, startTime)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}

			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards web logger output as console events
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for {
		select {
		case consoleMsg, ok := <-consoleChan:
			if !ok {
				return
			}

			data, err := json.Marshal(consoleMsg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}

			select {
			case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
			case <-ctx.Done():
				return
			default:
				// Channel full, skip message to avoid blocking
			}

		case <-ctx.Done():
			return
		}
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	if req.Width*req.Height > 1600*1200 && req.MaxDepth > 20 {
		log.Printf("Render warning: Large image with deep reflections may render slowly")
	}
	return req, nil
}

// setupRenderingPipeline creates the scene, raytracer and progressive renderer
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	setup, err := s.createRenderingSetup(req, logger)
	if err != nil {
		return nil, err
	}

	config := renderer.DefaultProgressiveConfig()
	config.TileSize = DefaultTileSize

	return &RenderingPipeline{
		RenderingSetup: setup,
		Progressive:    renderer.NewProgressiveRaytracer(setup.Raytracer, setup.Camera, config, logger),
	}, nil
}

// handleRenderingEvents processes the main rendering event loop
func (s *Server) handleRenderingEvents(ctx context.Context, sseEventChan chan SSEEvent,
	passChan <-chan renderer.PassResult, tileChan <-chan renderer.TileCompletionResult, errChan <-chan error,
	pipeline *RenderingPipeline, startTime time.Time) {

	for passChan != nil || tileChan != nil {
		select {
		case passResult, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			s.handlePassComplete(ctx, sseEventChan, passResult, pipeline, startTime)

		case tileResult, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			s.handleTileUpdate(ctx, sseEventChan, tileResult)

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}

	// Both channels are closed; errChan now holds the outcome
	if err, ok := <-errChan; ok && err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// handlePassComplete processes and sends pass completion events
func (s *Server) handlePassComplete(ctx context.Context, sseEventChan chan SSEEvent, passResult renderer.PassResult, pipeline *RenderingPipeline, startTime time.Time) {
	imageData, err := s.imageToBase64PNG(passResult.Image)
	if err != nil {
		log.Printf("Error encoding pass %d image: %v", passResult.PassNumber, err)
		return
	}

	passUpdate := PassUpdate{
		Event:          "passComplete",
		PassNumber:     passResult.PassNumber,
		TotalPasses:    pipeline.Progressive.PassCount(),
		BlockSize:      passResult.Stats.BlockSize,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		TotalPixels:    passResult.Stats.TotalPixels,
		TracedPixels:   passResult.Stats.TracedPixels,
		PrimitiveCount: pipeline.Scene.GetPrimitiveCount(),
		ImageData:      imageData,
		IsComplete:     passResult.IsLast,
	}

	data, err := json.Marshal(passUpdate)
	if err != nil {
		log.Printf("Error marshaling pass update: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "passComplete", Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleTileUpdate processes and sends tile update events
func (s *Server) handleTileUpdate(ctx context.Context, sseEventChan chan SSEEvent, tileResult renderer.TileCompletionResult) {
	tileData, err := s.imageToBase64PNG(tileResult.TileImage)
	if err != nil {
		log.Printf("Error encoding tile image (%d, %d): %v", tileResult.TileX, tileResult.TileY, err)
		return
	}

	update := TileUpdate{
		TileX:       tileResult.TileX,
		TileY:       tileResult.TileY,
		ImageData:   tileData,
		PassNumber:  tileResult.PassNumber,
		TileNumber:  tileResult.TileNumber,
		TotalTiles:  tileResult.TotalTiles,
		TotalPasses: tileResult.TotalPasses,
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling tile update: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "tile", Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
	}
}
