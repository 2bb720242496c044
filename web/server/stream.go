package server

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/df07/go-whitted-raytracer/pkg/controls"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// FrameHeaderSize is the length of the header preceding every binary frame:
// width, height and codec ID as big-endian uint32.
const FrameHeaderSize = 12

// MaxStreamAmount bounds the repeat count of a single stream command
const MaxStreamAmount = 100

const streamWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamCommand is a camera command sent by the client as a text message
type StreamCommand struct {
	Action string  `json:"action"`
	Amount float64 `json:"amount"` // Step multiplier; 0 means 1
}

// StreamError is sent as a text message when a command is rejected
type StreamError struct {
	Error string `json:"error"`
}

// streamSession owns the camera of one connection. Commands are handled on the
// connection's goroutine, so the camera only changes between frames.
type streamSession struct {
	conn     *websocket.Conn
	renderer *renderer.ParallelRenderer
	camera   *geometry.Camera
	codec    Compressor
	width    int
	height   int
	logger   core.Logger
}

// handleStream upgrades to a WebSocket and streams a frame after each command
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	codec, err := NewCompressor(r.URL.Query().Get("codec"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	logger := NewWebLogger(fmt.Sprintf("stream-%d", time.Now().UnixNano()), nil)
	setup, err := s.createRenderingSetup(req, logger)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("stream upgrade: %v", err)
		return
	}
	defer conn.Close()

	session := &streamSession{
		conn:     conn,
		renderer: renderer.NewParallelRenderer(setup.Raytracer, renderer.ParallelConfig{TileSize: DefaultTileSize}),
		camera:   setup.Camera,
		codec:    codec,
		width:    req.Width,
		height:   req.Height,
		logger:   logger,
	}
	if err := session.run(r.Context()); err != nil {
		log.Printf("stream %s: %v", r.RemoteAddr, err)
	}
}

// run sends the initial frame, then renders one frame per applied command
func (ss *streamSession) run(ctx context.Context) error {
	if err := ss.sendFrame(ctx); err != nil {
		return err
	}

	for {
		messageType, data, err := ss.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		if messageType != websocket.TextMessage {
			continue
		}

		if err := ss.applyCommand(data); err != nil {
			if err := ss.sendError(err); err != nil {
				return err
			}
			continue
		}
		if err := ss.sendFrame(ctx); err != nil {
			return err
		}
	}
}

// applyCommand decodes a JSON command and moves the camera
func (ss *streamSession) applyCommand(data []byte) error {
	var cmd StreamCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		return fmt.Errorf("invalid command: %v", err)
	}
	action, err := controls.ParseAction(cmd.Action)
	if err != nil {
		return err
	}

	amount := cmd.Amount
	if amount == 0 {
		amount = 1
	}
	if !(amount > 0 && amount <= MaxStreamAmount) {
		return fmt.Errorf("amount must be in (0, %d], got %g", MaxStreamAmount, cmd.Amount)
	}
	return controls.Apply(ss.camera, action, controls.DefaultStep().Scale(amount))
}

func (ss *streamSession) sendError(err error) error {
	payload, _ := json.Marshal(StreamError{Error: err.Error()})
	ss.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return ss.conn.WriteMessage(websocket.TextMessage, payload)
}

func (ss *streamSession) sendFrame(ctx context.Context) error {
	img, stats, err := ss.renderer.RenderFrame(ctx, ss.camera)
	if err != nil {
		return err
	}
	message, err := EncodeFrame(img, ss.codec)
	if err != nil {
		return err
	}
	ss.logger.Printf("Stream frame %dx%d in %v (%d bytes, %s)\n",
		ss.width, ss.height, stats.Duration, len(message), ss.codec.Name())

	ss.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return ss.conn.WriteMessage(websocket.BinaryMessage, message)
}

// EncodeFrame builds a binary frame message: header followed by compressed RGBA pixels
func EncodeFrame(img *image.RGBA, codec Compressor) ([]byte, error) {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	pixels := img.Pix
	if img.Stride != width*4 {
		pixels = make([]byte, 0, width*height*4)
		for y := 0; y < height; y++ {
			offset := y * img.Stride
			pixels = append(pixels, img.Pix[offset:offset+width*4]...)
		}
	}

	payload, err := codec.Compress(pixels)
	if err != nil {
		return nil, fmt.Errorf("%s compress: %w", codec.Name(), err)
	}

	message := make([]byte, FrameHeaderSize, FrameHeaderSize+len(payload))
	binary.BigEndian.PutUint32(message[0:4], uint32(width))
	binary.BigEndian.PutUint32(message[4:8], uint32(height))
	binary.BigEndian.PutUint32(message[8:12], codec.ID())
	return append(message, payload...), nil
}

// DecodeFrame reverses EncodeFrame, returning the image and the codec ID from the header
func DecodeFrame(message []byte) (*image.RGBA, uint32, error) {
	if len(message) < FrameHeaderSize {
		return nil, 0, fmt.Errorf("frame too short: %d bytes", len(message))
	}
	width := int(binary.BigEndian.Uint32(message[0:4]))
	height := int(binary.BigEndian.Uint32(message[4:8]))
	codecID := binary.BigEndian.Uint32(message[8:12])

	var codec Compressor
	for _, name := range []string{"none", "snappy", "zstd"} {
		c, err := NewCompressor(name)
		if err != nil {
			return nil, 0, err
		}
		if c.ID() == codecID {
			codec = c
			break
		}
	}
	if codec == nil {
		return nil, 0, fmt.Errorf("unknown codec id %d", codecID)
	}

	pixels, err := codec.Decompress(message[FrameHeaderSize:])
	if err != nil {
		return nil, 0, err
	}
	if len(pixels) != width*height*4 {
		return nil, 0, fmt.Errorf("frame %dx%d: expected %d pixel bytes, got %d", width, height, width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pixels)
	return img, codecID, nil
}
