package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize   int   // Size of each tile (64x64 recommended)
	BlockSizes []int // Block edge per pass, coarse to fine; the last should be 1
	NumWorkers int   // Number of parallel workers (0 = use CPU count)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:   DefaultTileSize,
		BlockSizes: []int{8, 4, 2, 1},
		NumWorkers: 0, // Auto-detect CPU count
	}
}

// ProgressiveRaytracer renders a frame as a sequence of passes, each tracing one pixel
// per block and filling the block. Pixels traced in earlier passes are reused.
type ProgressiveRaytracer struct {
	raytracer   *Raytracer
	camera      geometry.Camera // Snapshot taken at construction
	config      ProgressiveConfig
	tiles       []*Tile
	frame       *FrameBuffer
	currentPass int
	logger      core.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer for one camera pose
func NewProgressiveRaytracer(raytracer *Raytracer, camera *geometry.Camera, config ProgressiveConfig, logger core.Logger) *ProgressiveRaytracer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileSize
	}
	if len(config.BlockSizes) == 0 {
		config.BlockSizes = DefaultProgressiveConfig().BlockSizes
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	return &ProgressiveRaytracer{
		raytracer: raytracer,
		camera:    camera.Snapshot(),
		config:    config,
		tiles:     NewTileGrid(raytracer.Width(), raytracer.Height(), config.TileSize),
		frame:     NewFrameBuffer(raytracer.Width(), raytracer.Height()),
		logger:    logger,
	}
}

// PassCount returns the number of passes RenderProgressive will run
func (pr *ProgressiveRaytracer) PassCount() int {
	return len(pr.config.BlockSizes)
}

// RenderPass renders a single progressive pass using parallel processing
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	if passNumber < 1 || passNumber > pr.PassCount() {
		return nil, RenderStats{}, fmt.Errorf("pass %d out of range [1, %d]", passNumber, pr.PassCount())
	}
	pr.currentPass = passNumber
	blockSize := pr.config.BlockSizes[passNumber-1]

	pr.logger.Printf("Pass %d: block size %d (%d tiles)...\n", passNumber, blockSize, len(pr.tiles))

	start := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, pr.raytracer.Width(), pr.raytracer.Height()))

	var onTile func(tile *Tile, completed int)
	if tileCallback != nil {
		onTile = func(tile *Tile, completed int) {
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / pr.config.TileSize,
				TileY:       tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:   extractTile(img, tile.Bounds),
				PassNumber:  passNumber,
				TileNumber:  completed,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.PassCount(),
			})
		}
	}

	stats, err := renderTiles(ctx, pr.raytracer, pr.tiles, tilePass{
		camera:     &pr.camera,
		frame:      pr.frame,
		image:      img,
		blockSize:  blockSize,
		numWorkers: pr.config.NumWorkers,
	}, onTile)
	if err != nil {
		return nil, RenderStats{}, err
	}

	stats.Pass = passNumber
	stats.BlockSize = blockSize
	stats.Duration = time.Since(start)
	return img, stats, nil
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *image.RGBA // Image data for just this tile
	PassNumber int         // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive renders with channel-based communication (idiomatic Go)
// Returns channels for events. The caller should read from these channels in separate goroutines.
// If options.TileUpdates is false, the tile channel will be closed immediately and no tile events will be generated.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100) // Buffer for tiles
	errChan := make(chan error, 1)

	// If tile updates are disabled, close the channel immediately
	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.PassCount())

		for pass := 1; pass <= pr.PassCount(); pass++ {
			// Check if client disconnected before starting this pass
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Channel full; the pass image still carries this tile
					}
				}
			}

			img, stats, err := pr.RenderPass(ctx, pass, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			pr.logger.Printf("Pass %d completed in %v (%d of %d pixels traced)\n",
				pass, stats.Duration, stats.TracedPixels, stats.TotalPixels)

			result := PassResult{
				PassNumber: pass,
				Image:      img,
				Stats:      stats,
				IsLast:     pass == pr.PassCount(),
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				return
			}
		}
	}()

	return passChan, tileChan, errChan
}
