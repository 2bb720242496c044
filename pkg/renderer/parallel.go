package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// ParallelConfig controls tile-parallel frame rendering
type ParallelConfig struct {
	TileSize   int // Edge of each square tile in pixels (0 = DefaultTileSize)
	NumWorkers int // Number of parallel workers (0 = use CPU count)
}

// ParallelRenderer renders full frames by distributing tiles over a worker pool.
// Frames are rendered one at a time; RenderFrame must not be called concurrently.
type ParallelRenderer struct {
	raytracer *Raytracer
	config    ParallelConfig
	tiles     []*Tile
}

// NewParallelRenderer creates a parallel renderer for the raytracer's image size
func NewParallelRenderer(raytracer *Raytracer, config ParallelConfig) *ParallelRenderer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileSize
	}
	return &ParallelRenderer{
		raytracer: raytracer,
		config:    config,
		tiles:     NewTileGrid(raytracer.Width(), raytracer.Height(), config.TileSize),
	}
}

// RenderFrame renders one frame from a snapshot of camera. Cancelling ctx stops the
// frame between tiles and returns ctx.Err().
func (pr *ParallelRenderer) RenderFrame(ctx context.Context, camera *geometry.Camera) (*image.RGBA, RenderStats, error) {
	start := time.Now()
	snapshot := camera.Snapshot()

	img := image.NewRGBA(image.Rect(0, 0, pr.raytracer.Width(), pr.raytracer.Height()))
	fb := NewFrameBuffer(pr.raytracer.Width(), pr.raytracer.Height())

	stats, err := renderTiles(ctx, pr.raytracer, pr.tiles, tilePass{
		camera:     &snapshot,
		frame:      fb,
		image:      img,
		blockSize:  1,
		numWorkers: pr.config.NumWorkers,
	}, nil)
	if err != nil {
		return nil, RenderStats{}, err
	}

	stats.Pass = 1
	stats.BlockSize = 1
	stats.Duration = time.Since(start)
	return img, stats, nil
}

// tilePass describes one pass over all tiles
type tilePass struct {
	camera     *geometry.Camera
	frame      *FrameBuffer
	image      *image.RGBA
	blockSize  int
	numWorkers int
}

// renderTiles runs one pass over tiles on a fresh worker pool. onTile, if set, is called
// from the calling goroutine once per finished tile, in completion order.
func renderTiles(ctx context.Context, rt *Raytracer, tiles []*Tile, pass tilePass, onTile func(tile *Tile, completed int)) (RenderStats, error) {
	pool := NewWorkerPool(ctx, rt, len(tiles), pass.numWorkers)
	pool.Start()
	defer pool.Stop()

	for i, tile := range tiles {
		pool.SubmitTask(TileTask{
			Tile:      tile,
			TaskID:    i,
			Camera:    pass.camera,
			Frame:     pass.frame,
			Image:     pass.image,
			BlockSize: pass.blockSize,
		})
	}

	var stats RenderStats
	for i := 0; i < len(tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			return RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			return RenderStats{}, result.Error
		}

		tile := tiles[result.TaskID]
		tile.PassesCompleted++
		stats.merge(result.Stats)

		if onTile != nil {
			onTile(tile, i+1)
		}
	}

	// A cancellation that raced the last tiles still aborts the frame
	if err := ctx.Err(); err != nil {
		return RenderStats{}, err
	}
	return stats, nil
}
