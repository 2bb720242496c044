package renderer

import (
	"context"
	"image"
	"runtime"
	"sync"

	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile      *Tile
	TaskID    int              // Index of the tile, used to route the result
	Camera    *geometry.Camera // Frame snapshot; never mutated by workers
	Frame     *FrameBuffer     // Shared frame buffer to read and write
	Image     *image.RGBA      // Shared output image to write to
	BlockSize int              // 1 renders every pixel
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
	Error  error
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	ctx         context.Context
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual tile rendering tasks
type Worker struct {
	ID          int
	raytracer   *Raytracer
	taskQueue   chan TileTask
	resultQueue chan TileResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// maxTasks bounds the number of tasks in flight; a non-positive numWorkers uses the CPU count.
// Tasks picked up after ctx is cancelled are not rendered and report ctx.Err().
func NewWorkerPool(ctx context.Context, raytracer *Raytracer, maxTasks, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		ctx:         ctx,
		taskQueue:   make(chan TileTask, maxTasks),   // Buffer for all tiles of a pass
		resultQueue: make(chan TileResult, maxTasks), // Buffer for all results of a pass
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			raytracer:   raytracer,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(wp.ctx, &wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		if err := ctx.Err(); err != nil {
			w.resultQueue <- TileResult{TaskID: task.TaskID, Error: err}
			continue
		}

		// Each tile has non-overlapping bounds, so writing to the shared frame is thread-safe
		stats := w.raytracer.RenderBlocks(task.Camera, task.Frame, task.Image, task.Tile.Bounds, task.BlockSize)

		w.resultQueue <- TileResult{
			TaskID: task.TaskID,
			Stats:  stats,
		}
	}
}
