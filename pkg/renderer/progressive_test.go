package renderer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"reflect"
	"testing"
)

func newTestImage(width, height int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

func TestProgressiveConfig(t *testing.T) {
	config := DefaultProgressiveConfig()

	if config.TileSize != 64 {
		t.Errorf("Expected default tile size 64, got %d", config.TileSize)
	}
	if !reflect.DeepEqual(config.BlockSizes, []int{8, 4, 2, 1}) {
		t.Errorf("Expected block sizes [8 4 2 1], got %v", config.BlockSizes)
	}
	if config.NumWorkers != 0 {
		t.Errorf("Expected auto-detected workers, got %d", config.NumWorkers)
	}
}

func TestProgressiveRaytracer_RenderPass(t *testing.T) {
	rt, mock, camera := newMockRaytracer(t, 16, 16)
	config := ProgressiveConfig{TileSize: 16, BlockSizes: []int{8, 4, 2, 1}, NumWorkers: 2}
	pr := NewProgressiveRaytracer(rt, camera, config, &testLogger{})

	// Each pass traces only block origins not traced before
	expectedTraced := []int{4, 12, 48, 192}
	for pass, expected := range expectedTraced {
		_, stats, err := pr.RenderPass(context.Background(), pass+1, nil)
		if err != nil {
			t.Fatalf("Pass %d failed: %v", pass+1, err)
		}
		if stats.TracedPixels != expected {
			t.Errorf("Pass %d: expected %d traced pixels, got %d", pass+1, expected, stats.TracedPixels)
		}
		if stats.Pass != pass+1 || stats.BlockSize != config.BlockSizes[pass] {
			t.Errorf("Pass %d: unexpected stats %+v", pass+1, stats)
		}
	}
	if mock.calls.Load() != 256 {
		t.Errorf("Expected every pixel traced exactly once, got %d calls", mock.calls.Load())
	}

	if _, _, err := pr.RenderPass(context.Background(), 5, nil); err == nil {
		t.Error("Expected error for out-of-range pass")
	}
}

func TestProgressiveRaytracer_RenderProgressive(t *testing.T) {
	rt, camera := newSceneRaytracer(t, 40, 30)
	expected, _ := rt.RenderFrame(camera)

	pr := NewProgressiveRaytracer(rt, camera, ProgressiveConfig{TileSize: 16, BlockSizes: []int{8, 2, 1}}, &testLogger{})
	passChan, tileChan, errChan := pr.RenderProgressive(context.Background(), RenderOptions{TileUpdates: true})

	tileEvents := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for tile := range tileChan {
			tileEvents++
			if tile.TotalTiles != 6 || tile.TotalPasses != 3 || tile.TileImage == nil {
				t.Errorf("Unexpected tile event %+v", tile)
			}
		}
	}()

	var passes []PassResult
	for result := range passChan {
		passes = append(passes, result)
	}
	<-done
	if err := <-errChan; err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(passes) != 3 {
		t.Fatalf("Expected 3 passes, got %d", len(passes))
	}
	for i, p := range passes {
		if p.PassNumber != i+1 || p.IsLast != (i == 2) {
			t.Errorf("Unexpected pass metadata %+v", p)
		}
	}

	// The final pass is the exact full-resolution frame
	if !bytes.Equal(passes[2].Image.Pix, expected.Pix) {
		t.Error("Final progressive pass differs from the sequential frame")
	}
	// 3 passes x 6 tiles, unless the buffer dropped some
	if tileEvents == 0 || tileEvents > 18 {
		t.Errorf("Expected between 1 and 18 tile events, got %d", tileEvents)
	}
}

func TestProgressiveRaytracer_Cancelled(t *testing.T) {
	rt, camera := newSceneRaytracer(t, 16, 16)
	pr := NewProgressiveRaytracer(rt, camera, DefaultProgressiveConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	passChan, _, errChan := pr.RenderProgressive(ctx, RenderOptions{})
	for range passChan {
		t.Error("Expected no passes after cancellation")
	}
	if err := <-errChan; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
