package renderer

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Raytracer maps pixels to screen coordinates, traces them with an integrator and
// converts the result to 8-bit color. It holds no per-frame state and is safe for
// concurrent use on non-overlapping regions.
type Raytracer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	width      int
	height     int
	gamma      float64
}

// NewRaytracer creates a new raytracer
func NewRaytracer(s *scene.Scene, integ integrator.Integrator, width, height int) *Raytracer {
	return &Raytracer{
		scene:      s,
		integrator: integ,
		width:      width,
		height:     height,
		gamma:      1,
	}
}

// SetGamma sets the display gamma. Values <= 1 disable gamma correction.
func (rt *Raytracer) SetGamma(gamma float64) {
	rt.gamma = gamma
}

// Width returns the image width in pixels
func (rt *Raytracer) Width() int { return rt.width }

// Height returns the image height in pixels
func (rt *Raytracer) Height() int { return rt.height }

// Scene returns the scene being rendered
func (rt *Raytracer) Scene() *scene.Scene { return rt.scene }

// PixelToScreen maps the center of pixel (i, j) to normalized screen coordinates.
// x grows to the right and y grows upward; both lie strictly inside (-1, 1).
func PixelToScreen(i, j, width, height int) (x, y float64) {
	x = 2*(float64(i)+0.5)/float64(width) - 1
	y = 1 - 2*(float64(j)+0.5)/float64(height)
	return x, y
}

// TracePixel returns the linear color for pixel (i, j)
func (rt *Raytracer) TracePixel(camera *geometry.Camera, i, j int) core.Vec3 {
	x, y := PixelToScreen(i, j, rt.width, rt.height)
	return rt.integrator.PixelColor(camera, rt.scene, x, y)
}

// RenderFrame renders the whole image sequentially
func (rt *Raytracer) RenderFrame(camera *geometry.Camera) (*image.RGBA, RenderStats) {
	start := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	stats := rt.RenderBounds(camera, NewFrameBuffer(rt.width, rt.height), img, img.Bounds())
	stats.Pass = 1
	stats.Duration = time.Since(start)
	return img, stats
}

// RenderBounds traces every pixel inside bounds into img
func (rt *Raytracer) RenderBounds(camera *geometry.Camera, fb *FrameBuffer, img *image.RGBA, bounds image.Rectangle) RenderStats {
	return rt.RenderBlocks(camera, fb, img, bounds, 1)
}

// RenderBlocks traces one pixel per blockSize×blockSize block inside bounds and fills
// the block with its color. Blocks are aligned to the top-left corner of bounds.
// Pixels already traced in fb are reused instead of traced again.
func (rt *Raytracer) RenderBlocks(camera *geometry.Camera, fb *FrameBuffer, img *image.RGBA, bounds image.Rectangle, blockSize int) RenderStats {
	blockSize = max(1, blockSize)
	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		BlockSize:   blockSize,
	}

	for by := bounds.Min.Y; by < bounds.Max.Y; by += blockSize {
		for bx := bounds.Min.X; bx < bounds.Max.X; bx += blockSize {
			c, traced := fb.Get(bx, by)
			if !traced {
				c = rt.TracePixel(camera, bx, by)
				fb.Set(bx, by, c)
				stats.TracedPixels++
			}

			rgba := rt.vec3ToColor(c)
			x1 := min(bx+blockSize, bounds.Max.X)
			y1 := min(by+blockSize, bounds.Max.Y)
			for y := by; y < y1; y++ {
				for x := bx; x < x1; x++ {
					img.SetRGBA(x, y, rgba)
				}
			}
		}
	}

	return stats
}

// vec3ToColor converts a linear color to RGBA with optional gamma correction and clamping
func (rt *Raytracer) vec3ToColor(colorVec core.Vec3) color.RGBA {
	return ToRGBA(colorVec, rt.gamma)
}

// ToRGBA converts a linear color to 8-bit RGBA: optional gamma (applied when gamma > 1),
// clamp to [0,1] and scale by 255.9 so that 1.0 maps to 255. NaN channels become 0.
func ToRGBA(colorVec core.Vec3, gamma float64) color.RGBA {
	if gamma > 1 {
		colorVec = colorVec.GammaCorrect(gamma)
	}
	return color.RGBA{
		R: channelToByte(colorVec.X),
		G: channelToByte(colorVec.Y),
		B: channelToByte(colorVec.Z),
		A: 255,
	}
}

func channelToByte(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(max(0, min(1, v)) * 255.9)
}

// FrameBuffer holds the linear color of every traced pixel of one frame.
// Regions written by different goroutines must not overlap.
type FrameBuffer struct {
	Width  int
	Height int
	colors []core.Vec3
	traced []bool
}

// NewFrameBuffer creates an empty frame buffer
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		colors: make([]core.Vec3, width*height),
		traced: make([]bool, width*height),
	}
}

// Get returns the color of pixel (x, y) and whether it has been traced
func (fb *FrameBuffer) Get(x, y int) (core.Vec3, bool) {
	i := y*fb.Width + x
	return fb.colors[i], fb.traced[i]
}

// Set stores the traced color of pixel (x, y)
func (fb *FrameBuffer) Set(x, y int, c core.Vec3) {
	i := y*fb.Width + x
	fb.colors[i] = c
	fb.traced[i] = true
}
