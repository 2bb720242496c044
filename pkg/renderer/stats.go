package renderer

import (
	"image"
	"time"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels  int           // Pixels covered by the render
	TracedPixels int           // Primary rays actually traced
	Pass         int           // Progressive pass number (1 for single frames)
	BlockSize    int           // Block edge in pixels; 1 means full resolution
	Duration     time.Duration // Wall time
}

// merge accumulates pixel counts from a tile into the frame totals
func (s *RenderStats) merge(tile RenderStats) {
	s.TotalPixels += tile.TotalPixels
	s.TracedPixels += tile.TracedPixels
}

// RaysPerSecond returns the primary-ray throughput
func (s RenderStats) RaysPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TracedPixels) / s.Duration.Seconds()
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an image in [0,1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	var total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 65535.0
		}
	}
	return total / float64(pixels)
}
