package loaders

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/ftrvxmtrx/tga"
)

// ImageData contains loaded image data as Vec3 color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// At returns the color of pixel (x, y)
func (d *ImageData) At(x, y int) core.Vec3 {
	return d.Pixels[y*d.Width+x]
}

// LoadImage loads a PNG, JPEG or TGA image and converts it to a Vec3 color array.
// The decoder is chosen by file extension; TGA files carry no magic number to sniff.
func LoadImage(filename string) (*ImageData, error) {
	decode, err := decoderFor(filename)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, err := decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}
	return FromImage(img), nil
}

func decoderFor(filename string) (func(io.Reader) (image.Image, error), error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return png.Decode, nil
	case ".jpg", ".jpeg":
		return jpeg.Decode, nil
	case ".tga":
		return tga.Decode, nil
	default:
		return nil, fmt.Errorf("unsupported image extension %q", filepath.Ext(filename))
	}
}

// FromImage converts any image to a Vec3 color array in [0,1]
func FromImage(img image.Image) *ImageData {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			pixels[y*width+x] = core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// ErrSizeMismatch is returned when comparing images of different dimensions
var ErrSizeMismatch = errors.New("image dimensions differ")

// MeanAbsoluteDifference returns the mean per-channel absolute difference between
// two images, in [0,1]. Zero means identical.
func MeanAbsoluteDifference(img, ref *ImageData) (float64, error) {
	if img.Width != ref.Width || img.Height != ref.Height {
		return 0, fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, img.Width, img.Height, ref.Width, ref.Height)
	}
	if len(img.Pixels) == 0 {
		return 0, nil
	}

	var sum float64
	for i, p := range img.Pixels {
		q := ref.Pixels[i]
		sum += math.Abs(p.X-q.X) + math.Abs(p.Y-q.Y) + math.Abs(p.Z-q.Z)
	}
	return sum / float64(3*len(img.Pixels)), nil
}
