// Package output encodes rendered frames to image files.
package output

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// ErrUnknownFormat is returned for image formats other than PNG and WebP
var ErrUnknownFormat = errors.New("unknown image format")

// Format is an output image encoding
type Format string

const (
	PNG  Format = "png"
	WebP Format = "webp"
)

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	return "image/" + string(f)
}

// ParseFormat parses a format name, with or without a leading dot, case-insensitively
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "png":
		return PNG, nil
	case "webp":
		return WebP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Encode writes img to w in the given format. WebP output is lossless.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case PNG:
		return png.Encode(w, img)
	case WebP:
		return nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// Save writes img to path, creating parent directories. The format follows the extension.
func Save(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Upscale enlarges img by an integer factor with nearest-neighbour sampling,
// so every rendered pixel becomes a crisp factor×factor square.
func Upscale(img image.Image, factor int) *image.RGBA {
	factor = max(1, factor)
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
