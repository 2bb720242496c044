// Package config resolves render settings from defaults, a JSON file and CLI flags.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// MaxDimension bounds the width and height of a single render
const MaxDimension = 8192

// RenderConfig holds everything needed to render and save one frame.
type RenderConfig struct {
	Scene      string  `json:"scene"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	MaxDepth   int     `json:"max_depth"`
	Workers    int     `json:"workers"`
	TileSize   int     `json:"tile_size"`
	Format     string  `json:"format"`
	Scale      int     `json:"scale"`
	Gamma      float64 `json:"gamma"`
	ShadowBias float64 `json:"shadow_bias"`
	OutputDir  string  `json:"output_dir"`
}

// Defaults returns the built-in configuration: the original 640x480 demo view.
func Defaults() RenderConfig {
	return RenderConfig{
		Scene:     "default",
		Width:     640,
		Height:    480,
		MaxDepth:  integrator.DefaultMaxDepth,
		Workers:   0,
		TileSize:  renderer.DefaultTileSize,
		Format:    string(output.PNG),
		Scale:     1,
		Gamma:     1,
		OutputDir: "output",
	}
}

// Load reads a JSON config file layered over Defaults.
// Fields absent from the file keep their default values.
func Load(path string) (RenderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RenderConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes JSON config data layered over Defaults
func Parse(data []byte) (RenderConfig, error) {
	cfg := Defaults()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return RenderConfig{}, fmt.Errorf("config: parse: %w", err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Only values whose flag name is in Set are applied, so an explicit zero or
// negative value still overrides the file and is caught by Validate.
type Flags struct {
	Scene      string
	Width      int
	Height     int
	MaxDepth   int
	Workers    int
	TileSize   int
	Format     string
	Scale      int
	Gamma      float64
	ShadowBias float64
	OutputDir  string

	Set map[string]bool // Flag names given on the command line
}

// ExplicitFlags returns the names of the flags that were set on fs
func ExplicitFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// Resolve applies explicitly set CLI flags on top of the config.
func (c *RenderConfig) Resolve(flags Flags) {
	if flags.Set["scene"] {
		c.Scene = flags.Scene
	}
	if flags.Set["width"] {
		c.Width = flags.Width
	}
	if flags.Set["height"] {
		c.Height = flags.Height
	}
	if flags.Set["depth"] {
		c.MaxDepth = flags.MaxDepth
	}
	if flags.Set["workers"] {
		c.Workers = flags.Workers
	}
	if flags.Set["tile-size"] {
		c.TileSize = flags.TileSize
	}
	if flags.Set["format"] {
		c.Format = flags.Format
	}
	if flags.Set["scale"] {
		c.Scale = flags.Scale
	}
	if flags.Set["gamma"] {
		c.Gamma = flags.Gamma
	}
	if flags.Set["shadow-bias"] {
		c.ShadowBias = flags.ShadowBias
	}
	if flags.Set["output"] {
		c.OutputDir = flags.OutputDir
	}
}

// NumWorkers returns the configured worker count, or one per CPU when unset
func (c RenderConfig) NumWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// OutputFormat returns the parsed output format
func (c RenderConfig) OutputFormat() (output.Format, error) {
	return output.ParseFormat(c.Format)
}

// IntegratorConfig returns the tracer settings
func (c RenderConfig) IntegratorConfig() integrator.Config {
	return integrator.Config{MaxDepth: c.MaxDepth, ShadowBias: c.ShadowBias}
}

// Validate reports every invalid setting at once.
func (c RenderConfig) Validate() error {
	var errs []error
	if c.Scene == "" {
		errs = append(errs, errors.New("scene must be set"))
	}
	if c.Width <= 0 || c.Width > MaxDimension {
		errs = append(errs, fmt.Errorf("width %d out of range [1, %d]", c.Width, MaxDimension))
	}
	if c.Height <= 0 || c.Height > MaxDimension {
		errs = append(errs, fmt.Errorf("height %d out of range [1, %d]", c.Height, MaxDimension))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max depth %d: %w", c.MaxDepth, integrator.ErrNegativeDepth))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be non-negative, got %d", c.Workers))
	}
	if c.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("tile size must be positive, got %d", c.TileSize))
	}
	if _, err := c.OutputFormat(); err != nil {
		errs = append(errs, err)
	}
	if c.Scale < 1 {
		errs = append(errs, fmt.Errorf("scale must be at least 1, got %d", c.Scale))
	}
	if !(c.Gamma > 0) {
		errs = append(errs, fmt.Errorf("gamma must be positive, got %g", c.Gamma))
	}
	if !(c.ShadowBias >= 0) {
		errs = append(errs, fmt.Errorf("shadow bias must be non-negative, got %g", c.ShadowBias))
	}
	return errors.Join(errs...)
}
