package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds flags that are not part of the render configuration
type options struct {
	configPath string
	reference  string
	help       bool
}

// parseFlags parses command line arguments into config overrides and CLI options
func parseFlags(args []string, stdout io.Writer) (config.Flags, options, error) {
	var flags config.Flags
	var opts options

	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.StringVar(&flags.Scene, "scene", "", "Scene: a built-in ID (default, cornell, mirrors), json:<name>, or a .json file path")
	fs.IntVar(&flags.Width, "width", 0, "Image width in pixels (default 640)")
	fs.IntVar(&flags.Height, "height", 0, "Image height in pixels (default 480)")
	fs.IntVar(&flags.MaxDepth, "depth", integrator.DefaultMaxDepth, "Reflection recursion depth")
	fs.IntVar(&flags.Workers, "workers", 0, "Number of render workers (default: CPU count)")
	fs.StringVar(&flags.Format, "format", "", "Output format: png or webp (default png)")
	fs.IntVar(&flags.Scale, "scale", 0, "Integer upscale factor applied before saving (default 1)")
	fs.Float64Var(&flags.Gamma, "gamma", 0, "Display gamma; 1 disables correction (default 1)")
	fs.Float64Var(&flags.ShadowBias, "shadow-bias", 0, "Offset of shadow ray origins along the normal")
	fs.StringVar(&flags.OutputDir, "output", "", "Output root directory (default output)")
	fs.StringVar(&opts.configPath, "config", "", "JSON render config file; flags override its values")
	fs.StringVar(&opts.reference, "reference", "", "Reference image (PNG, JPEG or TGA) to compare the render against")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return flags, opts, err
	}
	flags.Set = config.ExplicitFlags(fs)
	if fs.NArg() > 0 {
		return flags, opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.help {
		printHelp(stdout, fs)
		return flags, opts, flag.ErrHelp
	}
	return flags, opts, nil
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Whitted Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.ListBuiltInScenes() {
		fmt.Fprintf(w, "  %-10s %s\n", info.ID, info.Description)
	}
	if files, err := scene.ListJSONScenes(); err == nil {
		for _, info := range files {
			fmt.Fprintf(w, "  %-10s %s\n", info.ID, info.Description)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output will be saved to <output>/<scene>/render_<timestamp>.<format>")
}

// loadConfig layers the config file (if any) and the flags over the defaults
func loadConfig(flags config.Flags, opts options) (config.RenderConfig, error) {
	cfg := config.Defaults()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return cfg, err
		}
	}
	cfg.Resolve(flags)
	return cfg, cfg.Validate()
}

// sceneDirName turns a scene argument into a directory name
func sceneDirName(name string) string {
	name = strings.TrimPrefix(name, "json:")
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// outputPath builds <dir>/<scene>/render_<timestamp>.<ext>
func outputPath(dir, sceneName string, format output.Format, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join(dir, sceneDirName(sceneName), "render_"+timestamp+format.Extension())
}

func run(args []string, stdout io.Writer) error {
	flags, opts, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(flags, opts)
	if err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}
	format, _ := cfg.OutputFormat()

	fmt.Fprintln(stdout, "Starting Whitted Raytracer...")

	selectedScene, err := scene.Create(cfg.Scene)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Scene %s: %d shapes, %d lights\n", cfg.Scene, selectedScene.GetPrimitiveCount(), len(selectedScene.Lights))

	integ, err := integrator.NewWhittedIntegrator(cfg.IntegratorConfig())
	if err != nil {
		return err
	}
	camera, err := selectedScene.NewCamera(cfg.Width, cfg.Height)
	if err != nil {
		return fmt.Errorf("scene %s: %w", cfg.Scene, err)
	}

	raytracer := renderer.NewRaytracer(selectedScene, integ, cfg.Width, cfg.Height)
	raytracer.SetGamma(cfg.Gamma)
	parallel := renderer.NewParallelRenderer(raytracer, renderer.ParallelConfig{
		TileSize:   cfg.TileSize,
		NumWorkers: cfg.NumWorkers(),
	})

	img, stats, err := parallel.RenderFrame(context.Background(), camera)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Render completed in %v (%dx%d, depth %d, %d workers, %.0f rays/s)\n",
		stats.Duration, cfg.Width, cfg.Height, cfg.MaxDepth, cfg.NumWorkers(), stats.RaysPerSecond())
	fmt.Fprintf(stdout, "Average luminance: %.4f\n", renderer.CalculateAverageLuminance(img))

	final := img
	if cfg.Scale > 1 {
		final = output.Upscale(img, cfg.Scale)
	}

	filename := outputPath(cfg.OutputDir, cfg.Scene, format, time.Now())
	if err := output.Save(filename, final); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Render saved as %s\n", filename)

	if opts.reference != "" {
		ref, err := loaders.LoadImage(opts.reference)
		if err != nil {
			return fmt.Errorf("reference: %w", err)
		}
		diff, err := loaders.MeanAbsoluteDifference(loaders.FromImage(final), ref)
		if err != nil {
			return fmt.Errorf("reference %s: %w", opts.reference, err)
		}
		fmt.Fprintf(stdout, "Mean absolute difference vs reference: %.6f\n", diff)
	}
	return nil
}
