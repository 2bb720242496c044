// Command viewer renders a scene interactively in a window. The camera is driven
// from the keyboard and each frame is traced in full with the parallel renderer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/controls"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const title = "Whitted Raytracer"

// keyBindings maps held keys to camera actions
var keyBindings = map[glfw.Key]controls.Action{
	glfw.KeyW:         controls.MoveForward,
	glfw.KeyS:         controls.MoveBack,
	glfw.KeyA:         controls.MoveLeft,
	glfw.KeyD:         controls.MoveRight,
	glfw.KeySpace:     controls.MoveUp,
	glfw.KeyLeftShift: controls.MoveDown,
	glfw.KeyUp:        controls.PitchUp,
	glfw.KeyDown:      controls.PitchDown,
	glfw.KeyLeft:      controls.YawLeft,
	glfw.KeyRight:     controls.YawRight,
	glfw.KeyQ:         controls.RollLeft,
	glfw.KeyE:         controls.RollRight,
	glfw.KeyZ:         controls.ZoomIn,
	glfw.KeyX:         controls.ZoomOut,
}

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

func main() {
	var flags config.Flags
	flag.StringVar(&flags.Scene, "scene", "", "Scene to view (default, cornell, mirrors, json:<name> or a .json path)")
	flag.IntVar(&flags.Width, "width", 0, "Render width in pixels (default 640)")
	flag.IntVar(&flags.Height, "height", 0, "Render height in pixels (default 480)")
	flag.IntVar(&flags.MaxDepth, "depth", integrator.DefaultMaxDepth, "Reflection recursion depth")
	flag.IntVar(&flags.Workers, "workers", 0, "Number of render workers (default: CPU count)")
	flag.IntVar(&flags.Scale, "scale", 0, "Window pixels per rendered pixel (default 2)")
	flag.Float64Var(&flags.Gamma, "gamma", 0, "Display gamma; 1 disables correction (default 1)")
	flag.Float64Var(&flags.ShadowBias, "shadow-bias", 0, "Offset of shadow ray origins along the normal")
	flag.Parse()
	flags.Set = config.ExplicitFlags(flag.CommandLine)

	cfg := config.Defaults()
	cfg.Scale = 2
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration:\n%v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalln(err)
	}
}

func run(cfg config.RenderConfig) error {
	selectedScene, err := scene.Create(cfg.Scene)
	if err != nil {
		return err
	}
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

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Width*cfg.Scale, cfg.Height*cfg.Scale, title, nil, nil)
	if err != nil {
		return err
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return err
	}
	log.Printf("OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION)))

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	// The framebuffer can be larger than the window on high-DPI displays
	fbWidth, fbHeight := window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))

	disp, err := newDisplay(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}

	log.Printf("Viewing %s at %dx%d (x%d). WASD move, Space/Shift up/down, arrows look, Q/E roll, Z/X zoom, Esc quits",
		cfg.Scene, cfg.Width, cfg.Height, cfg.Scale)

	ctx := context.Background()
	lastFrameTime := glfw.GetTime()
	lastFpsTime := lastFrameTime
	frameCount := 0

	for !window.ShouldClose() {
		glfw.PollEvents()

		currentTime := glfw.GetTime()
		deltaTime := currentTime - lastFrameTime
		lastFrameTime = currentTime

		// Camera moves only here, between frames
		if err := applyHeldKeys(window, camera, deltaTime); err != nil {
			log.Printf("camera: %v", err)
		}

		img, _, err := parallel.RenderFrame(ctx, camera)
		if err != nil {
			return err
		}
		disp.draw(img)
		window.SwapBuffers()

		frameCount++
		if currentTime-lastFpsTime >= 1.0 {
			window.SetTitle(fmt.Sprintf("%s | %s | FPS: %d", title, cfg.Scene, frameCount))
			frameCount = 0
			lastFpsTime = currentTime
		}
	}
	return nil
}

// applyHeldKeys moves the camera for every pressed key, scaled so that motion
// speed does not depend on frame rate
func applyHeldKeys(window *glfw.Window, camera *geometry.Camera, deltaTime float64) error {
	step := controls.DefaultStep().Scale(deltaTime * 60)
	for _, action := range controls.Actions() {
		for key, bound := range keyBindings {
			if bound != action || window.GetKey(key) != glfw.Press {
				continue
			}
			if err := controls.Apply(camera, action, step); err != nil {
				return err
			}
		}
	}
	return nil
}
