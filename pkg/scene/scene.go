package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// Scene contains everything the tracer reads during a frame.
// It is read-only while a frame is being rendered.
type Scene struct {
	Shapes  []geometry.Shape     // Objects in the scene, in tie-break order
	Ambient core.Vec3            // Constant light added at every hit
	Lights  []*lights.PointLight // Lights in the scene

	// CameraConfig is the scene's suggested viewpoint. AspectRatio is left for the host.
	CameraConfig geometry.CameraConfig
}

// Hit is the nearest intersection found along a ray
type Hit struct {
	T     float64
	Shape geometry.Shape
}

// New creates a scene after validating every shape and light
func New(shapes []geometry.Shape, ambient core.Vec3, pointLights []*lights.PointLight) (*Scene, error) {
	s := &Scene{
		Shapes:  shapes,
		Ambient: ambient,
		Lights:  pointLights,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate reports every invalid shape and light in one error
func (s *Scene) Validate() error {
	var errs []error
	for i, shape := range s.Shapes {
		if shape == nil {
			errs = append(errs, fmt.Errorf("shape %d is nil", i))
			continue
		}
		if err := shape.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("shape %d: %w", i, err))
		}
	}
	for i, light := range s.Lights {
		if light == nil {
			errs = append(errs, fmt.Errorf("light %d is nil", i))
			continue
		}
		if err := light.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("light %d: %w", i, err))
		}
	}
	if s.Ambient.HasNaN() {
		errs = append(errs, errors.New("ambient color has NaN components"))
	}
	return errors.Join(errs...)
}

// NearestHit scans all shapes and returns the closest intersection.
// Only a strictly smaller t replaces the current best, so the earlier shape wins ties.
func (s *Scene) NearestHit(origin, direction core.Vec3) (Hit, bool) {
	best := Hit{T: math.Inf(1)}
	found := false

	for _, shape := range s.Shapes {
		t, ok := shape.Intersect(origin, direction)
		if ok && t < best.T {
			best = Hit{T: t, Shape: shape}
			found = true
		}
	}
	return best, found
}

// Occluded reports whether any shape intersects the ray before reaching
// a point distSq away (squared distance, strict comparison).
func (s *Scene) Occluded(origin, direction core.Vec3, distSq float64) bool {
	for _, shape := range s.Shapes {
		if t, ok := shape.Intersect(origin, direction); ok && t*t < distSq {
			return true
		}
	}
	return false
}

// GetPrimitiveCount returns the number of shapes in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}

// NewCamera builds a camera from the scene's viewpoint for a width×height frame
func (s *Scene) NewCamera(width, height int) (*geometry.Camera, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("frame size must be positive, got %dx%d", width, height)
	}
	config := s.CameraConfig
	config.AspectRatio = float64(width) / float64(height)
	return geometry.NewCamera(config)
}
