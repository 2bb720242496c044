package integrator

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ErrNegativeDepth is returned when a negative reflection budget is requested
var ErrNegativeDepth = errors.New("reflection depth must be non-negative")

// DefaultMaxDepth is the reflection budget used when none is configured
const DefaultMaxDepth = 5

// Config controls the Whitted integrator
type Config struct {
	MaxDepth int // Number of mirror bounces after the primary hit

	// ShadowBias offsets shadow-ray origins along the surface normal.
	// Zero traces shadow rays from the hit point itself.
	ShadowBias float64
}

// WhittedIntegrator traces one ray per pixel: ambient, unshadowed point-light diffuse
// and recursive mirror reflection, blended by each material's reflectivity.
type WhittedIntegrator struct {
	config Config
}

// NewWhittedIntegrator creates a new Whitted integrator
func NewWhittedIntegrator(config Config) (*WhittedIntegrator, error) {
	if config.MaxDepth < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeDepth, config.MaxDepth)
	}
	if config.ShadowBias < 0 {
		return nil, fmt.Errorf("shadow bias must be non-negative, got %g", config.ShadowBias)
	}
	return &WhittedIntegrator{config: config}, nil
}

// Config returns the integrator configuration
func (wi *WhittedIntegrator) Config() Config {
	return wi.config
}

// TraceColor returns the color seen along ray with the given reflection budget.
// A miss returns black; the result is linear and unclamped.
func (wi *WhittedIntegrator) TraceColor(ray core.Ray, s *scene.Scene, depth int) (core.Vec3, error) {
	if depth < 0 {
		return core.Vec3{}, fmt.Errorf("%w: got %d", ErrNegativeDepth, depth)
	}
	return wi.trace(ray.Origin, ray.Direction, s, depth), nil
}

// RayColor traces ray with the configured reflection budget
func (wi *WhittedIntegrator) RayColor(ray core.Ray, s *scene.Scene) core.Vec3 {
	return wi.trace(ray.Origin, ray.Direction, s, wi.config.MaxDepth)
}

// PixelColor traces the primary ray for normalized screen coordinates (x, y)
func (wi *WhittedIntegrator) PixelColor(camera *geometry.Camera, s *scene.Scene, x, y float64) core.Vec3 {
	return wi.RayColor(camera.GetRay(x, y), s)
}

func (wi *WhittedIntegrator) trace(origin, direction core.Vec3, s *scene.Scene, depth int) core.Vec3 {
	hit, isHit := s.NearestHit(origin, direction)
	if !isHit {
		return core.Vec3{}
	}

	point := origin.Add(direction.Multiply(hit.T))
	normal := hit.Shape.NormalAt(point)
	mat := hit.Shape.Material()

	result := s.Ambient
	diffuse := wi.directLighting(point, normal, s)
	result = result.Add(diffuse.MultiplyVec(mat.Color).Multiply(1 - mat.Reflectivity))

	if depth > 0 {
		reflected := direction.Reflect(normal)
		bounce := wi.trace(point, reflected, s, depth-1)
		result = result.Add(bounce.MultiplyVec(mat.Color).Multiply(mat.Reflectivity))
	}

	return result
}

// directLighting sums the unshadowed contribution of every light facing the point
func (wi *WhittedIntegrator) directLighting(point, normal core.Vec3, s *scene.Scene) core.Vec3 {
	var diffuse core.Vec3

	for _, light := range s.Lights {
		sample, ok := light.Sample(point, normal)
		if !ok {
			continue
		}

		shadowOrigin, shadowDir, distSq := point, sample.Direction, sample.DistanceSquared
		if wi.config.ShadowBias > 0 {
			shadowOrigin = point.Add(normal.Multiply(wi.config.ShadowBias))
			toLight := light.Position.Subtract(shadowOrigin)
			shadowDir = toLight.Normalize()
			distSq = toLight.LengthSquared()
		}
		if s.Occluded(shadowOrigin, shadowDir, distSq) {
			continue
		}

		diffuse = diffuse.Add(sample.Radiance)
	}

	return diffuse
}
