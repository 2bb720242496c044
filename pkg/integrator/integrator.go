package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the linear, unclamped color seen along a ray
	RayColor(ray core.Ray, scene *scene.Scene) core.Vec3

	// PixelColor computes the color for normalized screen coordinates (x, y) in [-1, 1]
	PixelColor(camera *geometry.Camera, scene *scene.Scene, x, y float64) core.Vec3
}
