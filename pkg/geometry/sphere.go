package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
	Mat    material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
		Mat:    mat,
	}
}

// Intersect solves |o + t*d - c|² = r² for the near root only.
// A ray starting inside the sphere therefore reports no hit.
func (s *Sphere) Intersect(origin, direction core.Vec3) (float64, bool) {
	// Vector from sphere center to ray origin
	v := origin.Subtract(s.Center)
	b := v.Dot(direction)

	discriminant := b*b - (v.LengthSquared() - s.Radius*s.Radius)
	if discriminant < 0 {
		return 0, false
	}

	t := -b - math.Sqrt(discriminant)
	if t < 0 {
		return 0, false
	}
	return t, true
}

// NormalAt returns the outward normal (point - center) / radius
func (s *Sphere) NormalAt(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Divide(s.Radius)
}

// Material returns the sphere's material
func (s *Sphere) Material() *material.Material {
	return &s.Mat
}

// Validate checks the radius and material
func (s *Sphere) Validate() error {
	if !(s.Radius > 0) {
		return fmt.Errorf("sphere radius must be positive, got %g", s.Radius)
	}
	if err := s.Mat.Validate(); err != nil {
		return fmt.Errorf("sphere material: %w", err)
	}
	return nil
}
