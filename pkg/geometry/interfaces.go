package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Shape interface for objects that can be hit by rays.
// The set of implementations is closed: Sphere, PlaneXY, PlaneXZ and PlaneYZ.
type Shape interface {
	// Intersect returns the ray parameter of the nearest non-negative hit.
	// Directions are expected to be unit length, making t the hit distance.
	Intersect(origin, direction core.Vec3) (float64, bool)
	// NormalAt returns the unit surface normal at a point on the shape
	NormalAt(point core.Vec3) core.Vec3
	// Material returns the surface material
	Material() *material.Material
	// Validate reports invalid construction parameters
	Validate() error
}
