package lights

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PointLight is an infinitely small light source. Its contribution at a surface
// point falls off with the squared distance, scaled by Power².
type PointLight struct {
	Position core.Vec3
	Color    core.Vec3
	Power    float64
}

// NewPointLight creates a new point light
func NewPointLight(position, color core.Vec3, power float64) *PointLight {
	return &PointLight{Position: position, Color: color, Power: power}
}

// Validate checks that the light has positive power
func (l PointLight) Validate() error {
	if !(l.Power > 0) {
		return fmt.Errorf("light power must be positive, got %g", l.Power)
	}
	return nil
}

// LightSample describes the unshadowed contribution of a light at a surface point
type LightSample struct {
	Direction       core.Vec3 // Unit vector from the surface point toward the light
	DistanceSquared float64   // Squared distance to the light
	Incidence       float64   // Cosine between Direction and the surface normal
	Radiance        core.Vec3 // Color * Power² / DistanceSquared * Incidence
}

// Sample evaluates the light at a point with the given unit normal.
// The second result is false when the light is behind the surface (incidence <= 0).
func (l PointLight) Sample(point, normal core.Vec3) (LightSample, bool) {
	toLight := l.Position.Subtract(point)
	distSq := toLight.LengthSquared()
	direction := toLight.Normalize()
	incidence := direction.Dot(normal)
	if incidence <= 0 {
		return LightSample{}, false
	}
	return LightSample{
		Direction:       direction,
		DistanceSquared: distSq,
		Incidence:       incidence,
		Radiance:        l.Color.Multiply(l.Power * l.Power / distSq * incidence),
	}, true
}
