package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewDefaultScene creates the demo scene: two spheres in front of a reflective back wall,
// lit by a cool key light above and a warm fill light to the left.
func NewDefaultScene() *Scene {
	gold := material.NewMaterial(core.NewVec3(1.0, 0.9, 0.6), 0.35)
	lavender := material.NewMaterial(core.NewVec3(0.7, 0.7, 1.0), 0.15)
	mint := material.NewMaterial(core.NewVec3(0.5, 1.0, 0.8), 0.75)

	return &Scene{
		Shapes: []geometry.Shape{
			geometry.NewSphere(core.NewVec3(0, 0, 3), 1, gold),
			geometry.NewSphere(core.NewVec3(1, 1, 4), 0.75, lavender),
			// Back wall, visible from the camera side
			geometry.NewPlaneXY(5, geometry.FacingNegative,
				geometry.Bounds{Min: -5, Max: 4}, geometry.Bounds{Min: -3, Max: 3}, mint),
		},
		Ambient: core.NewVec3(0.01, 0.02, 0.04),
		Lights: []*lights.PointLight{
			lights.NewPointLight(core.NewVec3(2, 3, 2), core.NewVec3(0.5, 0.6, 0.75), 3),
			lights.NewPointLight(core.NewVec3(-2, 0, 0), core.NewVec3(0.5, 0.3, 0.45), 4.5),
		},
		CameraConfig: geometry.CameraConfig{
			Position:  core.Zero(),
			Direction: core.NewVec3(0, 0, 1),
			Up:        core.NewVec3(0, 1, 0),
			VFov:      math.Pi / 3,
		},
	}
}
