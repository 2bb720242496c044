package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewMirrorsScene creates two facing mirrors with a sphere between them.
// Rays bounce back and forth until the depth budget runs out.
func NewMirrorsScene() *Scene {
	mirror := material.NewMaterial(core.NewVec3(0.95, 0.95, 1.0), 0.9)
	floor := material.NewMaterial(core.NewVec3(0.6, 0.6, 0.55), 0.2)
	ball := material.NewMaterial(core.NewVec3(1.0, 0.35, 0.2), 0.25)

	wall := geometry.Bounds{Min: -2, Max: 4}
	length := geometry.Bounds{Min: -10, Max: 20}

	return &Scene{
		Shapes: []geometry.Shape{
			geometry.NewSphere(core.NewVec3(0, -1, 5), 1, ball),
			geometry.NewPlaneYZ(-3, geometry.FacingPositive, wall, length, mirror),
			geometry.NewPlaneYZ(3, geometry.FacingNegative, wall, length, mirror),
			geometry.NewPlaneXZ(-2, geometry.FacingPositive, geometry.Bounds{Min: -3, Max: 3}, length, floor),
		},
		Ambient: core.NewVec3(0.03, 0.03, 0.05),
		Lights: []*lights.PointLight{
			lights.NewPointLight(core.NewVec3(0, 3, 3), core.NewVec3(0.9, 0.9, 0.8), 3.5),
		},
		CameraConfig: geometry.CameraConfig{
			Position:  core.NewVec3(-1, 0.5, -1),
			LookAt:    core.NewVec3(0.3, -0.8, 5),
			Up:        core.NewVec3(0, 1, 0),
			VFov:      math.Pi / 3,
		},
	}
}
