package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewCornellScene creates an open-fronted box made of all three plane orientations,
// with a mirror sphere and a matte sphere on the floor and a light under the ceiling.
func NewCornellScene() *Scene {
	white := material.NewDiffuse(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewDiffuse(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewDiffuse(core.NewVec3(0.12, 0.45, 0.15))
	mirror := material.NewMaterial(core.NewVec3(0.9, 0.9, 0.9), 0.9)
	matte := material.NewMaterial(core.NewVec3(0.3, 0.4, 0.9), 0.1)

	// Box spans x,y in [-2,2] and z in [0,6]; walls face inward
	const half = 2.0
	side := geometry.Bounds{Min: -half, Max: half}
	depth := geometry.Bounds{Min: 0, Max: 6}

	return &Scene{
		Shapes: []geometry.Shape{
			geometry.NewSphere(core.NewVec3(0.8, -1.2, 4), 0.8, mirror),
			geometry.NewSphere(core.NewVec3(-0.9, -1.4, 3), 0.6, matte),
			geometry.NewPlaneXZ(-half, geometry.FacingPositive, side, depth, white), // floor
			geometry.NewPlaneXZ(half, geometry.FacingNegative, side, depth, white),  // ceiling
			geometry.NewPlaneYZ(-half, geometry.FacingPositive, side, depth, red),   // left wall
			geometry.NewPlaneYZ(half, geometry.FacingNegative, side, depth, green),  // right wall
			geometry.NewPlaneXY(6, geometry.FacingNegative, side, side, white),      // back wall
		},
		Ambient: core.NewVec3(0.02, 0.02, 0.02),
		Lights: []*lights.PointLight{
			lights.NewPointLight(core.NewVec3(0, 1.7, 3), core.NewVec3(1, 0.95, 0.85), 2.2),
		},
		CameraConfig: geometry.CameraConfig{
			Position:  core.NewVec3(0, 0, -2.5),
			Direction: core.NewVec3(0, 0, 1),
			Up:        core.NewVec3(0, 1, 0),
			VFov:      math.Pi / 3.5,
		},
	}
}
