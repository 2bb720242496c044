package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewJSONScene creates a scene from a JSON scene description file
func NewJSONScene(filepath string) (*Scene, error) {
	file, err := loaders.LoadSceneFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene file: %w", err)
	}
	return FromSceneFile(file)
}

// FromSceneFile converts a parsed scene description into a validated scene
func FromSceneFile(file *loaders.SceneFile) (*Scene, error) {
	shapes := make([]geometry.Shape, 0, len(file.Shapes))
	for i := range file.Shapes {
		shape, err := convertShape(&file.Shapes[i])
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		shapes = append(shapes, shape)
	}

	pointLights := make([]*lights.PointLight, 0, len(file.Lights))
	for _, l := range file.Lights {
		pointLights = append(pointLights, lights.NewPointLight(l.Position.Vec3(), l.Color.Vec3(), l.Power))
	}

	s, err := New(shapes, file.Ambient.Vec3(), pointLights)
	if err != nil {
		return nil, err
	}
	s.CameraConfig = convertCamera(&file.Camera)
	return s, nil
}

func convertShape(spec *loaders.ShapeSpec) (geometry.Shape, error) {
	mat := material.NewMaterial(spec.Material.Color.Vec3(), spec.Material.Reflectivity)

	if spec.Type == loaders.ShapeSphere {
		return geometry.NewSphere(spec.Center.Vec3(), spec.Radius, mat), nil
	}

	facing, err := geometry.ParseFacing(spec.Facing)
	if err != nil {
		return nil, err
	}
	a := geometry.Bounds{Min: spec.BoundA[0], Max: spec.BoundA[1]}
	b := geometry.Bounds{Min: spec.BoundB[0], Max: spec.BoundB[1]}

	switch spec.Type {
	case loaders.ShapePlaneXY:
		return geometry.NewPlaneXY(spec.Fixed, facing, a, b, mat), nil
	case loaders.ShapePlaneXZ:
		return geometry.NewPlaneXZ(spec.Fixed, facing, a, b, mat), nil
	case loaders.ShapePlaneYZ:
		return geometry.NewPlaneYZ(spec.Fixed, facing, a, b, mat), nil
	default:
		return nil, fmt.Errorf("unknown shape type %q", spec.Type)
	}
}

// convertCamera fills in the defaults used by the built-in scenes:
// origin, looking down +z, +y up, 60 degree vertical field of view.
func convertCamera(spec *loaders.CameraSpec) geometry.CameraConfig {
	config := geometry.CameraConfig{
		Position:  spec.Position.Vec3(),
		Direction: spec.Direction.Vec3(),
		Up:        spec.Up.Vec3(),
		VFov:      math.Pi / 3,
	}
	if spec.LookAt != nil {
		config.LookAt = spec.LookAt.Vec3()
	}
	if config.Direction.IsZero() && spec.LookAt == nil {
		config.Direction = core.NewVec3(0, 0, 1)
	}
	if config.Up.IsZero() {
		config.Up = core.NewVec3(0, 1, 0)
	}
	if spec.VFovDegrees != 0 {
		config.VFov = spec.VFovDegrees * math.Pi / 180
	}
	return config
}
