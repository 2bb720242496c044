package loaders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Vector is a JSON [x, y, z] triple
type Vector [3]float64

// Vec3 converts the triple to a core.Vec3
func (v Vector) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// SceneFile is the on-disk JSON scene description
type SceneFile struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Camera      CameraSpec  `json:"camera"`
	Ambient     Vector      `json:"ambient"`
	Lights      []LightSpec `json:"lights"`
	Shapes      []ShapeSpec `json:"shapes"`
}

// CameraSpec describes the suggested viewpoint
type CameraSpec struct {
	Position    Vector  `json:"position"`
	Direction   Vector  `json:"direction"`
	LookAt      *Vector `json:"lookAt,omitempty"`
	Up          Vector  `json:"up"`
	VFovDegrees float64 `json:"vfovDegrees"`
}

// LightSpec describes a point light
type LightSpec struct {
	Position Vector  `json:"position"`
	Color    Vector  `json:"color"`
	Power    float64 `json:"power"`
}

// MaterialSpec describes a surface material
type MaterialSpec struct {
	Color        Vector  `json:"color"`
	Reflectivity float64 `json:"reflectivity"`
}

// ShapeSpec describes one shape. Type selects which fields apply:
// "sphere" uses Center and Radius; "planeXY", "planeXZ" and "planeYZ" use
// Fixed, Facing, BoundA and BoundB. Facing is required for planes.
type ShapeSpec struct {
	Type     string       `json:"type"`
	Center   Vector       `json:"center"`
	Radius   float64      `json:"radius"`
	Fixed    float64      `json:"fixed"`
	Facing   string       `json:"facing"`
	BoundA   [2]float64   `json:"boundA"`
	BoundB   [2]float64   `json:"boundB"`
	Material MaterialSpec `json:"material"`
}

// Known shape types
const (
	ShapeSphere  = "sphere"
	ShapePlaneXY = "planeXY"
	ShapePlaneXZ = "planeXZ"
	ShapePlaneYZ = "planeYZ"
)

// LoadSceneFile reads and parses a JSON scene description
func LoadSceneFile(filename string) (*SceneFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	scene, err := ParseSceneFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return scene, nil
}

// ParseSceneFile parses a JSON scene description. Unknown fields are rejected so
// typos do not silently fall back to zero values.
func ParseSceneFile(data []byte) (*SceneFile, error) {
	var scene SceneFile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&scene); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}

	for i, shape := range scene.Shapes {
		switch shape.Type {
		case ShapeSphere:
		case ShapePlaneXY, ShapePlaneXZ, ShapePlaneYZ:
			if shape.Facing == "" {
				return nil, fmt.Errorf("shape %d: %s requires a facing (positive or negative)", i, shape.Type)
			}
		default:
			return nil, fmt.Errorf("shape %d: unknown type %q", i, shape.Type)
		}
	}
	return &scene, nil
}
