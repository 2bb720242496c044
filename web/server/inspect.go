package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// JSONFloat encodes NaN and infinities as null, which encoding/json otherwise refuses
type JSONFloat float64

// MarshalJSON implements json.Marshaler
func (f JSONFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func jsonVec3(v core.Vec3) [3]JSONFloat {
	return [3]JSONFloat{JSONFloat(v.X), JSONFloat(v.Y), JSONFloat(v.Z)}
}

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType"`
	ShapeIndex   int                    `json:"shapeIndex"`
	Point        [3]JSONFloat           `json:"point"`
	Normal       [3]JSONFloat           `json:"normal"`
	Distance     JSONFloat              `json:"distance"`
	Color        [3]JSONFloat           `json:"color"` // Traced linear color of the pixel
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult describes the first object hit through a pixel
type InspectResult struct {
	Hit        bool
	Shape      geometry.Shape
	ShapeIndex int
	Point      core.Vec3
	Normal     core.Vec3
	Distance   float64
}

// inspectPixel casts the primary ray through a pixel center and reports the nearest shape
func inspectPixel(sceneObj *scene.Scene, camera *geometry.Camera, width, height, pixelX, pixelY int) InspectResult {
	x, y := renderer.PixelToScreen(pixelX, pixelY, width, height)
	ray := camera.GetRay(x, y)

	hit, ok := sceneObj.NearestHit(ray.Origin, ray.Direction)
	if !ok {
		return InspectResult{Hit: false, ShapeIndex: -1}
	}

	index := -1
	for i, shape := range sceneObj.Shapes {
		if shape == hit.Shape {
			index = i
			break
		}
	}

	point := ray.At(hit.T)
	return InspectResult{
		Hit:        true,
		Shape:      hit.Shape,
		ShapeIndex: index,
		Point:      point,
		Normal:     hit.Shape.NormalAt(point),
		Distance:   hit.T,
	}
}

// extractMaterialInfo reports the color and mirror weight of a material
func extractMaterialInfo(mat *material.Material) map[string]interface{} {
	return map[string]interface{}{
		"color": [3]float64{mat.Color.X, mat.Color.Y, mat.Color.Z},
		"hex": fmt.Sprintf("#%02x%02x%02x",
			int(min(1, max(0, mat.Color.X))*255), int(min(1, max(0, mat.Color.Y))*255), int(min(1, max(0, mat.Color.Z))*255)),
		"reflectivity": mat.Reflectivity,
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	planeInfo := func(p *geometry.AxisPlane, fixedAxis, axisA, axisB string) {
		properties[fixedAxis] = p.Fixed
		properties["facing"] = p.Facing.String()
		properties[axisA+"Range"] = [2]float64{p.BoundA.Min, p.BoundA.Max}
		properties[axisB+"Range"] = [2]float64{p.BoundB.Min, p.BoundB.Max}
	}

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64{geom.Center.X, geom.Center.Y, geom.Center.Z}
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.PlaneXY:
		planeInfo(&geom.AxisPlane, "z", "x", "y")
		return "planeXY", properties

	case *geometry.PlaneXZ:
		planeInfo(&geom.AxisPlane, "y", "x", "z")
		return "planeXZ", properties

	case *geometry.PlaneYZ:
		planeInfo(&geom.AxisPlane, "x", "y", "z")
		return "planeYZ", properties

	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	inspectReq := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid x coordinate"})
		return
	}

	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid y coordinate"})
		return
	}

	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	setup, err := s.createRenderingSetup(inspectReq, core.NopLogger{})
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	result := inspectPixel(setup.Scene, setup.Camera, inspectReq.Width, inspectReq.Height, pixelX, pixelY)
	color := setup.Raytracer.TracePixel(setup.Camera, pixelX, pixelY)

	response := InspectResponse{
		Hit:        result.Hit,
		ShapeIndex: result.ShapeIndex,
		Color:      jsonVec3(color),
	}
	if result.Hit {
		geometryType, geometryProps := extractGeometryInfo(result.Shape)
		response.GeometryType = geometryType
		response.Point = jsonVec3(result.Point)
		response.Normal = jsonVec3(result.Normal)
		response.Distance = JSONFloat(result.Distance)
		response.Properties = map[string]interface{}{
			"material": extractMaterialInfo(result.Shape.Material()),
			"geometry": geometryProps,
		}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
