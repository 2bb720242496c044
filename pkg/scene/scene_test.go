package scene

import (
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

var red = material.NewDiffuse(core.NewVec3(1, 0, 0))

func TestScene_NearestHit(t *testing.T) {
	far := geometry.NewSphere(core.NewVec3(0, 0, 10), 1, red)
	near := geometry.NewSphere(core.NewVec3(0, 0, 4), 1, red)
	s, err := New([]geometry.Shape{far, near}, core.Zero(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	hit, ok := s.NearestHit(core.Zero(), core.NewVec3(0, 0, 1))
	if !ok {
		t.Fatal("Expected a hit")
	}
	if hit.Shape != geometry.Shape(near) || hit.T != 3 {
		t.Errorf("Expected near sphere at t=3, got %v at t=%f", hit.Shape, hit.T)
	}

	if _, ok := s.NearestHit(core.Zero(), core.NewVec3(0, 1, 0)); ok {
		t.Error("Expected miss looking up")
	}
}

func TestScene_NearestHitTieKeepsFirst(t *testing.T) {
	first := geometry.NewSphere(core.NewVec3(0, 0, 3), 1, red)
	second := geometry.NewSphere(core.NewVec3(0, 0, 3), 1, material.NewMirror(core.NewVec3(1, 1, 1)))
	s, err := New([]geometry.Shape{first, second}, core.Zero(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	hit, ok := s.NearestHit(core.Zero(), core.NewVec3(0, 0, 1))
	if !ok || hit.Shape != geometry.Shape(first) {
		t.Errorf("Expected the first shape to win the tie, got %v", hit.Shape)
	}
}

func TestScene_Occluded(t *testing.T) {
	blocker := geometry.NewSphere(core.NewVec3(0, 0, 5), 1, red)
	s := &Scene{Shapes: []geometry.Shape{blocker}}
	dir := core.NewVec3(0, 0, 1)

	tests := []struct {
		name     string
		distSq   float64
		expected bool
	}{
		{"light beyond blocker", 100, true},
		{"light before blocker", 9, false},
		{"light exactly at hit distance", 16, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Occluded(core.Zero(), dir, tt.distSq); got != tt.expected {
				t.Errorf("Expected occluded=%t, got %t", tt.expected, got)
			}
		})
	}
}

func TestNew_ValidationCollectsAllErrors(t *testing.T) {
	shapes := []geometry.Shape{
		geometry.NewSphere(core.Zero(), 0, red),
		geometry.NewPlaneXY(0, geometry.FacingPositive, geometry.Bounds{Min: 1, Max: 0}, geometry.Bounds{}, red),
	}
	pointLights := []*lights.PointLight{lights.NewPointLight(core.Zero(), core.NewVec3(1, 1, 1), -1)}

	_, err := New(shapes, core.Zero(), pointLights)
	if err == nil {
		t.Fatal("Expected validation error")
	}
	for _, want := range []string{"shape 0", "shape 1", "light 0"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %q, got %v", want, err)
		}
	}
}

func TestNew_Empty(t *testing.T) {
	s, err := New(nil, core.NewVec3(0.1, 0.1, 0.1), nil)
	if err != nil {
		t.Fatalf("Empty scene should be valid, got %v", err)
	}
	if _, ok := s.NearestHit(core.Zero(), core.NewVec3(0, 0, 1)); ok {
		t.Error("Empty scene must not report hits")
	}
	if s.GetPrimitiveCount() != 0 {
		t.Errorf("Expected 0 primitives, got %d", s.GetPrimitiveCount())
	}
}

func TestDefaultScene(t *testing.T) {
	s := NewDefaultScene()
	if err := s.Validate(); err != nil {
		t.Fatalf("Default scene invalid: %v", err)
	}
	if s.GetPrimitiveCount() != 3 || len(s.Lights) != 2 {
		t.Errorf("Expected 3 shapes and 2 lights, got %d and %d", s.GetPrimitiveCount(), len(s.Lights))
	}

	// Central ray hits the front sphere at t=2
	hit, ok := s.NearestHit(core.Zero(), core.NewVec3(0, 0, 1))
	if !ok || hit.T != 2 {
		t.Errorf("Expected hit at t=2, got ok=%t t=%f", ok, hit.T)
	}
}

func TestScene_NewCamera(t *testing.T) {
	s := NewDefaultScene()

	camera, err := s.NewCamera(640, 480)
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}
	if camera.AspectRatio() != 640.0/480.0 {
		t.Errorf("Expected aspect %f, got %f", 640.0/480.0, camera.AspectRatio())
	}
	if camera.Forward != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected forward +z, got %v", camera.Forward)
	}
	if s.CameraConfig.AspectRatio != 0 {
		t.Error("NewCamera must not modify the scene's camera config")
	}

	for _, size := range [][2]int{{0, 480}, {640, -1}} {
		if _, err := s.NewCamera(size[0], size[1]); err == nil {
			t.Errorf("Expected error for %dx%d", size[0], size[1])
		}
	}
}
