package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Facing selects which side of an axis-aligned plane is visible
type Facing int

const (
	// FacingPositive planes have their normal along +axis and are seen from the positive side
	FacingPositive Facing = iota
	// FacingNegative planes have their normal along -axis and are seen from the negative side
	FacingNegative
)

// Sign returns +1 or -1
func (f Facing) Sign() float64 {
	if f == FacingNegative {
		return -1
	}
	return 1
}

// String returns "positive" or "negative"
func (f Facing) String() string {
	if f == FacingNegative {
		return "negative"
	}
	return "positive"
}

// ParseFacing parses "positive"/"+" or "negative"/"-"
func ParseFacing(s string) (Facing, error) {
	switch s {
	case "positive", "+":
		return FacingPositive, nil
	case "negative", "-":
		return FacingNegative, nil
	default:
		return FacingPositive, fmt.Errorf("unknown facing %q", s)
	}
}

// Bounds is an inclusive coordinate range
type Bounds struct {
	Min, Max float64
}

// Contains reports whether v lies in [Min, Max]
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// AxisPlane is a one-sided rectangle lying in a plane where one coordinate is fixed.
// The fixed axis and the two bounded axes are chosen by the wrapping variant.
type AxisPlane struct {
	Fixed  float64           // Value of the fixed coordinate
	Facing Facing            // Visible side; rays from the other side pass through
	BoundA Bounds            // Range along the first bounded axis
	BoundB Bounds            // Range along the second bounded axis
	Mat    material.Material // Material of the plane
}

// intersect works in permuted coordinates: X and Y are the bounded axes, Z is fixed.
func (p *AxisPlane) intersect(origin, direction core.Vec3) (float64, bool) {
	if direction.Z == 0 {
		return 0, false
	}

	// Back-face culling: only rays travelling against the visible normal can hit
	if (direction.Z < 0) == (p.Facing == FacingNegative) {
		return 0, false
	}

	t := (p.Fixed - origin.Z) / direction.Z
	if t < 0 {
		return 0, false
	}

	a := origin.X + direction.X*t
	b := origin.Y + direction.Y*t
	if !p.BoundA.Contains(a) || !p.BoundB.Contains(b) {
		return 0, false
	}
	return t, true
}

// Material returns the plane's material
func (p *AxisPlane) Material() *material.Material {
	return &p.Mat
}

// Validate checks bound ordering and material
func (p *AxisPlane) Validate() error {
	if p.BoundA.Min > p.BoundA.Max {
		return fmt.Errorf("plane first bound is inverted: [%g, %g]", p.BoundA.Min, p.BoundA.Max)
	}
	if p.BoundB.Min > p.BoundB.Max {
		return fmt.Errorf("plane second bound is inverted: [%g, %g]", p.BoundB.Min, p.BoundB.Max)
	}
	if err := p.Mat.Validate(); err != nil {
		return fmt.Errorf("plane material: %w", err)
	}
	return nil
}

// PlaneXY is a rectangle at z = Fixed bounded along x (BoundA) and y (BoundB)
type PlaneXY struct {
	AxisPlane
}

// NewPlaneXY creates a rectangle in the XY plane
func NewPlaneXY(z float64, facing Facing, xRange, yRange Bounds, mat material.Material) *PlaneXY {
	return &PlaneXY{AxisPlane{Fixed: z, Facing: facing, BoundA: xRange, BoundB: yRange, Mat: mat}}
}

// Intersect tests the ray against the rectangle
func (p *PlaneXY) Intersect(origin, direction core.Vec3) (float64, bool) {
	return p.intersect(origin, direction)
}

// NormalAt returns (0, 0, ±1)
func (p *PlaneXY) NormalAt(core.Vec3) core.Vec3 {
	return core.NewVec3(0, 0, p.Facing.Sign())
}

// PlaneXZ is a rectangle at y = Fixed bounded along x (BoundA) and z (BoundB)
type PlaneXZ struct {
	AxisPlane
}

// NewPlaneXZ creates a rectangle in the XZ plane
func NewPlaneXZ(y float64, facing Facing, xRange, zRange Bounds, mat material.Material) *PlaneXZ {
	return &PlaneXZ{AxisPlane{Fixed: y, Facing: facing, BoundA: xRange, BoundB: zRange, Mat: mat}}
}

// Intersect tests the ray against the rectangle
func (p *PlaneXZ) Intersect(origin, direction core.Vec3) (float64, bool) {
	return p.intersect(
		core.NewVec3(origin.X, origin.Z, origin.Y),
		core.NewVec3(direction.X, direction.Z, direction.Y),
	)
}

// NormalAt returns (0, ±1, 0)
func (p *PlaneXZ) NormalAt(core.Vec3) core.Vec3 {
	return core.NewVec3(0, p.Facing.Sign(), 0)
}

// PlaneYZ is a rectangle at x = Fixed bounded along y (BoundA) and z (BoundB)
type PlaneYZ struct {
	AxisPlane
}

// NewPlaneYZ creates a rectangle in the YZ plane
func NewPlaneYZ(x float64, facing Facing, yRange, zRange Bounds, mat material.Material) *PlaneYZ {
	return &PlaneYZ{AxisPlane{Fixed: x, Facing: facing, BoundA: yRange, BoundB: zRange, Mat: mat}}
}

// Intersect tests the ray against the rectangle
func (p *PlaneYZ) Intersect(origin, direction core.Vec3) (float64, bool) {
	return p.intersect(
		core.NewVec3(origin.Y, origin.Z, origin.X),
		core.NewVec3(direction.Y, direction.Z, direction.X),
	)
}

// NormalAt returns (±1, 0, 0)
func (p *PlaneYZ) NormalAt(core.Vec3) core.Vec3 {
	return core.NewVec3(p.Facing.Sign(), 0, 0)
}
