package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// CameraConfig contains the parameters used to build a pinhole camera
type CameraConfig struct {
	Position    core.Vec3 // Eye position
	Direction   core.Vec3 // View direction (need not be normalized)
	LookAt      core.Vec3 // Used to derive Direction when Direction is zero
	Up          core.Vec3 // Approximate up vector, re-orthogonalized against Direction
	VFov        float64   // Vertical field of view in radians
	AspectRatio float64   // Width / height
}

// Camera is a pinhole camera with an orthonormal basis.
// The pose is mutated between frames only; renderers read a Snapshot.
type Camera struct {
	Position core.Vec3
	Forward  core.Vec3
	Up       core.Vec3
	Right    core.Vec3

	vfov        float64
	aspectRatio float64
	halfFovTan  float64 // tan(vfov/2), cached
}

// NewCamera builds the camera basis: forward = normalize(direction),
// right = normalize(up × forward), up = forward × right.
func NewCamera(config CameraConfig) (*Camera, error) {
	direction := config.Direction
	if direction.IsZero() {
		direction = config.LookAt.Subtract(config.Position)
	}
	if direction.IsZero() {
		return nil, errors.New("camera direction must be non-zero")
	}
	if config.Up.IsZero() {
		return nil, errors.New("camera up vector must be non-zero")
	}
	if err := validateFov(config.VFov); err != nil {
		return nil, err
	}
	if !(config.AspectRatio > 0) {
		return nil, fmt.Errorf("camera aspect ratio must be positive, got %g", config.AspectRatio)
	}

	forward := direction.Normalize()
	right := config.Up.Cross(forward)
	if right.Length() < 1e-12 {
		return nil, errors.New("camera up vector is parallel to the view direction")
	}
	right = right.Normalize()
	up := forward.Cross(right)

	return &Camera{
		Position:    config.Position,
		Forward:     forward,
		Up:          up,
		Right:       right,
		vfov:        config.VFov,
		aspectRatio: config.AspectRatio,
		halfFovTan:  math.Tan(config.VFov / 2),
	}, nil
}

func validateFov(vfov float64) error {
	if !(vfov > 0 && vfov < math.Pi) {
		return fmt.Errorf("camera vertical fov must be in (0, pi) radians, got %g", vfov)
	}
	return nil
}

// VFov returns the vertical field of view in radians
func (c *Camera) VFov() float64 { return c.vfov }

// AspectRatio returns width / height
func (c *Camera) AspectRatio() float64 { return c.aspectRatio }

// HalfFovTan returns the cached tan(vfov/2)
func (c *Camera) HalfFovTan() float64 { return c.halfFovTan }

// SetVFov changes the field of view and recomputes the cached tangent
func (c *Camera) SetVFov(vfov float64) error {
	if err := validateFov(vfov); err != nil {
		return err
	}
	c.vfov = vfov
	c.halfFovTan = math.Tan(vfov / 2)
	return nil
}

// SetAspectRatio changes the aspect ratio, e.g. after a viewport resize
func (c *Camera) SetAspectRatio(aspect float64) error {
	if !(aspect > 0) {
		return fmt.Errorf("camera aspect ratio must be positive, got %g", aspect)
	}
	c.aspectRatio = aspect
	return nil
}

// Snapshot returns a copy of the camera for use during one frame
func (c *Camera) Snapshot() Camera {
	return *c
}

// GetRay generates the primary ray for normalized screen coordinates (x, y) in [-1, 1].
// Increasing y moves toward Up; increasing x moves toward Right.
func (c *Camera) GetRay(x, y float64) core.Ray {
	vpUp := c.Up.Multiply(c.halfFovTan)
	vpRight := c.Right.Multiply(c.halfFovTan * c.aspectRatio)

	direction := c.Forward.
		Add(vpRight.Multiply(x)).
		Add(vpUp.Multiply(y)).
		Normalize()

	return core.NewRay(c.Position, direction)
}

// ShiftVertical moves the camera along its up vector
func (c *Camera) ShiftVertical(distance float64) {
	c.Position = c.Position.Add(c.Up.Multiply(distance))
}

// ShiftLateral moves the camera along its right vector
func (c *Camera) ShiftLateral(distance float64) {
	c.Position = c.Position.Add(c.Right.Multiply(distance))
}

// ShiftLongitudinal moves the camera along its forward vector
func (c *Camera) ShiftLongitudinal(distance float64) {
	c.Position = c.Position.Add(c.Forward.Multiply(distance))
}

// RotatePitch rotates forward about right; positive angles pitch down
func (c *Camera) RotatePitch(angle float64) {
	c.Forward = c.Forward.Rotate(c.Right, angle).Normalize()
	c.Up = c.Forward.Cross(c.Right).Normalize()
}

// RotateYaw rotates forward about up; positive angles yaw right
func (c *Camera) RotateYaw(angle float64) {
	c.Forward = c.Forward.Rotate(c.Up, angle).Normalize()
	c.Right = c.Up.Cross(c.Forward).Normalize()
}

// RotateRoll rotates up about forward; positive angles roll left
func (c *Camera) RotateRoll(angle float64) {
	c.Up = c.Up.Rotate(c.Forward, angle).Normalize()
	c.Right = c.Up.Cross(c.Forward).Normalize()
}
