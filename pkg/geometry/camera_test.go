package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

func near(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func newTestCamera(t *testing.T) *Camera {
	t.Helper()
	cam, err := NewCamera(CameraConfig{
		Position:    core.Zero(),
		Direction:   core.NewVec3(0, 0, 1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        math.Pi / 2,
		AspectRatio: 2,
	})
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}
	return cam
}

func assertOrthonormal(t *testing.T, cam *Camera) {
	t.Helper()
	for name, v := range map[string]core.Vec3{"forward": cam.Forward, "up": cam.Up, "right": cam.Right} {
		if math.Abs(v.Length()-1) > 1e-9 {
			t.Errorf("Expected unit %s, got length %f", name, v.Length())
		}
	}
	if d := cam.Forward.Dot(cam.Up); math.Abs(d) > 1e-9 {
		t.Errorf("forward·up = %g, expected 0", d)
	}
	if d := cam.Forward.Dot(cam.Right); math.Abs(d) > 1e-9 {
		t.Errorf("forward·right = %g, expected 0", d)
	}
	if d := cam.Up.Dot(cam.Right); math.Abs(d) > 1e-9 {
		t.Errorf("up·right = %g, expected 0", d)
	}
	// Right-handed convention: up × forward = right
	if r := cam.Up.Cross(cam.Forward); !near(r, cam.Right, 1e-9) {
		t.Errorf("Expected up×forward = right %v, got %v", cam.Right, r)
	}
}

func TestNewCamera_Basis(t *testing.T) {
	cam := newTestCamera(t)

	if cam.Forward != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected forward (0,0,1), got %v", cam.Forward)
	}
	if cam.Right != core.NewVec3(1, 0, 0) {
		t.Errorf("Expected right (1,0,0), got %v", cam.Right)
	}
	if cam.Up != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected up (0,1,0), got %v", cam.Up)
	}
	if math.Abs(cam.HalfFovTan()-1) > 1e-12 {
		t.Errorf("Expected tan(pi/4)=1, got %f", cam.HalfFovTan())
	}
	assertOrthonormal(t, cam)
}

func TestNewCamera_LookAtAndSkewedUp(t *testing.T) {
	cam, err := NewCamera(CameraConfig{
		Position:    core.NewVec3(1, 2, 3),
		LookAt:      core.NewVec3(4, -1, 7),
		Up:          core.NewVec3(0.2, 1, 0.1),
		VFov:        1,
		AspectRatio: 4.0 / 3.0,
	})
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}

	expectedForward := core.NewVec3(3, -3, 4).Normalize()
	if !near(cam.Forward, expectedForward, 1e-12) {
		t.Errorf("Expected forward %v, got %v", expectedForward, cam.Forward)
	}
	assertOrthonormal(t, cam)
}

func TestNewCamera_Errors(t *testing.T) {
	valid := CameraConfig{
		Direction:   core.NewVec3(0, 0, 1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        math.Pi / 3,
		AspectRatio: 1,
	}

	tests := []struct {
		name   string
		modify func(c *CameraConfig)
	}{
		{"zero direction", func(c *CameraConfig) { c.Direction = core.Zero() }},
		{"zero up", func(c *CameraConfig) { c.Up = core.Zero() }},
		{"up parallel to direction", func(c *CameraConfig) { c.Up = core.NewVec3(0, 0, -2) }},
		{"zero fov", func(c *CameraConfig) { c.VFov = 0 }},
		{"fov of pi", func(c *CameraConfig) { c.VFov = math.Pi }},
		{"negative aspect", func(c *CameraConfig) { c.AspectRatio = -1 }},
		{"nan aspect", func(c *CameraConfig) { c.AspectRatio = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.modify(&cfg)
			if _, err := NewCamera(cfg); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}

	if _, err := NewCamera(valid); err != nil {
		t.Errorf("Expected valid config to succeed, got %v", err)
	}
}

func TestCamera_GetRay(t *testing.T) {
	cam := newTestCamera(t)

	tests := []struct {
		name     string
		x, y     float64
		expected core.Vec3
	}{
		{"center", 0, 0, core.NewVec3(0, 0, 1)},
		{"top right", 1, 1, core.NewVec3(2, 1, 1).Normalize()},
		{"bottom left", -1, -1, core.NewVec3(-2, -1, 1).Normalize()},
		{"right edge", 1, 0, core.NewVec3(2, 0, 1).Normalize()},
		{"top edge", 0, 1, core.NewVec3(0, 1, 1).Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := cam.GetRay(tt.x, tt.y)
			if ray.Origin != cam.Position {
				t.Errorf("Expected origin %v, got %v", cam.Position, ray.Origin)
			}
			if !near(ray.Direction, tt.expected, 1e-12) {
				t.Errorf("Expected direction %v, got %v", tt.expected, ray.Direction)
			}
			if math.Abs(ray.Direction.Length()-1) > 1e-12 {
				t.Errorf("Expected unit direction, got length %f", ray.Direction.Length())
			}
		})
	}
}

func TestCamera_SetVFov(t *testing.T) {
	cam := newTestCamera(t)

	if err := cam.SetVFov(math.Pi / 3); err != nil {
		t.Fatalf("SetVFov failed: %v", err)
	}
	if math.Abs(cam.HalfFovTan()-math.Tan(math.Pi/6)) > 1e-15 {
		t.Errorf("Expected cached tangent %f, got %f", math.Tan(math.Pi/6), cam.HalfFovTan())
	}
	if cam.VFov() != math.Pi/3 {
		t.Errorf("Expected vfov %f, got %f", math.Pi/3, cam.VFov())
	}

	// A rejected value leaves the camera unchanged
	if err := cam.SetVFov(-1); err == nil {
		t.Error("Expected error for negative fov")
	}
	if cam.VFov() != math.Pi/3 {
		t.Errorf("Expected vfov to remain %f, got %f", math.Pi/3, cam.VFov())
	}

	if err := cam.SetAspectRatio(0); err == nil {
		t.Error("Expected error for zero aspect ratio")
	}
	if err := cam.SetAspectRatio(1.5); err != nil || cam.AspectRatio() != 1.5 {
		t.Errorf("Expected aspect 1.5, got %f (err %v)", cam.AspectRatio(), err)
	}
}

func TestCamera_Shifts(t *testing.T) {
	cam := newTestCamera(t)
	cam.ShiftLongitudinal(2)
	cam.ShiftLateral(-1)
	cam.ShiftVertical(0.5)

	if expected := core.NewVec3(-1, 0.5, 2); !near(cam.Position, expected, 1e-15) {
		t.Errorf("Expected position %v, got %v", expected, cam.Position)
	}
	if cam.Forward != core.NewVec3(0, 0, 1) {
		t.Errorf("Shifts must not change orientation, forward is %v", cam.Forward)
	}
}

func TestCamera_Rotations(t *testing.T) {
	tests := []struct {
		name            string
		rotate          func(c *Camera)
		expectedForward core.Vec3
		expectedUp      core.Vec3
		expectedRight   core.Vec3
	}{
		{
			name:            "pitch down",
			rotate:          func(c *Camera) { c.RotatePitch(math.Pi / 2) },
			expectedForward: core.NewVec3(0, -1, 0),
			expectedUp:      core.NewVec3(0, 0, 1),
			expectedRight:   core.NewVec3(1, 0, 0),
		},
		{
			name:            "yaw right",
			rotate:          func(c *Camera) { c.RotateYaw(math.Pi / 2) },
			expectedForward: core.NewVec3(1, 0, 0),
			expectedUp:      core.NewVec3(0, 1, 0),
			expectedRight:   core.NewVec3(0, 0, -1),
		},
		{
			name:            "roll left",
			rotate:          func(c *Camera) { c.RotateRoll(math.Pi / 2) },
			expectedForward: core.NewVec3(0, 0, 1),
			expectedUp:      core.NewVec3(-1, 0, 0),
			expectedRight:   core.NewVec3(0, 1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := newTestCamera(t)
			tt.rotate(cam)

			if !near(cam.Forward, tt.expectedForward, 1e-12) {
				t.Errorf("Expected forward %v, got %v", tt.expectedForward, cam.Forward)
			}
			if !near(cam.Up, tt.expectedUp, 1e-12) {
				t.Errorf("Expected up %v, got %v", tt.expectedUp, cam.Up)
			}
			if !near(cam.Right, tt.expectedRight, 1e-12) {
				t.Errorf("Expected right %v, got %v", tt.expectedRight, cam.Right)
			}
			assertOrthonormal(t, cam)
		})
	}
}

func TestCamera_RotationsStayOrthonormal(t *testing.T) {
	cam := newTestCamera(t)
	for i := 0; i < 500; i++ {
		cam.RotatePitch(0.013)
		cam.RotateYaw(-0.021)
		cam.RotateRoll(0.007)
	}
	assertOrthonormal(t, cam)
}

// Rotate must agree with quaternion rotation for arbitrary axes and angles
func TestRotate_MatchesQuaternion(t *testing.T) {
	axes := []core.Vec3{
		core.NewVec3(1, 0, 0),
		core.NewVec3(0.3, -0.7, 0.2).Normalize(),
		core.NewVec3(-1, 2, 5).Normalize(),
	}
	vectors := []core.Vec3{
		core.NewVec3(0, 0, 1),
		core.NewVec3(1.5, -2, 0.25),
	}
	angles := []float64{0.05, 1, -2.2, math.Pi}

	for _, axis := range axes {
		for _, v := range vectors {
			for _, angle := range angles {
				q := mgl64.QuatRotate(angle, mgl64.Vec3{axis.X, axis.Y, axis.Z})
				ref := q.Rotate(mgl64.Vec3{v.X, v.Y, v.Z})
				expected := core.NewVec3(ref[0], ref[1], ref[2])

				if got := v.Rotate(axis, angle); !near(got, expected, 1e-12) {
					t.Errorf("axis %v angle %f: expected %v, got %v", axis, angle, expected, got)
				}
			}
		}
	}
}

func TestCamera_Snapshot(t *testing.T) {
	cam := newTestCamera(t)
	snap := cam.Snapshot()
	cam.RotateYaw(0.5)
	cam.ShiftLateral(3)

	if snap.Forward != core.NewVec3(0, 0, 1) || snap.Position != core.Zero() {
		t.Errorf("Snapshot changed after mutating the camera: %+v", snap)
	}
	if snap.HalfFovTan() != cam.HalfFovTan() {
		t.Error("Snapshot lost the cached tangent")
	}
}
