package core

import (
	"math"
	"testing"
)

func vecNear(a, b Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(1.5, 2.5, 3.5)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"add", a.Add(b), NewVec3(2.5, 4.5, 6.5)},
		{"subtract", b.Subtract(a), NewVec3(0.5, 0.5, 0.5)},
		{"multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"divide", a.Divide(2), NewVec3(0.5, 1, 1.5)},
		{"negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"hadamard", a.MultiplyVec(b), NewVec3(1.5, 5, 10.5)},
		{"cross", a.Cross(NewVec3(2, 3, 4)), NewVec3(2*4-3*3, 3*2-1*4, 1*3-2*2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestVec3_Immutable(t *testing.T) {
	v := NewVec3(1, 2, 3)
	_ = v.Add(NewVec3(1, 1, 1))
	_ = v.Multiply(5)
	_ = v.Normalize()
	if v != NewVec3(1, 2, 3) {
		t.Errorf("Operations mutated the receiver: %v", v)
	}
}

func TestVec3_LengthAndDot(t *testing.T) {
	v := NewVec3(1, 2, 3)
	if v.LengthSquared() != 14 {
		t.Errorf("Expected squared length 14, got %f", v.LengthSquared())
	}
	if v.Length() != math.Sqrt(14) {
		t.Errorf("Expected length sqrt(14), got %f", v.Length())
	}
	if d := v.Dot(NewVec3(2, 3, 4)); d != 20 {
		t.Errorf("Expected dot 20, got %f", d)
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(4, 6, 7).Normalize()
	if math.Abs(v.Length()-1) > 1e-15 {
		t.Errorf("Expected unit length, got %f", v.Length())
	}
	if v.X != 4/math.Sqrt(101) {
		t.Errorf("Expected x=%f, got %f", 4/math.Sqrt(101), v.X)
	}

	// Zero vector has no direction and must not be silently repaired
	if !Zero().Normalize().HasNaN() {
		t.Error("Expected NaN components when normalizing the zero vector")
	}
}

func TestVec3_Rotate(t *testing.T) {
	v := NewVec3(1, 1, 1)
	tests := []struct {
		name     string
		axis     Vec3
		angle    float64
		expected Vec3
	}{
		{"pitch +90", UnitX(), math.Pi / 2, NewVec3(1, -1, 1)},
		{"pitch -90", UnitX(), -math.Pi / 2, NewVec3(1, 1, -1)},
		{"yaw +90", UnitY(), math.Pi / 2, NewVec3(1, 1, -1)},
		{"yaw -90", UnitY(), -math.Pi / 2, NewVec3(-1, 1, 1)},
		{"roll +90", UnitZ(), math.Pi / 2, NewVec3(-1, 1, 1)},
		{"roll -90", UnitZ(), -math.Pi / 2, NewVec3(1, -1, 1)},
		{"no rotation", UnitZ(), 0, v},
		{"full turn", UnitY(), 2 * math.Pi, v},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Rotate(tt.axis, tt.angle)
			if !vecNear(result, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestVec3_RotatePreservesLength(t *testing.T) {
	v := NewVec3(0.3, -2, 5)
	axis := NewVec3(1, 2, -1).Normalize()
	for _, angle := range []float64{0.1, 1, 2.5, -4} {
		r := v.Rotate(axis, angle)
		if math.Abs(r.Length()-v.Length()) > 1e-12 {
			t.Errorf("angle %f: length changed from %f to %f", angle, v.Length(), r.Length())
		}
	}
}

func TestVec3_Reflect(t *testing.T) {
	v := NewVec3(-1, -1, -1)
	n := NewVec3(1, 0, 0)

	if r := v.Reflect(n); r != NewVec3(1, -1, -1) {
		t.Errorf("Expected (1,-1,-1), got %v", r)
	}

	// Reflecting the negated reflection returns the negated input
	if r := v.Reflect(n).Negate().Reflect(n); r != v.Negate() {
		t.Errorf("Expected %v, got %v", v.Negate(), r)
	}
}

func TestVec3_ClampAndGamma(t *testing.T) {
	c := NewVec3(-0.5, 0.25, 3).Clamp(0, 1)
	if c != NewVec3(0, 0.25, 1) {
		t.Errorf("Expected (0,0.25,1), got %v", c)
	}

	g := NewVec3(0.25, 1, 0).GammaCorrect(2)
	if !vecNear(g, NewVec3(0.5, 1, 0), 1e-15) {
		t.Errorf("Expected (0.5,1,0), got %v", g)
	}
}

func TestRay_At(t *testing.T) {
	r := NewRay(NewVec3(1, 0, 0), NewVec3(0, 2, 0))
	if p := r.At(1.5); p != NewVec3(1, 3, 0) {
		t.Errorf("Expected (1,3,0), got %v", p)
	}
}
