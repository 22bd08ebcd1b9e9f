package actor

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// =============================================================================
// NewBody Tests
// =============================================================================

func TestNewBody(t *testing.T) {
	position := mgl64.Vec3{1, 2, 3}
	body, err := NewBody(position, 0.5, 10)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}

	if body.Mass() != 10 {
		t.Errorf("Mass() = %v, want 10", body.Mass())
	}
	if body.Position != position {
		t.Errorf("Position = %v, want %v", body.Position, position)
	}
	if body.Velocity != (mgl64.Vec3{}) {
		t.Errorf("Velocity = %v, want zero", body.Velocity)
	}
	if body.Radius != 0.5 {
		t.Errorf("Radius = %v, want 0.5", body.Radius)
	}
	if body.IsExempt {
		t.Error("new body should not be exempt")
	}
}

func TestNewBody_InvalidMass(t *testing.T) {
	tests := []struct {
		name string
		mass float64
	}{
		{"zero", 0},
		{"negative", -1},
		{"NaN", math.NaN()},
		{"+Inf", math.Inf(1)},
		{"-Inf", math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := NewBody(mgl64.Vec3{}, 1, tt.mass)
			if !errors.Is(err, ErrInvalidMass) {
				t.Errorf("NewBody() error = %v, want ErrInvalidMass", err)
			}
			if body != nil {
				t.Error("NewBody() should not return a body on error")
			}
		})
	}
}

func TestSetMass_KeepsPreviousOnError(t *testing.T) {
	body := newTestBody(t, mgl64.Vec3{}, 5)

	if err := body.SetMass(-3); err == nil {
		t.Fatal("SetMass(-3) should fail")
	}
	if body.Mass() != 5 {
		t.Errorf("Mass() = %v, want 5", body.Mass())
	}
}

func TestNormalizeRadius(t *testing.T) {
	tests := []struct {
		name    string
		radius  float64
		want    float64
		changed bool
	}{
		{"sentinel replaced", -1, 1.5, true},
		{"zero kept", 0, 0, false},
		{"positive kept", 2.5, 2.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := newTestBody(t, mgl64.Vec3{}, 1)
			body.Radius = tt.radius

			changed := body.NormalizeRadius(1.5)
			if changed != tt.changed {
				t.Errorf("NormalizeRadius() = %v, want %v", changed, tt.changed)
			}
			if body.Radius != tt.want {
				t.Errorf("Radius = %v, want %v", body.Radius, tt.want)
			}
		})
	}
}

// =============================================================================
// Force accumulator Tests
// =============================================================================

func TestDrainForce(t *testing.T) {
	body := newTestBody(t, mgl64.Vec3{}, 1)
	body.AddForce(mgl64.Vec3{1, 0, 0})
	body.AddForce(mgl64.Vec3{0, 2, 0})

	if got := body.PendingForce(); got != (mgl64.Vec3{1, 2, 0}) {
		t.Errorf("PendingForce() = %v, want [1 2 0]", got)
	}

	drained := body.DrainForce()
	if drained != (mgl64.Vec3{1, 2, 0}) {
		t.Errorf("DrainForce() = %v, want [1 2 0]", drained)
	}
	if got := body.PendingForce(); got != (mgl64.Vec3{}) {
		t.Errorf("accumulator after drain = %v, want zero", got)
	}
}

// =============================================================================
// Integration Tests
// =============================================================================

func TestIntegrate_SemiImplicitEuler(t *testing.T) {
	body := newTestBody(t, mgl64.Vec3{0, 0, 0}, 2)
	body.Velocity = mgl64.Vec3{1, 0, 0}
	body.AddForce(mgl64.Vec3{4, 0, 0})

	dt := 0.5
	body.Integrate(dt, 1, mgl64.Vec3{})

	// a = 4/2 = 2, v = 1 + 2*0.5 = 2, p = 0 + 2*0.5 = 1
	if !vec3AlmostEqual(body.Acceleration, mgl64.Vec3{2, 0, 0}, 1e-12) {
		t.Errorf("Acceleration = %v, want [2 0 0]", body.Acceleration)
	}
	if !vec3AlmostEqual(body.Velocity, mgl64.Vec3{2, 0, 0}, 1e-12) {
		t.Errorf("Velocity = %v, want [2 0 0]", body.Velocity)
	}
	if !vec3AlmostEqual(body.Position, mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("Position = %v, want [1 0 0] (position uses the updated velocity)", body.Position)
	}
	if body.PendingForce() != (mgl64.Vec3{}) {
		t.Error("accumulator should be drained by Integrate")
	}
	if !vec3AlmostEqual(body.Force, mgl64.Vec3{4, 0, 0}, 1e-12) {
		t.Errorf("Force = %v, want [4 0 0]", body.Force)
	}
}

func TestIntegrate_SpeedScalesPositionOnly(t *testing.T) {
	slow := newTestBody(t, mgl64.Vec3{}, 1)
	fast := newTestBody(t, mgl64.Vec3{}, 1)
	slow.AddForce(mgl64.Vec3{0, 6, 0})
	fast.AddForce(mgl64.Vec3{0, 6, 0})

	slow.Integrate(0.1, 1, mgl64.Vec3{})
	fast.Integrate(0.1, 3, mgl64.Vec3{})

	if slow.Velocity != fast.Velocity {
		t.Errorf("velocity should not depend on speed: %v vs %v", slow.Velocity, fast.Velocity)
	}
	if !almostEqual(fast.Position.Y(), 3*slow.Position.Y(), 1e-12) {
		t.Errorf("fast position = %v, want 3x %v", fast.Position.Y(), slow.Position.Y())
	}
}

func TestIntegrate_FieldGravity(t *testing.T) {
	body := newTestBody(t, mgl64.Vec3{}, 4)
	body.Integrate(1, 1, mgl64.Vec3{0, -10, 0})

	if !vec3AlmostEqual(body.Force, mgl64.Vec3{0, -40, 0}, 1e-12) {
		t.Errorf("Force = %v, want [0 -40 0]", body.Force)
	}
	if !vec3AlmostEqual(body.Acceleration, mgl64.Vec3{0, -10, 0}, 1e-12) {
		t.Errorf("Acceleration = %v, want [0 -10 0]", body.Acceleration)
	}
}

func TestDecay(t *testing.T) {
	tests := []struct {
		name     string
		velocity mgl64.Vec3
		lambda   float64
		want     mgl64.Vec3
	}{
		{"disabled", mgl64.Vec3{2, 0, 0}, 0, mgl64.Vec3{2, 0, 0}},
		{"decays", mgl64.Vec3{2, 0, 0}, 1, mgl64.Vec3{2 * math.Exp(-0.5), 0, 0}},
		{"near zero untouched", mgl64.Vec3{5e-4, -5e-4, 0}, 1, mgl64.Vec3{5e-4, -5e-4, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := newTestBody(t, mgl64.Vec3{}, 1)
			body.Velocity = tt.velocity
			body.Decay(tt.lambda, 0.5, 1e-3)

			if !vec3AlmostEqual(body.Velocity, tt.want, 1e-12) {
				t.Errorf("Velocity = %v, want %v", body.Velocity, tt.want)
			}
		})
	}
}

func TestApplyImpulse(t *testing.T) {
	body := newTestBody(t, mgl64.Vec3{}, 1)
	body.Velocity = mgl64.Vec3{1, 1, 1}
	body.ApplyImpulse(mgl64.Vec3{1, -2, 0})

	if body.Velocity != (mgl64.Vec3{2, -1, 1}) {
		t.Errorf("Velocity = %v, want [2 -1 1]", body.Velocity)
	}
}

// =============================================================================
// Trace & bounds Tests
// =============================================================================

func TestRecord(t *testing.T) {
	body := newTestBody(t, mgl64.Vec3{}, 1)
	body.TraceLimit = 3

	for i := range 5 {
		body.Position = mgl64.Vec3{float64(i), 0, 0}
		body.Record()
	}

	if len(body.TracePoints) != 3 {
		t.Fatalf("len(TracePoints) = %d, want 3", len(body.TracePoints))
	}
	for i, p := range body.TracePoints {
		if p.X() != float64(i+2) {
			t.Errorf("TracePoints[%d] = %v, want x=%d", i, p, i+2)
		}
	}
}

func TestRecord_Unlimited(t *testing.T) {
	body := newTestBody(t, mgl64.Vec3{}, 1)
	for range 100 {
		body.Record()
	}
	if len(body.TracePoints) != 100 {
		t.Errorf("len(TracePoints) = %d, want 100", len(body.TracePoints))
	}
}

func TestBodyAABB(t *testing.T) {
	body := newTestBody(t, mgl64.Vec3{1, 2, 3}, 1)
	body.Radius = 0.5

	box := body.AABB()
	if box.Min != (mgl64.Vec3{0.5, 1.5, 2.5}) || box.Max != (mgl64.Vec3{1.5, 2.5, 3.5}) {
		t.Errorf("AABB() = %v", box)
	}

	// An ungenerated radius yields a point box
	body.Radius = -1
	box = body.AABB()
	if box.Min != body.Position || box.Max != body.Position {
		t.Errorf("AABB() with sentinel radius = %v, want point box", box)
	}
}

// =============================================================================
// Vector helpers Tests
// =============================================================================

func TestIsNearZero(t *testing.T) {
	tests := []struct {
		name string
		v    mgl64.Vec3
		want bool
	}{
		{"zero", mgl64.Vec3{0, 0, 0}, true},
		{"all within epsilon", mgl64.Vec3{1e-4, -9e-4, 1e-3}, true},
		{"one component above", mgl64.Vec3{0, 0, 2e-3}, false},
		{"large", mgl64.Vec3{-1, 0, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNearZero(tt.v, 1e-3); got != tt.want {
				t.Errorf("IsNearZero(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestSafeNormalize(t *testing.T) {
	if got := SafeNormalize(mgl64.Vec3{0, 0, 0}); got != (mgl64.Vec3{}) {
		t.Errorf("SafeNormalize(zero) = %v, want zero", got)
	}
	if got := SafeNormalize(mgl64.Vec3{math.NaN(), 0, 0}); got != (mgl64.Vec3{}) {
		t.Errorf("SafeNormalize(NaN) = %v, want zero", got)
	}

	got := SafeNormalize(mgl64.Vec3{3, 0, 4})
	if !vec3AlmostEqual(got, mgl64.Vec3{0.6, 0, 0.8}, 1e-12) {
		t.Errorf("SafeNormalize([3 0 4]) = %v, want [0.6 0 0.8]", got)
	}
}

func TestIsFinite(t *testing.T) {
	body := newTestBody(t, mgl64.Vec3{}, 1)
	if !body.IsFinite() {
		t.Error("body at origin should be finite")
	}
	body.Velocity = mgl64.Vec3{math.Inf(1), 0, 0}
	if body.IsFinite() {
		t.Error("body with infinite velocity should not be finite")
	}
}

// =============================================================================
// Helpers
// =============================================================================

func newTestBody(t *testing.T, position mgl64.Vec3, mass float64) *Body {
	t.Helper()
	body, err := NewBody(position, 1, mass)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}
	return body
}

// Helper function to compare floats with epsilon tolerance
func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// Helper function to compare Vec3 with epsilon tolerance
func vec3AlmostEqual(a, b mgl64.Vec3, epsilon float64) bool {
	return almostEqual(a.X(), b.X(), epsilon) &&
		almostEqual(a.Y(), b.Y(), epsilon) &&
		almostEqual(a.Z(), b.Z(), epsilon)
}
