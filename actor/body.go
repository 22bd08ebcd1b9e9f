package actor

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidMass is returned when a body is given a mass that is zero,
// negative or not finite.
var ErrInvalidMass = errors.New("mass must be finite and greater than zero")

// Body is a massive sphere simulated by the engine.
// The engine reads and writes its fields during a step but never keeps a
// reference to it afterwards; the caller owns the body.
type Body struct {
	Position     mgl64.Vec3
	Velocity     mgl64.Vec3
	Acceleration mgl64.Vec3
	// Force is the net force of the last step (field gravity + drained accumulator)
	Force mgl64.Vec3

	// Radius is only used for collision tests.
	// A negative value means the geometry is not generated yet, see NormalizeRadius.
	Radius float64

	// IsExempt bodies (light sources) exert and receive no gravity
	// and take part in no collision. They are still integrated.
	IsExempt bool

	// TracePoints is the position history, appended by Record.
	// The physics never reads it.
	TracePoints []mgl64.Vec3
	// TraceLimit keeps only the most recent points when > 0
	TraceLimit int

	mass             float64
	accumulatedForce mgl64.Vec3
}

// NewBody creates a body at rest.
// The mass is rejected with ErrInvalidMass when it is <= 0, NaN or infinite.
func NewBody(position mgl64.Vec3, radius float64, mass float64) (*Body, error) {
	b := &Body{
		Position: position,
		Radius:   radius,
	}
	if err := b.SetMass(mass); err != nil {
		return nil, err
	}

	return b, nil
}

func (b *Body) Mass() float64 {
	return b.mass
}

// SetMass changes the mass, with the same rules as NewBody.
func (b *Body) SetMass(mass float64) error {
	if mass <= 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidMass, mass)
	}
	b.mass = mass

	return nil
}

// NormalizeRadius replaces the "not generated" sentinel (a negative radius)
// with def. It reports whether the radius was changed.
func (b *Body) NormalizeRadius(def float64) bool {
	if b.Radius >= 0 {
		return false
	}
	b.Radius = def

	return true
}

// AddForce adds a contribution to the pending force accumulator.
func (b *Body) AddForce(force mgl64.Vec3) {
	b.accumulatedForce = b.accumulatedForce.Add(force)
}

// PendingForce returns the accumulator without draining it.
func (b *Body) PendingForce() mgl64.Vec3 {
	return b.accumulatedForce
}

// DrainForce returns the accumulated force and resets the accumulator.
func (b *Body) DrainForce() mgl64.Vec3 {
	f := b.accumulatedForce
	b.ClearForces()

	return f
}

func (b *Body) ClearForces() {
	b.accumulatedForce = mgl64.Vec3{0, 0, 0}
}

// Integrate runs one semi-implicit Euler step.
// The velocity is updated with dt, then the position with the new velocity
// scaled by dt*speed: speed stretches the motion, not the force/acceleration relation.
// field is a uniform gravitational acceleration applied to the mass.
func (b *Body) Integrate(dt float64, speed float64, field mgl64.Vec3) {
	b.Force = field.Mul(b.mass).Add(b.DrainForce())
	b.Acceleration = b.Force.Mul(1.0 / b.mass)

	b.Velocity = b.Velocity.Add(b.Acceleration.Mul(dt))
	b.Position = b.Position.Add(b.Velocity.Mul(dt * speed))
}

// Decay applies the exponential velocity decay v *= e^(-lambda*dt).
// Velocities already near zero are left untouched to avoid denormal drift.
func (b *Body) Decay(lambda float64, dt float64, epsilon float64) {
	if lambda == 0 || IsNearZero(b.Velocity, epsilon) {
		return
	}
	b.Velocity = b.Velocity.Mul(math.Exp(-lambda * dt))
}

// ApplyImpulse changes the velocity instantly by deltaVelocity.
func (b *Body) ApplyImpulse(deltaVelocity mgl64.Vec3) {
	b.Velocity = b.Velocity.Add(deltaVelocity)
}

// Record appends the current position to TracePoints.
func (b *Body) Record() {
	b.TracePoints = append(b.TracePoints, b.Position)

	if b.TraceLimit > 0 && len(b.TracePoints) > b.TraceLimit {
		n := copy(b.TracePoints, b.TracePoints[len(b.TracePoints)-b.TraceLimit:])
		b.TracePoints = b.TracePoints[:n]
	}
}

// AABB returns the bounding box of the sphere
func (b *Body) AABB() AABB {
	r := math.Max(b.Radius, 0)
	radiusVec := mgl64.Vec3{r, r, r}

	return AABB{
		Min: b.Position.Sub(radiusVec),
		Max: b.Position.Add(radiusVec),
	}
}

// IsFinite reports whether position and velocity are free of NaN and Inf
func (b *Body) IsFinite() bool {
	return IsFinite(b.Position) && IsFinite(b.Velocity)
}
