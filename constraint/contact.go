package constraint

import (
	"math"

	"github.com/akmonengine/orbit/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// ContactConstraint is a sphere-sphere contact between two bodies
type ContactConstraint struct {
	BodyA *actor.Body
	BodyB *actor.Body
	// Normal points from BodyA to BodyB
	Normal mgl64.Vec3
	// Penetration is (rA + rB) - distance, may be slightly negative inside the epsilon band
	Penetration float64
}

// AreColliding reports whether the spheres touch: |pB - pA|² <= (rA + rB)² + epsilon
func AreColliding(bodyA, bodyB *actor.Body, epsilon float64) bool {
	d := bodyB.Position.Sub(bodyA.Position)
	radiusSum := bodyA.Radius + bodyB.Radius

	return d.Dot(d) <= radiusSum*radiusSum+epsilon
}

// Detect returns a contact for two touching, non exempt bodies.
// Pairs where both bodies are already at rest are not reported.
func Detect(bodyA, bodyB *actor.Body, epsilon float64) (*ContactConstraint, bool) {
	if bodyA.IsExempt || bodyB.IsExempt {
		return nil, false
	}
	if !AreColliding(bodyA, bodyB, epsilon) {
		return nil, false
	}
	if isResting(bodyA, epsilon) && isResting(bodyB, epsilon) {
		return nil, false
	}

	d := bodyB.Position.Sub(bodyA.Position)

	return &ContactConstraint{
		BodyA:       bodyA,
		BodyB:       bodyB,
		Normal:      actor.SafeNormalize(d),
		Penetration: bodyA.Radius + bodyB.Radius - d.Len(),
	}, true
}

// SolvePosition pushes the bodies apart, each by half the overlap along the normal.
// The split ignores the mass ratio.
func (c *ContactConstraint) SolvePosition() {
	if c.Penetration <= 0 {
		return
	}

	correction := c.Normal.Mul(c.Penetration / 2.0)
	c.BodyA.Position = c.BodyA.Position.Sub(correction)
	c.BodyB.Position = c.BodyB.Position.Add(correction)
}

// SolveVelocity applies the 1-D elastic collision formula to the velocities,
// as if every impact were head-on:
//
//	vA' = ((mA - mB) vA + 2 mB vB) / (mA + mB)
//	vB' = (2 mA vA + (mB - mA) vB) / (mA + mB)
func (c *ContactConstraint) SolveVelocity() {
	massA := c.BodyA.Mass()
	massB := c.BodyB.Mass()
	totalMass := massA + massB
	if totalMass <= 0 || math.IsInf(totalMass, 0) {
		return
	}

	vA := c.BodyA.Velocity
	vB := c.BodyB.Velocity

	c.BodyA.Velocity = vA.Mul(massA - massB).Add(vB.Mul(2 * massB)).Mul(1.0 / totalMass)
	c.BodyB.Velocity = vA.Mul(2 * massA).Add(vB.Mul(massB - massA)).Mul(1.0 / totalMass)
}
