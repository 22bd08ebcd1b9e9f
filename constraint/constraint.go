package constraint

import (
	"github.com/akmonengine/orbit/actor"
)

// Constraint is a collision response between bodies, solved in two passes:
// positions first (separation), then velocities.
type Constraint interface {
	SolvePosition()
	SolveVelocity()
}

// isResting reports whether a body has nothing left to resolve
func isResting(body *actor.Body, epsilon float64) bool {
	return actor.IsNearZero(body.Velocity, epsilon)
}
