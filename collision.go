package orbit

import (
	"github.com/akmonengine/orbit/actor"
	"github.com/akmonengine/orbit/constraint"
)

// collide resolves, body by body in slice order, the surface contact first
// and then the contacts with every later body.
// Contacts are solved as soon as they are found, so a body pushed by an
// earlier pair is tested at its corrected position.
func (e *Engine) collide(bodies []*actor.Body) {
	for i, body := range bodies {
		if body.IsExempt {
			continue
		}

		if e.config.Surface {
			if contact, rested := e.surface.Collide(body); contact {
				e.Events.recordSurfaceContact(i, body, rested)
			}
		}

		for j := i + 1; j < len(bodies); j++ {
			contact, ok := constraint.Detect(body, bodies[j], e.config.Epsilon)
			if !ok {
				continue
			}

			solve(contact)
			e.Events.recordCollision(i, j)
		}
	}
}

func solve(c constraint.Constraint) {
	c.SolvePosition()
	c.SolveVelocity()
}
