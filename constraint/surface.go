package constraint

import (
	"math"

	"github.com/akmonengine/orbit/actor"
)

const (
	DefaultSurfaceRestitution = 0.8
	DefaultRestingSpeed       = 0.1
)

// Surface is the horizontal ground plane y = Height.
type Surface struct {
	Height float64
	// Restitution is the fraction of the vertical velocity kept after a bounce,
	// 1 = perfect bounce, 0 = no rebound
	Restitution float64
	// RestingSpeed: a bounce slower than this snaps the vertical velocity to zero
	RestingSpeed float64
	Epsilon      float64
}

// OnSurface reports whether the bottom of the body touches or crossed the plane.
func (s Surface) OnSurface(body *actor.Body) bool {
	return body.Position.Y()-body.Radius <= s.Height+s.Epsilon
}

// Resolve bounces the body off the plane: the vertical velocity is inverted and
// scaled by Restitution, and the body is put back on top of the plane.
// It reports whether the body came to rest (vertical velocity snapped to zero).
func (s Surface) Resolve(body *actor.Body) bool {
	body.Velocity[1] = -body.Velocity[1] * s.Restitution
	body.Position[1] = s.Height + body.Radius

	if math.Abs(body.Velocity[1]) < s.RestingSpeed {
		body.Velocity[1] = 0
		return true
	}

	return false
}

// Collide runs Resolve when the body is on the surface.
// contact reports a touch, rested whether the body is now at rest on the plane.
func (s Surface) Collide(body *actor.Body) (contact bool, rested bool) {
	if body.IsExempt || !s.OnSurface(body) {
		return false, false
	}

	return true, s.Resolve(body)
}
