package orbit

import "math"

// clockSlack absorbs the rounding of repeated subtractions, so that feeding
// 3·dt at once runs as many steps as feeding dt three times.
const clockSlack = 1e-9

// Clock is a fixed timestep accumulator.
// Real time is accumulated by Accumulate and drained dt by dt with Consume.
type Clock struct {
	dt          float64
	accumulator float64
	// MaxFrameTime clamps each accumulated delta, 0 disables the clamp
	MaxFrameTime float64
	steps        uint64
}

func NewClock(dt float64) *Clock {
	return &Clock{dt: dt}
}

func (c *Clock) Timestep() float64 {
	return c.dt
}

// Accumulate adds a real delta, in seconds. Negative and non finite deltas are ignored.
func (c *Clock) Accumulate(realDelta float64) {
	if !(realDelta > 0) || math.IsInf(realDelta, 0) {
		return
	}
	if c.MaxFrameTime > 0 {
		realDelta = math.Min(realDelta, c.MaxFrameTime)
	}
	c.accumulator += realDelta
}

// Consume reports whether a fixed step is due, and removes dt from the
// accumulator when it is.
func (c *Clock) Consume() bool {
	if c.accumulator+c.dt*clockSlack < c.dt {
		return false
	}

	c.accumulator = math.Max(c.accumulator-c.dt, 0)
	c.steps++

	return true
}

// Pending returns the unconsumed real time
func (c *Clock) Pending() float64 {
	return c.accumulator
}

// Alpha returns the fraction of a step left in the accumulator, in [0, 1).
// Renderers use it to interpolate between the last two states.
func (c *Clock) Alpha() float64 {
	return math.Min(c.accumulator/c.dt, 1)
}

// Steps returns the number of fixed steps consumed so far
func (c *Clock) Steps() uint64 {
	return c.steps
}
