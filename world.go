package orbit

import (
	"github.com/akmonengine/orbit/actor"
	"github.com/akmonengine/orbit/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

const DEFAULT_WORKERS = 1

// Engine advances a set of bodies on a fixed timestep.
// It owns its configuration, its clock and the termination flag; the bodies
// are owned by the caller and only borrowed for the duration of a call.
// An Engine is not safe for concurrent use.
type Engine struct {
	Events Events

	config     Config
	clock      *Clock
	solver     GravitySolver
	surface    constraint.Surface
	steps      uint64
	terminated bool
}

// NewEngine validates the configuration and creates an idle engine
func NewEngine(config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	clock := NewClock(config.Timestep)
	clock.MaxFrameTime = config.MaxFrameTime

	return &Engine{
		Events:  NewEvents(),
		config:  config,
		clock:   clock,
		solver:  config.GravitySolver(),
		surface: config.GroundSurface(),
	}, nil
}

func (e *Engine) Config() Config {
	return e.config
}

func (e *Engine) Clock() *Clock {
	return e.clock
}

// Steps returns the number of fixed steps run since creation
func (e *Engine) Steps() uint64 {
	return e.steps
}

// Advance feeds realDelta seconds of wall clock time to the engine and runs
// every fixed step that became due. It returns the number of steps run.
// The number of steps only depends on the sum of the deltas, not on how the
// sum was split across calls. Nothing runs once the engine is terminated.
func (e *Engine) Advance(bodies []*actor.Body, realDelta float64) int {
	if e.terminated {
		return 0
	}

	e.clock.Accumulate(realDelta)

	steps := 0
	for !e.terminated && e.clock.Consume() {
		e.step(bodies)
		steps++
	}

	e.Events.flush(bodies, steps > 0)

	return steps
}

// Step runs exactly one fixed step, bypassing the clock
func (e *Engine) Step(bodies []*actor.Body) {
	if e.terminated {
		return
	}

	e.step(bodies)
	e.Events.flush(bodies, true)
}

func (e *Engine) step(bodies []*actor.Body) {
	for _, body := range bodies {
		body.NormalizeRadius(e.config.DefaultRadius)
	}

	// Phase 1: gravity, every accumulator is complete before any integration
	e.solver.Accumulate(bodies)

	// Phase 2: integration
	h, speed := e.config.Timestep, e.config.Speed
	if e.config.UniformSpeed {
		h, speed = h*speed, 1
	}
	for _, body := range bodies {
		body.Integrate(h, speed, e.config.FieldGravity)
	}

	// Phase 3: surface and body-body collisions
	e.collide(bodies)

	// Phase 4: velocity decay
	for _, body := range bodies {
		body.Decay(e.config.VelocityDecay, h, e.config.Epsilon)
	}

	e.steps++
	if e.config.TraceInterval > 0 && e.steps%uint64(e.config.TraceInterval) == 0 {
		for _, body := range bodies {
			body.Record()
		}
	}

	e.CheckBounds(bodies)
}

// ShouldStop reports whether the simulation was terminated.
// There is no recovery: callers are expected to stop calling Advance.
func (e *Engine) ShouldStop() bool {
	return e.terminated
}

// Stop terminates the simulation
func (e *Engine) Stop() {
	e.terminated = true
}

// CheckBounds terminates the simulation when a non exempt body is entirely
// outside Config.Bounds. It does nothing without bounds.
func (e *Engine) CheckBounds(bodies []*actor.Body) bool {
	if e.config.Bounds == nil {
		return false
	}

	for _, body := range bodies {
		if body.IsExempt {
			continue
		}
		if !e.config.Bounds.Overlaps(body.AABB()) {
			e.terminated = true
			e.Events.emitBoundaryExit(body)
			return true
		}
	}

	return false
}

// ApplyImpulse changes the velocity of a body immediately, outside of the
// stepping loop. The next integration sees it.
func (e *Engine) ApplyImpulse(body *actor.Body, deltaVelocity mgl64.Vec3) {
	ApplyImpulse(body, deltaVelocity)
}

func ApplyImpulse(body *actor.Body, deltaVelocity mgl64.Vec3) {
	body.ApplyImpulse(deltaVelocity)
}
