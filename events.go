package orbit

import (
	"github.com/akmonengine/orbit/actor"
)

const (
	COLLISION_ENTER EventType = iota
	COLLISION_STAY
	COLLISION_EXIT
	SURFACE_CONTACT
	ON_REST
	BOUNDARY_EXIT
)

// pairKey identifies a pair by the indices of its bodies in the slice given
// to Advance, so that no body pointer outlives the call.
type pairKey struct {
	indexA int
	indexB int
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(indexA, indexB int) pairKey {
	if indexB < indexA {
		indexA, indexB = indexB, indexA
	}

	return pairKey{indexA: indexA, indexB: indexB}
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Collision events
type CollisionEnterEvent struct {
	BodyA *actor.Body
	BodyB *actor.Body
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	BodyA *actor.Body
	BodyB *actor.Body
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

// CollisionExitEvent bodies may be nil if the slice given to Advance shrank
type CollisionExitEvent struct {
	BodyA *actor.Body
	BodyB *actor.Body
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// SurfaceContactEvent is a bounce on the ground plane
type SurfaceContactEvent struct {
	Body *actor.Body
	// Speed is the vertical speed right after the bounce
	Speed float64
}

func (e SurfaceContactEvent) Type() EventType { return SURFACE_CONTACT }

// RestEvent is sent once when a body settles on the ground plane
type RestEvent struct {
	Body *actor.Body
}

func (e RestEvent) Type() EventType { return ON_REST }

// BoundaryExitEvent is sent when a body leaves Config.Bounds and the
// simulation is terminated
type BoundaryExitEvent struct {
	Body *actor.Body
}

func (e BoundaryExitEvent) Type() EventType { return BOUNDARY_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events dispatches what happened during an Advance call, once the call is done.
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Collision tracking for Enter/Stay/Exit detection
	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]bool

	previousResting map[int]bool
	currentResting  map[int]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 64),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]bool),
		previousResting:     make(map[int]bool),
		currentResting:      make(map[int]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordCollision is called for every contact of every step
func (e *Events) recordCollision(indexA, indexB int) {
	e.currentActivePairs[makePairKey(indexA, indexB)] = true
}

func (e *Events) recordSurfaceContact(index int, body *actor.Body, rested bool) {
	if rested {
		e.currentResting[index] = true
		return
	}
	e.buffer = append(e.buffer, SurfaceContactEvent{Body: body, Speed: body.Velocity.Y()})
}

func (e *Events) emitBoundaryExit(body *actor.Body) {
	e.buffer = append(e.buffer, BoundaryExitEvent{Body: body})
}

// processCollisionEvents compares current and previous pairs to detect Enter/Stay/Exit
func (e *Events) processCollisionEvents(bodies []*actor.Body) {
	for pair := range e.currentActivePairs {
		bodyA, bodyB := bodyAt(bodies, pair.indexA), bodyAt(bodies, pair.indexB)

		if e.previousActivePairs[pair] {
			e.buffer = append(e.buffer, CollisionStayEvent{BodyA: bodyA, BodyB: bodyB})
		} else {
			e.buffer = append(e.buffer, CollisionEnterEvent{BodyA: bodyA, BodyB: bodyB})
		}
	}

	for pair := range e.previousActivePairs {
		if !e.currentActivePairs[pair] {
			e.buffer = append(e.buffer, CollisionExitEvent{
				BodyA: bodyAt(bodies, pair.indexA),
				BodyB: bodyAt(bodies, pair.indexB),
			})
		}
	}

	// Swap for next call and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

// processRestEvents emits ON_REST for the bodies that were not resting at the previous flush
func (e *Events) processRestEvents(bodies []*actor.Body) {
	for index := range e.currentResting {
		if !e.previousResting[index] {
			e.buffer = append(e.buffer, RestEvent{Body: bodyAt(bodies, index)})
		}
	}

	e.previousResting, e.currentResting = e.currentResting, e.previousResting
	clear(e.currentResting)
}

// flush sends all buffered events and clears the buffer.
// stepped is false when the call ran no step, the tracked pairs are then kept as is.
func (e *Events) flush(bodies []*actor.Body, stepped bool) {
	if stepped {
		e.processCollisionEvents(bodies)
		e.processRestEvents(bodies)
	}

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}

func bodyAt(bodies []*actor.Body, index int) *actor.Body {
	if index < 0 || index >= len(bodies) {
		return nil
	}

	return bodies[index]
}
