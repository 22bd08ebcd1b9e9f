// Package scene describes a simulation setup: the physics configuration, the
// bodies with their render attributes, and scripted impulses.
// Scenes are loaded from YAML or built with Default.
package scene

import (
	"errors"
	"fmt"
	"os"

	"github.com/akmonengine/orbit"
	"github.com/akmonengine/orbit/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// IMPULSE_STEP is the step at which the default scene kicks its bodies
const IMPULSE_STEP = 363

var ErrInvalidScene = errors.New("invalid scene")

// Entity pairs a physics body with the attributes only a renderer cares about
type Entity struct {
	Name  string
	Color colorful.Color
	Body  *actor.Body
}

// Impulse is a scripted velocity change applied to a named body once the
// engine has run Step steps.
type Impulse struct {
	Step       uint64     `yaml:"step"`
	Body       string     `yaml:"body"`
	Direction  mgl64.Vec3 `yaml:"direction"`
	Multiplier float64    `yaml:"multiplier"`
}

// DeltaVelocity is Direction scaled by Multiplier, a zero multiplier counts as 1
func (i Impulse) DeltaVelocity() mgl64.Vec3 {
	if i.Multiplier == 0 {
		return i.Direction
	}
	return i.Direction.Mul(i.Multiplier)
}

type Scene struct {
	Name     string
	Physics  orbit.Config
	Entities []Entity
	Impulses []Impulse

	bodies []*actor.Body
}

type entityDef struct {
	Name     string     `yaml:"name"`
	Color    string     `yaml:"color"`
	Position mgl64.Vec3 `yaml:"position"`
	Velocity mgl64.Vec3 `yaml:"velocity"`
	// nil leaves the radius to the engine default
	Radius     *float64 `yaml:"radius"`
	Mass       float64  `yaml:"mass"`
	Exempt     bool     `yaml:"exempt"`
	TraceLimit int      `yaml:"trace_limit"`
}

type sceneDef struct {
	Name     string       `yaml:"name"`
	Physics  orbit.Config `yaml:"physics"`
	Entities []entityDef  `yaml:"entities"`
	Impulses []Impulse    `yaml:"impulses"`
}

// Load reads and parses a YAML scene file
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}

	return s, nil
}

// Parse decodes a YAML scene. Physics settings missing from the document
// keep their orbit.DefaultConfig value.
// Every error wraps ErrInvalidScene.
func Parse(data []byte) (*Scene, error) {
	def := sceneDef{Physics: orbit.DefaultConfig()}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	if err := def.Physics.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}

	s := &Scene{Name: def.Name, Physics: def.Physics, Impulses: def.Impulses}
	names := make(map[string]bool, len(def.Entities))
	for i, ed := range def.Entities {
		if ed.Name == "" {
			return nil, fmt.Errorf("%w: entity %d has no name", ErrInvalidScene, i)
		}
		if names[ed.Name] {
			return nil, fmt.Errorf("%w: duplicate entity %q", ErrInvalidScene, ed.Name)
		}
		names[ed.Name] = true

		entity, err := ed.build()
		if err != nil {
			return nil, fmt.Errorf("%w: entity %q: %w", ErrInvalidScene, ed.Name, err)
		}
		s.add(entity)
	}

	for _, impulse := range s.Impulses {
		if !names[impulse.Body] {
			return nil, fmt.Errorf("%w: impulse targets unknown entity %q", ErrInvalidScene, impulse.Body)
		}
	}

	return s, nil
}

func (ed entityDef) build() (Entity, error) {
	color := colorful.Color{R: 1, G: 1, B: 1}
	if ed.Color != "" {
		c, err := colorful.Hex(ed.Color)
		if err != nil {
			return Entity{}, err
		}
		color = c
	}

	radius := -1.0
	if ed.Radius != nil {
		radius = *ed.Radius
	}

	body, err := actor.NewBody(ed.Position, radius, ed.Mass)
	if err != nil {
		return Entity{}, err
	}
	body.Velocity = ed.Velocity
	body.IsExempt = ed.Exempt
	body.TraceLimit = ed.TraceLimit

	return Entity{Name: ed.Name, Color: color, Body: body}, nil
}

func (s *Scene) add(entity Entity) {
	s.Entities = append(s.Entities, entity)
	s.bodies = append(s.bodies, entity.Body)
}

// Bodies returns the bodies in entity order, the slice handed to Engine.Advance.
// Indices match Entities.
func (s *Scene) Bodies() []*actor.Body {
	return s.bodies
}

// Find returns the entity with the given name
func (s *Scene) Find(name string) (Entity, bool) {
	for _, entity := range s.Entities {
		if entity.Name == name {
			return entity, true
		}
	}

	return Entity{}, false
}

func (s *Scene) impulsesAt(step uint64) []Impulse {
	var due []Impulse
	for _, impulse := range s.Impulses {
		if impulse.Step == step {
			due = append(due, impulse)
		}
	}

	return due
}

// ApplyImpulses applies every impulse scheduled for step and returns how many ran
func (s *Scene) ApplyImpulses(step uint64) int {
	due := s.impulsesAt(step)
	for _, impulse := range due {
		if entity, ok := s.Find(impulse.Body); ok {
			orbit.ApplyImpulse(entity.Body, impulse.DeltaVelocity())
		}
	}

	return len(due)
}

// Advance feeds realDelta seconds to the engine clock and runs the due steps
// one at a time, so that an impulse scheduled for a step is applied before
// the next step integrates. It returns the number of steps run.
func (s *Scene) Advance(engine *orbit.Engine, realDelta float64) int {
	clock := engine.Clock()
	clock.Accumulate(realDelta)

	steps := 0
	for !engine.ShouldStop() && clock.Consume() {
		engine.Step(s.bodies)
		s.ApplyImpulses(engine.Steps())
		steps++
	}

	return steps
}

// Default is the three body demo: three equal masses at rest on an
// isosceles triangle above the ground, and an exempt light source.
func Default() *Scene {
	physics := orbit.DefaultConfig()
	physics.Bounds = &actor.AABB{
		Min: mgl64.Vec3{-500, -500, -500},
		Max: mgl64.Vec3{500, 500, 500},
	}
	physics.TraceInterval = 2

	s := &Scene{Name: "three body", Physics: physics}

	defs := []struct {
		name     string
		color    colorful.Color
		position mgl64.Vec3
		radius   float64
		mass     float64
		exempt   bool
	}{
		{"red", colorful.Color{R: 1, G: 0, B: 0}, mgl64.Vec3{0, 36, -2}, 2.5, 3e12, false},
		{"green", colorful.Color{R: 0, G: 1, B: 0}, mgl64.Vec3{17.32, 20, -2}, 1.5, 3e12, false},
		{"blue", colorful.Color{R: 0, G: 0, B: 1}, mgl64.Vec3{-17.32, 20, -2}, 0.5, 3e12, false},
		{"light", colorful.Color{R: 1, G: 1, B: 1}, mgl64.Vec3{0, 0, 4}, 1, 1, true},
	}
	for _, d := range defs {
		body, err := actor.NewBody(d.position, d.radius, d.mass)
		if err != nil {
			panic(err)
		}
		body.IsExempt = d.exempt
		body.TraceLimit = 600
		s.add(Entity{Name: d.name, Color: d.color, Body: body})
	}

	s.Impulses = []Impulse{
		{Step: IMPULSE_STEP, Body: "red", Direction: mgl64.Vec3{1, -0.7071, 0}, Multiplier: 2},
		{Step: IMPULSE_STEP, Body: "green", Direction: mgl64.Vec3{-0.7071, -0.7071, 0}, Multiplier: 2},
		{Step: IMPULSE_STEP, Body: "blue", Direction: mgl64.Vec3{0.7071, 0.7071, 0}, Multiplier: 2},
	}

	return s
}
