package orbit

import (
	"errors"
	"math"
	"testing"

	"github.com/akmonengine/orbit/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func TestConfig_DefaultIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"zero timestep", func(c *Config) { c.Timestep = 0 }},
		{"infinite timestep", func(c *Config) { c.Timestep = math.Inf(1) }},
		{"negative speed", func(c *Config) { c.Speed = -1 }},
		{"NaN G", func(c *Config) { c.G = math.NaN() }},
		{"negative min distance", func(c *Config) { c.MinDistanceSq = -1 }},
		{"negative epsilon", func(c *Config) { c.Epsilon = -1e-3 }},
		{"NaN field gravity", func(c *Config) { c.FieldGravity = mgl64.Vec3{0, math.NaN(), 0} }},
		{"restitution above one", func(c *Config) { c.Restitution = 1.5 }},
		{"negative resting speed", func(c *Config) { c.RestingSpeed = -0.1 }},
		{"negative decay", func(c *Config) { c.VelocityDecay = -1 }},
		{"zero default radius", func(c *Config) { c.DefaultRadius = 0 }},
		{"negative max frame time", func(c *Config) { c.MaxFrameTime = -1 }},
		{"inverted bounds", func(c *Config) {
			c.Bounds = &actor.AABB{Min: mgl64.Vec3{1, 0, 0}, Max: mgl64.Vec3{-1, 0, 0}}
		}},
		{"unknown solver", func(c *Config) { c.Solver = "verlet" }},
		{"negative theta", func(c *Config) { c.Theta = -0.5 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"negative trace interval", func(c *Config) { c.TraceInterval = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(&config)

			err := config.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want an error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want it to wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfig_GravitySolver(t *testing.T) {
	config := DefaultConfig()
	config.Workers = 4
	if solver, ok := config.GravitySolver().(*Pairwise); !ok || solver.Workers != 4 {
		t.Errorf("GravitySolver() = %#v, want *Pairwise with 4 workers", config.GravitySolver())
	}

	config.Solver = SOLVER_BARNES_HUT
	config.Theta = 0.7
	if solver, ok := config.GravitySolver().(*BarnesHut); !ok || solver.Theta != 0.7 {
		t.Errorf("GravitySolver() = %#v, want *BarnesHut with theta 0.7", config.GravitySolver())
	}
}

func TestConfig_GroundSurface(t *testing.T) {
	config := DefaultConfig()
	config.SurfaceY = -5
	config.Restitution = 0.5

	surface := config.GroundSurface()
	if surface.Height != -5 || surface.Restitution != 0.5 || surface.Epsilon != config.Epsilon {
		t.Errorf("GroundSurface() = %+v", surface)
	}
}
