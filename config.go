package orbit

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/orbit/actor"
	"github.com/akmonengine/orbit/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DEFAULT_TIMESTEP = 1.0 / 60.0
	DEFAULT_SPEED    = 3.0

	// Newton's constant. Pair it with masses around 1e12 so that G·m stays near 1e2.
	DEFAULT_G              = 6.67430e-11
	DEFAULT_MIN_DIST_SQ    = 1.0
	DEFAULT_EPSILON        = 1e-3
	DEFAULT_SURFACE_Y      = -2.0
	DEFAULT_RADIUS         = 1.0
	DEFAULT_VELOCITY_DECAY = 0.0
	DEFAULT_BARNES_THETA   = 0.5
)

const (
	SOLVER_PAIRWISE   = "pairwise"
	SOLVER_BARNES_HUT = "barneshut"
)

var ErrInvalidConfig = errors.New("invalid physics configuration")

// Config holds every tunable of the engine. The zero value is not usable,
// start from DefaultConfig.
type Config struct {
	// Timestep is the fixed simulation interval, in seconds
	Timestep float64 `yaml:"timestep"`
	// Speed multiplies the positional motion of each step
	Speed float64 `yaml:"speed"`
	// UniformSpeed applies Speed to the velocity update too, turning it into
	// a true time dilation factor
	UniformSpeed bool `yaml:"uniform_speed"`

	G             float64 `yaml:"g"`
	MinDistanceSq float64 `yaml:"min_distance_sq"`
	// Epsilon is shared by every near-zero and contact comparison
	Epsilon float64 `yaml:"epsilon"`
	// FieldGravity is a uniform acceleration applied to every body (m/s²)
	FieldGravity mgl64.Vec3 `yaml:"field_gravity"`

	Surface      bool    `yaml:"surface"`
	SurfaceY     float64 `yaml:"surface_y"`
	Restitution  float64 `yaml:"restitution"`
	RestingSpeed float64 `yaml:"resting_speed"`

	// VelocityDecay is the λ of v *= e^(-λ·dt), 0 disables the decay
	VelocityDecay float64 `yaml:"velocity_decay"`
	// DefaultRadius replaces negative (not generated) radii
	DefaultRadius float64 `yaml:"default_radius"`

	// MaxFrameTime clamps a single real delta fed to Advance, 0 = no clamp
	MaxFrameTime float64 `yaml:"max_frame_time"`
	// Bounds terminates the simulation when a body leaves it, nil = unbounded
	Bounds *actor.AABB `yaml:"bounds"`

	Solver  string  `yaml:"solver"`
	Theta   float64 `yaml:"theta"`
	Workers int     `yaml:"workers"`

	// TraceInterval records every body's position each N steps, 0 = never
	TraceInterval int `yaml:"trace_interval"`
}

func DefaultConfig() Config {
	return Config{
		Timestep:      DEFAULT_TIMESTEP,
		Speed:         DEFAULT_SPEED,
		G:             DEFAULT_G,
		MinDistanceSq: DEFAULT_MIN_DIST_SQ,
		Epsilon:       DEFAULT_EPSILON,
		Surface:       true,
		SurfaceY:      DEFAULT_SURFACE_Y,
		Restitution:   constraint.DefaultSurfaceRestitution,
		RestingSpeed:  constraint.DefaultRestingSpeed,
		VelocityDecay: DEFAULT_VELOCITY_DECAY,
		DefaultRadius: DEFAULT_RADIUS,
		Solver:        SOLVER_PAIRWISE,
		Theta:         DEFAULT_BARNES_THETA,
		Workers:       DEFAULT_WORKERS,
	}
}

// Validate checks the configuration, every error wraps ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case !positive(c.Timestep):
		return invalid("timestep must be > 0, got %v", c.Timestep)
	case !positive(c.Speed):
		return invalid("speed must be > 0, got %v", c.Speed)
	case !nonNegative(c.G):
		return invalid("g must be >= 0, got %v", c.G)
	case !nonNegative(c.MinDistanceSq):
		return invalid("min_distance_sq must be >= 0, got %v", c.MinDistanceSq)
	case !nonNegative(c.Epsilon):
		return invalid("epsilon must be >= 0, got %v", c.Epsilon)
	case !actor.IsFinite(c.FieldGravity):
		return invalid("field_gravity must be finite, got %v", c.FieldGravity)
	case !(c.Restitution >= 0 && c.Restitution <= 1):
		return invalid("restitution must be in [0, 1], got %v", c.Restitution)
	case !nonNegative(c.RestingSpeed):
		return invalid("resting_speed must be >= 0, got %v", c.RestingSpeed)
	case !nonNegative(c.VelocityDecay):
		return invalid("velocity_decay must be >= 0, got %v", c.VelocityDecay)
	case !positive(c.DefaultRadius):
		return invalid("default_radius must be > 0, got %v", c.DefaultRadius)
	case !nonNegative(c.MaxFrameTime):
		return invalid("max_frame_time must be >= 0, got %v", c.MaxFrameTime)
	case c.Bounds != nil && !c.Bounds.IsValid():
		return invalid("bounds min must be <= max, got %v", *c.Bounds)
	case c.Solver != SOLVER_PAIRWISE && c.Solver != SOLVER_BARNES_HUT:
		return invalid("unknown solver %q", c.Solver)
	case !nonNegative(c.Theta):
		return invalid("theta must be >= 0, got %v", c.Theta)
	case c.Workers < 0:
		return invalid("workers must be >= 0, got %d", c.Workers)
	case c.TraceInterval < 0:
		return invalid("trace_interval must be >= 0, got %d", c.TraceInterval)
	}

	return nil
}

// GroundSurface returns the ground plane described by the configuration
func (c Config) GroundSurface() constraint.Surface {
	return constraint.Surface{
		Height:       c.SurfaceY,
		Restitution:  c.Restitution,
		RestingSpeed: c.RestingSpeed,
		Epsilon:      c.Epsilon,
	}
}

// GravitySolver returns the force accumulation strategy selected by Solver
func (c Config) GravitySolver() GravitySolver {
	if c.Solver == SOLVER_BARNES_HUT {
		return &BarnesHut{G: c.G, Theta: c.Theta, MinDistanceSq: c.MinDistanceSq, Epsilon: c.Epsilon}
	}

	return &Pairwise{G: c.G, MinDistanceSq: c.MinDistanceSq, Epsilon: c.Epsilon, Workers: c.Workers}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
