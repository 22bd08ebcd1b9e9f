// Threebody runs a scene, the built-in three body demo by default, either in
// an ebiten window or headless with jittered frame times.
package main

import (
	"flag"
	"log"
	"math/rand/v2"

	"github.com/akmonengine/orbit"
	"github.com/akmonengine/orbit/actor"
	"github.com/akmonengine/orbit/scene"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	windowTitle = "Orbit - Three Body"
	screenW     = 960
	screenH     = 720
	frameTime   = 1.0 / 60.0
	logEvery    = 120
)

// simulation glues a scene to its engine and applies the scripted impulses
type simulation struct {
	scene  *scene.Scene
	engine *orbit.Engine
	names  map[*actor.Body]string
}

func newSimulation(s *scene.Scene) (*simulation, error) {
	engine, err := orbit.NewEngine(s.Physics)
	if err != nil {
		return nil, err
	}

	sim := &simulation{
		scene:  s,
		engine: engine,
		names:  make(map[*actor.Body]string, len(s.Entities)),
	}
	for _, entity := range s.Entities {
		sim.names[entity.Body] = entity.Name
	}

	engine.Events.Subscribe(orbit.COLLISION_ENTER, func(event orbit.Event) {
		e := event.(orbit.CollisionEnterEvent)
		log.Printf("step %d: %s hit %s", engine.Steps(), sim.name(e.BodyA), sim.name(e.BodyB))
	})
	engine.Events.Subscribe(orbit.ON_REST, func(event orbit.Event) {
		log.Printf("step %d: %s came to rest", engine.Steps(), sim.name(event.(orbit.RestEvent).Body))
	})
	engine.Events.Subscribe(orbit.BOUNDARY_EXIT, func(event orbit.Event) {
		log.Printf("step %d: %s left the bounds, stopping", engine.Steps(), sim.name(event.(orbit.BoundaryExitEvent).Body))
	})

	return sim, nil
}

func (sim *simulation) name(body *actor.Body) string {
	if name, ok := sim.names[body]; ok {
		return name
	}
	return "?"
}

// advance runs the steps due for realDelta one at a time, each followed by
// the impulses scheduled for it
func (sim *simulation) advance(realDelta float64) int {
	return sim.scene.Advance(sim.engine, realDelta)
}

func main() {
	scenePath := flag.String("scene", "", "YAML scene file, the built-in three body scene when empty")
	headless := flag.Bool("headless", false, "run without a window")
	frames := flag.Int("frames", 1800, "number of frames to run in headless mode")
	flag.Parse()

	s := scene.Default()
	if *scenePath != "" {
		loaded, err := scene.Load(*scenePath)
		if err != nil {
			log.Fatalf("failed to load scene: %v", err)
		}
		s = loaded
	}

	sim, err := newSimulation(s)
	if err != nil {
		log.Fatalf("failed to create engine: %v", err)
	}
	log.Printf("scene %q: %d bodies, dt=%.4f speed=%.1f solver=%s",
		s.Name, len(s.Entities), s.Physics.Timestep, s.Physics.Speed, s.Physics.Solver)

	if *headless {
		runHeadless(sim, *frames)
		return
	}

	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowSize(screenW, screenH)
	if err := ebiten.RunGame(newViewer(sim)); err != nil {
		log.Fatal(err)
	}
}

// runHeadless feeds frame times jittered around 60 FPS, so that some frames
// run no step and others run two
func runHeadless(sim *simulation, frames int) {
	steps := 0
	for frame := 0; frame < frames && !sim.engine.ShouldStop(); frame++ {
		steps += sim.advance(frameTime * (0.5 + rand.Float64()))

		if frame%logEvery == 0 {
			for _, entity := range sim.scene.Entities {
				if entity.Body.IsExempt {
					continue
				}
				log.Printf("frame %d: %-6s pos=%.2f vel=%.2f", frame, entity.Name, entity.Body.Position, entity.Body.Velocity)
			}
		}
	}

	log.Printf("done: %d steps, %.4fs pending, stopped=%v", steps, sim.engine.Clock().Pending(), sim.engine.ShouldStop())
}
