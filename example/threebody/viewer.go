package main

import (
	"fmt"
	"image/color"

	"github.com/akmonengine/orbit/actor"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	pixelsPerUnit  = 8.0
	recenterTicks  = 90
	recenterTime   = 1.2
	traceWidth     = 1
	backgroundGray = 0x12
)

// camera pans in the X/Y plane, X right and Y up
type camera struct {
	X, Y   float64
	tweenX *gween.Tween
	tweenY *gween.Tween
}

func (c *camera) scrollTo(x, y float64) {
	c.tweenX = gween.New(float32(c.X), float32(x), recenterTime, ease.OutCubic)
	c.tweenY = gween.New(float32(c.Y), float32(y), recenterTime, ease.OutCubic)
}

func (c *camera) update(dt float32) {
	if c.tweenX == nil {
		return
	}

	x, doneX := c.tweenX.Update(dt)
	y, doneY := c.tweenY.Update(dt)
	c.X, c.Y = float64(x), float64(y)
	if doneX && doneY {
		c.tweenX, c.tweenY = nil, nil
	}
}

func (c *camera) project(p [3]float64) (float32, float32) {
	return float32(screenW/2 + (p[0]-c.X)*pixelsPerUnit),
		float32(screenH/2 - (p[1]-c.Y)*pixelsPerUnit)
}

// viewer only reads position, radius and trace points of the bodies
type viewer struct {
	sim    *simulation
	camera camera
	ticks  int
}

func newViewer(sim *simulation) *viewer {
	v := &viewer{sim: sim}
	v.camera.X, v.camera.Y = centroid(sim.scene.Bodies())
	return v
}

func (v *viewer) Update() error {
	dt := 1.0 / float64(ebiten.TPS())
	if !v.sim.engine.ShouldStop() {
		v.sim.advance(dt)
	}

	v.ticks++
	if v.ticks%recenterTicks == 0 {
		v.camera.scrollTo(centroid(v.sim.scene.Bodies()))
	}
	v.camera.update(float32(dt))

	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.Gray{Y: backgroundGray})

	physics := v.sim.scene.Physics
	if physics.Surface {
		_, y := v.camera.project([3]float64{0, physics.SurfaceY, 0})
		vector.StrokeLine(screen, 0, y, screenW, y, 1, color.Gray{Y: 0x60}, false)
	}

	for _, entity := range v.sim.scene.Entities {
		body := entity.Body
		points := body.TracePoints
		for i := 1; i < len(points); i++ {
			x0, y0 := v.camera.project(points[i-1])
			x1, y1 := v.camera.project(points[i])
			vector.StrokeLine(screen, x0, y0, x1, y1, traceWidth, entity.Color, true)
		}

		x, y := v.camera.project(body.Position)
		vector.DrawFilledCircle(screen, x, y, float32(max(body.Radius, 0.2)*pixelsPerUnit), entity.Color, true)
	}

	status := "running"
	if v.sim.engine.ShouldStop() {
		status = "stopped"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  step %d  alpha %.2f\nFPS: %.0f  TPS: %.0f",
		status, v.sim.engine.Steps(), v.sim.engine.Clock().Alpha(), ebiten.ActualFPS(), ebiten.ActualTPS()))
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return screenW, screenH
}

// centroid of the bodies taking part in the physics
func centroid(bodies []*actor.Body) (float64, float64) {
	var x, y float64
	n := 0
	for _, body := range bodies {
		if body.IsExempt {
			continue
		}
		x += body.Position.X()
		y += body.Position.Y()
		n++
	}
	if n == 0 {
		return 0, 0
	}

	return x / float64(n), y / float64(n)
}
