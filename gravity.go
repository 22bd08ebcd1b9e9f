package orbit

import (
	"math"

	"github.com/akmonengine/orbit/actor"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// GravitySolver accumulates the mutual attraction of the bodies into their
// force accumulators. It must run before any body of the step is integrated.
type GravitySolver interface {
	Accumulate(bodies []*actor.Body)
}

// Pairwise is the exact O(n²) Newtonian attraction.
// Pairs closer than sqrt(MinDistanceSq + Epsilon) are skipped entirely to
// keep forces bounded.
type Pairwise struct {
	G             float64
	MinDistanceSq float64
	Epsilon       float64
	// Workers > 1 spreads the bodies over goroutines, each one summing the
	// forces acting on its own bodies
	Workers int
}

func (p *Pairwise) Accumulate(bodies []*actor.Body) {
	if p.Workers > 1 {
		p.gather(bodies)
		return
	}

	for i := 0; i < len(bodies); i++ {
		bodyA := bodies[i]
		if bodyA.IsExempt {
			continue
		}

		for j := i + 1; j < len(bodies); j++ {
			bodyB := bodies[j]
			if bodyB.IsExempt {
				continue
			}

			force, ok := p.Force(bodyA, bodyB)
			if !ok {
				continue
			}
			bodyA.AddForce(force)
			bodyB.AddForce(force.Mul(-1))
		}
	}
}

// gather writes only to the accumulator of the body it is computing, which
// makes the chunks independent.
func (p *Pairwise) gather(bodies []*actor.Body) {
	task(p.Workers, bodies, func(i int, bodyA *actor.Body) {
		if bodyA.IsExempt {
			return
		}

		for j, bodyB := range bodies {
			if j == i || bodyB.IsExempt {
				continue
			}
			if force, ok := p.Force(bodyA, bodyB); ok {
				bodyA.AddForce(force)
			}
		}
	})
}

// Force returns the attraction exerted on bodyA by bodyB.
// ok is false when the pair is inside the minimum distance clamp.
func (p *Pairwise) Force(bodyA, bodyB *actor.Body) (force mgl64.Vec3, ok bool) {
	d := bodyB.Position.Sub(bodyA.Position)
	distanceSq := d.Dot(d)
	if distanceSq < p.MinDistanceSq+p.Epsilon {
		return mgl64.Vec3{}, false
	}

	magnitude := p.G * (bodyA.Mass() * bodyB.Mass()) / distanceSq

	return actor.SafeNormalize(d).Mul(magnitude), true
}

// BarnesHut approximates the attraction with a k-d tree, for scenes with many
// bodies. A subtree is replaced by its centre of mass when its largest
// extent over the distance to that centre is below Theta and it does not
// contain the body. Theta = 0 computes the exact sum.
type BarnesHut struct {
	G             float64
	Theta         float64
	MinDistanceSq float64
	Epsilon       float64
}

func (bh *BarnesHut) Accumulate(bodies []*actor.Body) {
	points := make(massPoints, 0, len(bodies))
	for _, body := range bodies {
		if body.IsExempt || !actor.IsFinite(body.Position) {
			continue
		}
		points = append(points, massPoint{body: body, position: body.Position})
	}
	if len(points) < 2 {
		return
	}

	root := newCell(kdtree.New(points, true).Root)
	for _, p := range points {
		p.body.AddForce(bh.forceOn(p.body, root))
	}
}

func (bh *BarnesHut) forceOn(body *actor.Body, c *cell) mgl64.Vec3 {
	if c == nil {
		return mgl64.Vec3{}
	}

	d := c.center.Sub(body.Position)
	if c.aggregate && !c.bounds.ContainsPoint(body.Position) && c.size*c.size < bh.Theta*bh.Theta*d.Dot(d) {
		return bh.attraction(body.Mass(), c.mass, d)
	}

	var force mgl64.Vec3
	if c.point.body != body {
		force = bh.attraction(body.Mass(), c.point.body.Mass(), c.point.position.Sub(body.Position))
	}

	return force.Add(bh.forceOn(body, c.left)).Add(bh.forceOn(body, c.right))
}

// attraction is the force of mass m2 at offset d on mass m1, with the same
// clamp as Pairwise
func (bh *BarnesHut) attraction(m1, m2 float64, d mgl64.Vec3) mgl64.Vec3 {
	distanceSq := d.Dot(d)
	if distanceSq < bh.MinDistanceSq+bh.Epsilon {
		return mgl64.Vec3{}
	}

	return d.Mul(bh.G * (m1 * m2) / (distanceSq * math.Sqrt(distanceSq)))
}

// cell mirrors a kdtree.Node with the mass summary of its subtree
type cell struct {
	point       massPoint
	left, right *cell
	aggregate   bool

	mass   float64
	center mgl64.Vec3
	bounds actor.AABB
	size   float64
}

func newCell(n *kdtree.Node) *cell {
	if n == nil {
		return nil
	}

	point := n.Point.(massPoint)
	bounds := actor.AABB{
		Min: n.Bounding.Min.(massPoint).position,
		Max: n.Bounding.Max.(massPoint).position,
	}
	c := &cell{
		point:     point,
		left:      newCell(n.Left),
		right:     newCell(n.Right),
		aggregate: n.Left != nil || n.Right != nil,
		bounds:    bounds,
	}

	weighted := point.position.Mul(point.body.Mass())
	c.mass = point.body.Mass()
	for _, child := range []*cell{c.left, c.right} {
		if child == nil {
			continue
		}
		weighted = weighted.Add(child.center.Mul(child.mass))
		c.mass += child.mass
	}
	c.center = weighted.Mul(1.0 / c.mass)

	extent := c.bounds.Max.Sub(c.bounds.Min)
	c.size = math.Max(extent.X(), math.Max(extent.Y(), extent.Z()))

	return c
}

// massPoint is the kdtree.Comparable stored in the tree
type massPoint struct {
	body     *actor.Body
	position mgl64.Vec3
}

func (p massPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.position[d] - c.(massPoint).position[d]
}

func (p massPoint) Dims() int { return 3 }

func (p massPoint) Distance(c kdtree.Comparable) float64 {
	d := p.position.Sub(c.(massPoint).position)
	return d.Dot(d)
}

type massPoints []massPoint

func (p massPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p massPoints) Len() int                              { return len(p) }
func (p massPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot splits on the exact median, so the tree shape only depends on the positions
func (p massPoints) Pivot(d kdtree.Dim) int {
	plane := massPlane{massPoints: p, Dim: d}
	return kdtree.Partition(plane, kdtree.Select(plane, plane.Len()/2))
}

func (p massPoints) Bounds() *kdtree.Bounding {
	if len(p) == 0 {
		return nil
	}

	lo, hi := p[0].position, p[0].position
	for _, q := range p[1:] {
		for i := range 3 {
			lo[i] = math.Min(lo[i], q.position[i])
			hi[i] = math.Max(hi[i], q.position[i])
		}
	}

	return &kdtree.Bounding{Min: massPoint{position: lo}, Max: massPoint{position: hi}}
}

type massPlane struct {
	massPoints
	kdtree.Dim
}

func (p massPlane) Less(i, j int) bool {
	return p.massPoints[i].position[p.Dim] < p.massPoints[j].position[p.Dim]
}

func (p massPlane) Swap(i, j int) {
	p.massPoints[i], p.massPoints[j] = p.massPoints[j], p.massPoints[i]
}

func (p massPlane) Slice(start, end int) kdtree.SortSlicer {
	p.massPoints = p.massPoints[start:end]
	return p
}
