package physics

import (
	"math"

	"github.com/SprayArt/ardk-upm/common"
	"github.com/jakecoffman/cp"
)

// edgeSlop lets probes landing exactly on a box edge count as hits.
const edgeSlop = 1e-6

// Prober answers ray queries against level geometry.
type Prober interface {
	Probe(origin, direction common.Vec3, maxDistance float64, mask uint) (bool, common.Vec3)
}

// ProbeFunc adapts a function to Prober.
type ProbeFunc func(origin, direction common.Vec3, maxDistance float64, mask uint) (bool, common.Vec3)

func (f ProbeFunc) Probe(origin, direction common.Vec3, maxDistance float64, mask uint) (bool, common.Vec3) {
	return f(origin, direction, maxDistance, mask)
}

// Ground is a height field made of flat terrain boxes, seen from above. Each
// box lives in a Chipmunk space laid out in the XZ plane so vertical probes
// become bounding box queries.
type Ground struct {
	space   *cp.Space
	heights map[*cp.Shape]float64
}

func NewGround() *Ground {
	return &Ground{
		space:   cp.NewSpace(),
		heights: make(map[*cp.Shape]float64),
	}
}

// Space returns the underlying Chipmunk space.
func (g *Ground) Space() *cp.Space {
	if g == nil {
		return nil
	}
	return g.space
}

// AddBox adds a flat terrain top covering [minX, maxX] x [minZ, maxZ] at the
// given height on layer.
func (g *Ground) AddBox(minX, minZ, maxX, maxZ, height float64, layer uint) {
	if g == nil || g.space == nil || maxX <= minX || maxZ <= minZ {
		return
	}
	bb := cp.BB{L: minX, B: minZ, R: maxX, T: maxZ}
	shape := cp.NewBox2(g.space.StaticBody, bb, 0)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, layer, cp.ALL_CATEGORIES))
	g.space.AddShape(shape)
	g.heights[shape] = height
}

// Len reports the number of terrain boxes.
func (g *Ground) Len() int {
	if g == nil {
		return 0
	}
	return len(g.heights)
}

// Probe casts a ray straight down from origin and returns the highest terrain
// top within maxDistance whose layer is in mask. Non-vertical rays never hit.
func (g *Ground) Probe(origin, direction common.Vec3, maxDistance float64, mask uint) (bool, common.Vec3) {
	if g == nil || g.space == nil || maxDistance <= 0 {
		return false, common.Zero
	}
	dir := direction.Normalized()
	if dir.Y > -1+1e-6 {
		return false, common.Zero
	}

	lowest := origin.Y - maxDistance
	best := math.Inf(-1)
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, mask)
	// boxes are axis aligned with no radius, so the bounding box test is exact
	bb := cp.NewBBForCircle(cp.Vector{X: origin.X, Y: origin.Z}, edgeSlop)
	g.space.BBQuery(bb, filter, func(shape *cp.Shape, data interface{}) {
		h, ok := g.heights[shape]
		if !ok || h > origin.Y || h < lowest {
			return
		}
		if h > best {
			best = h
		}
	}, nil)

	if math.IsInf(best, -1) {
		return false, common.Zero
	}
	return true, common.Vec3{X: origin.X, Y: best, Z: origin.Z}
}
