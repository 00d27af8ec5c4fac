package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
)

// DistEpsilon is how far a trace stops short of the plane it hit.
const DistEpsilon = float32(0.03125)

// Brush is an axis-aligned volume of the reference world.
type Brush struct {
	Box      cube.BBox
	Contents Contents
	Surface  SurfaceFlags
	Material Material
	// Entity is the entity owning the brush. EntityWorld for static geometry.
	Entity int32
}

// BoxWorld is a Query made of axis-aligned brushes. It is used by tools and tests that need a world
// without a real map format behind them.
type BoxWorld struct {
	brushes []Brush
}

// NewBoxWorld returns a BoxWorld holding the given brushes.
func NewBoxWorld(brushes ...Brush) *BoxWorld {
	w := &BoxWorld{}
	for _, b := range brushes {
		w.Add(b)
	}
	return w
}

// Add adds a brush to the world.
func (w *BoxWorld) Add(b Brush) {
	w.brushes = append(w.brushes, b)
}

// Brushes returns the brushes of the world.
func (w *BoxWorld) Brushes() []Brush {
	return w.brushes
}

// Trace ...
func (w *BoxWorld) Trace(start, mins, maxs, end mgl32.Vec3, mask Contents) TraceResult {
	return w.sweep(start, mins, maxs, end, mask, false)
}

// Clip ...
func (w *BoxWorld) Clip(start, mins, maxs, end mgl32.Vec3, mask Contents) TraceResult {
	return w.sweep(start, mins, maxs, end, mask, true)
}

// PointContents ...
func (w *BoxWorld) PointContents(p mgl32.Vec3) Contents {
	var c Contents
	for _, b := range w.brushes {
		if pointWithin(b.Box, p) {
			c |= b.Contents
		}
	}
	return c
}

func (w *BoxWorld) sweep(start, mins, maxs, end mgl32.Vec3, mask Contents, worldOnly bool) TraceResult {
	res := TraceResult{Fraction: 1, Entity: EntityNone}
	for _, b := range w.brushes {
		if b.Contents&mask == 0 || (worldOnly && b.Entity != EntityWorld) {
			continue
		}
		// Grow the brush by the swept box so the sweep becomes a line test.
		min, max := b.Box.Min(), b.Box.Max()
		expanded := cube.Box(min[0]-maxs[0], min[1]-maxs[1], min[2]-maxs[2], max[0]-mins[0], max[1]-mins[1], max[2]-mins[2])

		if expanded.Vec3Within(start) {
			res.StartSolid = true
			if expanded.Vec3Within(end) {
				res.AllSolid = true
				res.Fraction = 0
				res.Contents = b.Contents
				res.Entity = b.Entity
				res.EndPos = start
				return res
			}
			continue
		}

		hit, ok := trace.BBoxIntercept(expanded, start, end)
		if !ok {
			continue
		}
		normal, dist := faceplane(expanded, hit.Face())
		d1 := start.Dot(normal) - dist
		d2 := end.Dot(normal) - dist
		if d2 >= d1 {
			// Moving along or away from the face.
			continue
		}
		frac := math32.Max((d1-DistEpsilon)/(d1-d2), 0)
		if frac < res.Fraction {
			res.Fraction = frac
			res.Plane = Plane{Normal: normal, Dist: dist}
			res.Contents = b.Contents
			res.Surface = b.Surface
			res.Material = b.Material
			res.Entity = b.Entity
		}
	}

	if res.Fraction == 1 {
		res.EndPos = end
	} else {
		delta := end.Sub(start)
		res.EndPos = mgl32.Vec3{
			start[0] + delta[0]*res.Fraction,
			start[1] + delta[1]*res.Fraction,
			start[2] + delta[2]*res.Fraction,
		}
	}
	return res
}

// faceplane returns the outward plane of a box face. Cube faces are named for a Y-up world, while this
// world is Z-up, so Down/Up are the Y axis and North/South the Z axis.
func faceplane(box cube.BBox, face cube.Face) (mgl32.Vec3, float32) {
	min, max := box.Min(), box.Max()
	switch face {
	case cube.FaceWest:
		return mgl32.Vec3{-1, 0, 0}, -min[0]
	case cube.FaceEast:
		return mgl32.Vec3{1, 0, 0}, max[0]
	case cube.FaceDown:
		return mgl32.Vec3{0, -1, 0}, -min[1]
	case cube.FaceUp:
		return mgl32.Vec3{0, 1, 0}, max[1]
	case cube.FaceNorth:
		return mgl32.Vec3{0, 0, -1}, -min[2]
	default:
		return mgl32.Vec3{0, 0, 1}, max[2]
	}
}

func pointWithin(box cube.BBox, p mgl32.Vec3) bool {
	min, max := box.Min(), box.Max()
	return p[0] >= min[0] && p[0] <= max[0] &&
		p[1] >= min[1] && p[1] <= max[1] &&
		p[2] >= min[2] && p[2] <= max[2]
}
