package world

import "github.com/go-gl/mathgl/mgl32"

const (
	// EntityNone is the entity number reported by traces that hit nothing.
	EntityNone int32 = -1
	// EntityWorld is the entity number of static world geometry.
	EntityWorld int32 = 0
)

// Plane is a collision plane in normal/distance form.
type Plane struct {
	Normal mgl32.Vec3
	Dist   float32
}

// TraceResult is the answer to a swept box query.
type TraceResult struct {
	// AllSolid is set when the whole sweep was inside solid geometry.
	AllSolid bool
	// StartSolid is set when the sweep started inside solid geometry.
	StartSolid bool
	// Fraction is the portion of the sweep completed before hitting something. 1 means nothing was hit.
	Fraction float32
	// EndPos is where the box stopped.
	EndPos   mgl32.Vec3
	Plane    Plane
	Contents Contents
	Surface  SurfaceFlags
	Material Material
	Entity   int32
}

// Hit reports whether the sweep was stopped before reaching its end.
func (t TraceResult) Hit() bool {
	return t.Fraction < 1
}

// Query answers collision questions about the world a player moves through. Implementations must be
// deterministic and free of side effects: the same question always gets the same answer.
type Query interface {
	// Trace sweeps the box mins/maxs from start to end against everything matching mask, entities included.
	Trace(start, mins, maxs, end mgl32.Vec3, mask Contents) TraceResult
	// Clip is Trace restricted to static world geometry.
	Clip(start, mins, maxs, end mgl32.Vec3, mask Contents) TraceResult
	// PointContents returns the contents at a single point.
	PointContents(p mgl32.Vec3) Contents
}
