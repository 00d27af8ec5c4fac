package movement

import (
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/world"
)

// maxTouchEnts bounds the touch list of a single step.
const maxTouchEnts = 32

// moveContext holds everything a single step works on. It replaces process-wide scratch state so that
// independent players can be stepped concurrently.
type moveContext struct {
	sim   *Simulator
	state *State
	cmd   Command

	msec      int32
	frametime float32

	mins, maxs mgl32.Vec3
	mask       world.Contents
	worldOnly  bool

	forward, right, up mgl32.Vec3

	ground      GroundInfo
	groundTr    world.TraceResult

	startOrigin   mgl32.Vec3
	startVelocity mgl32.Vec3
	startLiquid   LiquidLevel

	touched *orderedmap.OrderedMap[int32, struct{}]

	mode        ActiveMode
	impactDelta float32
	slide       SlideOutcome
	stepHeight  float32
}

var ctxPool = sync.Pool{
	New: func() any {
		return &moveContext{touched: orderedmap.NewOrderedMap[int32, struct{}]()}
	},
}

func newCtx(sim *Simulator, state *State, cmd Command) *moveContext {
	ctx := ctxPool.Get().(*moveContext)
	ctx.sim = sim
	ctx.state = state
	ctx.cmd = cmd.normalize(sim.Options.MaxCommandMove)
	ctx.msec = int32(ctx.cmd.Msec)
	ctx.frametime = float32(ctx.msec) * 0.001
	ctx.startOrigin = state.Origin
	ctx.startVelocity = state.Velocity
	ctx.startLiquid = state.Liquid.Level
	ctx.ground = GroundInfo{Entity: state.GroundEntity}
	return ctx
}

func putCtx(ctx *moveContext) {
	ctx.reset()
	ctxPool.Put(ctx)
}

func (ctx *moveContext) reset() {
	touched := ctx.touched
	for _, k := range touched.Keys() {
		touched.Delete(k)
	}
	*ctx = moveContext{touched: touched}
}

// body returns the collision body of the player for the current bounds and mask.
func (ctx *moveContext) body() Body {
	return Body{Mins: ctx.mins, Maxs: ctx.maxs, Mask: ctx.mask, WorldOnly: ctx.worldOnly}
}

// trace sweeps the player's box from start to end.
func (ctx *moveContext) trace(start, end mgl32.Vec3) world.TraceResult {
	return ctx.body().trace(ctx.sim.World, start, end)
}

// touch records an entity in the step's touch list.
func (ctx *moveContext) touch(entity int32) {
	if entity == world.EntityNone || ctx.touched.Len() >= maxTouchEnts {
		return
	}
	if _, ok := ctx.touched.Get(entity); ok {
		return
	}
	ctx.touched.Set(entity, struct{}{})
}

func (ctx *moveContext) touchedList() []int32 {
	if ctx.touched.Len() == 0 {
		return nil
	}
	return ctx.touched.Keys()
}

// motion returns the origin and velocity of the player as a Motion.
func (ctx *moveContext) motion() Motion {
	return Motion{Origin: ctx.state.Origin, Velocity: ctx.state.Velocity}
}

func (ctx *moveContext) setMotion(m Motion) {
	ctx.state.Origin = m.Origin
	ctx.state.Velocity = m.Velocity
}

func (ctx *moveContext) debugf(format string, args ...any) {
	ctx.sim.debugf(format, args...)
}
