package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/world"
)

// trickJumpSlope is the largest ratio of falling to horizontal speed that still counts as a shallow landing.
const trickJumpSlope = float32(0.5)

// categorize determines the ground and liquid state of the player at its current origin.
func (ctx *moveContext) categorize() {
	ctx.groundTrace()
	ctx.setWaterLevel()
}

func (ctx *moveContext) groundTrace() {
	state := ctx.state
	point := state.Origin.Sub(mgl32.Vec3{0, 0, game.GroundCheckDistance})
	tr := ctx.trace(state.Origin, point)
	ctx.groundTr = tr

	// Starting in solid is left to the step-end recovery.
	if tr.AllSolid || tr.Fraction == 1 {
		ctx.debugf("ground: none (allsolid=%t)", tr.AllSolid)
		ctx.setNoGround(false)
		return
	}

	vel := state.Velocity
	if state.Has(FlagGrapple) || vel[2] > game.GroundLiftVelocity || (vel[2] > 0 && vel.Dot(tr.Plane.Normal) > game.GroundKickDot) {
		ctx.debugf("ground: kicked off (vel=%v)", vel)
		ctx.setNoGround(false)
		return
	}

	if tr.Plane.Normal[2] < game.MinWalkNormal && !ctx.wedged(tr) {
		ctx.debugf("ground: too steep (normal=%v)", tr.Plane.Normal)
		ctx.setNoGround(true)
		return
	}

	ctx.ground = GroundInfo{
		Entity:   tr.Entity,
		HasPlane: true,
		Walking:  true,
		Plane:    tr.Plane,
		Surface:  tr.Surface,
		Contents: tr.Contents,
		Material: tr.Material,
	}
	if state.Timer.Is(TimerWaterJump) {
		state.Timer = Timer{}
	}
	if state.GroundEntity == world.EntityNone {
		ctx.land(tr)
	}
	state.GroundEntity = tr.Entity
	ctx.touch(tr.Entity)
}

// setNoGround clears the ground. A plane that was hit but is not walkable is kept for clipping.
func (ctx *moveContext) setNoGround(keepPlane bool) {
	ctx.ground = GroundInfo{Entity: world.EntityNone}
	if keepPlane {
		ctx.ground.HasPlane = true
		ctx.ground.Plane = ctx.groundTr.Plane
		ctx.ground.Surface = ctx.groundTr.Surface
	}
	ctx.state.GroundEntity = world.EntityNone
}

// wedged reports whether the player cannot move away from a steep plane, as happens in a V-shaped
// crevice. A wedged player is treated as standing.
func (ctx *moveContext) wedged(tr world.TraceResult) bool {
	away := ctx.state.Origin.Add(mgl32.Vec3{tr.Plane.Normal[0], tr.Plane.Normal[1], 0})
	back := ctx.trace(ctx.state.Origin, away)
	return back.StartSolid || back.Fraction < 1
}

// land handles the transition from air to ground.
func (ctx *moveContext) land(tr world.TraceResult) {
	state := ctx.state
	prev := ctx.startVelocity
	clipped := game.ClipVelocity(prev, tr.Plane.Normal, game.OverClip)
	delta := prev.Sub(clipped).Len()
	if delta > ctx.impactDelta {
		ctx.impactDelta = delta
	}
	ctx.debugf("landed: delta=%.3f normal=%v", delta, tr.Plane.Normal)

	if state.Has(FlagDucked) && ctx.sim.Params.LandTimeMs > 0 {
		state.Timer = Timer{Kind: TimerLand, RemainingMs: ctx.sim.Params.LandTimeMs}
	}

	hz := math32.Sqrt(game.Vec3HzDistSqr(prev))
	if ctx.sim.Params.TrickJumpWindowMs > 0 && hz >= ctx.sim.Params.TrickJumpSpeed && -prev[2] <= hz*trickJumpSlope {
		state.TrickJumpMs = ctx.sim.Params.TrickJumpWindowMs
	}

	ctx.crashLand(delta, tr)
}

// crashLand queues the landing event matching the severity of an impact.
func (ctx *moveContext) crashLand(speed float32, tr world.TraceResult) {
	state := ctx.state
	d := speed * speed * 0.0001
	if state.Has(FlagDucked) {
		d *= 2
	}
	switch state.Liquid.Level {
	case LiquidSubmerged:
		return
	case LiquidWaist:
		d *= 0.25
	case LiquidFeet:
		d *= 0.5
	}
	if d < 1 {
		return
	}

	switch {
	case tr.Surface&world.SurfaceNoDamage != 0 && d > 7:
		state.Events.Add(EventFallShort, 0)
	case d > 60:
		state.Events.Add(EventFallFar, int32(d))
	case d > 40:
		state.Events.Add(EventFallMedium, int32(d))
	case d > 7:
		state.Events.Add(EventFallShort, 0)
	case tr.Surface&world.SurfaceNoSteps == 0:
		state.Events.Add(EventFootstep, int32(tr.Material))
	}
}

// setWaterLevel samples the contents at the feet, waist and eyes of the player.
func (ctx *moveContext) setWaterLevel() {
	state := ctx.state
	state.Liquid = LiquidInfo{}

	point := state.Origin
	point[2] = state.Origin[2] + ctx.mins[2] + 1
	cont := ctx.sim.World.PointContents(point)
	if cont&world.MaskWater == 0 {
		return
	}

	sample2 := state.ViewHeight - ctx.mins[2]
	sample1 := sample2 / 2
	state.Liquid = LiquidInfo{Level: LiquidFeet, Type: cont & (world.MaskWater | world.MaskCurrent)}

	point[2] = state.Origin[2] + ctx.mins[2] + sample1
	if ctx.sim.World.PointContents(point)&world.MaskWater == 0 {
		return
	}
	state.Liquid.Level = LiquidWaist

	point[2] = state.Origin[2] + ctx.mins[2] + sample2
	if ctx.sim.World.PointContents(point)&world.MaskWater != 0 {
		state.Liquid.Level = LiquidSubmerged
	}
}
