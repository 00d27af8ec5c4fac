package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/world"
)

// flyMove moves a flying player or spectator freely in all directions.
func (ctx *moveContext) flyMove(speed float32) {
	ctx.state.GroundEntity = world.EntityNone
	ctx.ground = GroundInfo{Entity: world.EntityNone}
	if ctx.mins == (mgl32.Vec3{}) && ctx.maxs == (mgl32.Vec3{}) {
		ctx.mins, ctx.maxs = ctx.state.Bounds()
	}

	ctx.friction()

	scale := cmdScale(ctx.cmd.Forward, ctx.cmd.Right, ctx.cmd.Up, speed)
	var wishVel mgl32.Vec3
	if scale != 0 {
		wishVel = ctx.wishVelocity(ctx.forward, ctx.right).Mul(scale)
		wishVel[2] += scale * float32(ctx.cmd.Up)
	}
	wishDir, wishSpeed := game.Normalize(wishVel)
	ctx.accelerate(wishDir, wishSpeed, ctx.sim.Params.FlyAccelerate)
	ctx.stepSlideMove(false)
}

// noclipMove moves the player without any collision.
func (ctx *moveContext) noclipMove() {
	state := ctx.state
	params := ctx.sim.Params
	state.ViewHeight = game.DefaultViewHeight
	state.GroundEntity = world.EntityNone
	ctx.ground = GroundInfo{Entity: world.EntityNone}

	speed := state.Velocity.Len()
	if speed < game.FrictionCutoff {
		state.Velocity = mgl32.Vec3{}
	} else {
		control := math32.Max(speed, params.StopSpeed)
		drop := control * params.Friction * game.NoclipFriction * ctx.frametime
		state.Velocity = state.Velocity.Mul(math32.Max(speed-drop, 0) / speed)
	}

	scale := cmdScale(ctx.cmd.Forward, ctx.cmd.Right, ctx.cmd.Up, params.FlySpeed)
	wishVel := ctx.wishVelocity(ctx.forward, ctx.right)
	wishVel[2] += float32(ctx.cmd.Up)
	wishDir, wishSpeed := game.Normalize(wishVel)
	ctx.accelerate(wishDir, wishSpeed*scale, params.Accelerate)

	state.Origin = state.Origin.Add(state.Velocity.Mul(ctx.frametime))
}

// grappleMove pulls the player toward its grapple point and continues as an air move.
func (ctx *moveContext) grappleMove() {
	state := ctx.state
	dir, dist := game.Normalize(state.GrapplePoint.Sub(state.Origin))
	if dist <= game.GrappleSlowRadius {
		state.Velocity = dir.Mul(10 * dist)
	} else {
		state.Velocity = dir.Mul(game.GrappleSpeed)
	}
	ctx.ground.HasPlane = false
	ctx.airMove()
}
