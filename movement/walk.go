package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/world"
)

func (ctx *moveContext) walkMove() {
	state := ctx.state
	params := ctx.sim.Params

	if ctx.checkJump() {
		ctx.mode = ModeAir
		ctx.airMove()
		return
	}

	ctx.friction()

	scale := cmdScale(ctx.cmd.Forward, ctx.cmd.Right, 0, params.MaxSpeed)
	normal := ctx.ground.Plane.Normal

	// Project the move axes onto the ground plane.
	forward, right := ctx.forward, ctx.right
	forward[2], right[2] = 0, 0
	forward, _ = game.Normalize(game.ClipVelocity(forward, normal, game.OverClip))
	right, _ = game.Normalize(game.ClipVelocity(right, normal, game.OverClip))

	wishDir, wishSpeed := game.Normalize(ctx.wishVelocity(forward, right))
	wishSpeed *= scale

	if state.Has(FlagDucked) && wishSpeed > params.MaxSpeed*params.DuckScale {
		wishSpeed = params.MaxSpeed * params.DuckScale
	}
	if state.Liquid.Level > LiquidNone {
		waterScale := 1 - (1-params.SwimScale)*float32(state.Liquid.Level)/3
		if wishSpeed > params.MaxSpeed*waterScale {
			wishSpeed = params.MaxSpeed * waterScale
		}
	}

	slick := ctx.ground.Surface&world.SurfaceSlick != 0
	accel := params.Accelerate
	if slick || state.Timer.Is(TimerKnockback) {
		accel = params.AirAccelerate
	}
	ctx.accelerate(wishDir, wishSpeed, accel)

	if slick || state.Timer.Is(TimerKnockback) {
		state.Velocity[2] -= params.Gravity * ctx.frametime
	}

	// Slide along the ground plane without losing speed on slopes.
	speed := state.Velocity.Len()
	state.Velocity, _ = game.Normalize(game.ClipVelocity(state.Velocity, normal, game.OverClip))
	state.Velocity = state.Velocity.Mul(speed)

	if state.Velocity[0] == 0 && state.Velocity[1] == 0 {
		return
	}
	ctx.stepSlideMove(false)
}

func (ctx *moveContext) airMove() {
	state := ctx.state
	params := ctx.sim.Params

	ctx.friction()

	scale := cmdScale(ctx.cmd.Forward, ctx.cmd.Right, 0, params.MaxSpeed)
	wishVel := ctx.wishVelocity(game.Flatten(ctx.forward), game.Flatten(ctx.right))
	wishVel[2] = 0
	wishDir, wishSpeed := game.Normalize(wishVel)
	wishSpeed *= scale

	ctx.accelerate(wishDir, wishSpeed, params.AirAccelerate)

	// Slide along steep planes the player cannot stand on.
	if ctx.ground.HasPlane {
		state.Velocity = game.ClipVelocity(state.Velocity, ctx.ground.Plane.Normal, game.OverClip)
	}
	ctx.stepSlideMove(true)
}

// deadMove bleeds off the speed of a dead player on the ground.
func (ctx *moveContext) deadMove() {
	if !ctx.ground.Walking {
		return
	}
	state := ctx.state
	dir, speed := game.Normalize(state.Velocity)
	speed -= game.DeadFriction
	if speed <= 0 {
		state.Velocity = mgl32.Vec3{}
		return
	}
	state.Velocity = dir.Mul(speed)
}
