package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/world"
)

// sinkSpeed is how fast an idle swimmer sinks.
const sinkSpeed = float32(60)

var currentDirections = [...]struct {
	contents world.Contents
	dir      mgl32.Vec3
}{
	{world.ContentsCurrentEast, mgl32.Vec3{1, 0, 0}},
	{world.ContentsCurrentNorth, mgl32.Vec3{0, 1, 0}},
	{world.ContentsCurrentWest, mgl32.Vec3{-1, 0, 0}},
	{world.ContentsCurrentSouth, mgl32.Vec3{0, -1, 0}},
	{world.ContentsCurrentUp, mgl32.Vec3{0, 0, 1}},
	{world.ContentsCurrentDown, mgl32.Vec3{0, 0, -1}},
}

func (ctx *moveContext) waterMove() {
	state := ctx.state
	params := ctx.sim.Params

	ctx.friction()

	scale := cmdScale(ctx.cmd.Forward, ctx.cmd.Right, ctx.cmd.Up, params.MaxSpeed)
	var wishVel mgl32.Vec3
	if scale == 0 {
		wishVel = mgl32.Vec3{0, 0, -sinkSpeed}
	} else {
		wishVel = ctx.wishVelocity(ctx.forward, ctx.right).Mul(scale)
		wishVel[2] += scale * float32(ctx.cmd.Up)
	}
	wishVel = wishVel.Add(ctx.current())

	wishDir, wishSpeed := game.Normalize(wishVel)
	if limit := params.MaxSpeed * params.SwimScale; wishSpeed > limit {
		wishSpeed = limit
	}
	ctx.accelerate(wishDir, wishSpeed, params.WaterAccelerate)

	// Swimming up a shallow slope: follow the floor instead of bumping into it.
	if ctx.ground.HasPlane && state.Velocity.Dot(ctx.ground.Plane.Normal) < 0 {
		speed := state.Velocity.Len()
		state.Velocity, _ = game.Normalize(game.ClipVelocity(state.Velocity, ctx.ground.Plane.Normal, game.OverClip))
		state.Velocity = state.Velocity.Mul(speed)
	}
	ctx.slideMove(false)
}

// current returns the push of the liquid current the player is in.
func (ctx *moveContext) current() mgl32.Vec3 {
	state := ctx.state
	if state.Liquid.Type&world.MaskCurrent == 0 {
		return mgl32.Vec3{}
	}
	var v mgl32.Vec3
	for _, c := range currentDirections {
		if state.Liquid.Type&c.contents != 0 {
			v = v.Add(c.dir)
		}
	}
	speed := ctx.sim.Params.CurrentSpeed
	if state.Liquid.Level == LiquidFeet && ctx.ground.Walking {
		speed /= 2
	}
	return v.Mul(speed)
}

// waterJumpMove carries a water jump until the player starts falling.
func (ctx *moveContext) waterJumpMove() {
	ctx.stepSlideMove(true)
	if ctx.state.Velocity[2] < 0 {
		ctx.state.Timer = Timer{}
	}
}
