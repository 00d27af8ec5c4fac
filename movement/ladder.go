package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/game"
)

// ladderMove climbs a ladder. Forward input climbs up or down depending on where the player looks,
// side input moves along the ladder and there is no gravity.
func (ctx *moveContext) ladderMove() {
	state := ctx.state
	params := ctx.sim.Params

	ctx.friction()

	scale := cmdScale(ctx.cmd.Forward, ctx.cmd.Right, 0, params.MaxSpeed)
	var wishVel mgl32.Vec3
	if scale != 0 {
		// Looking up or straight ahead climbs, looking down descends.
		upScale := math32.Max(-1, math32.Min((ctx.forward[2]+0.5)*2.5, 1))
		wishVel[2] = upScale * float32(ctx.cmd.Forward) * scale

		side := game.Flatten(ctx.right).Mul(float32(ctx.cmd.Right) * scale)
		if sideSpeed := side.Len(); sideSpeed > params.LadderSideSpeed {
			side = side.Mul(params.LadderSideSpeed / sideSpeed)
		}
		wishVel[0], wishVel[1] = side[0], side[1]
	}

	wishDir, wishSpeed := game.Normalize(wishVel)
	limit := params.LadderSpeed
	if state.Liquid.Level > LiquidFeet {
		limit *= params.LadderLiquidScale
	}
	if wishSpeed > limit {
		wishSpeed = limit
	}
	ctx.accelerate(wishDir, wishSpeed, params.LadderAccelerate)

	if ctx.ground.HasPlane && state.Velocity.Dot(ctx.ground.Plane.Normal) < 0 {
		state.Velocity = game.ClipVelocity(state.Velocity, ctx.ground.Plane.Normal, game.OverClip)
	}
	ctx.slideMove(false)
}
