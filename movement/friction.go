package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/world"
)

// friction slows the player down according to what it stands on or moves through.
func (ctx *moveContext) friction() {
	state := ctx.state
	params := ctx.sim.Params

	vec := state.Velocity
	if ctx.ground.Walking {
		// Ignore slope movement.
		vec[2] = 0
	}
	speed := vec.Len()
	if speed < game.FrictionCutoff {
		state.Velocity[0] = 0
		state.Velocity[1] = 0
		return
	}

	var drop float32
	slick := ctx.ground.Surface&world.SurfaceSlick != 0
	if state.Liquid.Level <= LiquidFeet && ctx.ground.Walking && !slick && !state.Timer.Is(TimerKnockback) {
		control := math32.Max(speed, params.StopSpeed)
		drop += control * params.Friction * ctx.frametime
	}
	if state.Liquid.Level > LiquidNone {
		drop += speed * params.WaterFriction * float32(state.Liquid.Level) * ctx.frametime
	}
	if state.Has(FlagFlight) {
		drop += speed * params.FlyFriction * ctx.frametime
	}
	if state.Type == TypeSpectator {
		drop += speed * params.SpectatorFriction * ctx.frametime
	}
	if state.Has(FlagOnLadder) {
		drop += speed * params.LadderFriction * ctx.frametime
	}

	newSpeed := math32.Max(speed-drop, 0) / speed
	state.Velocity = state.Velocity.Mul(newSpeed)
}

// accelerate adds velocity in wishDir until the speed along it reaches wishSpeed.
func (ctx *moveContext) accelerate(wishDir mgl32.Vec3, wishSpeed, accel float32) {
	state := ctx.state
	currentSpeed := state.Velocity.Dot(wishDir)
	addSpeed := wishSpeed - currentSpeed
	if addSpeed <= 0 {
		return
	}
	accelSpeed := math32.Min(accel*ctx.frametime*wishSpeed, addSpeed)
	state.Velocity = state.Velocity.Add(wishDir.Mul(accelSpeed))
}

// cmdScale returns the scale that turns the command's move axes into a velocity of at most speed, so
// diagonal moves are not faster than straight ones.
func cmdScale(forward, right, up int8, speed float32) float32 {
	f, r, u := float32(forward), float32(right), float32(up)
	maxMove := math32.Max(math32.Abs(f), math32.Max(math32.Abs(r), math32.Abs(u)))
	if maxMove == 0 {
		return 0
	}
	total := math32.Sqrt(f*f + r*r + u*u)
	return speed * maxMove / (127 * total)
}

// wishVelocity builds the horizontal wish velocity of the command on the given axes.
func (ctx *moveContext) wishVelocity(forward, right mgl32.Vec3) mgl32.Vec3 {
	f, r := float32(ctx.cmd.Forward), float32(ctx.cmd.Right)
	return mgl32.Vec3{
		forward[0]*f + right[0]*r,
		forward[1]*f + right[1]*r,
		forward[2]*f + right[2]*r,
	}
}
