package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/world"
)

const (
	// waterJumpSlice and waterJumpSlices bound the dry run that checks a water jump lands on dry ground.
	waterJumpSlice  = float32(0.05)
	waterJumpSlices = 20
	// ladderReach is how far in front of the player a ladder is looked for.
	ladderReach = float32(1)
)

// checkDuck updates the crouch state and bounding box. It returns true when the box changed.
func (ctx *moveContext) checkDuck() bool {
	state := ctx.state
	wasDucked := state.Has(FlagDucked)

	switch {
	case state.Type == TypeDead:
	case ctx.cmd.Up < 0:
		state.set(FlagDucked, true)
	case wasDucked:
		// Stand up only if there is room.
		mins, maxs := game.PlayerMins, game.PlayerMaxs
		tr := Body{Mins: mins, Maxs: maxs, Mask: ctx.mask, WorldOnly: ctx.worldOnly}.trace(ctx.sim.World, state.Origin, state.Origin)
		if !tr.AllSolid {
			state.set(FlagDucked, false)
		}
	}

	ctx.mins, ctx.maxs = state.Bounds()
	ctx.updateViewHeight()
	return state.Has(FlagDucked) != wasDucked
}

// updateViewHeight moves the eye height toward the height of the current stance.
func (ctx *moveContext) updateViewHeight() {
	state := ctx.state
	target := game.DefaultViewHeight
	switch {
	case state.Type == TypeDead:
		state.ViewHeight = game.DeadViewHeight
		return
	case state.Has(FlagDucked):
		target = game.CrouchViewHeight
	}

	ease := ctx.sim.Options.DuckEaseMs
	if ease <= 0 {
		state.ViewHeight = target
		return
	}
	rate := (game.DefaultViewHeight - game.CrouchViewHeight) * float32(ctx.msec) / float32(ease)
	switch {
	case state.ViewHeight < target:
		state.ViewHeight = math32.Min(state.ViewHeight+rate, target)
	case state.ViewHeight > target:
		state.ViewHeight = math32.Max(state.ViewHeight-rate, target)
	}
}

// checkJump starts a jump if the player may jump. It returns true when the player jumped.
func (ctx *moveContext) checkJump() bool {
	state := ctx.state
	if state.Has(FlagRespawned) || state.Timer.Is(TimerLand) {
		return false
	}
	if !ctx.cmd.Has(ButtonJump) || state.Has(FlagJumpHeld) {
		return false
	}

	ctx.ground.HasPlane = false
	ctx.ground.Walking = false
	ctx.ground.Entity = world.EntityNone
	state.GroundEntity = world.EntityNone
	state.set(FlagJumpHeld, true)
	state.Velocity[2] = ctx.sim.Params.JumpVelocity
	state.Events.Add(EventJump, 0)
	ctx.debugf("jump: vel=%v", state.Velocity)
	return true
}

// checkTrickJump grants the extra jump of an open trick-jump window.
func (ctx *moveContext) checkTrickJump() {
	state := ctx.state
	if state.TrickJumpMs <= 0 || ctx.ground.Walking || state.Type != TypeNormal {
		return
	}
	if !ctx.cmd.Has(ButtonJump) || state.Has(FlagJumpHeld) {
		return
	}
	state.Velocity[2] = math32.Max(state.Velocity[2], ctx.sim.Params.JumpVelocity)
	state.set(FlagJumpHeld, true)
	state.TrickJumpMs = 0
	state.Events.Add(EventTrickJump, 0)
	ctx.debugf("trick jump: vel=%v", state.Velocity)
}

// checkLadder looks for a ladder right in front of the player.
func (ctx *moveContext) checkLadder() {
	state := ctx.state
	state.set(FlagOnLadder, false)
	if state.Type == TypeDead {
		return
	}
	flat := game.Flatten(ctx.forward)
	spot := state.Origin.Add(flat.Mul(ladderReach))
	body := ctx.body()
	body.Mask |= world.ContentsLadder
	tr := body.trace(ctx.sim.World, state.Origin, spot)
	if tr.Fraction < 1 && (tr.Surface&world.SurfaceLadder != 0 || tr.Contents&world.ContentsLadder != 0) {
		state.set(FlagOnLadder, true)
	}
}

// checkWaterJump launches a player that is swimming against a ledge out of the water, but only when a
// dry run of the jump shows it ends on dry ground.
func (ctx *moveContext) checkWaterJump() bool {
	state := ctx.state
	if state.Timer.Kind != TimerNone || state.Type != TypeNormal {
		return false
	}
	if state.Liquid.Level != LiquidWaist || state.Liquid.Type&world.ContentsLava != 0 || ctx.cmd.Forward <= 0 {
		return false
	}

	flat := game.Flatten(ctx.forward)
	spot := state.Origin.Add(flat.Mul(30))
	spot[2] += 4
	if ctx.sim.World.PointContents(spot)&world.ContentsSolid == 0 {
		return false
	}
	spot[2] += 16
	if ctx.sim.World.PointContents(spot) != 0 {
		return false
	}

	vel := flat.Mul(game.WaterJumpForward)
	vel[2] = game.WaterJumpUp
	if !ctx.waterJumpLands(Motion{Origin: state.Origin, Velocity: vel}) {
		ctx.debugf("water jump rejected: no dry landing")
		return false
	}

	state.Velocity = vel
	state.Timer = Timer{Kind: TimerWaterJump, RemainingMs: ctx.sim.Params.WaterJumpMs}
	ctx.debugf("water jump: vel=%v", vel)
	return true
}

// waterJumpLands simulates a water jump on a scratch motion and reports whether it ends on dry ground.
func (ctx *moveContext) waterJumpLands(m Motion) bool {
	body := ctx.body()
	feet := mgl32.Vec3{0, 0, ctx.mins[2] + 1}
	for i := 0; i < waterJumpSlices; i++ {
		// The jump velocity is kept through collisions, only gravity changes it.
		vel := m.Velocity
		vel[2] -= ctx.sim.Params.Gravity * waterJumpSlice
		next, outcome := ctx.sim.DryRun(body, m, waterJumpSlice, true, false)
		if outcome.Has(SlideTrapped) {
			return false
		}
		m = Motion{Origin: next.Origin, Velocity: vel}

		dry := ctx.sim.World.PointContents(m.Origin.Add(feet))&world.MaskWater == 0
		if m.Velocity[2] <= 0 {
			tr := body.trace(ctx.sim.World, m.Origin, m.Origin.Sub(mgl32.Vec3{0, 0, game.GroundCheckDistance}))
			if tr.Fraction < 1 && !tr.AllSolid && tr.Plane.Normal[2] >= game.MinWalkNormal {
				return dry
			}
			if !dry {
				return false
			}
		}
	}
	return false
}
