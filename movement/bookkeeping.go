package movement

import (
	"github.com/chewxy/math32"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/world"
)

// Bob cycle speeds per millisecond.
const (
	bobDucked = float32(0.5)
	bobWalk   = float32(0.3)
	bobRun    = float32(0.4)
	// idleSpeed is the horizontal speed under which an idle player stops bobbing.
	idleSpeed = float32(5)
)

// footsteps advances the bob cycle and queues a footstep every half cycle.
func (ctx *moveContext) footsteps() {
	state := ctx.state
	state.XYSpeed = math32.Sqrt(game.Vec3HzDistSqr(state.Velocity))

	if !ctx.ground.Walking {
		return
	}
	if ctx.cmd.Forward == 0 && ctx.cmd.Right == 0 {
		if state.XYSpeed < idleSpeed {
			state.BobCycle = 0
		}
		return
	}

	bobMove := bobRun
	switch {
	case state.Has(FlagDucked):
		bobMove = bobDucked
	case ctx.cmd.Has(ButtonWalk):
		bobMove = bobWalk
	}

	old := int(state.BobCycle)
	cycle := int(float32(old)+bobMove*float32(ctx.msec)) & 255
	state.BobCycle = uint8(cycle)

	if ((old+64)^(cycle+64))&128 == 0 {
		return
	}
	switch state.Liquid.Level {
	case LiquidNone:
		if !ctx.cmd.Has(ButtonWalk) && !state.Has(FlagDucked) && ctx.ground.Surface&world.SurfaceNoSteps == 0 {
			state.Events.Add(EventFootstep, int32(ctx.ground.Material))
		}
	case LiquidFeet:
		state.Events.Add(EventFootSplash, 0)
	case LiquidWaist:
		state.Events.Add(EventFootWade, 0)
	}
}

// waterEvents queues events for entering, leaving and diving into liquids.
func (ctx *moveContext) waterEvents() {
	state := ctx.state
	prev, now := ctx.startLiquid, state.Liquid.Level
	switch {
	case prev == LiquidNone && now != LiquidNone:
		state.Events.Add(EventWaterTouch, 0)
	case prev != LiquidNone && now == LiquidNone:
		state.Events.Add(EventWaterLeave, 0)
	}
	switch {
	case prev != LiquidSubmerged && now == LiquidSubmerged:
		state.Events.Add(EventWaterUnder, 0)
	case prev == LiquidSubmerged && now != LiquidSubmerged:
		state.Events.Add(EventWaterClear, 0)
	}
	if now == LiquidSubmerged && ctx.cmd.Forward != 0 && ctx.mode == ModeWater {
		cycle := int(state.BobCycle)
		next := (cycle + int(ctx.msec)/4) & 255
		state.BobCycle = uint8(next)
		if ((cycle+64)^(next+64))&128 != 0 {
			state.Events.Add(EventSwim, 0)
		}
	}
}

// stepEvent queues a step event bucketed by the height stepped up.
func (ctx *moveContext) stepEvent(height float32) {
	bucket := int32(4)
	switch {
	case height > 14:
		bucket = 16
	case height > 10:
		bucket = 12
	case height > 6:
		bucket = 8
	}
	ctx.state.Events.Add(EventStep, bucket)
}
