package movement

import (
	"fmt"
	"io"

	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/world"
	"github.com/sirupsen/logrus"
)

// Simulator runs movement steps against a world. It holds only read-only configuration, so one Simulator
// may step any number of players, from any number of goroutines, as long as each State is only stepped
// by one goroutine at a time.
type Simulator struct {
	World   world.Query
	Params  Parameters
	Options Options

	// ScreenContents, if set, receives the contents at the player's eye position at the end of every step.
	ScreenContents func(world.Contents)

	log *logrus.Logger
}

// NewSimulator creates a simulator. A nil logger discards all output.
func NewSimulator(q world.Query, params Parameters, opts Options, log *logrus.Logger) *Simulator {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	if opts.MaxCommandMove <= 0 {
		opts.MaxCommandMove = 127
	}
	if opts.SpawnSearchStep <= 0 {
		opts.SpawnSearchStep = 1
	}
	return &Simulator{World: q, Params: params, Options: opts, log: log}
}

// Step advances state by one command. Step never fails: bad geometry is resolved by sliding, trapping
// or rolling back, and the outcome is described by the returned Result.
func (s *Simulator) Step(state *State, cmd Command) Result {
	ctx := newCtx(s, state, cmd)
	defer putCtx(ctx)

	ctx.debugf("step seq=%d type=%d origin=%v vel=%v", ctx.cmd.Sequence, state.Type, state.Origin, state.Velocity)

	if !ctx.cmd.Has(ButtonJump) {
		state.set(FlagJumpHeld, false)
		state.set(FlagRespawned, false)
	}

	ctx.updateViewAngles()

	switch state.Type {
	case TypeFreeze, TypeIntermission:
		ctx.mode = ModeFrozen
		return ctx.finish()
	case TypeSpectator:
		ctx.mask, ctx.worldOnly = world.MaskDeadSolid, true
		ctx.checkDuck()
		ctx.mode = ModeSpectator
		ctx.flyMove(s.Params.FlySpeed)
		ctx.dropTimers()
		return ctx.finish()
	case TypeNoclip:
		ctx.mode = ModeNoclip
		ctx.noclipMove()
		ctx.dropTimers()
		return ctx.finish()
	case TypeDead:
		ctx.cmd = ctx.cmd.strip()
		ctx.mask = world.MaskDeadSolid
	default:
		ctx.mask = world.MaskPlayerSolid
	}

	ctx.mins, ctx.maxs = state.Bounds()
	ctx.categorize()
	if ctx.checkDuck() {
		ctx.categorize()
	}

	ctx.checkLadder()
	ctx.checkWaterJump()
	ctx.dropTimers()

	if state.Type == TypeDead {
		ctx.deadMove()
	}

	ctx.mode = ctx.selectMode()
	switch ctx.mode {
	case ModeTeleportPause:
	case ModeWaterJump:
		ctx.waterJumpMove()
	case ModeGrapple:
		ctx.grappleMove()
	case ModeLadder:
		ctx.ladderMove()
	case ModeWater:
		ctx.waterMove()
	case ModeFly:
		ctx.flyMove(s.Params.FlySpeed)
	case ModeWalk:
		ctx.walkMove()
	default:
		ctx.airMove()
	}

	ctx.categorize()
	ctx.checkTrickJump()
	ctx.footsteps()
	ctx.waterEvents()
	return ctx.finish()
}

// finish runs the end-of-step bookkeeping shared by every mode and builds the result.
func (ctx *moveContext) finish() Result {
	state := ctx.state
	rolledBack := false
	if ctx.mode != ModeFrozen && ctx.mode != ModeNoclip {
		if ctx.mins == (mgl32.Vec3{}) && ctx.maxs == (mgl32.Vec3{}) {
			ctx.mins, ctx.maxs = state.Bounds()
		}
		rolledBack = ctx.unstick()
	}
	if ctx.sim.Options.SnapVelocity {
		state.Velocity = game.SnapVector(state.Velocity)
	}

	res := Result{
		Mode:        ctx.mode,
		Ground:      ctx.ground,
		Liquid:      state.Liquid,
		ImpactDelta: ctx.impactDelta,
		Slide:       ctx.slide,
		StepHeight:  ctx.stepHeight,
		Touched:     ctx.touchedList(),
		RolledBack:  rolledBack,
	}
	if ctx.mode != ModeFrozen {
		res.ScreenContents = ctx.sim.World.PointContents(state.Origin.Add(mgl32.Vec3{0, 0, state.ViewHeight}))
		if ctx.sim.ScreenContents != nil {
			ctx.sim.ScreenContents(res.ScreenContents)
		}
	}
	state.LastMode = ctx.mode
	state.Sequence = ctx.cmd.Sequence
	ctx.debugf("step done seq=%d mode=%s origin=%v vel=%v", ctx.cmd.Sequence, ctx.mode, state.Origin, state.Velocity)
	return res
}

// updateViewAngles applies the command angles and the state's delta angles, clamping pitch.
func (ctx *moveContext) updateViewAngles() {
	state := ctx.state
	switch state.Type {
	case TypeFreeze, TypeIntermission, TypeDead:
	default:
		for i := 0; i < 3; i++ {
			temp := int16(ctx.cmd.Angles[i] + state.DeltaAngles[i])
			if i == game.Pitch {
				if int32(temp) > game.PitchLimit {
					state.DeltaAngles[i] = game.PitchLimit - ctx.cmd.Angles[i]
					temp = int16(game.PitchLimit)
				} else if int32(temp) < -game.PitchLimit {
					state.DeltaAngles[i] = -game.PitchLimit - ctx.cmd.Angles[i]
					temp = int16(-game.PitchLimit)
				}
			}
			state.ViewAngles[i] = game.ShortToAngle(int32(temp))
		}
	}
	ctx.forward, ctx.right, ctx.up = game.AngleVectors(state.ViewAngles)
}

// dropTimers counts down the movement timer and the trick-jump window.
func (ctx *moveContext) dropTimers() {
	state := ctx.state
	if state.Timer.RemainingMs > 0 {
		if ctx.msec >= state.Timer.RemainingMs {
			state.Timer = Timer{}
		} else {
			state.Timer.RemainingMs -= ctx.msec
		}
	} else {
		state.Timer = Timer{}
	}
	if state.TrickJumpMs > 0 {
		state.TrickJumpMs = max(state.TrickJumpMs-ctx.msec, 0)
	}
}

func (s *Simulator) debugf(format string, args ...any) {
	if s.log.IsLevelEnabled(logrus.DebugLevel) {
		s.log.Debugf(format, args...)
	}
}

// anomaly logs a state the resolver should never reach and, if enabled, reports it to sentry.
func (s *Simulator) anomaly(format string, args ...any) {
	s.log.Warnf(format, args...)
	if !s.Options.ReportAnomalies {
		return
	}
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("component", "movement")
	})
	hub.CaptureMessage(fmt.Sprintf(format, args...))
}
