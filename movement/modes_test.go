package movement

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/world"
)

func TestLadderClimb(t *testing.T) {
	ladder := solidBrush(32, -64, 0, 40, 64, 200)
	ladder.Surface = world.SurfaceLadder
	sim := newTestSim(ladder)
	state := standing(16, 0)

	res := sim.Step(&state, forwardCmd(1))
	if res.Mode != ModeLadder || !state.Has(FlagOnLadder) {
		t.Fatalf("expected to climb the ladder, got mode %v", res.Mode)
	}
	if state.Velocity.Z() != sim.Params.LadderSpeed {
		t.Fatalf("expected to climb at ladder speed, got %v", state.Velocity)
	}
	if state.Origin.Z() <= 24 {
		t.Fatalf("expected to move up, got %v", state.Origin)
	}
}

func TestIdleSwimmerSinks(t *testing.T) {
	sim := newTestSim(world.Brush{Box: cube.Box(-512, -512, 0, 512, 512, 200), Contents: world.ContentsWater})
	state := NewState(mgl32.Vec3{0, 0, 100})

	res := sim.Step(&state, Command{Sequence: 1, Msec: 16})
	if res.Mode != ModeWater || state.Liquid.Level != LiquidSubmerged {
		t.Fatalf("expected to swim submerged, got mode %v level %v", res.Mode, state.Liquid.Level)
	}
	if state.Velocity.Z() >= 0 {
		t.Fatalf("expected to sink, got %v", state.Velocity)
	}
	if !hasEvent(state, EventWaterTouch) || !hasEvent(state, EventWaterUnder) {
		t.Fatalf("expected water events, got %v", state.Events.Since(0))
	}
}

func TestWaterLevels(t *testing.T) {
	sim := newTestSim(world.Brush{Box: cube.Box(-512, -512, 0, 512, 512, 100), Contents: world.ContentsSlime})
	tests := []struct {
		z     float32
		level LiquidLevel
	}{
		{z: 200, level: LiquidNone},
		{z: 110, level: LiquidFeet},
		{z: 90, level: LiquidWaist},
		{z: 60, level: LiquidSubmerged},
	}
	for _, tt := range tests {
		state := NewState(mgl32.Vec3{0, 0, tt.z})
		sim.Step(&state, Command{Sequence: 1, Msec: 1})
		if state.Liquid.Level != tt.level {
			t.Fatalf("z=%v: expected level %v, got %v", tt.z, tt.level, state.Liquid.Level)
		}
		if tt.level != LiquidNone && state.Liquid.Type&world.ContentsSlime == 0 {
			t.Fatalf("z=%v: expected slime, got %b", tt.z, state.Liquid.Type)
		}
	}
}

// poolWithLedge returns a simulator with a pool of the given liquid ending at a ledge at x=32 whose
// top is 5 units above the surface.
func poolWithLedge(liquid world.Contents) *Simulator {
	return newTestSim(
		world.Brush{Box: cube.Box(-200, -200, 0, 32, 200, 100), Contents: liquid},
		solidBrush(32, -200, 0, 400, 200, 105),
	)
}

func TestWaterJumpOutOfPool(t *testing.T) {
	sim := poolWithLedge(world.ContentsWater)
	state := NewState(mgl32.Vec3{16, 0, 90})

	res := sim.Step(&state, forwardCmd(1))
	if res.Mode != ModeWaterJump || !state.Timer.Is(TimerWaterJump) {
		t.Fatalf("expected a water jump, got mode %v timer %+v", res.Mode, state.Timer)
	}
	if state.Velocity.Z() < 300 || state.Velocity.X() != game.WaterJumpForward {
		t.Fatalf("unexpected water jump velocity %v", state.Velocity)
	}

	for seq := uint32(2); seq <= 80; seq++ {
		sim.Step(&state, forwardCmd(seq))
	}
	if !state.Grounded() || state.Origin.Z() < 129 || state.Origin.X() <= 32 {
		t.Fatalf("expected to end up on the ledge, got %v", state.Origin)
	}
}

func TestNoWaterJumpInLava(t *testing.T) {
	sim := poolWithLedge(world.ContentsLava)
	state := NewState(mgl32.Vec3{16, 0, 90})

	res := sim.Step(&state, forwardCmd(1))
	if res.Mode == ModeWaterJump || state.Timer.Kind != TimerNone {
		t.Fatalf("lava must not allow a water jump, got mode %v", res.Mode)
	}
}

func TestNoWaterJumpWithoutForwardInput(t *testing.T) {
	sim := poolWithLedge(world.ContentsWater)
	state := NewState(mgl32.Vec3{16, 0, 90})

	sim.Step(&state, Command{Sequence: 1, Msec: 16, Right: 127})
	if state.Timer.Is(TimerWaterJump) {
		t.Fatalf("water jump started without forward input")
	}
}

func TestTrickJump(t *testing.T) {
	sim := newTestSim()
	state := NewState(mgl32.Vec3{0, 0, 25})
	state.Velocity = mgl32.Vec3{500, 0, -100}

	sim.Step(&state, Command{Sequence: 1, Msec: 16})
	if !state.Grounded() || state.TrickJumpMs != sim.Params.TrickJumpWindowMs {
		t.Fatalf("expected a fast shallow landing to open the window, ground=%t window=%d", state.Grounded(), state.TrickJumpMs)
	}

	sim.Step(&state, Command{Sequence: 2, Msec: 16, Buttons: ButtonJump})
	if state.Grounded() || !hasEvent(state, EventJump) {
		t.Fatalf("expected a regular jump")
	}
	sim.Step(&state, Command{Sequence: 3, Msec: 16})
	sim.Step(&state, Command{Sequence: 4, Msec: 16, Buttons: ButtonJump})

	if !hasEvent(state, EventTrickJump) {
		t.Fatalf("expected a trick jump, got %v", state.Events.Since(0))
	}
	if state.TrickJumpMs != 0 || state.Velocity.Z() != sim.Params.JumpVelocity {
		t.Fatalf("unexpected state after trick jump: window=%d vel=%v", state.TrickJumpMs, state.Velocity)
	}
}

func TestSteepLandingDoesNotOpenTrickWindow(t *testing.T) {
	sim := newTestSim()
	state := NewState(mgl32.Vec3{0, 0, 30})
	state.Velocity = mgl32.Vec3{100, 0, -400}

	sim.Step(&state, Command{Sequence: 1, Msec: 20})
	if !state.Grounded() {
		t.Fatalf("expected to land")
	}
	if state.TrickJumpMs != 0 {
		t.Fatalf("a steep landing opened the trick-jump window")
	}
}

func TestCrouchedLandingBlocksJump(t *testing.T) {
	sim := newTestSim()
	state := NewState(mgl32.Vec3{0, 0, 30})
	state.Velocity = mgl32.Vec3{0, 0, -400}
	state.Flags |= FlagDucked

	sim.Step(&state, Command{Sequence: 1, Msec: 20, Buttons: ButtonCrouch})
	if !state.Timer.Is(TimerLand) {
		t.Fatalf("expected a land timer, got %+v", state.Timer)
	}
	sim.Step(&state, Command{Sequence: 2, Msec: 16, Buttons: ButtonJump | ButtonCrouch})
	if hasEvent(state, EventJump) {
		t.Fatalf("jumped during the land timer")
	}
}

func TestDryRunIsPure(t *testing.T) {
	sim := newTestSim(solidBrush(64, -512, 0, 80, 512, 200))
	body := Body{Mins: game.PlayerMins, Maxs: game.PlayerMaxs, Mask: world.MaskPlayerSolid}
	start := Motion{Origin: mgl32.Vec3{0, 0, 24}, Velocity: mgl32.Vec3{320, 0, 0}}

	m, outcome := sim.DryRun(body, start, 0.1, false, false)
	if !outcome.Has(SlideMovedFully) || m.Origin != (mgl32.Vec3{32, 0, 24}) {
		t.Fatalf("unexpected free move: %v %b", m.Origin, outcome)
	}

	m, outcome = sim.DryRun(body, start, 0.5, false, false)
	if !outcome.Has(SlideBlocked) || m.Origin.X() > 49 {
		t.Fatalf("expected the wall to block the dry run: %v %b", m.Origin, outcome)
	}
	again, _ := sim.DryRun(body, start, 0.5, false, false)
	if again != m {
		t.Fatalf("dry runs differ: %v vs %v", again, m)
	}
	if start.Origin != (mgl32.Vec3{0, 0, 24}) {
		t.Fatalf("dry run changed its input")
	}
}

func TestTouchedEntities(t *testing.T) {
	sim := newTestSim(world.Brush{Box: cube.Box(64, -512, 0, 80, 512, 200), Contents: world.ContentsBody, Entity: 7})
	state := standing(0, 0)

	var touched []int32
	for seq := uint32(1); seq <= 40; seq++ {
		touched = sim.Step(&state, forwardCmd(seq)).Touched
	}
	if len(touched) != 2 || touched[0] != world.EntityWorld || touched[1] != 7 {
		t.Fatalf("expected the floor then the body to be touched, got %v", touched)
	}
}

func TestEventQueueWraps(t *testing.T) {
	var q EventQueue
	for i := 0; i < 6; i++ {
		q.Add(EventFootstep, int32(i))
	}
	if _, ok := q.At(1); ok {
		t.Fatalf("event 1 should have been overwritten")
	}
	e, ok := q.At(5)
	if !ok || e.Param != 5 {
		t.Fatalf("expected event 5, got %+v %t", e, ok)
	}
	if _, ok := q.At(6); ok {
		t.Fatalf("event 6 does not exist yet")
	}
	events := q.Since(0)
	if len(events) != EventQueueSize || events[0].Param != 2 || events[3].Param != 5 {
		t.Fatalf("unexpected events %+v", events)
	}
	if len(q.Since(6)) != 0 {
		t.Fatalf("expected no new events")
	}
}

func TestCommandNormalize(t *testing.T) {
	cmd := Command{Msec: 0, Forward: 127, Right: -128, Buttons: ButtonWalk | ButtonJump}.normalize(127)
	if cmd.Msec != game.MinMsec {
		t.Fatalf("expected msec clamp, got %d", cmd.Msec)
	}
	if cmd.Forward != 64 || cmd.Right != -64 || cmd.Up != 64 {
		t.Fatalf("expected walk limits, got %+v", cmd)
	}
	if c := (Command{Msec: 250}).normalize(127); c.Msec != game.MaxMsec {
		t.Fatalf("expected msec clamp, got %d", c.Msec)
	}
}

func TestDigestChangesWithState(t *testing.T) {
	a := standing(0, 0)
	b := a
	if a.Digest() != b.Digest() {
		t.Fatalf("equal states must have equal digests")
	}
	b.Velocity[0] = 1
	if a.Digest() == b.Digest() {
		t.Fatalf("different states produced the same digest")
	}
	b = a
	b.Events.Add(EventJump, 0)
	if a.Digest() == b.Digest() {
		t.Fatalf("events must be part of the digest")
	}
}
