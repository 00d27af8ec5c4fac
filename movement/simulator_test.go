package movement

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/world"
)

func TestStationaryPlayerStaysPut(t *testing.T) {
	sim := newTestSim()
	state := standing(0, 0)
	start := state.Origin

	res := sim.Step(&state, Command{Sequence: 1, Msec: 100})
	if state.Velocity.Len() >= game.FrictionCutoff {
		t.Fatalf("expected velocity below the friction cutoff, got %v", state.Velocity)
	}
	if state.Origin != start {
		t.Fatalf("expected origin %v, got %v", start, state.Origin)
	}
	if !res.Ground.Walking || !state.Grounded() || res.Mode != ModeWalk {
		t.Fatalf("expected a grounded walk step, got %+v", res)
	}
}

func TestAccelerationIsCappedAtMaxSpeed(t *testing.T) {
	sim := newTestSim()
	state := standing(0, 0)

	var speed float32
	for seq := uint32(1); seq <= 60; seq++ {
		sim.Step(&state, forwardCmd(seq))
		speed = math32.Sqrt(game.Vec3HzDistSqr(state.Velocity))
		if speed > sim.Params.MaxSpeed {
			t.Fatalf("step %d: speed %v exceeds max speed", seq, speed)
		}
	}
	if speed < sim.Params.MaxSpeed-1 {
		t.Fatalf("expected to reach max speed, got %v", speed)
	}
	if state.Origin.X() <= 0 || state.Origin.Y() != 0 {
		t.Fatalf("expected to move along +x, got %v", state.Origin)
	}
}

func TestFallingPlayerLands(t *testing.T) {
	sim := newTestSim()
	state := NewState(mgl32.Vec3{0, 0, 40})
	state.Velocity = mgl32.Vec3{0, 0, -400}

	res := sim.Step(&state, Command{Sequence: 1, Msec: 50})
	if !state.Grounded() || !res.Ground.Walking {
		t.Fatalf("expected the player to land, got %+v", res)
	}
	if res.ImpactDelta <= 0 {
		t.Fatalf("expected a positive landing delta, got %v", res.ImpactDelta)
	}
	if feet := state.Origin.Z() - 24; feet < 0 || feet > 0.1 {
		t.Fatalf("expected the feet to rest on the floor, got %v", feet)
	}
	if state.Velocity.Z() != 0 {
		t.Fatalf("expected vertical velocity to be cleared, got %v", state.Velocity)
	}
	if !hasEvent(state, EventFallShort) {
		t.Fatalf("expected a fall event, got %v", state.Events.Since(0))
	}
}

func TestStepIsDeterministic(t *testing.T) {
	sim := newTestSim(solidBrush(64, -512, 0, 4096, 512, 16), solidBrush(-200, 100, 0, 200, 120, 200))
	run := func() (State, []uint64) {
		state := standing(0, 0)
		var digests []uint64
		for seq := uint32(1); seq <= 120; seq++ {
			cmd := yawCmd(seq, float32(seq%90))
			if seq%17 == 0 {
				cmd.Buttons |= ButtonJump
			}
			if seq%23 == 0 {
				cmd.Right = -127
			}
			sim.Step(&state, cmd)
			digests = append(digests, state.Digest())
		}
		return state, digests
	}

	a, da := run()
	b, db := run()
	if a != b {
		t.Fatalf("replays diverged:\n%+v\n%+v", a, b)
	}
	for i := range da {
		if da[i] != db[i] {
			t.Fatalf("digest %d differs", i)
		}
	}
}

func TestStepUpStairs(t *testing.T) {
	sim := newTestSim(solidBrush(64, -512, 0, 4096, 512, 16))
	state := standing(0, 0)

	stepped := false
	for seq := uint32(1); seq <= 40; seq++ {
		res := sim.Step(&state, forwardCmd(seq))
		stepped = stepped || res.Slide.Has(SlideStepped)
	}
	if !stepped {
		t.Fatalf("expected a stepped slide")
	}
	if state.Origin.X() <= 64 || math32.Abs(state.Origin.Z()-40) > 0.1 {
		t.Fatalf("expected to stand on the step, got %v", state.Origin)
	}
	if !hasEvent(state, EventStep) {
		t.Fatalf("expected a step event")
	}
}

func TestWallBlocksMovement(t *testing.T) {
	sim := newTestSim(solidBrush(64, -512, 0, 80, 512, 200))
	state := standing(0, 0)

	wall := false
	for seq := uint32(1); seq <= 40; seq++ {
		res := sim.Step(&state, forwardCmd(seq))
		wall = wall || res.Slide.Has(SlideWallBlocked)
	}
	if !wall {
		t.Fatalf("expected the wall to block the slide")
	}
	if state.Origin.X() > 49 {
		t.Fatalf("player went through the wall: %v", state.Origin)
	}
	if state.Velocity.X() > 0 {
		t.Fatalf("expected no velocity into the wall, got %v", state.Velocity)
	}
}

func TestCornerStopsDiagonalMove(t *testing.T) {
	sim := newTestSim(solidBrush(64, -512, 0, 80, 512, 200), solidBrush(-512, 64, 0, 512, 80, 200))
	state := standing(0, 0)
	for seq := uint32(1); seq <= 60; seq++ {
		sim.Step(&state, yawCmd(seq, 45))
	}
	if state.Origin.X() > 49 || state.Origin.Y() > 49 {
		t.Fatalf("player escaped the corner: %v", state.Origin)
	}
	if state.Origin.X() < 40 || state.Origin.Y() < 40 {
		t.Fatalf("player should have slid into the corner: %v", state.Origin)
	}
}

func TestJumpAndJumpHeld(t *testing.T) {
	sim := newTestSim()
	state := standing(0, 0)

	sim.Step(&state, Command{Sequence: 1, Msec: 16, Buttons: ButtonJump})
	if state.Grounded() || state.Velocity.Z() < 200 {
		t.Fatalf("expected to jump, got vel %v", state.Velocity)
	}
	if !hasEvent(state, EventJump) || !state.Has(FlagJumpHeld) {
		t.Fatalf("expected a jump event and the jump to be held")
	}

	// Land again while still holding jump: no second jump.
	for seq := uint32(2); seq <= 80; seq++ {
		sim.Step(&state, Command{Sequence: seq, Msec: 16, Buttons: ButtonJump})
	}
	if !state.Grounded() {
		t.Fatalf("expected to be back on the ground while holding jump, origin %v", state.Origin)
	}
}

func TestCrouchLimitsSpeed(t *testing.T) {
	sim := newTestSim()
	state := standing(0, 0)
	for seq := uint32(1); seq <= 40; seq++ {
		cmd := forwardCmd(seq)
		cmd.Buttons = ButtonCrouch
		sim.Step(&state, cmd)
	}
	if !state.Has(FlagDucked) || state.ViewHeight != game.CrouchViewHeight {
		t.Fatalf("expected to be crouched, flags %b height %v", state.Flags, state.ViewHeight)
	}
	limit := sim.Params.MaxSpeed * sim.Params.DuckScale
	if speed := state.Velocity.Len(); speed > limit+0.5 {
		t.Fatalf("crouched speed %v exceeds %v", speed, limit)
	}
}

func TestCannotStandUnderCeiling(t *testing.T) {
	sim := newTestSim(solidBrush(-512, -512, 50, 512, 512, 60))
	state := standing(0, 0)
	state.Flags |= FlagDucked

	sim.Step(&state, Command{Sequence: 1, Msec: 16})
	if !state.Has(FlagDucked) {
		t.Fatalf("player stood up into the ceiling")
	}

	state.Origin[0] = 1000
	sim.Step(&state, Command{Sequence: 2, Msec: 16})
	if state.Has(FlagDucked) {
		t.Fatalf("player should stand up once there is room")
	}
}

func TestFrozenPlayerDoesNotMove(t *testing.T) {
	sim := newTestSim()
	state := NewState(mgl32.Vec3{0, 0, 100})
	state.Type = TypeFreeze
	state.Velocity = mgl32.Vec3{10, 0, 0}
	before := state

	res := sim.Step(&state, forwardCmd(1))
	if res.Mode != ModeFrozen || state.Origin != before.Origin || state.Velocity != before.Velocity {
		t.Fatalf("frozen player changed: %+v", state)
	}
}

func TestDeadPlayerIgnoresInput(t *testing.T) {
	sim := newTestSim()
	state := standing(0, 0)
	state.Type = TypeDead

	for seq := uint32(1); seq <= 10; seq++ {
		sim.Step(&state, yawCmd(seq, 90))
	}
	if state.Velocity.Len() != 0 {
		t.Fatalf("dead player moved: %v", state.Velocity)
	}
	if state.ViewAngles.Y() != 0 {
		t.Fatalf("dead player turned: %v", state.ViewAngles)
	}
	if state.ViewHeight != game.DeadViewHeight {
		t.Fatalf("unexpected dead view height %v", state.ViewHeight)
	}
}

func TestPitchIsClamped(t *testing.T) {
	sim := newTestSim()
	state := standing(0, 0)
	cmd := Command{Sequence: 1, Msec: 16}
	cmd.Angles[game.Pitch] = game.AngleToShort(89.9)

	sim.Step(&state, cmd)
	if state.ViewAngles.X() > game.ShortToAngle(game.PitchLimit)+1e-3 {
		t.Fatalf("pitch %v not clamped", state.ViewAngles.X())
	}
	if state.DeltaAngles[game.Pitch] == 0 {
		t.Fatalf("expected the clamp to be stored in the delta angles")
	}
}

func TestSpectatorIgnoresEntities(t *testing.T) {
	sim := newTestSim()
	w := sim.World.(*world.BoxWorld)
	w.Add(world.Brush{Box: solidBrush(64, -512, 0, 80, 512, 200).Box, Contents: world.ContentsBody, Entity: 5})

	state := NewState(mgl32.Vec3{0, 0, 100})
	state.Type = TypeSpectator
	for seq := uint32(1); seq <= 60; seq++ {
		sim.Step(&state, forwardCmd(seq))
	}
	if state.Origin.X() <= 80 {
		t.Fatalf("spectator should fly through entities, at %v", state.Origin)
	}
	if state.LastMode != ModeSpectator {
		t.Fatalf("unexpected mode %v", state.LastMode)
	}
}

func TestSpectatorIsClippedByWorld(t *testing.T) {
	sim := newTestSim(solidBrush(64, -512, 0, 80, 512, 200))
	state := NewState(mgl32.Vec3{0, 0, 100})
	state.Type = TypeSpectator
	for seq := uint32(1); seq <= 60; seq++ {
		sim.Step(&state, forwardCmd(seq))
	}
	if state.Origin.X() > 49 {
		t.Fatalf("spectator went through world geometry: %v", state.Origin)
	}
}

func TestNoclipPassesThroughWalls(t *testing.T) {
	sim := newTestSim(solidBrush(64, -512, 0, 80, 512, 200))
	state := NewState(mgl32.Vec3{0, 0, 100})
	state.Type = TypeNoclip
	for seq := uint32(1); seq <= 60; seq++ {
		sim.Step(&state, forwardCmd(seq))
	}
	if state.Origin.X() <= 80 {
		t.Fatalf("noclip should ignore walls, at %v", state.Origin)
	}
}

func TestStuckStepRollsBack(t *testing.T) {
	sim := newTestSim(solidBrush(-100, -100, -100, 100, 100, 100))
	state := NewState(mgl32.Vec3{0, 0, 0})
	state.Velocity = mgl32.Vec3{50, 0, 0}

	res := sim.Step(&state, forwardCmd(1))
	if !res.RolledBack {
		t.Fatalf("expected the step to be rolled back")
	}
	if state.Origin != (mgl32.Vec3{}) {
		t.Fatalf("expected the origin to be restored, got %v", state.Origin)
	}
}

func TestSpawnFindsFreeSpace(t *testing.T) {
	sim := newTestSim()
	state := NewState(mgl32.Vec3{})
	if !sim.Spawn(&state, mgl32.Vec3{0, 0, 23.5}) {
		t.Fatalf("expected free space next to the spawn point")
	}
	if state.Origin != (mgl32.Vec3{0, 0, 24.5}) {
		t.Fatalf("unexpected spawn origin %v", state.Origin)
	}

	buried := newTestSim(solidBrush(-100, -100, -100, 100, 100, 100))
	if buried.Spawn(&state, mgl32.Vec3{}) {
		t.Fatalf("expected no free space inside a large brush")
	}
	if state.Origin != (mgl32.Vec3{}) {
		t.Fatalf("a failed spawn keeps the requested origin, got %v", state.Origin)
	}
}

func TestTeleportPausesMovement(t *testing.T) {
	sim := newTestSim()
	state := standing(0, 0)
	sim.Teleport(&state, mgl32.Vec3{100, 0, 24})

	res := sim.Step(&state, forwardCmd(1))
	if res.Mode != ModeTeleportPause {
		t.Fatalf("expected a teleport pause, got %v", res.Mode)
	}
	if state.Origin != (mgl32.Vec3{100, 0, 24}) {
		t.Fatalf("player moved during the pause: %v", state.Origin)
	}
	if !hasEvent(state, EventTeleport) {
		t.Fatalf("expected a teleport event")
	}
}

func TestKnockbackRemovesGroundFriction(t *testing.T) {
	sim := newTestSim()
	state := standing(0, 0)
	sim.Knockback(&state, mgl32.Vec3{300, 0, 0})
	if !state.Timer.Is(TimerKnockback) {
		t.Fatalf("expected a knockback timer")
	}

	sim.Step(&state, Command{Sequence: 1, Msec: 16})
	if state.Velocity.X() < 299 {
		t.Fatalf("knockback should not be slowed by ground friction, got %v", state.Velocity)
	}
}

func TestScreenContentsCallback(t *testing.T) {
	sim := newTestSim(world.Brush{Box: solidBrush(-512, -512, 0, 512, 512, 200).Box, Contents: world.ContentsWater})
	var got world.Contents
	sim.ScreenContents = func(c world.Contents) { got = c }

	state := NewState(mgl32.Vec3{0, 0, 100})
	sim.Step(&state, Command{Sequence: 1, Msec: 16})
	if got&world.ContentsWater == 0 {
		t.Fatalf("expected water at the eyes, got %b", got)
	}
}
