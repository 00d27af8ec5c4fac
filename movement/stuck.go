package movement

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/world"
)

// spawnOffsets are the 26 neighbours of a cell, closest first.
var spawnOffsets = func() []mgl32.Vec3 {
	var offsets []mgl32.Vec3
	for i := -1; i <= 1; i++ {
		for j := -1; j <= 1; j++ {
			for k := -1; k <= 1; k++ {
				if i == 0 && j == 0 && k == 0 {
					continue
				}
				offsets = append(offsets, mgl32.Vec3{float32(i), float32(j), float32(k)})
			}
		}
	}
	sort.SliceStable(offsets, func(a, b int) bool {
		return offsets[a].LenSqr() < offsets[b].LenSqr()
	})
	return offsets
}()

// solid reports whether the body would be stuck at origin.
func (s *Simulator) solid(body Body, origin mgl32.Vec3) bool {
	return body.trace(s.World, origin, origin).AllSolid
}

// searchFree looks for a free origin in the 3x3x3 grid around origin.
func (s *Simulator) searchFree(body Body, origin mgl32.Vec3) (mgl32.Vec3, bool) {
	if !s.solid(body, origin) {
		return origin, true
	}
	for _, off := range spawnOffsets {
		candidate := origin.Add(off.Mul(s.Options.SpawnSearchStep))
		if !s.solid(body, candidate) {
			return candidate, true
		}
	}
	return origin, false
}

// Spawn places state at origin, nudging it into the nearest free space if the origin is inside solid
// geometry. It returns false if no free space was found, in which case the state is left at origin.
func (s *Simulator) Spawn(state *State, origin mgl32.Vec3) bool {
	mins, maxs := state.Bounds()
	body := Body{Mins: mins, Maxs: maxs, Mask: world.MaskPlayerSolid}
	free, ok := s.searchFree(body, origin)
	state.Origin = free
	state.Velocity = mgl32.Vec3{}
	state.GroundEntity = world.EntityNone
	if !ok {
		s.log.Warnf("spawn at %v is stuck in solid geometry", origin)
	}
	return ok
}

// Respawn resets state to a fresh living player at origin.
func (s *Simulator) Respawn(state *State, origin mgl32.Vec3, yaw float32) bool {
	events := state.Events
	*state = NewState(origin)
	state.Events = events
	state.Flags = FlagRespawned
	state.ViewAngles[1] = yaw
	return s.Spawn(state, origin)
}

// Teleport moves state to origin and pauses its movement for a moment.
func (s *Simulator) Teleport(state *State, origin mgl32.Vec3) {
	state.Origin = origin
	state.Velocity = mgl32.Vec3{}
	state.GroundEntity = world.EntityNone
	if s.Params.TeleportPauseMs > 0 {
		state.Timer = Timer{Kind: TimerTeleport, RemainingMs: s.Params.TeleportPauseMs}
	}
	state.Events.Add(EventTeleport, 0)
}

// Knockback pushes state and removes its ground control for a time that scales with the push.
func (s *Simulator) Knockback(state *State, push mgl32.Vec3) {
	state.Velocity = state.Velocity.Add(push)
	ms := int32(push.Len() / 4)
	state.Timer = Timer{Kind: TimerKnockback, RemainingMs: max(50, min(ms, 200))}
}

// unstick undoes or repairs a step that ended inside solid geometry. It returns true if the state
// was changed.
func (ctx *moveContext) unstick() bool {
	state := ctx.state
	body := ctx.body()
	if body.Mask == 0 {
		body.Mask = world.MaskPlayerSolid
	}
	if !ctx.sim.solid(body, state.Origin) {
		return false
	}
	if ctx.sim.Options.StuckRecovery == StuckRecoverySearch {
		if free, ok := ctx.sim.searchFree(body, state.Origin); ok {
			ctx.debugf("stuck at %v, moved to %v", state.Origin, free)
			state.Origin = free
			return true
		}
	}
	ctx.debugf("stuck at %v, rolling back to %v", state.Origin, ctx.startOrigin)
	state.Origin = ctx.startOrigin
	state.Velocity = ctx.startVelocity
	return true
}
