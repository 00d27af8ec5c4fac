package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/world"
)

// PlayerType is the top level movement type of a player.
type PlayerType uint8

const (
	TypeNormal PlayerType = iota
	TypeNoclip
	TypeSpectator
	TypeDead
	TypeFreeze
	TypeIntermission
)

// StateFlags are persistent single-bit player flags.
type StateFlags uint16

const (
	FlagDucked StateFlags = 1 << iota
	FlagOnLadder
	FlagJumpHeld
	// FlagRespawned blocks jumping until the jump button has been released once.
	FlagRespawned
	FlagGrapple
	FlagFlight
)

// TimerKind identifies what the single movement timer is counting down.
type TimerKind uint8

const (
	TimerNone TimerKind = iota
	TimerWaterJump
	// TimerLand prevents jumping again right after a crouched landing.
	TimerLand
	// TimerTeleport freezes movement for a moment after a teleport.
	TimerTeleport
	// TimerKnockback removes ground control after being pushed.
	TimerKnockback
)

// Timer is a timed sub-state. Only one can be active at a time.
type Timer struct {
	Kind        TimerKind `json:"kind"`
	RemainingMs int32     `json:"ms"`
}

// Is reports whether the timer is running with the given kind.
func (t Timer) Is(kind TimerKind) bool {
	return t.Kind == kind && t.RemainingMs > 0
}

// LiquidLevel is how deep a player is submerged.
type LiquidLevel uint8

const (
	LiquidNone LiquidLevel = iota
	LiquidFeet
	LiquidWaist
	LiquidSubmerged
)

// LiquidInfo describes the liquid the player is in.
type LiquidInfo struct {
	Level LiquidLevel    `json:"level"`
	Type  world.Contents `json:"type"`
}

// GroundInfo describes what the player is standing on.
type GroundInfo struct {
	// Entity is the entity stood on, or world.EntityNone.
	Entity int32
	// HasPlane is set when the ground check hit a plane, walkable or not.
	HasPlane bool
	// Walking is set when the plane is walkable and the player is on it.
	Walking  bool
	Plane    world.Plane
	Surface  world.SurfaceFlags
	Contents world.Contents
	Material world.Material
}

// State is the complete movement state of one player. It is a plain value: copying it copies
// everything, so snapshots and replays never share memory.
type State struct {
	// Sequence is the sequence of the last command applied to the state.
	Sequence uint32 `json:"seq"`

	Origin   mgl32.Vec3 `json:"origin"`
	Velocity mgl32.Vec3 `json:"velocity"`

	Type  PlayerType `json:"type"`
	Flags StateFlags `json:"flags"`
	Timer Timer      `json:"timer"`
	// TrickJumpMs is the remaining time of the trick-jump window.
	TrickJumpMs int32 `json:"trick_ms"`

	ViewAngles  mgl32.Vec3 `json:"view_angles"`
	DeltaAngles [3]int32   `json:"delta_angles"`
	ViewHeight  float32    `json:"view_height"`

	XYSpeed  float32 `json:"xy_speed"`
	BobCycle uint8   `json:"bob_cycle"`

	GroundEntity int32      `json:"ground"`
	Liquid       LiquidInfo `json:"liquid"`
	GrapplePoint mgl32.Vec3 `json:"grapple"`

	LastMode ActiveMode `json:"mode"`
	Events   EventQueue `json:"events"`
}

// NewState returns a standing, airborne player state at origin.
func NewState(origin mgl32.Vec3) State {
	return State{
		Origin:       origin,
		ViewHeight:   game.DefaultViewHeight,
		GroundEntity: world.EntityNone,
	}
}

// Has reports whether all the given flags are set.
func (s *State) Has(f StateFlags) bool {
	return s.Flags&f == f
}

func (s *State) set(f StateFlags, v bool) {
	if v {
		s.Flags |= f
	} else {
		s.Flags &^= f
	}
}

// Grounded reports whether the player stood on something at the end of the last step.
func (s *State) Grounded() bool {
	return s.GroundEntity != world.EntityNone
}

// Bounds returns the bounding box of the player for its current type and flags.
func (s *State) Bounds() (mins, maxs mgl32.Vec3) {
	mins, maxs = game.PlayerMins, game.PlayerMaxs
	switch {
	case s.Type == TypeDead:
		maxs[2] = game.GibMaxsZ
	case s.Has(FlagDucked):
		maxs[2] = game.CrouchMaxsZ
	}
	return
}
