package game

import "github.com/go-gl/mathgl/mgl32"

// Axis indices into angle vectors.
const (
	Pitch = iota
	Yaw
	Roll
)

const (
	// MinWalkNormal is the smallest plane normal Z a player can stand on.
	MinWalkNormal = float32(0.7)
	// StepSize is the tallest ledge a grounded player climbs without jumping.
	StepSize = float32(18)
	// OverClip pushes clipped velocities slightly off the plane they were clipped against.
	OverClip = float32(1.001)
	// MaxClipPlanes bounds the planes the slide resolver considers in one pass.
	MaxClipPlanes = 5
	// NumBumps is the number of trace/clip iterations of a single slide.
	NumBumps = 4
	// SamePlaneDot is the normal dot product above which two planes are treated as the same plane.
	SamePlaneDot = float32(0.99)
	// ClipEpsilon is how far into a plane a velocity must point before it is clipped.
	ClipEpsilon = float32(0.1)

	// GroundCheckDistance is how far below the feet the categorizer looks for ground.
	GroundCheckDistance = float32(0.25)
	// GroundLiftVelocity is the upward speed above which a player can never be grounded.
	GroundLiftVelocity = float32(180)
	// GroundKickDot is how fast a player must move away from a plane to leave it.
	GroundKickDot = float32(10)
	// FrictionCutoff is the speed under which friction stops a player outright.
	FrictionCutoff = float32(1)
	// StepEventMin is the smallest step-up that produces a step event.
	StepEventMin = float32(2)

	// DefaultViewHeight and friends are eye heights above the origin.
	DefaultViewHeight = float32(26)
	CrouchViewHeight  = float32(12)
	DeadViewHeight    = float32(-16)

	// CrouchMaxsZ and GibMaxsZ replace PlayerMaxs' top for crouched and dead players.
	CrouchMaxsZ = float32(16)
	GibMaxsZ    = float32(-8)

	// PitchLimit is the largest pitch allowed, in short angle units (just under 90 degrees).
	PitchLimit = int32(16000)

	// MinMsec and MaxMsec clamp the duration of a single command.
	MinMsec = 1
	MaxMsec = 200

	// WaterJumpForward and WaterJumpUp make up the velocity of a water jump.
	WaterJumpForward = float32(200)
	WaterJumpUp      = float32(350)
	// DeadFriction is the extra speed a dead player loses on the ground every step.
	DeadFriction = float32(20)
	// NoclipFriction scales the stop speed used while noclipping.
	NoclipFriction = float32(1.5)
	// GrappleSpeed is the pull speed of a grapple further away than GrappleSlowRadius.
	GrappleSpeed      = float32(800)
	GrappleSlowRadius = float32(100)
)

var (
	// PlayerMins and PlayerMaxs are the standing player bounds relative to the origin.
	PlayerMins = mgl32.Vec3{-15, -15, -24}
	PlayerMaxs = mgl32.Vec3{15, 15, 32}
	// Up is the world up axis.
	Up = mgl32.Vec3{0, 0, 1}
)
