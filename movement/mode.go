package movement

// ActiveMode is the movement mode a step integrated with. It is chosen fresh every step.
type ActiveMode uint8

const (
	ModeNone ActiveMode = iota
	ModeFrozen
	ModeNoclip
	ModeSpectator
	ModeTeleportPause
	ModeWaterJump
	ModeGrapple
	ModeLadder
	ModeWater
	ModeFly
	ModeWalk
	ModeAir
)

var modeNames = [...]string{
	"none", "frozen", "noclip", "spectator", "teleport_pause", "water_jump", "grapple",
	"ladder", "water", "fly", "walk", "air",
}

func (m ActiveMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// selectMode picks the integration mode of a normal or dead player.
func (ctx *moveContext) selectMode() ActiveMode {
	s := ctx.state
	switch {
	case s.Timer.Is(TimerTeleport):
		return ModeTeleportPause
	case s.Timer.Is(TimerWaterJump):
		return ModeWaterJump
	case s.Has(FlagGrapple):
		return ModeGrapple
	case s.Has(FlagOnLadder):
		return ModeLadder
	case s.Liquid.Level > LiquidFeet:
		return ModeWater
	case s.Has(FlagFlight):
		return ModeFly
	case ctx.ground.Walking:
		return ModeWalk
	default:
		return ModeAir
	}
}
