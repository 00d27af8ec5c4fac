package movement

// Parameters are the tunable physics constants of a Simulator. They are never modified by a step.
type Parameters struct {
	StopSpeed         float32 `toml:"stop_speed" yaml:"stop_speed"`
	MaxSpeed          float32 `toml:"max_speed" yaml:"max_speed"`
	JumpVelocity      float32 `toml:"jump_velocity" yaml:"jump_velocity"`
	DuckScale         float32 `toml:"duck_scale" yaml:"duck_scale"`
	SwimScale         float32 `toml:"swim_scale" yaml:"swim_scale"`
	FlySpeed          float32 `toml:"fly_speed" yaml:"fly_speed"`
	LadderSpeed       float32 `toml:"ladder_speed" yaml:"ladder_speed"`
	LadderSideSpeed   float32 `toml:"ladder_side_speed" yaml:"ladder_side_speed"`
	LadderLiquidScale float32 `toml:"ladder_liquid_scale" yaml:"ladder_liquid_scale"`
	Accelerate        float32 `toml:"accelerate" yaml:"accelerate"`
	WaterAccelerate   float32 `toml:"water_accelerate" yaml:"water_accelerate"`
	AirAccelerate     float32 `toml:"air_accelerate" yaml:"air_accelerate"`
	Friction          float32 `toml:"friction" yaml:"friction"`
	WaterFriction     float32 `toml:"water_friction" yaml:"water_friction"`

	Gravity           float32 `toml:"gravity" yaml:"gravity"`
	FlyAccelerate     float32 `toml:"fly_accelerate" yaml:"fly_accelerate"`
	FlyFriction       float32 `toml:"fly_friction" yaml:"fly_friction"`
	SpectatorFriction float32 `toml:"spectator_friction" yaml:"spectator_friction"`
	LadderAccelerate  float32 `toml:"ladder_accelerate" yaml:"ladder_accelerate"`
	LadderFriction    float32 `toml:"ladder_friction" yaml:"ladder_friction"`
	CurrentSpeed      float32 `toml:"current_speed" yaml:"current_speed"`
	// TrickJumpSpeed is the horizontal speed a landing needs to open the trick-jump window.
	TrickJumpSpeed    float32 `toml:"trick_jump_speed" yaml:"trick_jump_speed"`
	TrickJumpWindowMs int32   `toml:"trick_jump_window_ms" yaml:"trick_jump_window_ms"`
	LandTimeMs        int32   `toml:"land_time_ms" yaml:"land_time_ms"`
	WaterJumpMs       int32   `toml:"water_jump_ms" yaml:"water_jump_ms"`
	TeleportPauseMs   int32   `toml:"teleport_pause_ms" yaml:"teleport_pause_ms"`
}

// DefaultParameters returns the stock movement tuning.
func DefaultParameters() Parameters {
	return Parameters{
		StopSpeed:         100,
		MaxSpeed:          320,
		JumpVelocity:      270,
		DuckScale:         0.25,
		SwimScale:         0.5,
		FlySpeed:          400,
		LadderSpeed:       200,
		LadderSideSpeed:   100,
		LadderLiquidScale: 0.5,
		Accelerate:        10,
		WaterAccelerate:   4,
		AirAccelerate:     1,
		Friction:          6,
		WaterFriction:     1,

		Gravity:           800,
		FlyAccelerate:     8,
		FlyFriction:       3,
		SpectatorFriction: 5,
		LadderAccelerate:  3000,
		LadderFriction:    14,
		CurrentSpeed:      100,
		TrickJumpSpeed:    400,
		TrickJumpWindowMs: 200,
		LandTimeMs:        250,
		WaterJumpMs:       2000,
		TeleportPauseMs:   50,
	}
}

// StuckRecovery selects what a step does when it ends inside solid geometry.
type StuckRecovery uint8

const (
	// StuckRecoveryRollback restores the origin and velocity the step started with.
	StuckRecoveryRollback StuckRecovery = iota
	// StuckRecoverySearch looks for free space next to the final origin before rolling back.
	StuckRecoverySearch
)

// Options select between behaviour variants of the simulator.
type Options struct {
	StuckRecovery StuckRecovery `toml:"stuck_recovery" yaml:"stuck_recovery"`
	// DuckEaseMs is how long the view height takes to move between standing and crouched. Zero snaps.
	DuckEaseMs int32 `toml:"duck_ease_ms" yaml:"duck_ease_ms"`
	// SnapVelocity rounds the velocity to whole units at the end of every step.
	SnapVelocity bool `toml:"snap_velocity" yaml:"snap_velocity"`
	// MaxCommandMove clamps the magnitude of command movement axes.
	MaxCommandMove int8 `toml:"max_command_move" yaml:"max_command_move"`
	// SpawnSearchStep is the spacing of the free-space search around a spawn point.
	SpawnSearchStep float32 `toml:"spawn_search_step" yaml:"spawn_search_step"`
	// ReportAnomalies sends near-impossible resolver states to sentry.
	ReportAnomalies bool `toml:"report_anomalies" yaml:"report_anomalies"`
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		StuckRecovery:   StuckRecoveryRollback,
		SnapVelocity:    true,
		MaxCommandMove:  127,
		SpawnSearchStep: 1,
	}
}
