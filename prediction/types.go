package prediction

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/movement"
	"github.com/oomph-ac/pmove/oerror"
)

var (
	// ErrOutOfOrder is returned for commands or snapshots whose sequence does not move forward.
	ErrOutOfOrder = oerror.New("prediction: sequence out of order")
	// ErrPredictionGap is returned when a replay needs a command that has been overwritten.
	ErrPredictionGap = oerror.New("prediction: command no longer buffered")
	// ErrReplayInProgress is returned when the engine is re-entered while it is replaying.
	ErrReplayInProgress = oerror.New("prediction: replay in progress")
	// ErrNoSnapshot is returned when prediction is requested before any authoritative snapshot arrived.
	ErrNoSnapshot = oerror.New("prediction: no authoritative snapshot")
)

// Snapshot is an authoritative state together with the sequence of the last command applied to it.
type Snapshot struct {
	Sequence uint32         `json:"seq"`
	State    movement.State `json:"state"`
}

// Record is the predicted outcome of a single command.
type Record struct {
	Sequence uint32
	Origin   mgl32.Vec3
	Velocity mgl32.Vec3
	Digest   uint64
}

func recordOf(seq uint32, s *movement.State) Record {
	return Record{Sequence: seq, Origin: s.Origin, Velocity: s.Velocity, Digest: s.Digest()}
}

// Action is what a reconciliation did about a snapshot.
type Action uint8

const (
	// ActionNone means the prediction matched the snapshot.
	ActionNone Action = iota
	// ActionSmooth means a small error was found. The prediction is rebuilt from the snapshot exactly like
	// a resync; only the offset between the old and the new prediction is kept, so the rendered position
	// can fade towards the rebuilt one (see Engine.SmoothedError).
	ActionSmooth
	// ActionResync means the prediction was snapped to a replay from the snapshot.
	ActionResync
	// ActionInitial means there was no prediction to compare against and the snapshot was taken as is.
	ActionInitial
	// ActionGap means the prediction for the snapshot's sequence was overwritten before it was
	// acknowledged. It is handled like a resync.
	ActionGap
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionSmooth:
		return "smooth"
	case ActionResync:
		return "resync"
	case ActionInitial:
		return "initial"
	case ActionGap:
		return "gap"
	}
	return "unknown"
}

// Reconciliation describes the comparison of a snapshot against the prediction for its sequence.
type Reconciliation struct {
	Action   Action
	Sequence uint32
	// Error is the distance between the predicted and the authoritative origin.
	Error float32
	// Replayed is the number of commands replayed on top of the snapshot.
	Replayed int
}

// Thresholds tune when a prediction error is ignored, smoothed or resynced.
type Thresholds struct {
	// Epsilon is the largest error that is ignored.
	Epsilon float32 `toml:"epsilon" yaml:"epsilon"`
	// HardSnap is the smallest error that forces a resync.
	HardSnap float32 `toml:"hard_snap" yaml:"hard_snap"`
	// ErrorDecayMs is how long a smoothed error takes to fade out.
	ErrorDecayMs int64 `toml:"error_decay_ms" yaml:"error_decay_ms"`
}

// Config configures an Engine.
type Config struct {
	// CommandBufferSize and RecordBufferSize must be powers of two.
	CommandBufferSize int        `toml:"command_buffer_size" yaml:"command_buffer_size"`
	RecordBufferSize  int        `toml:"record_buffer_size" yaml:"record_buffer_size"`
	Thresholds        Thresholds `toml:"thresholds" yaml:"thresholds"`
	// ReportGaps sends prediction gaps to sentry.
	ReportGaps bool `toml:"report_gaps" yaml:"report_gaps"`
}

// DefaultConfig returns the stock engine configuration.
func DefaultConfig() Config {
	return Config{
		CommandBufferSize: 64,
		RecordBufferSize:  64,
		Thresholds: Thresholds{
			Epsilon:      0.1,
			HardSnap:     100,
			ErrorDecayMs: 100,
		},
	}
}
