package prediction

import (
	"fmt"
	"io"
	"slices"

	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/movement"
	"github.com/oomph-ac/pmove/utils"
	"github.com/sirupsen/logrus"
)

// Engine predicts the local player ahead of the server. Commands are buffered as they are issued and
// immediately stepped on the predicted state; authoritative snapshots are compared against the stored
// predictions and, when they diverge, the buffered commands are replayed on top of the snapshot.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	sim *movement.Simulator
	cfg Config
	log *logrus.Logger

	commands *utils.Ring[issued]
	records  *utils.Ring[Record]

	hasCommands bool
	// firstCmd and lastCmd are the oldest and newest commands ever issued.
	firstCmd, lastCmd uint32

	hasSnapshot bool
	snapshot    Snapshot

	predicted movement.State
	// predictedSeq is the newest sequence the predicted state accounts for.
	predictedSeq uint32

	smoothErr mgl32.Vec3
	replaying bool
	emitted   uint32
}

// NewEngine creates an engine stepping with sim. It panics if a buffer size in cfg is not a power of
// two. A nil logger discards all output.
func NewEngine(sim *movement.Simulator, cfg Config, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Engine{
		sim:      sim,
		cfg:      cfg,
		log:      log,
		commands: utils.NewRing[issued](cfg.CommandBufferSize),
		records:  utils.NewRing[Record](cfg.RecordBufferSize),
	}
}

// issued is a buffered command linked to the command issued before it, so that replays walk exactly the
// sequences that were issued.
type issued struct {
	cmd   movement.Command
	prev  uint32
	first bool
}

// after reports whether sequence a comes after b, taking wraparound into account.
func after(a, b uint32) bool {
	return int32(a-b) > 0
}

// AddCommand buffers a newly issued command and steps the predicted state with it. Sequences must be
// strictly increasing; gaps between them are allowed.
func (e *Engine) AddCommand(cmd movement.Command) error {
	if e.replaying {
		return ErrReplayInProgress
	}
	if e.hasCommands && !after(cmd.Sequence, e.lastCmd) {
		return fmt.Errorf("%w: command %d after %d", ErrOutOfOrder, cmd.Sequence, e.lastCmd)
	}
	// The predicted state only advances when it is up to date. After a gap it waits for the next resync
	// rather than skipping commands.
	current := e.hasSnapshot && e.current()
	entry := issued{cmd: cmd, prev: e.lastCmd, first: !e.hasCommands}
	if !e.hasCommands {
		e.firstCmd = cmd.Sequence
		e.hasCommands = true
	}
	e.commands.Put(cmd.Sequence, entry)

	if current {
		e.sim.Step(&e.predicted, cmd)
		e.records.Put(cmd.Sequence, recordOf(cmd.Sequence, &e.predicted))
		e.predictedSeq = cmd.Sequence
	}
	e.lastCmd = cmd.Sequence
	return nil
}

// current reports whether the predicted state has every issued command applied.
func (e *Engine) current() bool {
	return !e.hasCommands || !after(e.lastCmd, e.predictedSeq)
}

// PredictMovement re-runs every buffered command in (lastAck, pending] on top of the authoritative
// snapshot acknowledging lastAck, storing a prediction record for each. Sequences that were never issued
// are skipped. The predicted state is replaced by the result. If an issued command the replay needs is no
// longer buffered, nothing is replayed: the predicted state is reset to the snapshot and ErrPredictionGap
// is returned.
func (e *Engine) PredictMovement(lastAck, pending uint32) (movement.State, error) {
	if e.replaying {
		return movement.State{}, ErrReplayInProgress
	}
	if !e.hasSnapshot {
		return movement.State{}, ErrNoSnapshot
	}
	if lastAck != e.snapshot.Sequence {
		return movement.State{}, fmt.Errorf("%w: acknowledged %d, snapshot is %d", ErrOutOfOrder, lastAck, e.snapshot.Sequence)
	}
	if after(lastAck, pending) || (e.hasCommands && after(pending, e.lastCmd)) {
		return movement.State{}, fmt.Errorf("%w: range (%d, %d] not buffered", ErrOutOfOrder, lastAck, pending)
	}
	state, _, err := e.replay(lastAck, pending)
	return state, err
}

// replay steps a copy of the snapshot state through the buffered commands in (from, to] and makes the
// result the predicted state.
func (e *Engine) replay(from, to uint32) (movement.State, int, error) {
	e.replaying = true
	defer func() { e.replaying = false }()

	state := e.snapshot.State
	cmds, err := e.issuedBetween(from, to)
	if err != nil {
		e.predicted = state
		e.predictedSeq = from
		return state, 0, err
	}
	for _, cmd := range cmds {
		e.sim.Step(&state, cmd)
		e.records.Put(cmd.Sequence, recordOf(cmd.Sequence, &state))
	}
	e.predicted = state
	e.predictedSeq = to
	return state, len(cmds), nil
}

// issuedBetween returns the issued commands in (from, to], oldest first. It follows the chain of issued
// commands back from the newest one, so an error means an issued command was overwritten.
func (e *Engine) issuedBetween(from, to uint32) ([]movement.Command, error) {
	if !e.hasCommands {
		return nil, nil
	}
	var cmds []movement.Command
	for seq := e.lastCmd; after(seq, from); {
		entry, ok := e.commands.Get(seq)
		if !ok {
			return nil, fmt.Errorf("%w: command %d", ErrPredictionGap, seq)
		}
		if !after(seq, to) {
			cmds = append(cmds, entry.cmd)
		}
		if entry.first {
			break
		}
		seq = entry.prev
	}
	slices.Reverse(cmds)
	return cmds, nil
}

// CheckPredictionError compares snap against the prediction recorded for its sequence without changing
// the engine.
func (e *Engine) CheckPredictionError(snap Snapshot) Reconciliation {
	rec := Reconciliation{Sequence: snap.Sequence}
	if !e.hasSnapshot {
		rec.Action = ActionInitial
		return rec
	}
	predicted, ok := e.records.Get(snap.Sequence)
	if !ok {
		rec.Action = ActionInitial
		if e.hasCommands && !after(e.firstCmd, snap.Sequence) && !after(snap.Sequence, e.lastCmd) {
			// The command was issued and predicted, but its record has since been overwritten.
			rec.Action = ActionGap
		}
		return rec
	}

	rec.Error = predicted.Origin.Sub(snap.State.Origin).Len()
	switch {
	case rec.Error < e.cfg.Thresholds.Epsilon:
		rec.Action = ActionNone
	case rec.Error < e.cfg.Thresholds.HardSnap:
		rec.Action = ActionSmooth
	default:
		rec.Action = ActionResync
	}
	return rec
}

// ApplySnapshot takes an authoritative snapshot, reconciles the prediction against it and returns what
// was done. Snapshots older than the current one are rejected.
//
// A matching prediction is left alone. Any other outcome, ActionSmooth included, discards the prediction
// and rebuilds it by replaying the buffered commands on top of the snapshot. A smoothed error additionally
// remembers the offset between the old and the new prediction
// so that the rendered position can fade between them (see SmoothedError).
func (e *Engine) ApplySnapshot(snap Snapshot) (Reconciliation, error) {
	if e.replaying {
		return Reconciliation{}, ErrReplayInProgress
	}
	if e.hasSnapshot && after(e.snapshot.Sequence, snap.Sequence) {
		return Reconciliation{}, fmt.Errorf("%w: snapshot %d after %d", ErrOutOfOrder, snap.Sequence, e.snapshot.Sequence)
	}

	rec := e.CheckPredictionError(snap)
	e.snapshot = snap
	e.hasSnapshot = true

	switch rec.Action {
	case ActionNone:
		if e.current() {
			return rec, nil
		}
		// The prediction stopped at a gap: the snapshot lets it catch up.
	case ActionInitial:
		// Events that happened before the first snapshot are history, not predictions.
		if after(snap.State.Events.Sequence, e.emitted) {
			e.emitted = snap.State.Events.Sequence
		}
	case ActionGap:
		e.reportGap(snap.Sequence)
	}

	old := e.predicted.Origin
	to := snap.Sequence
	if e.hasCommands && after(e.lastCmd, to) {
		to = e.lastCmd
	}
	_, n, err := e.replay(snap.Sequence, to)
	rec.Replayed = n

	switch rec.Action {
	case ActionSmooth:
		// The replayed prediction is used from now on; the jump between the two is faded out.
		e.smoothErr = old.Sub(e.predicted.Origin)
		e.log.Debugf("prediction: smoothing %s", utils.OrderedMapToString(utils.Fields(
			"seq", snap.Sequence,
			"error", rec.Error,
			"offset", e.smoothErr,
			"replayed", n,
		)))
	case ActionResync, ActionInitial, ActionGap:
		e.smoothErr = mgl32.Vec3{}
		if rec.Action == ActionResync {
			e.log.WithFields(logrus.Fields{
				"seq":      snap.Sequence,
				"error":    rec.Error,
				"replayed": n,
			}).Info("prediction: resynced to authoritative state")
		}
	}
	if err != nil {
		e.reportGap(to)
		return rec, err
	}
	return rec, nil
}

// reportGap logs a prediction gap and, if enabled, reports it to sentry.
func (e *Engine) reportGap(seq uint32) {
	e.log.WithFields(logrus.Fields{
		"seq":       seq,
		"newest":    e.lastCmd,
		"acked":     e.snapshot.Sequence,
		"cmd_ring":  e.commands.Cap(),
		"pred_ring": e.records.Cap(),
	}).Warn("prediction: buffered data overwritten before acknowledgement")
	if !e.cfg.ReportGaps {
		return
	}
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("component", "prediction")
		scope.SetExtra("seq", seq)
		scope.SetExtra("newest", e.lastCmd)
	})
	hub.CaptureMessage("prediction gap")
}

// Predicted returns the current predicted state and the newest command applied to it.
func (e *Engine) Predicted() (movement.State, uint32) {
	return e.predicted, e.predictedSeq
}

// Record returns the prediction stored for seq.
func (e *Engine) Record(seq uint32) (Record, bool) {
	return e.records.Get(seq)
}

// Acknowledged returns the sequence of the newest authoritative snapshot.
func (e *Engine) Acknowledged() uint32 {
	return e.snapshot.Sequence
}

// SmoothedError returns the part of the last smoothed prediction error that should still be added to
// the rendered position, elapsedMs after the snapshot that caused it.
func (e *Engine) SmoothedError(elapsedMs int64) mgl32.Vec3 {
	decay := e.cfg.Thresholds.ErrorDecayMs
	if decay <= 0 || elapsedMs >= decay || elapsedMs < 0 {
		return mgl32.Vec3{}
	}
	return e.smoothErr.Mul(1 - float32(elapsedMs)/float32(decay))
}

// DrainEvents calls fn for every event of the predicted state that has not been drained before. Events
// regenerated by a replay keep their sequence numbers, so each is delivered once.
func (e *Engine) DrainEvents(fn func(movement.Event)) {
	q := &e.predicted.Events
	if !after(q.Sequence, e.emitted) {
		return
	}
	for _, ev := range q.Since(e.emitted) {
		fn(ev)
	}
	e.emitted = q.Sequence
}
