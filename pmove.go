// Package pmove ties the movement simulator and the prediction engine together. Authority is the
// server-side half: it owns the authoritative state of one player and turns the commands it receives
// into snapshots for the client's prediction.Engine.
package pmove

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/movement"
	"github.com/oomph-ac/pmove/oerror"
	"github.com/oomph-ac/pmove/prediction"
	"github.com/oomph-ac/pmove/recording"
	"github.com/sirupsen/logrus"
)

// ErrStaleCommand is returned by Process for a command that is not newer than the last one processed.
// The command is ignored.
var ErrStaleCommand = oerror.New("pmove: stale command")

// Authority steps the authoritative state of a single player. It is not safe for concurrent use; run
// one Authority per player, each on whatever goroutine owns that player.
type Authority struct {
	sim   *movement.Simulator
	state movement.State
	log   *logrus.Entry

	started bool
	last    movement.Result

	processed, stale uint64
	rec              *recording.Writer
}

// NewAuthority creates an authority for a player spawning at origin facing yaw. A nil logger discards
// all output.
func NewAuthority(sim *movement.Simulator, origin mgl32.Vec3, yaw float32, log *logrus.Logger) *Authority {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	a := &Authority{sim: sim, log: log.WithField("component", "authority")}
	if !sim.Respawn(&a.state, origin, yaw) {
		a.log.Warnf("spawned in solid geometry at %v", origin)
	}
	return a
}

// Process applies cmd to the authoritative state. Commands must arrive with increasing sequences;
// gaps are allowed, duplicates and older commands are ignored and reported as ErrStaleCommand.
func (a *Authority) Process(cmd movement.Command) error {
	if a.started && int32(cmd.Sequence-a.state.Sequence) <= 0 {
		a.stale++
		a.log.WithFields(logrus.Fields{
			"seq":  cmd.Sequence,
			"last": a.state.Sequence,
		}).Debug("ignored stale command")
		return ErrStaleCommand
	}
	a.started = true
	a.last = a.sim.Step(&a.state, cmd)
	a.processed++
	if a.rec != nil {
		a.recordErr(a.rec.Command(cmd, a.state.Digest()))
	}
	if a.last.RolledBack {
		a.log.WithField("seq", cmd.Sequence).Debug("step rolled back")
	}
	return nil
}

// Snapshot returns the current authoritative state, acknowledging the last processed command.
func (a *Authority) Snapshot() prediction.Snapshot {
	return prediction.Snapshot{Sequence: a.state.Sequence, State: a.state}
}

// State returns a copy of the authoritative state.
func (a *Authority) State() movement.State {
	return a.state
}

// LastResult returns the result of the last processed command.
func (a *Authority) LastResult() movement.Result {
	return a.last
}

// Stats returns how many commands were processed and how many were ignored as stale.
func (a *Authority) Stats() (processed, stale uint64) {
	return a.processed, a.stale
}

// Record starts writing every processed command and every server-side change of the state to w. No
// header is written: w must already hold one, as writers from recording.NewWriter or StartRecording do.
// Recording stops on the first write error.
func (a *Authority) Record(w *recording.Writer) {
	a.rec = w
}

// StartRecording creates a recording writer on w whose header holds the current state and starts
// recording to it. The caller closes the returned writer once it is done.
func (a *Authority) StartRecording(w io.Writer, mapName string) (*recording.Writer, error) {
	rw, err := recording.NewWriter(w, recording.Header{Map: mapName, Spawn: a.state})
	if err != nil {
		return nil, err
	}
	a.Record(rw)
	return rw, nil
}

func (a *Authority) recordErr(err error) {
	if err != nil {
		a.log.WithError(err).Warn("stopped recording")
		a.rec = nil
	}
}

// reset records a change of the state that did not come from a command.
func (a *Authority) reset() {
	if a.rec != nil {
		a.recordErr(a.rec.Reset(a.state))
	}
}

// Teleport moves the player. The client learns about it through the next snapshot.
func (a *Authority) Teleport(origin mgl32.Vec3) {
	a.sim.Teleport(&a.state, origin)
	a.reset()
}

// Knockback pushes the player.
func (a *Authority) Knockback(push mgl32.Vec3) {
	a.sim.Knockback(&a.state, push)
	a.reset()
}

// SetType changes the movement type of the player, e.g. to kill it or make it a spectator.
func (a *Authority) SetType(t movement.PlayerType) {
	a.state.Type = t
	a.reset()
}

// Respawn resets the player to a fresh state at origin.
func (a *Authority) Respawn(origin mgl32.Vec3, yaw float32) bool {
	seq := a.state.Sequence
	ok := a.sim.Respawn(&a.state, origin, yaw)
	a.state.Sequence = seq
	a.reset()
	return ok
}
