package recording

import (
	"fmt"

	"github.com/oomph-ac/pmove/movement"
)

// Mismatch describes the first entry whose replayed state did not match the recorded digest.
type Mismatch struct {
	// Index is the position of the entry in the recording.
	Index    int
	Sequence uint32
	Want     uint64
	Got      uint64
	State    movement.State
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("digest mismatch at entry %d (seq %d): want %016x, got %016x", m.Index, m.Sequence, m.Want, m.Got)
}

// Verify replays the recording with sim and compares every resulting state against the recorded
// digests. It returns the final state, and a *Mismatch error for the first entry that differs.
func Verify(sim *movement.Simulator, rec *Recording) (movement.State, error) {
	state := rec.Header.Spawn
	for i, e := range rec.Entries {
		var seq uint32
		if e.Reset != nil {
			state = *e.Reset
			seq = state.Sequence
		} else {
			sim.Step(&state, *e.Command)
			seq = e.Command.Sequence
		}
		if got := state.Digest(); got != e.Digest {
			return state, &Mismatch{Index: i, Sequence: seq, Want: e.Digest, Got: got, State: state}
		}
	}
	return state, nil
}
