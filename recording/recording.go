// Package recording stores the command streams an Authority processed so they can be replayed later to
// verify that the simulator still produces bit-identical states.
//
// A recording is a zstd compressed stream of lines. The first line is the version, the second the
// JSON encoded header and every following line one JSON encoded Entry.
package recording

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/disgoorg/json"
	"github.com/klauspost/compress/zstd"
	"github.com/oomph-ac/pmove/movement"
)

const CurrentVersion = "1"

// maxLine bounds the size of a single decoded line.
const maxLine = 1 << 20

// Header describes the start of a recording.
type Header struct {
	// Map is the map the recording was made on, if known.
	Map string `json:"map,omitempty"`
	// Spawn is the state of the player before the first entry.
	Spawn movement.State `json:"spawn"`
}

// Entry is a single change to the recorded state. Exactly one of Command and Reset is set: Command is
// stepped through the simulator, Reset replaces the state outright as a teleport or respawn does.
// Digest is the digest of the state after the entry was applied.
type Entry struct {
	Command *movement.Command `json:"cmd,omitempty"`
	Reset   *movement.State   `json:"reset,omitempty"`
	Digest  uint64            `json:"digest"`
}

// Recording is a fully decoded recording.
type Recording struct {
	Version string
	Header  Header
	Entries []Entry
}

// Writer encodes a recording to an underlying writer.
type Writer struct {
	enc *zstd.Encoder
	buf *bufio.Writer
	n   int
}

// NewWriter writes the version and header to w and returns a Writer for the entries.
func NewWriter(w io.Writer, header Header) (*Writer, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("recording: create encoder: %w", err)
	}
	rw := &Writer{enc: enc, buf: bufio.NewWriter(enc)}
	rw.buf.WriteString(CurrentVersion + "\n")
	if err := rw.line(header); err != nil {
		enc.Close()
		return nil, err
	}
	// The header reaches w before any entry is written.
	if err := rw.flush(); err != nil {
		enc.Close()
		return nil, err
	}
	return rw, nil
}

// Create creates the file at path, replacing any previous recording, and returns a Writer for it. The
// file is closed when the Writer is closed.
func Create(path string, header Header) (*Writer, io.Closer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("recording: %w", err)
	}
	w, err := NewWriter(f, header)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return w, f, nil
}

func (w *Writer) line(v any) error {
	enc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("recording: encode: %w", err)
	}
	w.buf.Write(enc)
	return w.buf.WriteByte('\n')
}

// Command records a command and the digest of the state it produced.
func (w *Writer) Command(cmd movement.Command, digest uint64) error {
	w.n++
	return w.line(Entry{Command: &cmd, Digest: digest})
}

// Reset records a state that replaced the simulated one.
func (w *Writer) Reset(state movement.State) error {
	w.n++
	return w.line(Entry{Reset: &state, Digest: state.Digest()})
}

// Len returns the number of entries written.
func (w *Writer) Len() int {
	return w.n
}

// Close flushes all entries and finishes the compressed stream. It does not close the underlying
// writer.
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.enc.Close()
		return fmt.Errorf("recording: flush: %w", err)
	}
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("recording: close: %w", err)
	}
	return nil
}

func (w *Writer) flush() error {
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("recording: flush: %w", err)
	}
	if err := w.enc.Flush(); err != nil {
		return fmt.Errorf("recording: flush: %w", err)
	}
	return nil
}

// Decode decodes a complete recording from r. It returns an error if the recording could not be parsed,
// or if its version is not supported.
func Decode(r io.Reader) (*Recording, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("recording: open stream: %w", err)
	}
	defer dec.Close()

	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 0, 4096), maxLine)

	rec := &Recording{}
	if !scanner.Scan() {
		return nil, missing(scanner, "version")
	}
	rec.Version = strings.TrimSpace(scanner.Text())
	if rec.Version != CurrentVersion {
		return nil, fmt.Errorf("recording: unsupported version %q", rec.Version)
	}

	if !scanner.Scan() {
		return nil, missing(scanner, "header")
	}
	if err := json.Unmarshal(scanner.Bytes(), &rec.Header); err != nil {
		return nil, fmt.Errorf("recording: decode header: %w", err)
	}

	for line := 3; scanner.Scan(); line++ {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("recording: decode entry on line %d: %w", line, err)
		}
		if (e.Command == nil) == (e.Reset == nil) {
			return nil, fmt.Errorf("recording: entry on line %d must hold either a command or a reset", line)
		}
		rec.Entries = append(rec.Entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("recording: read: %w", err)
	}
	return rec, nil
}

// missing reports a line the scanner could not produce.
func missing(scanner *bufio.Scanner, what string) error {
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("recording: read %s: %w", what, err)
	}
	return fmt.Errorf("recording: missing %s", what)
}

// Open decodes the recording stored in the file at path.
func Open(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
