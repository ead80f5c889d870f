package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/serpent-arcade/serpent/pkg/engine"
	"github.com/serpent-arcade/serpent/pkg/log"
)

// Recorder writes engine snapshots as zstd-compressed JSON lines.
// Its Record method satisfies engine.Listener, so a recorder can be
// subscribed directly to an engine.
type Recorder struct {
	mu     sync.Mutex
	enc    *zstd.Encoder
	closed bool
}

func NewRecorder(w io.Writer) (*Recorder, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %v", err)
	}
	return &Recorder{
		enc: enc,
	}, nil
}

// Record appends one snapshot to the stream. Failures are logged and
// swallowed; recording must never disturb gameplay.
func (r *Recorder) Record(snap engine.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	data, err := json.Marshal(snap)
	if err != nil {
		log.Error("Failed to marshal snapshot: %v", err)
		return
	}
	data = append(data, '\n')
	if _, err := r.enc.Write(data); err != nil {
		log.Error("Failed to record snapshot: %v", err)
	}
}

// Close flushes and closes the compressed stream. It does not close the
// underlying writer.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.enc.Close()
}

// Reader streams snapshots back from a recorded stream.
type Reader struct {
	dec     *zstd.Decoder
	scanner *bufio.Scanner
}

func NewReader(r io.Reader) (*Reader, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	return &Reader{
		dec:     dec,
		scanner: bufio.NewScanner(dec),
	}, nil
}

// Next returns the next recorded snapshot, or io.EOF at the end of the
// stream.
func (r *Reader) Next() (engine.Snapshot, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return engine.Snapshot{}, fmt.Errorf("failed to read snapshot: %v", err)
		}
		return engine.Snapshot{}, io.EOF
	}

	var snap engine.Snapshot
	if err := json.Unmarshal(r.scanner.Bytes(), &snap); err != nil {
		return engine.Snapshot{}, fmt.Errorf("failed to unmarshal snapshot: %v", err)
	}
	return snap, nil
}

func (r *Reader) Close() {
	r.dec.Close()
}
