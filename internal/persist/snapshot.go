package persist

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// EntityRecord is one particle as written to the snapshot log.
type EntityRecord struct {
	Acceleration [3]float64 `yaml:"acceleration,flow"`
	Charge       *float64   `yaml:"charge,omitempty"`
	Mass         float64    `yaml:"mass"`
	Position     [3]float64 `yaml:"position,flow"`
	Velocity     [3]float64 `yaml:"velocity,flow"`
}

// Record is the state of every particle at the end of one step.
type Record struct {
	Step     uint64         `yaml:"step"`
	Entities []EntityRecord `yaml:"entities"`
}

// Mode selects how an existing snapshot file is treated on open.
type Mode string

const (
	ModeTruncate Mode = "truncate"
	ModeAppend   Mode = "append"
)

// SnapshotLog appends records to a YAML document stream, one document per
// step. Records are never rewritten.
type SnapshotLog struct {
	mu      sync.Mutex
	f       *os.File
	w       *bufio.Writer
	path    string
	records int
}

// OpenSnapshotLog creates (or opens for append) the log at path.
func OpenSnapshotLog(path string, mode Mode) (*SnapshotLog, error) {
	flags := os.O_CREATE | os.O_WRONLY
	switch mode {
	case ModeAppend:
		flags |= os.O_APPEND
	case ModeTruncate, "":
		flags |= os.O_TRUNC
	default:
		return nil, fmt.Errorf("snapshot mode %q: want %q or %q", mode, ModeTruncate, ModeAppend)
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open snapshot log %s: %w", path, err)
	}
	return &SnapshotLog{f: f, w: bufio.NewWriter(f), path: path}, nil
}

// Append writes rec as a new YAML document and flushes it to the file.
func (l *SnapshotLog) Append(rec Record) error {
	data, err := yaml.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("encode step %d: %w", rec.Step, err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.w.WriteString("---\n"); err != nil {
		return fmt.Errorf("write snapshot %s: %w", l.path, err)
	}
	if _, err := l.w.Write(data); err != nil {
		return fmt.Errorf("write snapshot %s: %w", l.path, err)
	}
	if err := l.w.Flush(); err != nil {
		return fmt.Errorf("flush snapshot %s: %w", l.path, err)
	}
	l.records++
	return nil
}

// Records returns how many records this log has appended since open.
func (l *SnapshotLog) Records() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.records
}

func (l *SnapshotLog) Path() string { return l.path }

func (l *SnapshotLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.w.Flush(); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}
