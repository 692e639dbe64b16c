package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/toni6/taskproc/infrastructure/logger"
)

// DefaultFilename is the durable record's filename when none is configured.
const DefaultFilename = ".taskproc.storage"

// record is the durable document: exactly the source path plus the ordered
// operation history.
type record struct {
	Filepath string   `json:"filepath"`
	History  []Action `json:"history"`
}

// Log is the append-only action log for the active data source. The in-memory
// fields are guarded by a single mutex so a serving delivery layer can share
// one instance; persistence is atomic (temp file + rename).
type Log struct {
	mu      sync.Mutex
	source  string
	actions []Action

	path string // durable location, fixed at construction
	log  *zap.Logger
}

// New returns a Log persisting to path. An empty path falls back to
// DefaultFilename in the current working directory at construction time.
func New(path string) *Log {
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = filepath.Join(wd, DefaultFilename)
		} else {
			path = DefaultFilename
		}
	}
	return &Log{path: path, log: logger.Named("history")}
}

// Record appends an action to the in-memory log.
func (l *Log) Record(a Action) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.actions = append(l.actions, a)
}

// SetSource sets the active data source path. Switching source invalidates
// any prior view history, so the log is truncated.
func (l *Log) SetSource(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.source = path
	l.actions = nil
}

// Source returns the active data source path, empty when none is set.
func (l *Log) Source() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.source
}

// Actions returns a copy of the recorded history, oldest first.
func (l *Log) Actions() []Action {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Action, len(l.actions))
	copy(out, l.actions)
	return out
}

// ClearHistory drops the recorded actions but keeps the source path.
func (l *Log) ClearHistory() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.actions = nil
}

// Clear drops all in-memory state and removes the durable record.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.source = ""
	l.actions = nil
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", l.path, err)
	}
	return nil
}

// Persist durably writes {source path, ordered history}. The document is
// written to a temporary file in the same directory and renamed over the
// target, so a crash mid-write never leaves a corrupt or partial record.
func (l *Log) Persist() error {
	l.mu.Lock()
	doc := record{Filepath: l.source, History: l.actions}
	if doc.History == nil {
		doc.History = []Action{}
	}
	path := l.path
	l.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode view storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp storage file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp storage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp storage file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}

// Load reads the durable record into memory. Returns false when no record
// exists yet; that is an ordinary first-run condition, not an error.
func (l *Log) Load() (bool, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read storage file %s: %w", l.path, err)
	}

	var doc record
	if err := json.Unmarshal(data, &doc); err != nil {
		return false, fmt.Errorf("decode storage file %s: %w", l.path, err)
	}

	actions := make([]Action, 0, len(doc.History))
	for _, a := range doc.History {
		if !KnownOp(a.Type) {
			l.log.Warn("skipping unrecognized action type in storage",
				zap.String("type", string(a.Type)),
				zap.String("payload", a.Payload),
			)
			continue
		}
		actions = append(actions, a)
	}

	l.mu.Lock()
	l.source = doc.Filepath
	l.actions = actions
	l.mu.Unlock()
	return true, nil
}

// Path returns the durable location this log reads and writes.
func (l *Log) Path() string { return l.path }
