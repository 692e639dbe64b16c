package reader

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/toni6/taskproc/domain/entity"
	"github.com/toni6/taskproc/infrastructure/logger"
)

// JSON reads task records from a file holding a top-level array of task
// objects. Optional fields default to their zero values.
type JSON struct {
	log *zap.Logger
}

// NewJSON returns a JSON reader.
func NewJSON() *JSON {
	return &JSON{log: logger.Named("reader.json")}
}

// CanHandle matches by the .json extension.
func (r *JSON) CanHandle(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".json")
}

// Read parses the file. An unparseable document is fatal; individually
// invalid records are skipped with a logged reason.
func (r *JSON) Read(path string) ([]entity.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// Decode element by element so one malformed object skips that record
	// instead of failing the whole read.
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	tasks := make([]entity.Task, 0, len(records))
	for i, raw := range records {
		var t entity.Task
		if err := json.Unmarshal(raw, &t); err != nil {
			r.log.Warn("skipping malformed task object", zap.Int("index", i), zap.Error(err))
			continue
		}
		if !validate(&t, r.log) {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
