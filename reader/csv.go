package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/toni6/taskproc/domain/entity"
	"github.com/toni6/taskproc/infrastructure/logger"
)

// CSV reads task records from comma-separated files with a header row.
// Columns are resolved by header name, so column order is free; extra
// columns are ignored. The tags cell holds a comma-separated list (quoted
// in the file so the commas survive).
type CSV struct {
	log *zap.Logger
}

// NewCSV returns a CSV reader.
func NewCSV() *CSV {
	return &CSV{log: logger.Named("reader.csv")}
}

// CanHandle matches by the .csv extension.
func (r *CSV) CanHandle(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".csv")
}

var csvRequired = []string{"id", "title", "status", "priority"}

// Read parses the file. A missing required header or an unreadable file is
// fatal; malformed rows are skipped with a logged reason.
func (r *CSV) Read(path string) ([]entity.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // validated per row against the header

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range csvRequired {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q", path, name)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var tasks []entity.Task
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			// A structurally broken row (bad quoting) is recoverable: the
			// csv reader resynchronizes on the next record.
			r.log.Warn("skipping malformed csv row", zap.Int("line", line), zap.Error(err))
			continue
		}

		id, err := strconv.Atoi(field(row, "id"))
		if err != nil {
			r.log.Warn("skipping csv row: non-numeric id",
				zap.Int("line", line), zap.String("id", field(row, "id")))
			continue
		}
		priority, err := strconv.Atoi(field(row, "priority"))
		if err != nil {
			r.log.Warn("skipping csv row: non-numeric priority",
				zap.Int("line", line), zap.String("priority", field(row, "priority")))
			continue
		}

		t := entity.Task{
			ID:          id,
			Title:       field(row, "title"),
			Status:      field(row, "status"),
			Priority:    priority,
			CreatedDate: field(row, "created_date"),
			Description: field(row, "description"),
			Assignee:    field(row, "assignee"),
			DueDate:     field(row, "due_date"),
			Tags:        splitTags(field(row, "tags")),
		}
		if !validate(&t, r.log) {
			continue
		}
		tasks = append(tasks, t)
	}

	return tasks, nil
}

// splitTags splits a comma-separated tags cell, preserving order and
// duplicates. An empty cell yields no tags.
func splitTags(cell string) []string {
	if cell == "" {
		return nil
	}
	parts := strings.Split(cell, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tags = append(tags, strings.TrimSpace(p))
	}
	return tags
}
