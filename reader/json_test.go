package reader

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCanHandle(t *testing.T) {
	r := NewJSON()
	assert.True(t, r.CanHandle("tasks.json"))
	assert.True(t, r.CanHandle("/data/Tasks.JSON"))
	assert.False(t, r.CanHandle("tasks.csv"))
}

func TestJSONRead(t *testing.T) {
	doc := `[
  {"id": 1, "title": "Fix login bug", "status": "todo", "priority": 3,
   "created_date": "2024-01-10", "description": "Broken on Safari",
   "assignee": "alice", "due_date": "2024-02-01", "tags": ["bug", "urgent"]},
  {"id": 2, "title": "Review PR", "status": "in-progress", "priority": 5}
]`
	path := writeFixture(t, "tasks.json", doc)

	tasks, err := NewJSON().Read(path)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "Fix login bug", tasks[0].Title)
	assert.Equal(t, []string{"bug", "urgent"}, tasks[0].Tags)
	assert.Equal(t, "2024-02-01", tasks[0].DueDate)

	assert.Empty(t, tasks[1].Tags)
	assert.Empty(t, tasks[1].Assignee)
}

func TestJSONReadSkipsInvalidRecords(t *testing.T) {
	doc := `[
  {"id": 0, "title": "Bad id", "status": "todo", "priority": 1},
  {"id": 1, "status": "todo", "priority": 1},
  {"id": "not-a-number", "title": "Bad type", "status": "todo", "priority": 1},
  {"id": 2, "title": "Good", "status": "todo", "priority": -4}
]`
	path := writeFixture(t, "tasks.json", doc)

	tasks, err := NewJSON().Read(path)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 2, tasks[0].ID)
	assert.Equal(t, 1, tasks[0].Priority)
}

func TestJSONReadUnparseableDocumentIsFatal(t *testing.T) {
	path := writeFixture(t, "tasks.json", `{"not": "an array"`)
	_, err := NewJSON().Read(path)
	assert.Error(t, err)
}

func TestJSONReadMissingFile(t *testing.T) {
	_, err := NewJSON().Read(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
