package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempLog(t *testing.T) *Log {
	t.Helper()
	return New(filepath.Join(t.TempDir(), DefaultFilename))
}

func TestRecordAndActions(t *testing.T) {
	l := tempLog(t)
	l.SetSource("tasks.csv")
	l.Record(Action{Type: OpFilter, Payload: "status=todo"})
	l.Record(Action{Type: OpSort, Payload: "priority desc"})

	actions := l.Actions()
	require.Len(t, actions, 2)
	assert.Equal(t, Action{Type: OpFilter, Payload: "status=todo"}, actions[0])
	assert.Equal(t, Action{Type: OpSort, Payload: "priority desc"}, actions[1])
}

func TestSetSourceTruncatesHistory(t *testing.T) {
	l := tempLog(t)
	l.SetSource("a.csv")
	l.Record(Action{Type: OpFilter, Payload: "priority>=3"})

	l.SetSource("b.json")
	assert.Equal(t, "b.json", l.Source())
	assert.Empty(t, l.Actions(), "switching source must clear the log")
}

func TestPersistLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFilename)

	l := New(path)
	l.SetSource("tasks.json")
	l.Record(Action{Type: OpFilter, Payload: "status=todo"})
	l.Record(Action{Type: OpFindByTag, Payload: "urgent"})
	l.Record(Action{Type: OpResetFilters})
	l.Record(Action{Type: OpSort, Payload: "due_date desc"})
	require.NoError(t, l.Persist())

	fresh := New(path)
	found, err := fresh.Load()
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, "tasks.json", fresh.Source())
	assert.Equal(t, l.Actions(), fresh.Actions(), "round trip must reproduce the log entry-for-entry, in order")
}

func TestLoadAbsentIsNotAnError(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "never-written"))
	found, err := l.Load()
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadSkipsUnrecognizedTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFilename)
	doc := `{
  "filepath": "tasks.csv",
  "history": [
    {"type": "filter", "payload": "priority>=3"},
    {"type": "teleport", "payload": "nope"},
    {"type": "sort", "payload": "id"}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	l := New(path)
	found, err := l.Load()
	require.NoError(t, err)
	require.True(t, found)

	actions := l.Actions()
	require.Len(t, actions, 2)
	assert.Equal(t, OpFilter, actions[0].Type)
	assert.Equal(t, OpSort, actions[1].Type)
}

func TestLoadCorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	l := New(path)
	_, err := l.Load()
	assert.Error(t, err)
}

func TestPersistWritesDocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFilename)
	l := New(path)
	l.SetSource("tasks.csv")
	require.NoError(t, l.Persist())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Contains(t, doc, "filepath")
	require.Contains(t, doc, "history")
	assert.Len(t, doc, 2, "durable record has exactly two top-level fields")

	var hist []Action
	require.NoError(t, json.Unmarshal(doc["history"], &hist))
	assert.Empty(t, hist, "empty history persists as an empty list, not null")
}

func TestPersistLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	l := New(filepath.Join(dir, DefaultFilename))
	l.SetSource("tasks.csv")
	l.Record(Action{Type: OpFilter, Payload: "status=todo"})
	require.NoError(t, l.Persist())
	require.NoError(t, l.Persist())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DefaultFilename, entries[0].Name())
}

func TestClearRemovesDurableRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFilename)
	l := New(path)
	l.SetSource("tasks.csv")
	require.NoError(t, l.Persist())

	require.NoError(t, l.Clear())
	assert.Empty(t, l.Source())
	assert.Empty(t, l.Actions())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing again with no file present still succeeds.
	require.NoError(t, l.Clear())
}
