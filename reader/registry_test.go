package reader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toni6/taskproc/domain"
)

func defaultRegistry() *Registry {
	return NewRegistry(NewCSV(), NewJSON(), NewPostgres(time.Second), NewMySQL(time.Second))
}

func TestRegistrySelect(t *testing.T) {
	reg := defaultRegistry()

	tests := []struct {
		path     string
		expected any
	}{
		{path: "tasks.csv", expected: &CSV{}},
		{path: "tasks.json", expected: &JSON{}},
		{path: "postgres://user:pw@localhost/tasks", expected: &Postgres{}},
		{path: "postgresql://user:pw@localhost/tasks", expected: &Postgres{}},
		{path: "mysql://user:pw@localhost:3306/tasks", expected: &MySQL{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rd, err := reg.Select(tt.path)
			require.NoError(t, err)
			assert.IsType(t, tt.expected, rd)
		})
	}
}

func TestRegistrySelectNoMatch(t *testing.T) {
	reg := defaultRegistry()
	_, err := reg.Select("tasks.xml")
	assert.ErrorIs(t, err, domain.ErrNoReader)
}

func TestRegistryFirstMatchWins(t *testing.T) {
	// Two readers claiming the same extension: order decides.
	first := NewCSV()
	second := NewCSV()
	reg := NewRegistry(first, second)

	rd, err := reg.Select("tasks.csv")
	require.NoError(t, err)
	assert.Same(t, first, rd)
}

func TestParseDSN(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "URL form with port",
			input:    "mysql://user:pw@dbhost:3307/tasks",
			expected: "user:pw@tcp(dbhost:3307)/tasks",
		},
		{
			name:     "URL form without port defaults to 3306",
			input:    "mysql://user:pw@dbhost/tasks",
			expected: "user:pw@tcp(dbhost:3306)/tasks",
		},
		{
			name:     "Query parameters preserved",
			input:    "mysql://u@h/d?parseTime=true",
			expected: "u@tcp(h:3306)/d?parseTime=true",
		},
		{
			name:     "Native DSN passes through",
			input:    "user:pw@tcp(localhost:3306)/tasks",
			expected: "user:pw@tcp(localhost:3306)/tasks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseDSN(tt.input))
		})
	}
}
