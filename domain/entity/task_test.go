package entity

import "testing"

func TestHasTag(t *testing.T) {
	tests := []struct {
		name     string
		task     *Task
		tag      string
		expected bool
	}{
		{
			name:     "Tag present",
			task:     &Task{Tags: []string{"urgent", "backend"}},
			tag:      "backend",
			expected: true,
		},
		{
			name:     "Tag absent",
			task:     &Task{Tags: []string{"urgent"}},
			tag:      "frontend",
			expected: false,
		},
		{
			name:     "No tags",
			task:     &Task{},
			tag:      "urgent",
			expected: false,
		},
		{
			name:     "Duplicate tags still match",
			task:     &Task{Tags: []string{"a", "a"}},
			tag:      "a",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.HasTag(tt.tag); got != tt.expected {
				t.Errorf("HasTag(%q) = %v, expected %v", tt.tag, got, tt.expected)
			}
		})
	}
}

func TestIsOverdue(t *testing.T) {
	const today = "2024-06-15"

	tests := []struct {
		name     string
		task     *Task
		expected bool
	}{
		{
			name:     "Past due date and not done",
			task:     &Task{Status: StatusTodo, DueDate: "2024-06-01"},
			expected: true,
		},
		{
			name:     "Past due date but done",
			task:     &Task{Status: StatusDone, DueDate: "2024-06-01"},
			expected: false,
		},
		{
			name:     "Future due date",
			task:     &Task{Status: StatusTodo, DueDate: "2024-07-01"},
			expected: false,
		},
		{
			name:     "Due today is not overdue",
			task:     &Task{Status: StatusTodo, DueDate: today},
			expected: false,
		},
		{
			name:     "No due date",
			task:     &Task{Status: StatusTodo},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsOverdue(today); got != tt.expected {
				t.Errorf("IsOverdue(%q) = %v, expected %v", today, got, tt.expected)
			}
		})
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name     string
		task     *Task
		expected bool
	}{
		{name: "Complete record", task: &Task{ID: 1, Title: "Fix bug", Status: StatusTodo}, expected: true},
		{name: "Zero id", task: &Task{ID: 0, Title: "Fix bug", Status: StatusTodo}, expected: false},
		{name: "Negative id", task: &Task{ID: -3, Title: "Fix bug", Status: StatusTodo}, expected: false},
		{name: "Empty title", task: &Task{ID: 1, Status: StatusTodo}, expected: false},
		{name: "Empty status", task: &Task{ID: 1, Title: "Fix bug"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.Valid(); got != tt.expected {
				t.Errorf("Valid() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
