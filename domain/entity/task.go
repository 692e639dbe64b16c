package entity

import "slices"

// TaskStatus is the workflow state of a task. The set is open: loaders accept
// any non-empty string, and statistics bucket unknown values separately.
type TaskStatus = string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

// Task is a single loaded task record. Tasks are immutable once stored in the
// canonical store; a reload replaces them wholesale.
//
// Dates are kept as ISO 8601 strings (YYYY-MM-DD). Their fixed-width layout
// makes plain string comparison order-correct, which the view pipeline relies
// on for date filters and overdue detection.
type Task struct {
	ID          int        `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Status      TaskStatus `json:"status" db:"status"`
	Priority    int        `json:"priority" db:"priority"` // 1-5, 5 is highest
	CreatedDate string     `json:"created_date,omitempty" db:"created_date"`
	Description string     `json:"description,omitempty" db:"description"`
	Assignee    string     `json:"assignee,omitempty" db:"assignee"`
	DueDate     string     `json:"due_date,omitempty" db:"due_date"`
	Tags        []string   `json:"tags,omitempty" db:"tags"`
}

// HasTag reports whether the task's tag list contains tag.
func (t *Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// IsOverdue reports whether the task is past due relative to todayISO
// (ISO 8601 date). Tasks without a due date and finished tasks are never
// overdue.
func (t *Task) IsOverdue(todayISO string) bool {
	if t.DueDate == "" || t.Status == StatusDone {
		return false
	}
	return t.DueDate < todayISO
}

// Valid reports whether the record satisfies the loader contract: positive
// id, non-empty title and status.
func (t *Task) Valid() bool {
	return t.ID >= 1 && t.Title != "" && t.Status != ""
}
