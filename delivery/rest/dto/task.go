// Package dto holds the request and response shapes of the REST surface.
package dto

import (
	"fmt"
	"strings"

	"github.com/toni6/taskproc/domain/entity"
)

// LoadSourceRequest asks the service to switch to a new data source.
type LoadSourceRequest struct {
	Path string `json:"path" binding:"required"`
}

// Validate normalizes and checks the request.
func (r *LoadSourceRequest) Validate() error {
	r.Path = strings.TrimSpace(r.Path)
	if r.Path == "" {
		return fmt.Errorf("path must not be empty")
	}
	return nil
}

// ExpressionRequest carries a filter or sort expression.
type ExpressionRequest struct {
	Expression string `json:"expression" binding:"required"`
}

// TagRequest carries a tag for tag filtering.
type TagRequest struct {
	Tag string `json:"tag" binding:"required"`
}

// TaskResponse is the wire shape of a task.
type TaskResponse struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Status      string   `json:"status"`
	Priority    int      `json:"priority"`
	CreatedDate string   `json:"created_date,omitempty"`
	Description string   `json:"description,omitempty"`
	Assignee    string   `json:"assignee,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// FromEntity converts a domain task to its wire shape.
func FromEntity(t *entity.Task) *TaskResponse {
	return &TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedDate: t.CreatedDate,
		Description: t.Description,
		Assignee:    t.Assignee,
		DueDate:     t.DueDate,
		Tags:        t.Tags,
	}
}

// ViewResponse is the current view: tasks in view order plus counts.
type ViewResponse struct {
	Tasks      []*TaskResponse `json:"tasks"`
	ViewCount  int             `json:"view_count"`
	TotalCount int             `json:"total_count"`
	Source     string          `json:"source,omitempty"`
}

// StatsResponse summarizes the current view.
type StatsResponse struct {
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"by_status"`
	AveragePriority float64        `json:"average_priority"`
	Overdue         int            `json:"overdue"`
}

// HistoryEntry is the wire shape of one recorded view operation.
type HistoryEntry struct {
	Type    string `json:"type"`
	Payload string `json:"payload,omitempty"`
}

// SourceResponse reports the active source after a load or reload.
type SourceResponse struct {
	Source     string `json:"source"`
	TotalCount int    `json:"total_count"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
