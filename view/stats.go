package view

import "github.com/toni6/taskproc/domain/entity"

// StatusStats is the status distribution of the current view. Tasks with a
// non-standard status are counted under Other.
type StatusStats struct {
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
	Other      int `json:"other"`
}

// Total returns the count across all buckets.
func (s StatusStats) Total() int {
	return s.Todo + s.InProgress + s.Done + s.Other
}

// StatusStats computes the status distribution of the current view.
func (p *Pipeline) StatusStats() StatusStats {
	var stats StatusStats
	for _, t := range p.Tasks() {
		switch t.Status {
		case entity.StatusTodo:
			stats.Todo++
		case entity.StatusInProgress:
			stats.InProgress++
		case entity.StatusDone:
			stats.Done++
		default:
			stats.Other++
		}
	}
	return stats
}

// AveragePriority returns the arithmetic mean priority of the current view,
// or 0.0 for an empty view.
func (p *Pipeline) AveragePriority() float64 {
	tasks := p.Tasks()
	if len(tasks) == 0 {
		return 0.0
	}
	sum := 0
	for _, t := range tasks {
		sum += t.Priority
	}
	return float64(sum) / float64(len(tasks))
}

// OverdueCount returns how many tasks in the current view have a due date
// before todayISO and are not done.
func (p *Pipeline) OverdueCount(todayISO string) int {
	count := 0
	for _, t := range p.Tasks() {
		if t.IsOverdue(todayISO) {
			count++
		}
	}
	return count
}
