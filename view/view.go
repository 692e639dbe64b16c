// Package view maintains the current filtered/sorted projection of the
// canonical store. The projection holds task ids, never task data: the store
// owns the records, and a reload simply makes the old id list stale until
// the next Reset.
package view

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/toni6/taskproc/domain/entity"
	"github.com/toni6/taskproc/expr"
	"github.com/toni6/taskproc/infrastructure/logger"
	"github.com/toni6/taskproc/store"
)

// Pipeline applies filter and sort specifications to an ordered projection
// of the store. Filtering is cumulative (each filter intersects the current
// view); only Reset restores the full view. Not safe for concurrent use.
type Pipeline struct {
	store *store.Store
	ids   []int
	log   *zap.Logger
}

// New returns a pipeline over st, initialized to the full id-ordered view.
func New(st *store.Store) *Pipeline {
	p := &Pipeline{store: st, log: logger.Named("view")}
	p.Reset()
	return p
}

// Reset discards all filtering and sorting: the view becomes every task in
// the store, ordered by id. Must be called after the store is reloaded.
func (p *Pipeline) Reset() {
	p.ids = p.store.IDs()
}

// Tasks resolves the current view against the store, in view order.
func (p *Pipeline) Tasks() []*entity.Task {
	out := make([]*entity.Task, 0, len(p.ids))
	for _, id := range p.ids {
		if t, ok := p.store.Get(id); ok {
			out = append(out, t)
		}
	}
	return out
}

// IDs returns a copy of the current view's id sequence.
func (p *Pipeline) IDs() []int {
	out := make([]int, len(p.ids))
	copy(out, p.ids)
	return out
}

// Len returns the number of tasks in the current view.
func (p *Pipeline) Len() int { return len(p.ids) }

// ApplyFilter narrows the view to tasks matching spec. Relative order is
// preserved; consecutive filters intersect.
func (p *Pipeline) ApplyFilter(spec expr.FilterSpec) {
	pred := makePredicate(spec)
	p.narrow(pred)
}

// ApplySort reorders the view by spec using a stable sort, so chained sorts
// keep the previous ordering as tiebreaker. The set of tasks is unchanged.
func (p *Pipeline) ApplySort(spec expr.SortSpec) {
	tasks := p.Tasks()
	less := makeComparator(spec)
	sort.SliceStable(tasks, func(i, j int) bool { return less(tasks[i], tasks[j]) })

	ids := make([]int, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	p.ids = ids
}

// FilterByTag narrows the view to tasks whose tag list contains tag.
func (p *Pipeline) FilterByTag(tag string) {
	p.narrow(func(t *entity.Task) bool { return t.HasTag(tag) })
}

// FilterNoTags narrows the view to tasks with an empty tag list.
func (p *Pipeline) FilterNoTags() {
	p.narrow(func(t *entity.Task) bool { return len(t.Tags) == 0 })
}

// SearchText narrows the view to tasks whose title or description contains
// text, case-insensitively.
func (p *Pipeline) SearchText(text string) {
	needle := strings.ToLower(text)
	p.narrow(func(t *entity.Task) bool {
		if strings.Contains(strings.ToLower(t.Title), needle) {
			return true
		}
		return t.Description != "" && strings.Contains(strings.ToLower(t.Description), needle)
	})
}

func (p *Pipeline) narrow(keep func(*entity.Task) bool) {
	kept := p.ids[:0]
	for _, id := range p.ids {
		t, ok := p.store.Get(id)
		if ok && keep(t) {
			kept = append(kept, id)
		}
	}
	p.ids = kept
}

// makePredicate derives the per-task predicate for a compiled filter.
// The compiler guarantees the field/operator pairing is evaluable, so the
// default branches are unreachable and treated as programming errors.
func makePredicate(spec expr.FilterSpec) func(*entity.Task) bool {
	switch spec.Field {
	case expr.FieldID:
		target := mustAtoi(spec)
		return func(t *entity.Task) bool { return compareInts(t.ID, target, spec.Op) }
	case expr.FieldPriority:
		target := mustAtoi(spec)
		return func(t *entity.Task) bool { return compareInts(t.Priority, target, spec.Op) }
	case expr.FieldTitle:
		return func(t *entity.Task) bool { return compareEquality(t.Title, spec) }
	case expr.FieldStatus:
		return func(t *entity.Task) bool { return compareEquality(t.Status, spec) }
	case expr.FieldAssignee:
		return func(t *entity.Task) bool { return compareOptional(t.Assignee, spec) }
	case expr.FieldDescription:
		return func(t *entity.Task) bool { return compareOptional(t.Description, spec) }
	case expr.FieldCreatedDate:
		return func(t *entity.Task) bool { return compareOptional(t.CreatedDate, spec) }
	case expr.FieldDueDate:
		return func(t *entity.Task) bool { return compareOptional(t.DueDate, spec) }
	default:
		panic(fmt.Sprintf("view: filter on unknown field %q", spec.Field))
	}
}

func mustAtoi(spec expr.FilterSpec) int {
	n, err := strconv.Atoi(spec.Value)
	if err != nil {
		panic(fmt.Sprintf("view: non-numeric value %q for field %q", spec.Value, spec.Field))
	}
	return n
}

func compareInts(got, want int, op expr.FilterOp) bool {
	switch op {
	case expr.OpEqual:
		return got == want
	case expr.OpNotEqual:
		return got != want
	case expr.OpGreaterThan:
		return got > want
	case expr.OpGreaterThanEqual:
		return got >= want
	case expr.OpLessThan:
		return got < want
	case expr.OpLessThanEqual:
		return got <= want
	default:
		panic(fmt.Sprintf("view: unknown operator %q", op))
	}
}

// compareEquality evaluates = / != on an always-present string field.
func compareEquality(got string, spec expr.FilterSpec) bool {
	switch spec.Op {
	case expr.OpEqual:
		return got == spec.Value
	case expr.OpNotEqual:
		return got != spec.Value
	default:
		panic(fmt.Sprintf("view: operator %q on field %q", spec.Op, spec.Field))
	}
}

// compareOptional evaluates an optional string field. An absent (empty)
// value never matches; ISO 8601 dates compare correctly as plain strings.
func compareOptional(got string, spec expr.FilterSpec) bool {
	if got == "" {
		return false
	}
	switch spec.Op {
	case expr.OpEqual:
		return got == spec.Value
	case expr.OpNotEqual:
		return got != spec.Value
	case expr.OpGreaterThan:
		return got > spec.Value
	case expr.OpGreaterThanEqual:
		return got >= spec.Value
	case expr.OpLessThan:
		return got < spec.Value
	case expr.OpLessThanEqual:
		return got <= spec.Value
	default:
		panic(fmt.Sprintf("view: unknown operator %q", spec.Op))
	}
}

// makeComparator derives the strict-weak ordering for a compiled sort.
// Tasks missing an optional sort key order after tasks that have one, in
// either direction.
func makeComparator(spec expr.SortSpec) func(a, b *entity.Task) bool {
	desc := spec.Direction == expr.Descending

	lessInt := func(x, y int) bool {
		if desc {
			return x > y
		}
		return x < y
	}
	lessStr := func(x, y string) bool {
		if x == y {
			return false
		}
		if x == "" {
			return false // absent sorts last
		}
		if y == "" {
			return true
		}
		if desc {
			return x > y
		}
		return x < y
	}

	switch spec.Field {
	case expr.FieldPriority:
		return func(a, b *entity.Task) bool { return lessInt(a.Priority, b.Priority) }
	case expr.FieldTitle:
		return func(a, b *entity.Task) bool { return lessStr(a.Title, b.Title) }
	case expr.FieldStatus:
		return func(a, b *entity.Task) bool { return lessStr(a.Status, b.Status) }
	case expr.FieldCreatedDate:
		return func(a, b *entity.Task) bool { return lessStr(a.CreatedDate, b.CreatedDate) }
	case expr.FieldDueDate:
		return func(a, b *entity.Task) bool { return lessStr(a.DueDate, b.DueDate) }
	case expr.FieldID:
		return func(a, b *entity.Task) bool { return lessInt(a.ID, b.ID) }
	default:
		panic(fmt.Sprintf("view: sort on unknown field %q", spec.Field))
	}
}
