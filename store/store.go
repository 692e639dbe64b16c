// Package store holds the canonical, owned collection of loaded tasks and
// its derived indices. Filters and sorts never touch it; the view pipeline
// only references it by task id.
package store

import (
	"sort"

	"github.com/toni6/taskproc/domain/entity"
)

// Store is the canonical task store, keyed by task id. It is not safe for
// concurrent mutation; the coordinator serializes access.
type Store struct {
	tasks map[int]*entity.Task
	ids   []int // ascending, kept in lockstep with tasks

	// Derived indices, rebuilt in full on every Load. Never mutated
	// independently of tasks.
	statusIndex map[entity.TaskStatus][]*entity.Task
	tagIndex    map[string][]*entity.Task
}

// New returns an empty store.
func New() *Store {
	return &Store{
		tasks:       map[int]*entity.Task{},
		statusIndex: map[entity.TaskStatus][]*entity.Task{},
		tagIndex:    map[string][]*entity.Task{},
	}
}

// Load replaces the entire store contents. New state is built aside and
// swapped in at the end, so callers never observe a partial mix of old and
// new data. A duplicate id overwrites the earlier record.
func (s *Store) Load(tasks []entity.Task) {
	next := make(map[int]*entity.Task, len(tasks))
	for i := range tasks {
		t := tasks[i]
		next[t.ID] = &t
	}

	ids := make([]int, 0, len(next))
	for id := range next {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	s.tasks = next
	s.ids = ids
	s.rebuildIndices()
}

// Get returns the task with the given id, or domain absence via ok=false.
func (s *Store) Get(id int) (*entity.Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

// All returns every task ordered by ascending id.
func (s *Store) All() []*entity.Task {
	out := make([]*entity.Task, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.tasks[id])
	}
	return out
}

// IDs returns every task id in ascending order. The returned slice is a
// copy; callers may keep it across view operations.
func (s *Store) IDs() []int {
	out := make([]int, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of tasks in canonical storage.
func (s *Store) Len() int { return len(s.tasks) }

// Empty reports whether no tasks are loaded.
func (s *Store) Empty() bool { return len(s.tasks) == 0 }

// ByStatus returns the tasks carrying the given status, in id order.
func (s *Store) ByStatus(status entity.TaskStatus) []*entity.Task {
	return s.statusIndex[status]
}

// ByTag returns the tasks whose tag list contains tag, in id order.
func (s *Store) ByTag(tag string) []*entity.Task {
	return s.tagIndex[tag]
}

// rebuildIndices recomputes the status and tag indices from the current
// contents. Runs on every Load; iteration over ids keeps bucket order
// deterministic.
func (s *Store) rebuildIndices() {
	s.statusIndex = map[entity.TaskStatus][]*entity.Task{}
	s.tagIndex = map[string][]*entity.Task{}

	for _, id := range s.ids {
		t := s.tasks[id]
		s.statusIndex[t.Status] = append(s.statusIndex[t.Status], t)
		for _, tag := range t.Tags {
			s.tagIndex[tag] = append(s.tagIndex[tag], t)
		}
	}
}
