// Package task hosts the coordinator that ties the readers, the canonical
// store, the view pipeline and the action log together: load a source,
// populate the store, replay persisted history, expose the current view.
package task

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/toni6/taskproc/domain"
	"github.com/toni6/taskproc/domain/entity"
	"github.com/toni6/taskproc/expr"
	"github.com/toni6/taskproc/history"
	"github.com/toni6/taskproc/infrastructure/logger"
	"github.com/toni6/taskproc/reader"
	"github.com/toni6/taskproc/store"
	"github.com/toni6/taskproc/view"
)

// Manager orchestrates the core components behind one coarse lock, so a
// serving delivery layer can share a single instance. The store and the
// pipeline are never exposed for mutation; a reload rebuilds the view in the
// same locked step that swaps the store, so no caller ever observes a view
// referencing dropped data.
type Manager struct {
	mu       sync.Mutex
	registry *reader.Registry
	storage  *history.Log
	store    *store.Store
	pipeline *view.Pipeline
	log      *zap.Logger
}

// NewManager builds a manager over the given readers and durable log, then
// restores persisted state: if a durable record names a source, the source
// is re-read and the history replayed. Restore problems are logged and leave
// an empty manager; they never fail construction.
func NewManager(registry *reader.Registry, storage *history.Log) *Manager {
	m := &Manager{
		registry: registry,
		storage:  storage,
		store:    store.New(),
		log:      logger.Named("manager"),
	}
	m.pipeline = view.New(m.store)
	m.restore()
	return m
}

func (m *Manager) restore() {
	found, err := m.storage.Load()
	if err != nil {
		m.log.Warn("unable to read view storage, starting empty", zap.Error(err))
		return
	}
	if !found || m.storage.Source() == "" {
		return
	}

	source := m.storage.Source()
	tasks, err := m.registry.Read(source)
	if err != nil {
		m.log.Warn("unable to restore saved source, starting empty",
			zap.String("source", source), zap.Error(err))
		return
	}

	m.store.Load(tasks)
	actions := m.storage.Actions()
	m.pipeline.Replay(actions)
	m.log.Info("restored view from storage",
		zap.String("source", source),
		zap.Int("tasks", len(tasks)),
		zap.Int("actions", len(actions)),
	)
}

// LoadSource reads tasks from path and replaces the canonical store. The
// durable log switches to the new source, which truncates any prior history.
// On any failure the prior in-memory state is left unchanged.
func (m *Manager) LoadSource(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tasks, err := m.registry.Read(path)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrEmptySource, path)
	}

	prevSource := m.storage.Source()
	prevActions := m.storage.Actions()

	m.storage.SetSource(path)
	if err := m.storage.Persist(); err != nil {
		// Roll the log back so in-memory state still matches the durable one.
		m.storage.SetSource(prevSource)
		for _, a := range prevActions {
			m.storage.Record(a)
		}
		return fmt.Errorf("persist view storage: %w", err)
	}

	m.store.Load(tasks)
	m.pipeline.Reset()
	m.log.Info("loaded source", zap.String("source", path), zap.Int("tasks", len(tasks)))
	return nil
}

// ReloadSource re-reads the active source and rebuilds the view by replaying
// the recorded history against the fresh store. Unlike LoadSource, the
// history survives: the source did not change, only its contents may have.
func (m *Manager) ReloadSource() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	source := m.storage.Source()
	if source == "" {
		return domain.ErrNoSource
	}

	tasks, err := m.registry.Read(source)
	if err != nil {
		return err
	}

	m.store.Load(tasks)
	m.pipeline.Replay(m.storage.Actions())
	m.log.Info("reloaded source", zap.String("source", source), zap.Int("tasks", len(tasks)))
	return nil
}

// ApplyFilter compiles and applies a filter expression, then records it.
// A parse failure aborts with no state change. A persist failure after a
// successful apply is logged as a warning; the applied operation stands.
func (m *Manager) ApplyFilter(expression string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	spec, err := expr.ParseFilter(expression)
	if err != nil {
		return err
	}

	m.pipeline.ApplyFilter(spec)
	m.record(history.Action{Type: history.OpFilter, Payload: expression})
	return nil
}

// ApplySort compiles and applies a sort expression, then records it.
func (m *Manager) ApplySort(expression string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	spec, err := expr.ParseSort(expression)
	if err != nil {
		return err
	}

	m.pipeline.ApplySort(spec)
	m.record(history.Action{Type: history.OpSort, Payload: expression})
	return nil
}

// FilterByTag narrows the view to tasks carrying tag and records it.
func (m *Manager) FilterByTag(tag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tag == "" {
		return fmt.Errorf("%w: empty tag", domain.ErrBadParamInput)
	}

	m.pipeline.FilterByTag(tag)
	m.record(history.Action{Type: history.OpFindByTag, Payload: tag})
	return nil
}

// FilterNoTags narrows the view to untagged tasks. Session-only: the action
// log has no entry kind for it, so it does not survive a restart.
func (m *Manager) FilterNoTags() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pipeline.FilterNoTags()
}

// SearchText narrows the view by case-insensitive title/description search.
// Session-only, like FilterNoTags.
func (m *Manager) SearchText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pipeline.SearchText(text)
}

// ResetView discards all filtering and sorting and records the reset, so a
// replayed history reproduces the same final view.
func (m *Manager) ResetView() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pipeline.Reset()
	m.record(history.Action{Type: history.OpResetFilters})
}

// Clear drops all state: store, view, source and the durable record.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.Load(nil)
	m.pipeline.Reset()
	return m.storage.Clear()
}

// record appends an applied operation and persists the log. Persistence
// failures at this point do not undo the operation.
func (m *Manager) record(a history.Action) {
	m.storage.Record(a)
	if err := m.storage.Persist(); err != nil {
		m.log.Warn("failed to persist view storage", zap.Error(err))
	}
}

// CurrentView returns the tasks of the current view, in view order.
func (m *Manager) CurrentView() []*entity.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pipeline.Tasks()
}

// GetTask returns the task with the given id from canonical storage.
func (m *Manager) GetTask(id int) (*entity.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}
	return t, nil
}

// TaskCount returns the total number of tasks in canonical storage,
// ignoring filters.
func (m *Manager) TaskCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Len()
}

// ViewCount returns the number of tasks in the current view.
func (m *Manager) ViewCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pipeline.Len()
}

// CurrentSourcePath returns the active source path, empty when none.
func (m *Manager) CurrentSourcePath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storage.Source()
}

// History returns a copy of the recorded action history.
func (m *Manager) History() []history.Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storage.Actions()
}

// StatusStats returns the status distribution of the current view.
func (m *Manager) StatusStats() view.StatusStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pipeline.StatusStats()
}

// AveragePriority returns the mean priority of the current view.
func (m *Manager) AveragePriority() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pipeline.AveragePriority()
}

// OverdueCount returns the overdue tasks in the current view as of todayISO.
func (m *Manager) OverdueCount(todayISO string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pipeline.OverdueCount(todayISO)
}
