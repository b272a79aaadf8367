package app

import (
	"context"
	"sync"
	"time"

	logAdapter "github.com/bft-labs/handoff/internal/adapters/log"
	"github.com/bft-labs/handoff/internal/domain"
	"github.com/bft-labs/handoff/internal/ports"
)

// Manager enforces the stack and slot rules on top of a ports.Store.
//
// Every operation re-reads from the store, so the files on disk are the only
// source of truth. A single mutex serializes operations within the process;
// nothing arbitrates between processes beyond the store's atomic replace.
type Manager struct {
	store  ports.Store
	logger ports.Logger
	now    func() time.Time

	mu sync.Mutex

	watchMu sync.Mutex
	watcher ports.ChangeSource
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger used for tolerant-read fallbacks.
func WithLogger(logger ports.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp items and slots.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a Manager over store.
func NewManager(store ports.Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:  store,
		logger: logAdapter.NewNoopLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Push prepends content to the stack, dropping the oldest items beyond
// domain.MaxStackSize.
func (m *Manager) Push(ctx context.Context, content string) error {
	if err := domain.CheckContentSize(content); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stack, err := m.store.ReadStack(ctx)
	if err != nil {
		return err
	}

	next := make([]domain.StackItem, 0, min(len(stack)+1, domain.MaxStackSize))
	next = append(next, domain.NewStackItem(content, m.now()))
	next = append(next, stack[:min(len(stack), domain.MaxStackSize-1)]...)

	return m.store.WriteStack(ctx, next)
}

// Get returns the content at a 1-based stack position, 1 being the newest.
func (m *Manager) Get(ctx context.Context, index int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stack, err := m.store.ReadStack(ctx)
	if err != nil {
		return "", err
	}
	if index < 1 || index > len(stack) {
		return "", &domain.IndexOutOfRangeError{Requested: index, Available: len(stack)}
	}
	return stack[index-1].Content, nil
}

// Pop removes the newest item and returns its content.
func (m *Manager) Pop(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stack, err := m.store.ReadStack(ctx)
	if err != nil {
		return "", err
	}
	if len(stack) == 0 {
		return "", domain.ErrEmptyStack
	}

	if err := m.store.WriteStack(ctx, stack[1:]); err != nil {
		return "", err
	}
	return stack[0].Content, nil
}

// List returns the whole stack, newest first. Read failures, including a
// corrupt stack file, yield an empty stack.
func (m *Manager) List(ctx context.Context) []domain.StackItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	return tolerantRead(m.logger, "list stack", []domain.StackItem{}, func() ([]domain.StackItem, error) {
		return m.store.ReadStack(ctx)
	})
}

// ClearStack empties the stack.
func (m *Manager) ClearStack(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.store.WriteStack(ctx, []domain.StackItem{})
}

// Save stores content under name, creating the slot or replacing its content.
// An existing slot keeps its creation time.
func (m *Manager) Save(ctx context.Context, name, content string) error {
	if err := domain.CheckContentSize(content); err != nil {
		return err
	}
	if err := domain.ValidateSlotName(name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok, err := m.store.ReadSlot(ctx, name)
	if err != nil {
		return err
	}

	now := m.now()
	slot := domain.NewNamedSlot(name, content, now)
	if ok {
		slot = existing.Updated(content, now)
	}
	return m.store.WriteSlot(ctx, slot)
}

// GetSlot returns the content of the named slot.
func (m *Manager) GetSlot(ctx context.Context, name string) (string, error) {
	slot, err := m.Slot(ctx, name)
	if err != nil {
		return "", err
	}
	return slot.Content, nil
}

// Slot returns the named slot with its timestamps.
func (m *Manager) Slot(ctx context.Context, name string) (domain.NamedSlot, error) {
	if err := domain.ValidateSlotName(name); err != nil {
		return domain.NamedSlot{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	slot, ok, err := m.store.ReadSlot(ctx, name)
	if err != nil {
		return domain.NamedSlot{}, err
	}
	if !ok {
		return domain.NamedSlot{}, &domain.SlotNotFoundError{Name: name}
	}
	return slot, nil
}

// DeleteSlot removes the named slot.
func (m *Manager) DeleteSlot(ctx context.Context, name string) error {
	if err := domain.ValidateSlotName(name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.store.DeleteSlot(ctx, name)
}

// ListSlots returns all slots, most recently updated first. Read failures
// yield an empty list.
func (m *Manager) ListSlots(ctx context.Context) []domain.NamedSlot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return tolerantRead(m.logger, "list slots", []domain.NamedSlot{}, func() ([]domain.NamedSlot, error) {
		return m.store.ListSlots(ctx)
	})
}

// AttachWatcher hands a change source to the manager, which then owns its
// teardown. A previously attached source is stopped.
func (m *Manager) AttachWatcher(src ports.ChangeSource) {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()

	if m.watcher != nil && m.watcher != src {
		m.watcher.Stop()
	}
	m.watcher = src
}

// StartWatching starts the attached change source. Calling it again restarts
// observation rather than adding a second one.
func (m *Manager) StartWatching() error {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()

	if m.watcher == nil {
		return nil
	}
	return m.watcher.Start()
}

// StopWatching stops the attached change source, if any.
func (m *Manager) StopWatching() {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()

	if m.watcher != nil {
		m.watcher.Stop()
	}
}

// Close tears the manager down, stopping any attached change source.
func (m *Manager) Close() error {
	m.StopWatching()
	return nil
}
