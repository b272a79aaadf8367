package app

import (
	"context"
	"sync"

	"github.com/bft-labs/handoff/internal/domain"
)

// failingStore fails every call with err and counts calls.
type failingStore struct {
	err   error
	calls int
}

func (f *failingStore) ReadStack(context.Context) ([]domain.StackItem, error) {
	f.calls++
	return nil, f.err
}

func (f *failingStore) WriteStack(context.Context, []domain.StackItem) error {
	f.calls++
	return f.err
}

func (f *failingStore) ReadSlot(context.Context, string) (domain.NamedSlot, bool, error) {
	f.calls++
	return domain.NamedSlot{}, false, f.err
}

func (f *failingStore) WriteSlot(context.Context, domain.NamedSlot) error {
	f.calls++
	return f.err
}

func (f *failingStore) DeleteSlot(context.Context, string) error {
	f.calls++
	return f.err
}

func (f *failingStore) ListSlots(context.Context) ([]domain.NamedSlot, error) {
	f.calls++
	return nil, f.err
}

// fakeSource is an in-memory ports.ChangeSource.
type fakeSource struct {
	mu     sync.Mutex
	active bool
	starts int
	err    error
}

func (f *fakeSource) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.starts++
	f.active = true
	return nil
}

func (f *fakeSource) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = false
}

func (f *fakeSource) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}
