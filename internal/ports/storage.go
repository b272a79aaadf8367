package ports

import (
	"context"
	"time"

	"github.com/bft-labs/handoff/internal/domain"
)

// StackRepository persists the stack as a whole.
type StackRepository interface {
	// ReadStack returns the persisted stack, newest first.
	// Returns an empty stack and nil error if nothing was ever written.
	// Returns a *domain.StorageError if the data exists but cannot be read.
	ReadStack(ctx context.Context) ([]domain.StackItem, error)

	// WriteStack atomically replaces the persisted stack with items.
	// Readers observe either the previous or the new stack, never a mix.
	WriteStack(ctx context.Context, items []domain.StackItem) error
}

// SlotRepository persists named slots, one record per name.
type SlotRepository interface {
	// ReadSlot returns the slot stored under name.
	// The boolean is false, with a nil error, when no such slot exists.
	ReadSlot(ctx context.Context, name string) (domain.NamedSlot, bool, error)

	// WriteSlot atomically creates or replaces the slot.
	WriteSlot(ctx context.Context, slot domain.NamedSlot) error

	// DeleteSlot removes the slot. Returns *domain.SlotNotFoundError if absent.
	DeleteSlot(ctx context.Context, name string) error

	// ListSlots returns all readable slots, most recently updated first.
	// Unreadable individual slot records are skipped.
	ListSlots(ctx context.Context) ([]domain.NamedSlot, error)
}

// Store groups both repositories under one storage root.
type Store interface {
	StackRepository
	SlotRepository
}

// TempSweeper removes temporary files abandoned by writers that died between
// creating and renaming them.
type TempSweeper interface {
	// RemoveStaleTemps deletes temporary files older than maxAge and returns
	// how many were removed.
	RemoveStaleTemps(ctx context.Context, maxAge time.Duration) (int, error)
}
