package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MaxStackSize is the maximum number of items kept in the stack.
	MaxStackSize = 50

	// MaxContentSize is the maximum content size in bytes (UTF-8).
	MaxContentSize = 1_000_000
)

// StackItem is a single entry of the stack. Items are never mutated once
// created; the stack changes only by prepending or dropping items.
type StackItem struct {
	ID        uuid.UUID
	Content   string
	CreatedAt time.Time
}

// NewStackItem creates an item with a fresh identifier stamped at now.
func NewStackItem(content string, now time.Time) StackItem {
	return StackItem{
		ID:        uuid.New(),
		Content:   content,
		CreatedAt: now,
	}
}

// NamedSlot is a named, durable store for a single piece of content.
type NamedSlot struct {
	Name      string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewNamedSlot creates a slot whose timestamps are both set to now.
func NewNamedSlot(name, content string, now time.Time) NamedSlot {
	return NamedSlot{
		Name:      name,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Updated returns a copy of the slot holding content, keeping the name and
// creation time and refreshing UpdatedAt to now.
func (s NamedSlot) Updated(content string, now time.Time) NamedSlot {
	return NamedSlot{
		Name:      s.Name,
		Content:   content,
		CreatedAt: s.CreatedAt,
		UpdatedAt: now,
	}
}

// CheckContentSize fails with ContentTooLargeError when content exceeds
// MaxContentSize bytes.
func CheckContentSize(content string) error {
	if size := len(content); size > MaxContentSize {
		return &ContentTooLargeError{Size: size, Max: MaxContentSize}
	}
	return nil
}

// ValidateSlotName reports whether name is usable as a slot key. Names are
// file name segments, so only ASCII letters, digits, '-' and '_' are allowed.
func ValidateSlotName(name string) error {
	if name == "" {
		return &InvalidSlotNameError{Name: name}
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return &InvalidSlotNameError{Name: name}
		}
	}
	return nil
}
