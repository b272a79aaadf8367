package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is. The typed errors below match their
// sentinel, so callers can pick whichever form they need.
var (
	// ErrEmptyStack is returned by Pop when there is nothing to remove.
	ErrEmptyStack = errors.New("stack is empty")

	ErrIndexOutOfRange = errors.New("index out of range")
	ErrSlotNotFound    = errors.New("slot not found")
	ErrContentTooLarge = errors.New("content too large")
	ErrInvalidSlotName = errors.New("invalid slot name")
	ErrStorage         = errors.New("storage error")
)

// Lifecycle errors returned by the long-running observer.
var (
	// ErrAlreadyRunning is returned when Run is called on an active observer.
	ErrAlreadyRunning = errors.New("handoff: already running")

	// ErrNotRunning is returned for transitions that need a running observer.
	ErrNotRunning = errors.New("handoff: not running")

	// ErrShutdownTimeout is returned when background tasks do not finish in time.
	ErrShutdownTimeout = errors.New("handoff: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("handoff: invalid configuration")
)

// IndexOutOfRangeError reports a 1-based stack position outside the stack.
type IndexOutOfRangeError struct {
	Requested int
	Available int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d is out of range, available items: %d", e.Requested, e.Available)
}

func (e *IndexOutOfRangeError) Is(target error) bool { return target == ErrIndexOutOfRange }

// SlotNotFoundError reports a lookup or delete of a slot that does not exist.
type SlotNotFoundError struct {
	Name string
}

func (e *SlotNotFoundError) Error() string {
	return fmt.Sprintf("slot '%s' not found", e.Name)
}

func (e *SlotNotFoundError) Is(target error) bool { return target == ErrSlotNotFound }

// ContentTooLargeError reports content over the size limit.
type ContentTooLargeError struct {
	Size int
	Max  int
}

func (e *ContentTooLargeError) Error() string {
	return fmt.Sprintf("content size %d bytes exceeds maximum of %d bytes", e.Size, e.Max)
}

func (e *ContentTooLargeError) Is(target error) bool { return target == ErrContentTooLarge }

// InvalidSlotNameError reports a slot name that is not a safe path segment.
type InvalidSlotNameError struct {
	Name string
}

func (e *InvalidSlotNameError) Error() string {
	return fmt.Sprintf("invalid slot name %q (use alphanumeric, dash, underscore)", e.Name)
}

func (e *InvalidSlotNameError) Is(target error) bool { return target == ErrInvalidSlotName }

// StorageError wraps a lower level I/O or decode failure together with the
// operation and the file it was working on.
type StorageError struct {
	Op     string
	Target string
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Target, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// IsUserError reports whether err is a domain condition a caller is expected
// to handle and present to the user, as opposed to an unexpected failure.
func IsUserError(err error) bool {
	return errors.Is(err, ErrEmptyStack) ||
		errors.Is(err, ErrIndexOutOfRange) ||
		errors.Is(err, ErrSlotNotFound) ||
		errors.Is(err, ErrContentTooLarge) ||
		errors.Is(err, ErrInvalidSlotName)
}
