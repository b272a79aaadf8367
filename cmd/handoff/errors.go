package main

import (
	"errors"
	"fmt"

	"github.com/bft-labs/handoff/internal/domain"
)

// usageError is a handled failure of the command line itself, reported like
// a domain error.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// userMessage returns the message shown for a handled error. ok is false for
// unexpected failures.
func userMessage(err error) (msg string, ok bool) {
	var (
		usage    *usageError
		oor      *domain.IndexOutOfRangeError
		notFound *domain.SlotNotFoundError
		tooLarge *domain.ContentTooLargeError
	)
	switch {
	case errors.As(err, &usage):
		return usage.msg, true
	case errors.As(err, &oor):
		return fmt.Sprintf("No item at position %d (stack has %d items)", oor.Requested, oor.Available), true
	case errors.As(err, &notFound):
		return fmt.Sprintf("No slot named '%s'", notFound.Name), true
	case errors.As(err, &tooLarge):
		return fmt.Sprintf("Content exceeds 1MB limit (got %.1fMB)", float64(tooLarge.Size)/1_000_000), true
	case errors.Is(err, domain.ErrEmptyStack):
		return "Stack is empty", true
	case errors.Is(err, domain.ErrInvalidSlotName):
		return "Invalid name (use alphanumeric, dash, underscore)", true
	case errors.Is(err, domain.ErrInvalidConfig):
		return err.Error(), true
	case domain.IsUserError(err):
		return err.Error(), true
	}
	return "", false
}
