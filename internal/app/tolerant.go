package app

import "github.com/bft-labs/handoff/internal/ports"

// tolerantRead runs read and returns fallback instead of an error. It backs
// the display-oriented reads, where a damaged file should show as nothing
// rather than fail the caller. Mutations and single lookups never use it.
func tolerantRead[T any](logger ports.Logger, op string, fallback T, read func() (T, error)) T {
	v, err := read()
	if err != nil {
		logger.Warn("read failed, showing empty result",
			ports.String("op", op),
			ports.Err(err))
		return fallback
	}
	return v
}
