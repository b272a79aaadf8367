// Package pasteboard adapts the system clipboard to ports.Pasteboard.
package pasteboard

import (
	"crypto/sha256"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/bft-labs/handoff/internal/ports"
)

// System reads the system clipboard through github.com/atotto/clipboard.
//
// The clipboard offers no change counter of its own, so System derives one:
// every ChangeCount call fingerprints the current text and bumps the counter
// when the fingerprint differs from the previous sample.
type System struct {
	read func() (string, error)

	mu      sync.Mutex
	sampled bool
	last    [sha256.Size]byte
	count   uint64
}

var _ ports.Pasteboard = (*System)(nil)

// NewSystem returns a pasteboard backed by the system clipboard.
func NewSystem() *System {
	return &System{read: clipboard.ReadAll}
}

// Supported reports whether a clipboard utility is available on this host.
func Supported() bool {
	return !clipboard.Unsupported
}

// ChangeCount implements ports.Pasteboard.
func (s *System) ChangeCount() (uint64, error) {
	text, err := s.read()
	if err != nil {
		return 0, err
	}
	sum := sha256.Sum256([]byte(text))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sampled && sum == s.last {
		return s.count, nil
	}
	if s.sampled {
		s.count++
	}
	s.sampled = true
	s.last = sum
	return s.count, nil
}

// ReadText implements ports.Pasteboard.
func (s *System) ReadText() (string, error) {
	return s.read()
}

// Headless is the pasteboard of a host without clipboard access. It never
// changes and is always empty.
type Headless struct{}

var _ ports.Pasteboard = Headless{}

func (Headless) ChangeCount() (uint64, error) { return 0, nil }
func (Headless) ReadText() (string, error)    { return "", nil }

// Detect returns the system pasteboard when one is available and Headless
// otherwise.
func Detect(logger ports.Logger) ports.Pasteboard {
	if !Supported() {
		logger.Warn("no clipboard utility found, pasteboard polling disabled")
		return Headless{}
	}
	return NewSystem()
}
