package watch

import (
	"path/filepath"
	"sync"

	"github.com/bft-labs/handoff/internal/ports"
)

// autoSource prefers the native watcher and falls back to polling when native
// notification cannot be set up.
type autoSource struct {
	native  *Watcher
	polling *PollingWatcher
	logger  ports.Logger

	mu      sync.Mutex
	current ports.ChangeSource
}

func newAuto(opts Options, handler ports.ChangeHandler) *autoSource {
	opts = opts.withDefaults()
	return &autoSource{
		native:  New(opts, handler),
		polling: NewPolling(opts, handler),
		logger:  opts.Logger,
	}
}

func (a *autoSource) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current != nil {
		a.current.Stop()
		a.current = nil
	}

	if err := a.native.Start(); err != nil {
		a.logger.Warn("native file watching unavailable, falling back to polling", ports.Err(err))
		if err := a.polling.Start(); err != nil {
			return err
		}
		a.current = a.polling
		return nil
	}
	a.current = a.native
	return nil
}

func (a *autoSource) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current != nil {
		a.current.Stop()
		a.current = nil
	}
}

func (a *autoSource) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current != nil && a.current.Active()
}

func dirOf(path string) string { return filepath.Dir(path) }

var _ ports.ChangeSource = (*autoSource)(nil)
