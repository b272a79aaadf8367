package watch

import (
	"context"
	"sync"

	"github.com/bft-labs/handoff/internal/ports"
)

// runner owns at most one observation goroutine and implements the
// inactive/active state machine shared by the sources.
type runner struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// start launches loop in a fresh goroutine. The caller stops any previous
// observation first.
func (r *runner) start(loop func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	r.mu.Lock()
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	go func() {
		defer close(done)
		loop(ctx)
	}()
}

// stop cancels the observation and waits for its goroutine. It must not be
// called from the delivery goroutine itself.
func (r *runner) stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (r *runner) active() bool {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()

	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// pending collects the scopes seen during one debounce window.
type pending struct {
	stack bool
	slots bool
}

func (p *pending) add(s ports.Scope) {
	switch s {
	case ports.ScopeStack:
		p.stack = true
	case ports.ScopeSlots:
		p.slots = true
	}
}

func (p *pending) empty() bool { return !p.stack && !p.slots }

// flush delivers each collected scope once, stack first, and resets.
func (p *pending) flush(handler ports.ChangeHandler) {
	stack, slots := p.stack, p.slots
	*p = pending{}
	if handler == nil {
		return
	}
	if stack {
		handler(ports.ScopeStack)
	}
	if slots {
		handler(ports.ScopeSlots)
	}
}
