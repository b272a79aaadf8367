package app

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/handoff/internal/domain"
	"github.com/bft-labs/handoff/internal/ports"
)

// ShutdownTimeout bounds how long the observer waits for its background
// tasks after cancellation.
const ShutdownTimeout = 10 * time.Second

// State is the lifecycle state of the observer.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// transitions lists the states reachable from each state.
var transitions = map[State][]State{
	StateStopped:  {StateStarting},
	StateStarting: {StateRunning, StateStopping, StateCrashed},
	StateRunning:  {StateStopping, StateCrashed},
	StateStopping: {StateStopped, StateCrashed},
	StateCrashed:  {StateStarting},
}

// StateListener is notified after every successful transition.
type StateListener func(previous, current State, reason string)

// Lifecycle is the state machine guarding Observer.Run.
type Lifecycle struct {
	mu       sync.RWMutex
	state    State
	cancel   context.CancelFunc
	stopReq  bool
	logger   ports.Logger
	listener StateListener
}

// NewLifecycle creates a lifecycle in StateStopped. listener may be nil.
func NewLifecycle(logger ports.Logger, listener StateListener) *Lifecycle {
	return &Lifecycle{
		state:    StateStopped,
		logger:   logger,
		listener: listener,
	}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo moves to next, or fails without changing state if next is
// not reachable from the current state.
func (l *Lifecycle) TransitionTo(next State, reason string) error {
	l.mu.Lock()
	prev := l.state
	if !reachable(prev, next) {
		l.mu.Unlock()
		if prev == StateStopped || prev == StateCrashed {
			return domain.ErrNotRunning
		}
		return domain.ErrAlreadyRunning
	}
	l.state = next
	if next == StateStarting {
		l.cancel = nil
		l.stopReq = false
	}
	l.mu.Unlock()

	if l.listener != nil {
		l.listener(prev, next, reason)
	}

	l.logger.Info("state transition",
		ports.String("from", prev.String()),
		ports.String("to", next.String()),
		ports.String("reason", reason),
	)
	return nil
}

func reachable(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanStart reports whether the observer may be started.
func (l *Lifecycle) CanStart() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateStopped || l.state == StateCrashed
}

// CanStop reports whether the observer may be stopped.
func (l *Lifecycle) CanStop() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateRunning || l.state == StateStarting
}

// SetCancel stores the function that cancels the running tasks. If a stop
// was requested while starting, cancel is called at once.
func (l *Lifecycle) SetCancel(cancel context.CancelFunc) {
	l.mu.Lock()
	l.cancel = cancel
	pending := l.stopReq
	l.stopReq = false
	l.mu.Unlock()

	if pending && cancel != nil {
		cancel()
	}
}

// Cancel asks the running tasks to stop. While starting, before SetCancel,
// the request is held until the cancel func arrives.
func (l *Lifecycle) Cancel() {
	l.mu.Lock()
	cancel := l.cancel
	if cancel == nil && l.state == StateStarting {
		l.stopReq = true
	}
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// WaitWithTimeout runs wait and returns its result, or ErrShutdownTimeout if
// it does not return within timeout.
func (l *Lifecycle) WaitWithTimeout(timeout time.Duration, wait func() error) error {
	done := make(chan error, 1)
	go func() { done <- wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		l.logger.Warn("shutdown timeout, abandoning background tasks",
			ports.Duration("timeout", timeout),
		)
		return domain.ErrShutdownTimeout
	}
}
