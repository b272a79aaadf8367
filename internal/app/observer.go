package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	logAdapter "github.com/bft-labs/handoff/internal/adapters/log"
	"github.com/bft-labs/handoff/internal/ports"
)

// View is the observer's last known picture of the shared state.
type View struct {
	StackSize int
	SlotCount int
	Refreshes int
}

// Observer is the long-lived process. It keeps the manager's change source
// running and, when a pasteboard poller is configured, feeds new pasteboard
// text onto the stack.
//
// The change source must be created with HandleChange as its handler and
// attached to the manager before Run is called.
type Observer struct {
	manager    *Manager
	poller     *PasteboardPoller
	sweeper    ports.TempSweeper
	sweepEvery time.Duration
	logger     ports.Logger
	lifecycle  *Lifecycle

	mu   sync.Mutex
	view View
}

// ObserverOption configures an Observer.
type ObserverOption func(*Observer)

// WithPoller runs p alongside the change source.
func WithPoller(p *PasteboardPoller) ObserverOption {
	return func(o *Observer) { o.poller = p }
}

// WithTempSweeper removes abandoned temporary files at start and then every
// interval. A non-positive interval selects DefaultSweepInterval.
func WithTempSweeper(s ports.TempSweeper, interval time.Duration) ObserverOption {
	return func(o *Observer) {
		if interval <= 0 {
			interval = DefaultSweepInterval
		}
		o.sweeper = s
		o.sweepEvery = interval
	}
}

// WithStateListener reports lifecycle transitions to fn.
func WithStateListener(fn StateListener) ObserverOption {
	return func(o *Observer) { o.lifecycle.listener = fn }
}

// NewObserver creates an observer over manager.
func NewObserver(manager *Manager, logger ports.Logger, opts ...ObserverOption) *Observer {
	if logger == nil {
		logger = logAdapter.NewNoopLogger()
	}
	o := &Observer{
		manager:   manager,
		logger:    logger,
		lifecycle: NewLifecycle(logger, nil),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the observer's lifecycle state.
func (o *Observer) State() State {
	return o.lifecycle.State()
}

// View returns the last refreshed view.
func (o *Observer) View() View {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.view
}

// HandleChange is the change source callback. The notification only says
// which scope changed, so the scope is re-read in full.
func (o *Observer) HandleChange(scope ports.Scope) {
	o.logger.Info(scope.String()+" changed", ports.String("scope", scope.String()))
	o.refresh(context.Background(), scope)
}

func (o *Observer) refresh(ctx context.Context, scopes ...ports.Scope) {
	var stack, slots = -1, -1
	for _, s := range scopes {
		switch s {
		case ports.ScopeStack:
			stack = len(o.manager.List(ctx))
		case ports.ScopeSlots:
			slots = len(o.manager.ListSlots(ctx))
		}
	}

	o.mu.Lock()
	if stack >= 0 {
		o.view.StackSize = stack
	}
	if slots >= 0 {
		o.view.SlotCount = slots
	}
	o.view.Refreshes++
	view := o.view
	o.mu.Unlock()

	o.logger.Debug("view refreshed",
		ports.Int("stack_size", view.StackSize),
		ports.Int("slot_count", view.SlotCount))
}

// Run starts observation and blocks until ctx is canceled or a background
// task fails. The change source is stopped before Run returns.
func (o *Observer) Run(ctx context.Context) error {
	if err := o.lifecycle.TransitionTo(StateStarting, "run called"); err != nil {
		return fmt.Errorf("observer: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	o.lifecycle.SetCancel(cancel)

	o.refresh(runCtx, ports.ScopeStack, ports.ScopeSlots)

	if err := o.manager.StartWatching(); err != nil {
		_ = o.lifecycle.TransitionTo(StateCrashed, err.Error())
		return fmt.Errorf("start change source: %w", err)
	}

	g, gctx := errgroup.WithContext(runCtx)
	if o.poller != nil {
		g.Go(func() error {
			return o.poller.Run(gctx)
		})
	}
	if o.sweeper != nil {
		g.Go(func() error {
			return sweepLoop(gctx, o.sweeper, o.sweepEvery, o.logger)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		o.manager.StopWatching()
		return nil
	})

	_ = o.lifecycle.TransitionTo(StateRunning, "change source started")

	<-gctx.Done()
	_ = o.lifecycle.TransitionTo(StateStopping, "context done")

	err := o.lifecycle.WaitWithTimeout(ShutdownTimeout, g.Wait)
	o.manager.StopWatching()

	// Task errors after a requested stop are cancellation fallout, whether
	// the parent was canceled or hit its deadline.
	if err != nil && runCtx.Err() == nil {
		_ = o.lifecycle.TransitionTo(StateCrashed, err.Error())
		return err
	}
	_ = o.lifecycle.TransitionTo(StateStopped, "shutdown complete")
	return nil
}

// Stop cancels a running observer. Run returns once shutdown completes.
func (o *Observer) Stop() {
	if o.lifecycle.CanStop() {
		o.lifecycle.Cancel()
	}
}
