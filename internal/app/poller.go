package app

import (
	"context"
	"time"

	logAdapter "github.com/bft-labs/handoff/internal/adapters/log"
	"github.com/bft-labs/handoff/internal/ports"
)

// DefaultPasteboardInterval is how often the poller samples the pasteboard.
const DefaultPasteboardInterval = 500 * time.Millisecond

// PasteboardPoller copies new pasteboard text onto the stack.
//
// The change counter is sampled once at start, so whatever is already on the
// pasteboard is not pushed. After that a new counter value triggers a push
// unless the text is empty or already on top of the stack.
type PasteboardPoller struct {
	manager    *Manager
	pasteboard ports.Pasteboard
	interval   time.Duration
	logger     ports.Logger

	lastCount uint64
}

// NewPasteboardPoller creates a poller. A non-positive interval selects
// DefaultPasteboardInterval.
func NewPasteboardPoller(manager *Manager, pb ports.Pasteboard, interval time.Duration, logger ports.Logger) *PasteboardPoller {
	if interval <= 0 {
		interval = DefaultPasteboardInterval
	}
	if logger == nil {
		logger = logAdapter.NewNoopLogger()
	}
	return &PasteboardPoller{
		manager:    manager,
		pasteboard: pb,
		interval:   interval,
		logger:     logger,
	}
}

// Run polls until ctx is canceled. It always returns ctx.Err().
func (p *PasteboardPoller) Run(ctx context.Context) error {
	count, err := p.pasteboard.ChangeCount()
	if err != nil {
		p.logger.Warn("pasteboard unavailable", ports.Err(err))
	}
	p.lastCount = count

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// poll performs one sample.
func (p *PasteboardPoller) poll(ctx context.Context) {
	count, err := p.pasteboard.ChangeCount()
	if err != nil {
		p.logger.Debug("pasteboard change count failed", ports.Err(err))
		return
	}
	if count == p.lastCount {
		return
	}
	p.lastCount = count

	text, err := p.pasteboard.ReadText()
	if err != nil {
		p.logger.Warn("pasteboard read failed", ports.Err(err))
		return
	}
	if text == "" {
		return
	}
	if items := p.manager.List(ctx); len(items) > 0 && items[0].Content == text {
		return
	}

	if err := p.manager.Push(ctx, text); err != nil {
		p.logger.Warn("push from pasteboard failed", ports.Err(err))
		return
	}
	p.logger.Debug("pushed pasteboard text",
		ports.Int("bytes", len(text)),
		ports.Uint64("change_count", count))
}
