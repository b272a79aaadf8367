package app

import (
	"context"
	"time"

	"github.com/bft-labs/handoff/internal/ports"
)

const (
	// DefaultSweepInterval is how often the observer looks for abandoned
	// temporary files.
	DefaultSweepInterval = time.Hour

	// StaleTempAge is the age past which a temporary file is considered
	// abandoned.
	StaleTempAge = 10 * time.Minute
)

// sweepLoop removes stale temporary files once immediately and then on every
// interval until ctx is canceled.
func sweepLoop(ctx context.Context, sweeper ports.TempSweeper, interval time.Duration, logger ports.Logger) error {
	sweepOnce(ctx, sweeper, logger)

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			sweepOnce(ctx, sweeper, logger)
		}
	}
}

func sweepOnce(ctx context.Context, sweeper ports.TempSweeper, logger ports.Logger) {
	n, err := sweeper.RemoveStaleTemps(ctx, StaleTempAge)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("temp file sweep failed", ports.Err(err))
		}
		return
	}
	if n > 0 {
		logger.Info("removed abandoned temp files", ports.Int("count", n))
	}
}
