package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bft-labs/handoff/internal/adapters/fs"
	"github.com/bft-labs/handoff/internal/ports"
)

// PollingWatcher detects changes by comparing modification stamps of the
// stack file and every slot file on a fixed interval.
type PollingWatcher struct {
	opts    Options
	handler ports.ChangeHandler

	opMu sync.Mutex
	run  runner
}

type fileStamp struct {
	size    int64
	modTime time.Time
}

// NewPolling creates a PollingWatcher. It does nothing until Start is called.
func NewPolling(opts Options, handler ports.ChangeHandler) *PollingWatcher {
	return &PollingWatcher{
		opts:    opts.withDefaults(),
		handler: handler,
	}
}

// Start takes a baseline snapshot and begins polling, replacing any
// observation already in progress.
func (p *PollingWatcher) Start() error {
	p.opMu.Lock()
	defer p.opMu.Unlock()

	p.run.stop()

	baseline := p.snapshot()
	p.run.start(func(ctx context.Context) {
		p.loop(ctx, baseline)
	})
	p.opts.Logger.Debug("polling change watcher started",
		ports.Duration("interval", p.opts.PollInterval))
	return nil
}

// Stop ends observation. It is a no-op when the watcher is not active.
func (p *PollingWatcher) Stop() {
	p.opMu.Lock()
	defer p.opMu.Unlock()
	p.run.stop()
}

// Active reports whether the watcher is observing.
func (p *PollingWatcher) Active() bool {
	return p.run.active()
}

func (p *PollingWatcher) loop(ctx context.Context, prev map[string]fileStamp) {
	ticker := time.NewTicker(p.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := p.snapshot()
			var batch pending
			for _, path := range changedPaths(prev, cur) {
				scope, ok := p.opts.classify(path)
				if !ok || p.opts.isOwnWrite(path) {
					continue
				}
				batch.add(scope)
			}
			prev = cur
			batch.flush(p.handler)
		}
	}
}

// snapshot stats the stack file and all slot files. Missing files are simply
// absent from the map.
func (p *PollingWatcher) snapshot() map[string]fileStamp {
	stamps := make(map[string]fileStamp)

	if fi, err := os.Stat(p.opts.StackPath); err == nil {
		stamps[p.opts.StackPath] = fileStamp{size: fi.Size(), modTime: fi.ModTime()}
	}

	entries, err := os.ReadDir(p.opts.NamedDir)
	if err != nil {
		return stamps
	}
	for _, e := range entries {
		if e.IsDir() || !fs.IsSlotFile(e.Name()) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(p.opts.NamedDir, e.Name())
		stamps[path] = fileStamp{size: fi.Size(), modTime: fi.ModTime()}
	}
	return stamps
}

// changedPaths returns paths added, removed or modified between two snapshots.
func changedPaths(prev, cur map[string]fileStamp) []string {
	var changed []string
	for path, c := range cur {
		if p, ok := prev[path]; !ok || p.size != c.size || !p.modTime.Equal(c.modTime) {
			changed = append(changed, path)
		}
	}
	for path := range prev {
		if _, ok := cur[path]; !ok {
			changed = append(changed, path)
		}
	}
	return changed
}

var _ ports.ChangeSource = (*PollingWatcher)(nil)
