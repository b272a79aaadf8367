package watch

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/handoff/internal/ports"
)

// Watcher observes the stack file and the slot directory with fsnotify.
//
// The storage root is watched rather than the stack file itself because an
// atomic replace swaps the file's inode; a watch on the old inode would go
// silent after the first write.
type Watcher struct {
	opts    Options
	handler ports.ChangeHandler

	opMu sync.Mutex
	run  runner
}

// New creates a Watcher. It does nothing until Start is called.
func New(opts Options, handler ports.ChangeHandler) *Watcher {
	return &Watcher{
		opts:    opts.withDefaults(),
		handler: handler,
	}
}

// Start begins observation, replacing any observation already in progress.
// The watched directories are created if they do not exist yet.
func (w *Watcher) Start() error {
	w.opMu.Lock()
	defer w.opMu.Unlock()

	w.run.stop()

	baseDir := dirOf(w.opts.StackPath)
	for _, dir := range []string{baseDir, w.opts.NamedDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("watch: create %s: %w", dir, err)
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	for _, dir := range []string{baseDir, w.opts.NamedDir} {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return fmt.Errorf("watch: add %s: %w", dir, err)
		}
	}

	w.run.start(func(ctx context.Context) {
		defer fw.Close()
		w.loop(ctx, fw)
	})
	w.opts.Logger.Debug("change watcher started",
		ports.String("stack", w.opts.StackPath),
		ports.String("named", w.opts.NamedDir))
	return nil
}

// Stop ends observation. It is a no-op when the watcher is not active.
func (w *Watcher) Stop() {
	w.opMu.Lock()
	defer w.opMu.Unlock()
	w.run.stop()
}

// Active reports whether the watcher is observing.
func (w *Watcher) Active() bool {
	return w.run.active()
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	var batch pending

	// armed only while a batch is pending; a stray fire flushes nothing
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			scope, ok := w.opts.classify(event.Name)
			if !ok {
				continue
			}
			if w.opts.isOwnWrite(event.Name) {
				continue
			}
			if batch.empty() {
				timer.Reset(w.opts.Debounce)
			}
			batch.add(scope)

		case <-timer.C:
			batch.flush(w.handler)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.opts.Logger.Warn("change watcher error", ports.Err(err))
		}
	}
}

var _ ports.ChangeSource = (*Watcher)(nil)
