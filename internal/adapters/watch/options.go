package watch

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bft-labs/handoff/internal/adapters/fs"
	logAdapter "github.com/bft-labs/handoff/internal/adapters/log"
	"github.com/bft-labs/handoff/internal/ports"
)

// Mode selects the change detection strategy.
type Mode string

const (
	// ModeAuto uses native notification and falls back to polling.
	ModeAuto Mode = "auto"
	// ModeNative uses fsnotify only.
	ModeNative Mode = "native"
	// ModePoll compares modification stamps on an interval.
	ModePoll Mode = "poll"
)

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAuto, ModeNative, ModePoll:
		return m, nil
	case "":
		return ModeAuto, nil
	default:
		return "", fmt.Errorf("unknown watch mode %q (want auto, native or poll)", s)
	}
}

// Options configures a change source.
type Options struct {
	// StackPath is the stack file to observe.
	StackPath string

	// NamedDir is the directory of slot files to observe.
	NamedDir string

	// Filter suppresses events caused by this process. Optional.
	Filter ports.OwnWriteFilter

	// Debounce coalesces bursts of events into one notification per scope.
	// Default: 50 milliseconds
	Debounce time.Duration

	// PollInterval is the sampling interval of the polling fallback.
	// Default: 1 second
	PollInterval time.Duration

	// Logger receives watcher diagnostics. Default: no-op.
	Logger ports.Logger
}

// DefaultDebounce and DefaultPollInterval are applied to zero Options fields.
const (
	DefaultDebounce     = 50 * time.Millisecond
	DefaultPollInterval = time.Second
)

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.Logger == nil {
		o.Logger = logAdapter.NewNoopLogger()
	}
	o.StackPath = filepath.Clean(o.StackPath)
	o.NamedDir = filepath.Clean(o.NamedDir)
	return o
}

// classify maps a path to the scope it belongs to.
func (o Options) classify(path string) (ports.Scope, bool) {
	path = filepath.Clean(path)
	if path == o.StackPath {
		return ports.ScopeStack, true
	}
	if filepath.Dir(path) == o.NamedDir && fs.IsSlotFile(filepath.Base(path)) {
		return ports.ScopeSlots, true
	}
	return 0, false
}

func (o Options) isOwnWrite(path string) bool {
	return o.Filter != nil && o.Filter.IsOwnWrite(path)
}

// NewSource returns the change source for mode.
func NewSource(mode Mode, opts Options, handler ports.ChangeHandler) (ports.ChangeSource, error) {
	switch mode {
	case ModeNative:
		return New(opts, handler), nil
	case ModePoll:
		return NewPolling(opts, handler), nil
	case ModeAuto, "":
		return newAuto(opts, handler), nil
	default:
		return nil, fmt.Errorf("unknown watch mode %q", mode)
	}
}
