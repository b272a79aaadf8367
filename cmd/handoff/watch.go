package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bft-labs/handoff/internal/adapters/pasteboard"
	"github.com/bft-labs/handoff/internal/adapters/watch"
	"github.com/bft-labs/handoff/internal/app"
	"github.com/bft-labs/handoff/internal/ports"
)

func newWatchCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run in the foreground, following changes and collecting clipboard copies",
		Long: `Run the long-lived observer. It reports stack and slot changes made by
other handoff processes and, when a clipboard utility is available, pushes
newly copied clipboard text onto the stack. Stops on SIGINT or SIGTERM.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd, "info"); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.runWatch(ctx, nil)
		},
	}

	cmd.Flags().StringVar(&c.cfg.WatchMode, "watch-mode", c.cfg.WatchMode, "change detection: auto, native or poll")
	cmd.Flags().DurationVar(&c.cfg.WatchDebounce, "watch-debounce", c.cfg.WatchDebounce, "coalescing window for file events")
	cmd.Flags().DurationVar(&c.cfg.WatchPollInterval, "watch-poll-interval", c.cfg.WatchPollInterval, "sampling interval of the polling fallback")
	cmd.Flags().DurationVar(&c.cfg.PasteboardInterval, "pasteboard-interval", c.cfg.PasteboardInterval, "clipboard sampling interval")
	cmd.Flags().BoolVar(&c.cfg.Pasteboard, "pasteboard", c.cfg.Pasteboard, "push newly copied clipboard text onto the stack")
	return cmd
}

// runWatch runs the observer until ctx is done. pb overrides clipboard
// detection when non-nil.
func (c *cli) runWatch(ctx context.Context, pb ports.Pasteboard) error {
	store := c.store()
	if err := store.EnsureDirs(); err != nil {
		return err
	}
	manager := app.NewManager(store, app.WithLogger(c.logger))
	defer manager.Close()

	opts := []app.ObserverOption{app.WithTempSweeper(store, app.DefaultSweepInterval)}
	polling := false
	if c.cfg.Pasteboard {
		if pb == nil {
			pb = pasteboard.Detect(c.logger)
		}
		if _, headless := pb.(pasteboard.Headless); !headless {
			opts = append(opts, app.WithPoller(app.NewPasteboardPoller(manager, pb, c.cfg.PasteboardInterval, c.logger)))
			polling = true
		}
	}
	observer := app.NewObserver(manager, c.logger, opts...)

	mode, err := watch.ParseMode(c.cfg.WatchMode)
	if err != nil {
		return err
	}
	src, err := watch.NewSource(mode, watch.Options{
		StackPath:    store.StackPath(),
		NamedDir:     store.NamedDir(),
		Filter:       store,
		Debounce:     c.cfg.WatchDebounce,
		PollInterval: c.cfg.WatchPollInterval,
		Logger:       c.logger,
	}, observer.HandleChange)
	if err != nil {
		return err
	}
	manager.AttachWatcher(src)

	c.logger.Info("watching",
		ports.String("home", c.cfg.BaseDir),
		ports.String("mode", string(mode)),
		ports.Bool("pasteboard", polling))

	if err := observer.Run(ctx); err != nil {
		return err
	}
	view := observer.View()
	c.logger.Info("stopped",
		ports.Int("stack_size", view.StackSize),
		ports.Int("slot_count", view.SlotCount),
		ports.Int("refreshes", view.Refreshes))
	return nil
}
