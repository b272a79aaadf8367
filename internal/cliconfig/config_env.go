package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (HANDOFF_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("home", os.Getenv("HANDOFF_HOME"), &cfg.BaseDir)
	s.setString("log-level", os.Getenv("HANDOFF_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("watch-mode", os.Getenv("HANDOFF_WATCH_MODE"), &cfg.WatchMode)

	if err := s.setDuration("watch-debounce", os.Getenv("HANDOFF_WATCH_DEBOUNCE"), &cfg.WatchDebounce); err != nil {
		return err
	}
	if err := s.setDuration("watch-poll-interval", os.Getenv("HANDOFF_WATCH_POLL_INTERVAL"), &cfg.WatchPollInterval); err != nil {
		return err
	}
	if err := s.setDuration("pasteboard-interval", os.Getenv("HANDOFF_PASTEBOARD_INTERVAL"), &cfg.PasteboardInterval); err != nil {
		return err
	}

	s.setBoolFromString("pasteboard", os.Getenv("HANDOFF_PASTEBOARD"), &cfg.Pasteboard)
	return nil
}
