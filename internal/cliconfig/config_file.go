package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Home               string `toml:"home"`
	LogLevel           string `toml:"log_level"`
	WatchMode          string `toml:"watch_mode"`
	WatchDebounce      string `toml:"watch_debounce"`
	WatchPollInterval  string `toml:"watch_poll_interval"`
	PasteboardInterval string `toml:"pasteboard_interval"`
	Pasteboard         *bool  `toml:"pasteboard"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.handoff/config.toml, or "" if the user home
// directory is not accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, DefaultDirName, "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("home", fc.Home, &cfg.BaseDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("watch-mode", fc.WatchMode, &cfg.WatchMode)

	if err := s.setDuration("watch-debounce", fc.WatchDebounce, &cfg.WatchDebounce); err != nil {
		return err
	}
	if err := s.setDuration("watch-poll-interval", fc.WatchPollInterval, &cfg.WatchPollInterval); err != nil {
		return err
	}
	if err := s.setDuration("pasteboard-interval", fc.PasteboardInterval, &cfg.PasteboardInterval); err != nil {
		return err
	}

	s.setBool("pasteboard", fc.Pasteboard, &cfg.Pasteboard)
	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
