package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bft-labs/handoff/internal/adapters/watch"
	"github.com/bft-labs/handoff/internal/app"
	"github.com/bft-labs/handoff/internal/domain"
	pkglog "github.com/bft-labs/handoff/pkg/log"
)

// DefaultDirName is the storage directory created under the user's home.
const DefaultDirName = ".handoff"

// Config holds CLI configuration for handoff.
type Config struct {
	BaseDir string

	// LogLevel is empty unless configured; commands then pick their own
	// default.
	LogLevel string

	WatchMode         string
	WatchDebounce     time.Duration
	WatchPollInterval time.Duration

	PasteboardInterval time.Duration
	Pasteboard         bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		BaseDir:            DefaultBaseDir(),
		WatchMode:          string(watch.ModeAuto),
		WatchDebounce:      watch.DefaultDebounce,
		WatchPollInterval:  watch.DefaultPollInterval,
		PasteboardInterval: app.DefaultPasteboardInterval,
		Pasteboard:         true,
	}
}

// DefaultBaseDir returns ~/.handoff, or .handoff in the working directory
// when the home directory cannot be determined.
func DefaultBaseDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, DefaultDirName)
	}
	return DefaultDirName
}

// Validate checks the configuration for errors and normalizes paths and
// enumerations.
func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("%w: home directory is required", domain.ErrInvalidConfig)
	}
	dir, err := expandHome(c.BaseDir)
	if err != nil {
		return fmt.Errorf("%w: home: %v", domain.ErrInvalidConfig, err)
	}
	c.BaseDir = dir

	// empty leaves the choice to the command
	if c.LogLevel != "" {
		level, err := pkglog.ParseLevel(c.LogLevel)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
		}
		c.LogLevel = level.String()
	}

	mode, err := watch.ParseMode(c.WatchMode)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	c.WatchMode = string(mode)

	if c.WatchDebounce <= 0 {
		return fmt.Errorf("%w: watch debounce must be positive", domain.ErrInvalidConfig)
	}
	if c.WatchPollInterval <= 0 {
		return fmt.Errorf("%w: watch poll interval must be positive", domain.ErrInvalidConfig)
	}
	if c.PasteboardInterval <= 0 {
		return fmt.Errorf("%w: pasteboard interval must be positive", domain.ErrInvalidConfig)
	}
	return nil
}

// expandHome resolves a leading ~ and makes the path absolute.
func expandHome(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		h, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(h, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(p)
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
