package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/keymap/internal/logging"
)

// Environment variables read by SettingsFromEnv.
const (
	EnvConfig          = "KEYMAP_CONFIG"
	EnvLogLevel        = "KEYMAP_LOG_LEVEL"
	EnvSequenceTimeout = "KEYMAP_SEQUENCE_TIMEOUT"
)

// Settings are the process-level options that do not live in a binding
// file.
type Settings struct {
	// ConfigPath is the binding file. Empty means built-in defaults only.
	ConfigPath string

	// LogLevel is the minimum level written to the log.
	LogLevel logging.Level

	// SequenceTimeout bounds the wait between keys of a sequence.
	SequenceTimeout time.Duration
}

// DefaultSettings returns settings with the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		ConfigPath:      DefaultConfigPath(),
		LogLevel:        logging.LevelInfo,
		SequenceTimeout: time.Second,
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/keymap/keymap.toml or the
// platform equivalent, or "" when no config directory is known.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "keymap", "keymap.toml")
}

// SettingsFromEnv overlays environment variables on the defaults.
func SettingsFromEnv() (Settings, error) {
	return SettingsFrom(os.LookupEnv)
}

// SettingsFrom is SettingsFromEnv with a custom lookup function.
// Empty values are treated as unset.
func SettingsFrom(lookup func(string) (string, bool)) (Settings, error) {
	s := DefaultSettings()

	if v, ok := lookupNonEmpty(lookup, EnvConfig); ok {
		s.ConfigPath = os.ExpandEnv(v)
	}

	if v, ok := lookupNonEmpty(lookup, EnvLogLevel); ok {
		level, known := logging.ParseLevel(v)
		if !known {
			return s, fmt.Errorf("%s: unknown log level %q", EnvLogLevel, v)
		}
		s.LogLevel = level
	}

	if v, ok := lookupNonEmpty(lookup, EnvSequenceTimeout); ok {
		d, err := parseDuration(v)
		if err != nil {
			return s, fmt.Errorf("%s: %w", EnvSequenceTimeout, err)
		}
		s.SequenceTimeout = d
	}

	return s, nil
}

func lookupNonEmpty(lookup func(string) (string, bool), name string) (string, bool) {
	v, ok := lookup(name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// parseDuration accepts Go durations ("750ms") and bare milliseconds ("750").
func parseDuration(s string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("negative duration %q", s)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}
