package config

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/cwygoda/tipwatch/internal/domain"
)

// Defaults applied when the config file leaves a field unset.
const (
	DefaultIntervalMinutes = 30
	DefaultStartupDelay    = 15 * time.Second
)

// Settings holds the static process configuration resolved once at startup.
// The polling behavior itself lives in the TOML file and is re-read each
// cycle via File.
type Settings struct {
	ConfigPath   string
	StatePath    string
	StartupDelay time.Duration
}

// DefaultStatePath returns the default database path using XDG_STATE_HOME.
func DefaultStatePath() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, _ := os.UserHomeDir()
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "tipwatch", "state.db")
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "tipwatch", "config.toml")
}

// Load parses flags and environment to build Settings.
func Load() *Settings {
	s := &Settings{}

	flag.StringVar(&s.ConfigPath, "config", DefaultConfigPath(), "TOML config file path")
	flag.StringVar(&s.StatePath, "state", DefaultStatePath(), "SQLite state database path")
	flag.DurationVar(&s.StartupDelay, "startup-delay", DefaultStartupDelay, "Delay before the first check")
	flag.Parse()

	// Env overrides
	if path := os.Getenv("TIPWATCH_CONFIG"); path != "" {
		s.ConfigPath = path
	}
	if path := os.Getenv("TIPWATCH_STATE"); path != "" {
		s.StatePath = path
	}

	return s
}

// RefreshSpec describes the downstream refresh command.
type RefreshSpec struct {
	Name    string   `toml:"name"`
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// Values is the full parsed content of the config file.
type Values struct {
	Enabled         *bool       `toml:"plugin_enabled"`
	IntervalMinutes int         `toml:"check_interval_minutes"`
	RepoURL         string      `toml:"repo_url"`
	Refresh         RefreshSpec `toml:"refresh"`
}

// File reads the TOML config file. It implements domain.ConfigSource by
// re-reading the file on every Snapshot, so edits take effect on the next
// cycle without a restart.
type File struct {
	path string
}

// NewFile creates a config source for the given TOML file path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Read parses the config file. A missing file yields the defaults.
func (f *File) Read() (Values, error) {
	values := Values{IntervalMinutes: DefaultIntervalMinutes}

	if _, err := os.Stat(f.path); os.IsNotExist(err) {
		return values, nil
	}
	if _, err := toml.DecodeFile(f.path, &values); err != nil {
		return Values{}, fmt.Errorf("%w: %v", domain.ErrConfigInvalid, err)
	}
	if values.IntervalMinutes == 0 {
		values.IntervalMinutes = DefaultIntervalMinutes
	}
	if values.IntervalMinutes < 0 {
		return Values{}, fmt.Errorf("%w: check_interval_minutes must be >= 1", domain.ErrConfigInvalid)
	}
	return values, nil
}

// Snapshot implements domain.ConfigSource.
func (f *File) Snapshot(ctx context.Context) (domain.PollConfig, error) {
	values, err := f.Read()
	if err != nil {
		return domain.PollConfig{}, err
	}

	enabled := true
	if values.Enabled != nil {
		enabled = *values.Enabled
	}
	minutes := values.IntervalMinutes
	if minutes < 1 {
		minutes = 1
	}

	return domain.PollConfig{
		Enabled:  enabled,
		Interval: time.Duration(minutes) * time.Minute,
		RepoURL:  values.RepoURL,
	}, nil
}
