package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultConfigFile is read from the working directory when --config is not given.
const DefaultConfigFile = "pseudo.toml"

// Config holds the command-line tool's settings.
type Config struct {
	Output      OutputConfig      `toml:"output"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	REPL        REPLConfig        `toml:"repl"`
	Watch       WatchConfig       `toml:"watch"`
	Log         LogConfig         `toml:"log"`
}

// OutputConfig controls where and how a successful tree is written.
type OutputConfig struct {
	Format   string `toml:"format"`   // json, yaml or sexpr
	Path     string `toml:"path"`     // "-" writes to stdout
	Envelope bool   `toml:"envelope"` // wrap the tree with run metadata
}

// DiagnosticsConfig controls console presentation.
type DiagnosticsConfig struct {
	Color string `toml:"color"` // auto, always or never
}

// REPLConfig holds interactive session settings.
type REPLConfig struct {
	HistoryFile string `toml:"history_file"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	Debounce Duration `toml:"debounce"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.expandEnvVars()
	return cfg
}

// LoadConfig loads configuration from a TOML file. If path is empty the
// default file is used when it exists, and built-in defaults otherwise.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	path = os.ExpandEnv(path)

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = "json"
	}
	if c.Output.Path == "" {
		c.Output.Path = "AST." + c.Output.Format
	}
	if c.Diagnostics.Color == "" {
		c.Diagnostics.Color = "auto"
	}
	if c.REPL.HistoryFile == "" {
		c.REPL.HistoryFile = "$HOME/.pseudo_history"
	}
	if c.Watch.Debounce.Duration == 0 {
		c.Watch.Debounce.Duration = 100 * time.Millisecond
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// expandEnvVars expands environment variables in path settings
func (c *Config) expandEnvVars() {
	c.Output.Path = os.ExpandEnv(c.Output.Path)
	c.REPL.HistoryFile = os.ExpandEnv(c.REPL.HistoryFile)
}

// Validate reports the first setting with an unsupported value.
func (c *Config) Validate() error {
	if _, err := ParseFormat(c.Output.Format); err != nil {
		return err
	}
	switch c.Diagnostics.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("unknown color mode %q (want auto, always or never)", c.Diagnostics.Color)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Watch.Debounce.Duration < 0 {
		return fmt.Errorf("watch debounce must not be negative")
	}
	return nil
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}
