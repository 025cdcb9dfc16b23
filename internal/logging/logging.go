// Package logging builds the zerolog logger shared by every hotkeyd component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
	// File, when set, receives a JSON copy of every entry.
	File string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a logger writing to stderr and, if cfg.File is set, to that
// file. The returned Closer releases the file.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg Config, stderr io.Writer) (zerolog.Logger, io.Closer, error) {
	var output io.Writer = stderr
	if cfg.Format != "json" {
		output = zerolog.ConsoleWriter{Out: stderr, TimeFormat: cfg.TimeFormat}
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		output = zerolog.MultiLevelWriter(output, f)
		closer = f
	}

	log := zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
	return log, closer, nil
}

// ParseLevel accepts trace, debug, info, warn, error. Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

// ApplyEnv overrides cfg from the environment.
// HOTKEYD_LOG_LEVEL: trace, debug, info, warn, error
// HOTKEYD_LOG_FORMAT: json, console
func ApplyEnv(cfg Config) Config {
	if level := os.Getenv("HOTKEYD_LOG_LEVEL"); level != "" {
		if lvl, err := ParseLevel(level); err == nil {
			cfg.Level = lvl
		}
	}
	if format := os.Getenv("HOTKEYD_LOG_FORMAT"); format != "" {
		switch format {
		case "json", "console":
			cfg.Format = format
		}
	}
	return cfg
}

// NewFromEnv creates a stderr logger based on environment variables only.
// It is used before the configuration file has been read.
func NewFromEnv() zerolog.Logger {
	log, _, _ := New(ApplyEnv(DefaultConfig()))
	return log
}

// DefaultLogPath returns the platform-specific log file path
func DefaultLogPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Logs")
	case "windows":
		base = os.Getenv("LOCALAPPDATA")
	default:
		if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
			base = xdg
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".local", "state")
		}
	}

	return filepath.Join(base, "hotkeyd", "hotkeyd.log")
}
