package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"

	"pairmerge/internal/config"
)

// LogFileName is the rotating log file created inside Logging.Dir.
const LogFileName = "pairmerge.log"

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Console receives human-facing output. Nil means os.Stderr.
	Console io.Writer
	// ConsoleLevel raises the console threshold above Level (used by --quiet).
	// Empty keeps Level.
	ConsoleLevel string
	// FilePath enables an additional JSON log file rotated by size.
	FilePath    string
	MaxSizeMB   int
	MaxBackups  int
	Development bool
}

// New constructs a slog logger using the provided options. The returned
// closer releases the log file, if any, and is always non-nil.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	addSource := opts.Development || level <= slog.LevelDebug

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	var consoleHandler slog.Handler
	switch format {
	case "", "console":
		consoleHandler = newConsoleHandler(console, levelVar, addSource)
	case "json":
		consoleHandler = newJSONHandler(console, levelVar, addSource)
	default:
		return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
	if strings.TrimSpace(opts.ConsoleLevel) != "" {
		consoleLevel, err := ParseLevel(opts.ConsoleLevel)
		if err != nil {
			return nil, nil, err
		}
		consoleHandler = newMinLevelHandler(consoleHandler, consoleLevel)
	}

	var closer io.Closer = nopCloser{}
	var fileHandler slog.Handler
	if path := strings.TrimSpace(opts.FilePath); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("ensure log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		fileHandler = newJSONHandler(rotator, levelVar, true)
		closer = rotator
	}

	handler := newContextHandler(newTeeHandler(consoleHandler, fileHandler))
	return slog.New(handler), closer, nil
}

// NewFromConfig creates a logger from the [logging] section. quiet limits the
// console to warnings and errors without affecting the log file.
func NewFromConfig(cfg *config.Config, console io.Writer, quiet bool) (*slog.Logger, io.Closer, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console", Console: console})
	}

	opts := Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Console:    console,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	}
	if cfg.Logging.Dir != "" {
		opts.FilePath = filepath.Join(cfg.Logging.Dir, LogFileName)
	}
	if quiet {
		opts.ConsoleLevel = "warn"
	}
	return New(opts)
}

// NewRunID returns a fresh identifier for one invocation.
func NewRunID() string {
	return uuid.NewString()
}

// ParseLevel maps a textual level onto slog levels. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log level: unsupported value %q", level)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
