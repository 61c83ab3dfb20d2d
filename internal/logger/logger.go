package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config controls logger construction.
type Config struct {
	Level  string
	Format string
	// File is the log destination. When empty and TUIMode is set, logs go
	// to <user cache dir>/rangecal/rangecal.log because the terminal belongs
	// to the UI.
	File    string
	TUIMode bool
}

// FromEnv fills unset fields from LOG_LEVEL, LOG_FORMAT and RANGECAL_DEBUG.
func (c Config) FromEnv() Config {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		c.Level = lvl
	} else if dbg := os.Getenv("RANGECAL_DEBUG"); dbg == "1" || dbg == "true" {
		c.Level = "DEBUG"
	}
	if f := os.Getenv("LOG_FORMAT"); f != "" {
		c.Format = f
	}
	return c
}

// ParseLevel maps a level name onto slog.Level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger writing to w.
func New(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Setup builds the process logger, installs it as slog's default and
// returns it with a close func for the underlying file, if any.
func Setup(cfg Config) (*slog.Logger, func() error, error) {
	var w io.Writer = os.Stderr
	closeFn := func() error { return nil }

	path := cfg.File
	if path == "" && cfg.TUIMode {
		p, err := DefaultFile()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}

	l := New(w, cfg)
	slog.SetDefault(l)
	return l, closeFn, nil
}

// DefaultFile returns the log file used in TUI mode.
func DefaultFile() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get cache directory: %w", err)
	}
	return filepath.Join(dir, "rangecal", "rangecal.log"), nil
}

// Or returns l, or slog.Default() when l is nil.
func Or(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
