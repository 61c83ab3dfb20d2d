package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{Level: "DEBUG", Format: "json"})
	l.Debug("drag started", "anchor", "2024-01-10")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "drag started", rec["msg"])
	assert.Equal(t, "2024-01-10", rec["anchor"])
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{Level: "WARN"})
	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("RANGECAL_DEBUG", "1")
	t.Setenv("LOG_FORMAT", "json")
	cfg := Config{Level: "INFO", Format: "text"}.FromEnv()
	assert.Equal(t, "DEBUG", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
}

func TestSetupWritesToFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "logs", "rangecal.log")
	l, closeFn, err := Setup(Config{Level: "INFO", File: path})
	require.NoError(t, err)
	l.Info("window settled", "center", "2024-02")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "window settled"))
}

func TestOr(t *testing.T) {
	assert.Equal(t, slog.Default(), Or(nil))
	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Equal(t, l, Or(l))
}
