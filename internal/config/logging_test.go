package config

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

func TestLogOptions_Level(t *testing.T) {
	tests := []struct {
		opts LogOptions
		want slog.Level
	}{
		{LogOptions{}, slog.LevelInfo},
		{LogOptions{Verbose: true}, slog.LevelDebug},
		{LogOptions{Quiet: true}, slog.LevelError},
		{LogOptions{Verbose: true, Quiet: true}, slog.LevelError},
	}
	for _, tt := range tests {
		if got := tt.opts.Level(); got != tt.want {
			t.Errorf("Level(%+v) = %v, want %v", tt.opts, got, tt.want)
		}
	}
}

func TestNewLogger_StderrOnly(t *testing.T) {
	var buf bytes.Buffer
	log, closer := NewLogger(&buf, LogOptions{})
	defer closer.Close()

	log.Debug("hidden")
	log.Info("shown", "items", 2)
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "items=2")
}

func TestNewLogger_FileGetsJSONAndDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	var buf bytes.Buffer
	log, closer := NewLogger(&buf, LogOptions{Quiet: true, File: path})

	log.With("run", "abc").Debug("detail", "n", 1)
	require.NoError(t, closer.Close())

	assert.Empty(t, buf.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &rec))
	assert.Equal(t, "detail", rec["msg"])
	assert.Equal(t, "abc", rec["run"])
	assert.Equal(t, float64(1), rec["n"])
}
