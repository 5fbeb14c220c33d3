package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}

func TestLevel_toSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelDebug.toSlogLevel())
	assert.Equal(t, slog.LevelInfo, LevelInfo.toSlogLevel())
	assert.Equal(t, slog.LevelWarn, LevelWarn.toSlogLevel())
	assert.Equal(t, slog.LevelError, LevelError.toSlogLevel())
	assert.Equal(t, slog.LevelInfo, Level(-7).toSlogLevel(), "unknown defaults to info")
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Output: &buf})

	logger.Info("hidden")
	logger.Warn("cell has no candidates left", "index", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "index=4")
}

func TestNew_ZeroConfigLogsInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf})

	logger.Debug("collapsed cell")
	logger.Info("terrain expanded")

	assert.Equal(t, LevelInfo, Config{}.Level)
	assert.NotContains(t, buf.String(), "collapsed cell")
	assert.Contains(t, buf.String(), "terrain expanded")
}

func TestNew_JSONWithService(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, JSON: true, Service: "wavegrid", Output: &buf})

	logger.Debug("collapsed cell", "index", 7, "value", 2)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "collapsed cell", record["msg"])
	assert.Equal(t, "wavegrid", record["service"])
	assert.EqualValues(t, 7, record["index"])
}

func TestNop(t *testing.T) {
	logger := Nop()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
	assert.NotPanics(t, func() { logger.Error("dropped") })
}
