package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDisabledDiscards(t *testing.T) {
	t.Cleanup(func() { Init(Options{}) })

	Init(Options{})
	assert.False(t, L.Enabled(t.Context(), slog.LevelError))
}

func TestInitText(t *testing.T) {
	t.Cleanup(func() { Init(Options{}) })

	var buf bytes.Buffer
	Init(Options{Enabled: true, Output: &buf, Level: slog.LevelInfo})
	Debug("hidden")
	Info("chunk", "size", 4096)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "msg=chunk")
	assert.Contains(t, out, "size=4096")
}

func TestInitJSON(t *testing.T) {
	t.Cleanup(func() { Init(Options{}) })

	var buf bytes.Buffer
	Init(Options{Enabled: true, Output: &buf, Level: slog.LevelWarn, JSON: true})
	Info("hidden")
	Warn("slow", "ms", 12)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "slow", rec["msg"])
	assert.EqualValues(t, 12, rec["ms"])
}
