package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewZerolog_WritesToBoth(t *testing.T) {
	var console, file bytes.Buffer
	log := NewZerolog(&console, &file, "debug")

	log.Debug().Str("kind", "sqlite").Msg("Connected to database")

	assert.Contains(t, console.String(), "Connected to database")
	assert.Contains(t, file.String(), "Connected to database")
	assert.Contains(t, file.String(), "kind=sqlite")
}

func TestNewZerolog_Level(t *testing.T) {
	var console bytes.Buffer

	log := NewZerolog(&console, nil, "warn")
	log.Info().Msg("hidden")
	assert.Empty(t, console.String())

	log = NewZerolog(&console, nil, "bogus")
	log.Debug().Msg("hidden")
	log.Info().Msg("shown")
	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shown")
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "failed to parse log output")
	return entry
}

func TestCommandLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	cl := NewCommandLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	cl.Debug("command handled", "command", ":FILTER:YEAR:TOGGLE:", "args", 1, 7, "skipped", "dangling")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "command handled", entry["message"])
	assert.Equal(t, "dispatcher", entry["component"])
	assert.Equal(t, ":FILTER:YEAR:TOGGLE:", entry["command"])
	assert.Equal(t, float64(1), entry["args"])
	assert.NotContains(t, entry, "dangling")
}

func TestCommandLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	cl := NewCommandLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	cl.Debug("hidden")
	assert.Empty(t, buf.String())

	cl.Info("shown", "status", "ok")
	assert.Equal(t, "info", decodeLine(t, &buf)["level"])

	buf.Reset()
	cl.Error("command failed", "command", ":FILTER:RESET:")
	entry := decodeLine(t, &buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, ":FILTER:RESET:", entry["command"])
}
