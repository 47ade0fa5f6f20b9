package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithComponentWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Configure(Config{Level: "info", Output: &buf}))
	t.Cleanup(func() { Close() })

	log := WithComponent("session")
	log.Info().Str("workout", "w1").Msg("session started")
	log.Debug().Msg("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "session", entry["component"])
	assert.Equal(t, "w1", entry["workout"])
	assert.Equal(t, "session started", entry["message"])
	assert.Equal(t, "info", entry["level"])
}

func TestDebugFlagOverridesLevel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Configure(Config{Level: "warn", Debug: true, Output: &buf}))
	t.Cleanup(func() { Close() })

	base := Base()
	base.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestInvalidLevel(t *testing.T) {
	err := Configure(Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "grind.log")
	require.NoError(t, Configure(Config{File: path}))

	log := WithComponent("db")
	log.Info().Msg("opened")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"db"`)
}

func TestCloseResetsToNop(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Configure(Config{Output: &buf}))
	require.NoError(t, Close())

	base := Base()
	base.Error().Msg("dropped")
	assert.Empty(t, buf.String())
}
