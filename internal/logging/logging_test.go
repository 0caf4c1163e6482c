package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn)

	log.Info("hidden %d", 1)
	log.Warn("anchor for %q not found", "총결제금액")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `anchor for \"총결제금액\" not found`)
}

func TestOpenTeesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "orderdoc.log")
	var console bytes.Buffer

	log, closer, err := Open(path, "info", &console)
	require.NoError(t, err)
	log.Info("saved input %d", 7)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "saved input 7")
	assert.Contains(t, console.String(), "saved input 7")
}

func TestOpenConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	log, closer, err := Open("", "debug", &console)
	require.NoError(t, err)
	require.NotNil(t, closer)
	log.Debug("x")
	assert.Contains(t, console.String(), "level=DEBUG")
	assert.NoError(t, closer.Close())
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	log.Error("nothing %s", "here")
}
