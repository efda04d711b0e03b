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
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel(" WARN "))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestNewHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	slog.New(newHandler(&buf, "info", "text")).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")

	buf.Reset()
	slog.New(newHandler(&buf, "info", "json")).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestNewWritesToLogFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "photogrid.log")
	logger, cleanup, err := New("debug", "json", path)
	require.NoError(t, err)

	logger.Debug("gallery loaded", "images", 2)
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "gallery loaded")
}
