package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpggio/pnaas/internal/config"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(config.LogConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)
	defer closeFn()

	logger.Debug("hidden")
	logger.Info("project submitted", "resid", "abc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "project submitted", entry["msg"])
	require.Equal(t, "abc", entry["resid"])
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(config.LogConfig{Level: "debug", Format: "pretty"}, &buf)
	require.NoError(t, err)

	logger.Debug("query", "rows", 3)
	require.Contains(t, buf.String(), "query")
	require.Contains(t, buf.String(), "rows=3")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pnaas.log")
	logger, closeFn, err := New(config.LogConfig{Level: "info", Format: "text", Path: path}, os.Stdout)
	require.NoError(t, err)

	logger.Info("hello")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "msg=hello")
}

func TestFileWriter_Trims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.log")
	w, err := openFile(path, 64, 16)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	_, err = w.Write([]byte(strings.Repeat("a", 60)))
	require.NoError(t, err)
	_, err = w.Write([]byte("0123456789ABCDEF"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "0123456789ABCDEF", string(data))

	_, err = w.Write([]byte("!"))
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "0123456789ABCDEF!", string(data))
}
