package logging

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

	"taskloop/internal/config"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewWithWriter_JSONWithService(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, config.LogConfig{Level: "info", Format: "json"}, "taskloop-server")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("server_listening", "addr", ":5000")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "server_listening", entry["msg"])
	assert.Equal(t, "taskloop-server", entry["service"])
	assert.Equal(t, ":5000", entry["addr"])
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, config.LogConfig{Level: "debug", Format: "text"}, "")
	require.NoError(t, err)

	logger.Debug("tick", "n", 1)
	assert.Contains(t, buf.String(), "msg=tick")
	assert.Contains(t, buf.String(), "n=1")
}

func TestNewWithWriter_BadFormat(t *testing.T) {
	_, err := NewWithWriter(&bytes.Buffer{}, config.LogConfig{Level: "info", Format: "xml"}, "")
	assert.Error(t, err)
}

func TestNew_RotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "taskloop.log")
	logger, closer, err := New(config.LogConfig{Level: "info", Format: "json", File: path, MaxSizeMB: 1}, "taskloop")
	require.NoError(t, err)

	logger.Info("written_to_file")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"written_to_file"`)
}
