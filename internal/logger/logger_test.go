package logger_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-fasttrack/internal/logger"
)

// The logger is process wide, so these tests do not run in parallel.

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	cleanup, err := logger.Setup(logger.Config{Output: &buf, Debug: true})
	require.NoError(t, err)

	logger.L().Debug("stage built", "name", "initialStepSeeds")
	require.NoError(t, cleanup())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &entry))
	assert.Equal(t, "stage built", entry["msg"])
	assert.Equal(t, "initialStepSeeds", entry["name"])
	assert.Contains(t, entry["time"], "Z")

	// discarded after cleanup
	logger.L().Info("dropped")
	assert.Len(t, bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")), 2)
}

func TestSetupLevelAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fasttrack.log")
	cleanup, err := logger.Setup(logger.Config{File: path, Format: logger.FormatText})
	require.NoError(t, err)

	logger.L().Debug("hidden")
	logger.L().Info("process built")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "msg=\"process built\"")
}

func TestSetupUnknownFormat(t *testing.T) {
	_, err := logger.Setup(logger.Config{Output: &bytes.Buffer{}, Format: "xml"})
	require.ErrorIs(t, err, logger.ErrUnknownFormat)
}
