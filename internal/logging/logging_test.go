package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("resync failed", "err", "timeout")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "resync failed")
	assert.Contains(t, out, "err=timeout")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "unsort.log")

	logger, closer, err := Open(path, "info", nil)
	require.NoError(t, err)
	logger.Info("cluster opened", "id", "local:work")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id=local:work")
}

func TestOpen_Fallback(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := Open("", "info", &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("ready")
	assert.Contains(t, buf.String(), "ready")
}
