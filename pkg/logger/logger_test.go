package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToExtraOutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.log")

	log, err := New(Config{Level: "info", Format: "json", OutputPaths: []string{"stdout", path}})
	require.NoError(t, err)

	log.Info("=== API CALL START ===")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "API CALL START")
}

func TestNewFallsBackToInfoOnBadLevel(t *testing.T) {
	log, err := New(Config{Level: "loud", Format: "console"})
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(-1))
	assert.True(t, log.Core().Enabled(0))
}
