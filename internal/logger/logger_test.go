package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")

	require.NoError(t, Init("debug", path))
	t.Cleanup(func() { Log.SetOutput(os.Stdout) })

	Log.Debug("dataset replaced")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dataset replaced")
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	require.NoError(t, Init("verbose", ""))

	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}

func TestInitUnwritableFile(t *testing.T) {
	err := Init("info", filepath.Join(t.TempDir(), "missing", "server.log"))

	assert.Error(t, err)
}
