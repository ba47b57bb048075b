package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDefaults(t *testing.T) {
	cfg, err := Setup(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 13, cfg.DefaultBoardSize)
	assert.Equal(t, ".", cfg.SaveDir)
	assert.True(t, cfg.ShuffleSolve)
	assert.True(t, cfg.RandomTransform)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 20, cfg.PageLimitTasks)
	assert.Equal(t, 10.0, cfg.PdfFontSize)
}

func TestSetupFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsumego.env")
	require.NoError(t, os.WriteFile(path, []byte("DEFAULT_BOARD_SIZE=9\nSAVE_DIR=/tmp/answers\nSHUFFLE_SOLVE=false\n"), 0o644))
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Setup(path)
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.DefaultBoardSize)
	assert.Equal(t, "/tmp/answers", cfg.SaveDir)
	assert.False(t, cfg.ShuffleSolve)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestSetupBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("DEFAULT_BOARD_SIZE: [9\n"), 0o644))

	_, err := Setup(path)
	assert.Error(t, err)
}
