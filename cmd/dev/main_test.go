package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popdash/internal"
)

// unsetEnv clears key for the test and restores it afterwards
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadConfigReadsEnvFileAndConfiguresLogging(t *testing.T) {
	previous := internal.DefaultLogger
	t.Cleanup(func() { internal.DefaultLogger = previous })

	unsetEnv(t, "DATA_FILE")
	unsetEnv(t, "LOG_LEVEL")
	t.Setenv("DASHBOARD_CONFIG", "")

	envFile := filepath.Join(t.TempDir(), "dev.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DATA_FILE=seeded.csv\nLOG_LEVEL=DEBUG\n"), 0o600))

	cfg, err := loadConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, "seeded.csv", cfg.Data.File)
	assert.Equal(t, internal.LogLevelDebug, internal.DefaultLogger.GetLevel())
	assert.NotSame(t, previous, internal.DefaultLogger)
}

func TestLoadConfigMissingEnvFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load env file")
}
