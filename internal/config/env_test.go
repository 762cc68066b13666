// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearLoggingEnv resets every variable read by LoadConfig so the host environment cannot leak in.
func clearLoggingEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOG_PATH",
		"LOG_FILENAME",
		"LOG_CREATE_PATH",
		"ENABLE_DEFAULT_LOG",
		"NODE_ENV",
		"LOG_LEVEL",
		"LOG_JSON_FORMAT",
		"LOG_TRANSPORTS_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("default configuration - missing env", func(t *testing.T) {
		clearLoggingEnv(t)

		cwd, err := os.Getwd()
		require.NoError(t, err)

		config, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(cwd, "logs"), config.LogPath)
		assert.Equal(t, "info.log", config.LogFilename)
		assert.Equal(t, filepath.Join(cwd, "logs", "info.log"), config.DefaultFilenamePath())
		assert.True(t, config.CreatePath)
		assert.True(t, config.EnableDefaultLog)
		assert.False(t, config.IsProduction())
		assert.Equal(t, "info", config.LogLevel)
		assert.False(t, config.JSONFormat)
		assert.Empty(t, config.TransportsFile)
	})

	t.Run("valid configuration", func(t *testing.T) {
		clearLoggingEnv(t)
		logPath := t.TempDir()
		t.Setenv("LOG_PATH", logPath)
		t.Setenv("LOG_FILENAME", "service.log")
		t.Setenv("LOG_CREATE_PATH", "false")
		t.Setenv("ENABLE_DEFAULT_LOG", "false")
		t.Setenv("NODE_ENV", "Production")
		t.Setenv("LOG_LEVEL", "WARN")
		t.Setenv("LOG_JSON_FORMAT", "true")

		config, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, logPath, config.LogPath)
		assert.Equal(t, "service.log", config.LogFilename)
		assert.Equal(t, filepath.Join(logPath, "service.log"), config.DefaultFilenamePath())
		assert.False(t, config.CreatePath)
		assert.False(t, config.EnableDefaultLog)
		assert.True(t, config.IsProduction())
		assert.Equal(t, "WARN", config.LogLevel)
		assert.True(t, config.JSONFormat)
	})

	t.Run("relative log path is resolved", func(t *testing.T) {
		clearLoggingEnv(t)
		t.Setenv("LOG_PATH", "relative/dir")

		cwd, err := os.Getwd()
		require.NoError(t, err)

		config, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(cwd, "relative", "dir"), config.LogPath)
	})

	t.Run("invalid configuration - wrong boolean", func(t *testing.T) {
		clearLoggingEnv(t)
		t.Setenv("LOG_CREATE_PATH", "maybe")

		_, err := LoadConfig()
		require.ErrorIs(t, err, ErrEnvVariablesNotValid)
	})

	t.Run("invalid configuration - unknown level", func(t *testing.T) {
		clearLoggingEnv(t)
		t.Setenv("LOG_LEVEL", "verbose")

		_, err := LoadConfig()
		require.ErrorIs(t, err, ErrEnvVariablesNotValid)
		assert.ErrorContains(t, err, "LOG_LEVEL")
	})

	t.Run("invalid configuration - filename with separator", func(t *testing.T) {
		clearLoggingEnv(t)
		t.Setenv("LOG_FILENAME", filepath.Join("nested", "info.log"))

		_, err := LoadConfig()
		require.ErrorIs(t, err, ErrEnvVariablesNotValid)
	})
}

func TestIsValidLevel(t *testing.T) {
	t.Parallel()

	for _, level := range []string{"trace", "DEBUG", "Info", "warn", "WARNING", "error"} {
		assert.True(t, IsValidLevel(level), level)
	}
	for _, level := range []string{"", "verbose", "fatal"} {
		assert.False(t, IsValidLevel(level), level)
	}
}
