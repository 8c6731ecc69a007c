package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oscremap/pkg/logger"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, DefaultPath, s.ConfigPath)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, logger.LevelInfo, s.Level())
	assert.Empty(t, s.StatusAddr)
	assert.False(t, s.Watch)
	assert.Equal(t, 250*time.Millisecond, s.WatchDebounce)
}

func TestLoadSettingsFromEnv(t *testing.T) {
	t.Setenv("OSCREMAP_CONFIG", "/etc/oscremap.yaml")
	t.Setenv("OSCREMAP_LOG_LEVEL", "debug")
	t.Setenv("OSCREMAP_STATUS_ADDR", ":9100")
	t.Setenv("OSCREMAP_WATCH", "true")
	t.Setenv("OSCREMAP_WATCH_DEBOUNCE", "1s")

	s, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "/etc/oscremap.yaml", s.ConfigPath)
	assert.Equal(t, logger.LevelDebug, s.Level())
	assert.Equal(t, ":9100", s.StatusAddr)
	assert.True(t, s.Watch)
	assert.Equal(t, time.Second, s.WatchDebounce)
}

func TestLoadSettingsInvalidLevel(t *testing.T) {
	t.Setenv("OSCREMAP_LOG_LEVEL", "loud")

	_, err := LoadSettings()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestSettingsLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, logger.LevelInfo, Settings{}.Level())
	assert.Equal(t, logger.LevelWarn, Settings{LogLevel: "warning"}.Level())
}

func TestLoadSettingsEmptyConfigPath(t *testing.T) {
	t.Setenv("OSCREMAP_CONFIG", "")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, DefaultPath, s.ConfigPath)
}
