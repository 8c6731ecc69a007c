package config

import (
	"fmt"
	"time"

	"github.com/vrischmann/envconfig"

	"github.com/oscremap/pkg/logger"
)

// Settings holds process settings read from the environment
type Settings struct {
	ConfigPath    string        `envconfig:"OSCREMAP_CONFIG,optional"` // DefaultPath when unset
	LogLevel      string        `envconfig:"OSCREMAP_LOG_LEVEL,default=info"`
	StatusAddr    string        `envconfig:"OSCREMAP_STATUS_ADDR,optional"`
	Watch         bool          `envconfig:"OSCREMAP_WATCH,default=false"`
	WatchDebounce time.Duration `envconfig:"OSCREMAP_WATCH_DEBOUNCE,default=250ms"`
}

// LoadSettings reads Settings from the environment
func LoadSettings() (Settings, error) {
	var s Settings
	if err := envconfig.Init(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := s.validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// Level returns the parsed log level
func (s Settings) Level() logger.LogLevel {
	level, err := logger.ParseLevel(s.LogLevel)
	if err != nil {
		return logger.LevelInfo
	}
	return level
}

func (s *Settings) validate() error {
	if s.ConfigPath == "" {
		s.ConfigPath = DefaultPath
	}
	if _, err := logger.ParseLevel(s.LogLevel); err != nil {
		return err
	}
	if s.WatchDebounce < 0 {
		return fmt.Errorf("watch debounce must not be negative, got %s", s.WatchDebounce)
	}
	return nil
}
