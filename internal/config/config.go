// Package config provides the configuration structure for the beeps-service.
package config

import (
	"fmt"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// NATSConfig holds the configuration for NATS.
type NATSConfig struct {
	URL                  string `toml:"url"`
	PlayRequestedSubject string `toml:"play_requested_subject"`
	TunePlayedSubject    string `toml:"tune_played_subject"`
	ScoreBucket          string `toml:"score_bucket"`
}

// PlaybackConfig holds the playback and synthesis options.
type PlaybackConfig struct {
	Volume      float64 `toml:"volume"`
	Mute        bool    `toml:"mute"`
	SampleRate  int     `toml:"sample_rate"`
	FadeSamples int     `toml:"fade_samples"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
}

// Config is the root configuration structure.
type Config struct {
	NATS     NATSConfig     `toml:"nats"`
	Playback PlaybackConfig `toml:"playback"`
	Paths    PathsConfig    `toml:"paths"`
}

// Load loads the configuration for the beeps-service.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	return &cfg, nil
}
