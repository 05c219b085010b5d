// Package config_test tests the configuration loading for the beeps-service.
package config_test

import (
	"testing"

	"github.com/book-expert/beeps-service/internal/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tomlData := `
[nats]
url = "nats://127.0.0.1:4222"
play_requested_subject = "tune.play.requested"
tune_played_subject = "tune.played"
score_bucket = "SCORE_FILES"

[playback]
volume = 0.3
mute = false
sample_rate = 44100
fade_samples = 800

[paths]
base_logs_dir = "/var/log/beeps-service"
`

	var cfg config.Config

	err := toml.Unmarshal([]byte(tomlData), &cfg)
	require.NoError(t, err)

	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
	assert.Equal(t, "tune.play.requested", cfg.NATS.PlayRequestedSubject)
	assert.Equal(t, "tune.played", cfg.NATS.TunePlayedSubject)
	assert.Equal(t, "SCORE_FILES", cfg.NATS.ScoreBucket)
	assert.InEpsilon(t, 0.3, cfg.Playback.Volume, 0.001)
	assert.False(t, cfg.Playback.Mute)
	assert.Equal(t, 44100, cfg.Playback.SampleRate)
	assert.Equal(t, 800, cfg.Playback.FadeSamples)
	assert.Equal(t, "/var/log/beeps-service", cfg.Paths.BaseLogsDir)
}
