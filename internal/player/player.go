// Package player ties note resolution, synthesis, and serialized playback
// together behind the two entry points callers use: PlayNote and PlayTune.
package player

import (
	"context"
	"fmt"
	"time"

	"github.com/book-expert/beeps-service/internal/core"
	"github.com/book-expert/beeps-service/internal/notes"
	"github.com/book-expert/beeps-service/internal/playback"
	"github.com/book-expert/beeps-service/internal/score"
	"github.com/book-expert/beeps-service/internal/synth"
	"github.com/book-expert/logger"
)

// Config holds the construction options of a Player, fixed for its lifetime.
type Config struct {
	// Volume must be within [0.0, 1.0]; construction fails outside it.
	Volume float64
	// Mute suppresses the per-note progress lines. Playback still occurs.
	Mute bool
	// SampleRate, FadeSamples, and DetuneMultipliers override the synthesis
	// defaults when non-zero.
	SampleRate        int
	FadeSamples       int
	DetuneMultipliers []float64
}

// NewConfig returns the default playback options.
func NewConfig() Config {
	return Config{
		Volume:            synth.DefaultVolume,
		Mute:              false,
		SampleRate:        synth.DefaultSampleRate,
		FadeSamples:       synth.DefaultFadeSamples,
		DetuneMultipliers: synth.DefaultDetuneMultipliers(),
	}
}

// Player plays notes and tunes through a single output device. It assumes
// sequential use per instance: the serializer it owns is not safe for
// concurrent submissions.
type Player struct {
	synthesizer *synth.Synthesizer
	sequencer   *synth.Sequencer
	serializer  *playback.Serializer
	sampleRate  int
	mute        bool
	log         *logger.Logger
}

// New validates the configuration and creates a Player dispatching to the
// given device. An out-of-range volume fails with synth.ErrVolumeOutOfRange.
func New(cfg Config, device core.OutputDevice, log *logger.Logger) (*Player, error) {
	synthesizer, err := synth.NewSynthesizer(synth.Config{
		SampleRate:        cfg.SampleRate,
		FadeSamples:       cfg.FadeSamples,
		Volume:            cfg.Volume,
		DetuneMultipliers: cfg.DetuneMultipliers,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid player configuration: %w", err)
	}

	return &Player{
		synthesizer: synthesizer,
		sequencer:   synth.NewSequencer(synthesizer, log),
		serializer:  playback.NewSerializer(device),
		sampleRate:  synthesizer.SampleRate(),
		mute:        cfg.Mute,
		log:         log,
	}, nil
}

// PlayNote plays a single note token for the given duration in seconds, or
// waits silently when the token is the reserved word "pause".
//
// An unresolvable token is a recoverable failure: it is logged, nothing is
// submitted, and the typed parse error is returned so callers can observe it
// without a console.
func (p *Player) PlayNote(ctx context.Context, token string, duration float64) error {
	pause := time.Duration(duration * float64(time.Second))

	if token == score.PauseToken {
		p.reportProgress("Pausing for %vs", duration)

		err := p.serializer.SubmitPause(ctx, pause)
		if err != nil {
			return fmt.Errorf("failed to pause: %w", err)
		}

		return nil
	}

	frequency, err := notes.Resolve(token)
	if err != nil {
		p.log.Warn("Skipping unplayable note: %v", err)

		return err
	}

	buffer := p.synthesizer.Synthesize(frequency, duration)

	err = p.serializer.Submit(ctx, buffer)
	if err != nil {
		return fmt.Errorf("failed to play note %q: %w", token, err)
	}

	p.reportProgress("Playing %s (%.2f Hz) for %vs", token, frequency, duration)

	return nil
}

// PlayTune renders the whole tune into one buffer before anything is heard,
// then submits it as a single sound. Invalid tokens were already reported by
// the sequencer and are only reflected in the summary.
func (p *Player) PlayTune(ctx context.Context, lines []string) (core.PlaySummary, error) {
	return p.playLines(ctx, score.Parse(lines))
}

// PlayScore plays a score file's contents. It implements core.TunePlayer.
func (p *Player) PlayScore(ctx context.Context, scoreData []byte) (core.PlaySummary, error) {
	return p.playLines(ctx, score.ParseScore(scoreData))
}

func (p *Player) playLines(ctx context.Context, parsed []score.Line) (core.PlaySummary, error) {
	buffer, stats := p.sequencer.Sequence(parsed)

	summary := core.PlaySummary{
		NotesPlayed:  stats.Rendered,
		NotesSkipped: stats.Skipped,
		Duration:     p.bufferDuration(buffer),
	}

	if len(buffer) == 0 {
		return summary, nil
	}

	err := p.serializer.Submit(ctx, buffer)
	if err != nil {
		return summary, fmt.Errorf("failed to play tune: %w", err)
	}

	p.reportProgress(
		"Playing tune: %d notes, %d skipped, %.2fs",
		summary.NotesPlayed, summary.NotesSkipped, summary.Duration.Seconds(),
	)

	return summary, nil
}

// Close waits for any in-flight sound to finish before releasing the device.
func (p *Player) Close(ctx context.Context) error {
	err := p.serializer.Close(ctx)
	if err != nil {
		return fmt.Errorf("failed to shut down playback: %w", err)
	}

	return nil
}

func (p *Player) bufferDuration(buffer []int16) time.Duration {
	seconds := float64(len(buffer)) / float64(p.sampleRate)

	return time.Duration(seconds * float64(time.Second))
}

func (p *Player) reportProgress(format string, args ...any) {
	if p.mute {
		return
	}

	p.log.Info(format, args...)
}
