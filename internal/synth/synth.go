// Package synth builds raw sample buffers for notes and tunes.
//
// A note is rendered as the average of several sine waves at detuned fractions
// of the fundamental frequency, peak-normalized, volume-scaled, and faded at
// the buffer boundaries. The detune multipliers intentionally include negative
// values: the resulting chorus-like timbre is the defined sound of the system.
package synth

import (
	"errors"
	"fmt"
	"math"
)

// Default synthesis parameters.
const (
	// DefaultSampleRate is the fixed output rate in Hz.
	DefaultSampleRate = 44100
	// DefaultFadeSamples is the length of the linear fade-in and fade-out
	// ramps applied at buffer boundaries to avoid audible clicks.
	DefaultFadeSamples = 800
	// DefaultVolume scales the normalized waveform.
	DefaultVolume = 0.3
)

// maxAmplitude is the peak value the normalized waveform is mapped to.
const maxAmplitude = 32767

// detune multiplier defaults: five values evenly spaced from -10 to 2.
const (
	detuneStart = -10.0
	detuneEnd   = 2.0
	detuneCount = 5
)

// ErrVolumeOutOfRange indicates a volume outside [0.0, 1.0] at construction.
var ErrVolumeOutOfRange = errors.New("volume must be a float between 0 and 1")

// Config holds the synthesis parameters, fixed for a Synthesizer's lifetime.
type Config struct {
	SampleRate        int
	FadeSamples       int
	Volume            float64
	DetuneMultipliers []float64
}

// NewConfig returns the default synthesis parameters at the given volume.
func NewConfig(volume float64) Config {
	return Config{
		SampleRate:        DefaultSampleRate,
		FadeSamples:       DefaultFadeSamples,
		Volume:            volume,
		DetuneMultipliers: DefaultDetuneMultipliers(),
	}
}

// DefaultDetuneMultipliers returns the default detune multiplier set.
func DefaultDetuneMultipliers() []float64 {
	multipliers := make([]float64, detuneCount)
	step := (detuneEnd - detuneStart) / float64(detuneCount-1)

	for i := range multipliers {
		multipliers[i] = detuneStart + step*float64(i)
	}

	return multipliers
}

// Synthesizer renders sample buffers for single notes.
type Synthesizer struct {
	sampleRate  int
	fadeSamples int
	volume      float64
	multipliers []float64
}

// NewSynthesizer validates the configuration and creates a Synthesizer.
// A volume outside [0, 1] is a construction failure, not a per-note one.
func NewSynthesizer(cfg Config) (*Synthesizer, error) {
	if cfg.Volume < 0 || cfg.Volume > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrVolumeOutOfRange, cfg.Volume)
	}

	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}

	if cfg.FadeSamples <= 0 {
		cfg.FadeSamples = DefaultFadeSamples
	}

	if len(cfg.DetuneMultipliers) == 0 {
		cfg.DetuneMultipliers = DefaultDetuneMultipliers()
	}

	return &Synthesizer{
		sampleRate:  cfg.SampleRate,
		fadeSamples: cfg.FadeSamples,
		volume:      cfg.Volume,
		multipliers: cfg.DetuneMultipliers,
	}, nil
}

// SampleRate returns the synthesizer's output rate in Hz.
func (s *Synthesizer) SampleRate() int {
	return s.sampleRate
}

// Synthesize renders one note of the given frequency and duration.
//
// The output holds exactly int(duration * sampleRate) samples; zero or
// degenerate durations yield an empty buffer. Buffers no longer than the fade
// length are returned without fades, clicks and all.
func (s *Synthesizer) Synthesize(frequency, duration float64) []int16 {
	sampleCount := int(duration * float64(s.sampleRate))
	if sampleCount <= 0 {
		return []int16{}
	}

	waveform := make([]float64, sampleCount)
	peak := 0.0

	for i := range waveform {
		t := duration * float64(i) / float64(sampleCount)

		sum := 0.0
		for _, multiplier := range s.multipliers {
			sum += math.Sin(2 * math.Pi * frequency * t * multiplier)
		}

		sample := sum / float64(len(s.multipliers))
		waveform[i] = sample

		if math.Abs(sample) > peak {
			peak = math.Abs(sample)
		}
	}

	// Map the peak to the maximum representable amplitude, then scale by
	// volume. A silent waveform has nothing to normalize.
	gain := s.volume
	if peak > 0 {
		gain *= maxAmplitude / peak
	}

	for i := range waveform {
		waveform[i] *= gain
	}

	s.applyFades(waveform)

	buffer := make([]int16, sampleCount)
	for i, sample := range waveform {
		buffer[i] = int16(sample)
	}

	return buffer
}

// applyFades multiplies the first fadeSamples samples by a rising linear ramp
// and the last fadeSamples by a falling one. Buffers not longer than the ramp
// are left untouched.
func (s *Synthesizer) applyFades(waveform []float64) {
	if len(waveform) <= s.fadeSamples {
		return
	}

	for i := range s.fadeSamples {
		ramp := float64(i) / float64(s.fadeSamples)
		waveform[i] *= ramp
		waveform[len(waveform)-s.fadeSamples+i] *= 1 - ramp
	}
}
