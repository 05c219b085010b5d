package synth

import (
	"github.com/book-expert/beeps-service/internal/notes"
	"github.com/book-expert/beeps-service/internal/score"
	"github.com/book-expert/logger"
)

// Stats summarizes what a sequencing pass produced.
type Stats struct {
	// Rendered counts the notes that contributed samples to the buffer.
	Rendered int
	// Skipped counts the tokens that failed resolution and were dropped.
	Skipped int
	// Pauses counts the reserved pause lines, which contribute no samples.
	Pauses int
}

// Sequencer turns an ordered sequence of score lines into one sample buffer.
type Sequencer struct {
	synth *Synthesizer
	log   *logger.Logger
}

// NewSequencer creates a Sequencer rendering through the given synthesizer.
// Tokens that fail resolution are reported to the logger and skipped.
func NewSequencer(synthesizer *Synthesizer, log *logger.Logger) *Sequencer {
	return &Sequencer{
		synth: synthesizer,
		log:   log,
	}
}

// Sequence synthesizes every valid note line and concatenates the per-note
// buffers in line order, with no samples inserted between them.
//
// Invalid tokens are skipped after a diagnostic, so the produced buffer is
// shorter than a naive line count would suggest whenever a score contains bad
// notes. Pause lines are a playback-path contract and contribute nothing here.
func (q *Sequencer) Sequence(lines []score.Line) ([]int16, Stats) {
	var stats Stats

	buffers := make([][]int16, 0, len(lines))
	total := 0

	for _, line := range lines {
		if line.IsPause() {
			stats.Pauses++

			continue
		}

		frequency, err := notes.Resolve(line.Token)
		if err != nil {
			q.log.Warn("Skipping unplayable note: %v", err)
			stats.Skipped++

			continue
		}

		buffer := q.synth.Synthesize(frequency, line.Duration)
		buffers = append(buffers, buffer)
		total += len(buffer)
		stats.Rendered++
	}

	tune := make([]int16, 0, total)
	for _, buffer := range buffers {
		tune = append(tune, buffer...)
	}

	return tune, stats
}
