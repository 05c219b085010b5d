// Package score parses plain-text tune definitions.
//
// A score is an ordered sequence of lines, each either blank (ignored),
// "NOTE", or "NOTE:DURATION". NOTE is a note token or the reserved word
// "pause"; DURATION is a decimal number of seconds, defaulting to 0.5 when
// absent or unparsable.
package score

import (
	"strconv"
	"strings"
)

// PauseToken is the reserved token for timed silence.
const PauseToken = "pause"

// DefaultDuration is used when a line carries no parsable duration.
const DefaultDuration = 0.5

// Line is one parsed entry of a score.
type Line struct {
	Token    string
	Duration float64
}

// IsPause reports whether the line is the reserved silence token.
func (l Line) IsPause() bool {
	return l.Token == PauseToken
}

// ParseLine parses a single raw score line. The second return value is false
// for blank lines, which carry no entry.
func ParseLine(raw string) (Line, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Line{}, false
	}

	token, durationText, found := strings.Cut(trimmed, ":")
	line := Line{Token: token, Duration: DefaultDuration}

	if !found {
		return line, true
	}

	duration, err := strconv.ParseFloat(durationText, 64)
	if err == nil {
		line.Duration = duration
	}

	return line, true
}

// Parse parses an ordered sequence of raw lines, dropping blanks.
func Parse(lines []string) []Line {
	parsed := make([]Line, 0, len(lines))

	for _, raw := range lines {
		line, ok := ParseLine(raw)
		if ok {
			parsed = append(parsed, line)
		}
	}

	return parsed
}

// ParseScore parses a whole score file's contents.
func ParseScore(data []byte) []Line {
	return Parse(strings.Split(string(data), "\n"))
}
