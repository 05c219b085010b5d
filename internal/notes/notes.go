// Package notes resolves compact note tokens ("A", "C#4", "Eb2") into
// fundamental frequencies using equal temperament.
//
// Parsing is pure: failures are reported through typed sentinel errors so
// callers that are not writing to a console can still observe and test them.
package notes

import (
	"errors"
	"fmt"
	"math"
)

// Token shape limits.
const (
	minTokenLength = 1
	maxTokenLength = 3

	// DefaultOctave is assumed when a token carries no octave digit.
	DefaultOctave = 4

	minOctave = 0
	maxOctave = 8
)

// semitoneRatio is the twelfth root of two: one semitone step in equal
// temperament.
var semitoneRatio = math.Pow(2, 1.0/12.0)

// Sentinel errors for each parse stage. Each wrapped error carries the
// offending substring for diagnostics.
var (
	// ErrInvalidLetter indicates the note letter is outside A-G.
	ErrInvalidLetter = errors.New("invalid note letter")
	// ErrInvalidOctave indicates the octave is not an integer in [0, 8].
	ErrInvalidOctave = errors.New("invalid octave")
	// ErrInvalidAccidental indicates the accidental is neither '#' nor 'b'.
	ErrInvalidAccidental = errors.New("invalid accidental")
	// ErrInvalidShape indicates the token length is outside 1-3 characters.
	ErrInvalidShape = errors.New("invalid note token")
)

// noteFrequencies maps the natural note letters to their fundamental frequency
// in octave 0. Immutable for the process lifetime.
var noteFrequencies = map[byte]float64{
	'A': 27.50000,
	'B': 30.86771,
	'C': 16.35160,
	'D': 18.35405,
	'E': 20.60172,
	'F': 21.82676,
	'G': 24.49971,
}

// Accidental is the optional semitone modifier of a note.
type Accidental int

// Accidental values.
const (
	AccidentalNone Accidental = iota
	AccidentalSharp
	AccidentalFlat
)

// Note is the parsed representation of one token.
type Note struct {
	Letter     byte
	Octave     int
	Accidental Accidental
}

// Parse decomposes a token into letter, octave, and accidental.
//
// Shapes: "A" (octave defaults to 4), "A#" or "A5" (one modifier), "A5#"
// (both). The letter is case-insensitive. Any other length fails with
// ErrInvalidShape; each sub-field failure is classified by its own sentinel.
func Parse(token string) (Note, error) {
	if len(token) < minTokenLength || len(token) > maxTokenLength {
		return Note{}, fmt.Errorf("%w: %q", ErrInvalidShape, token)
	}

	note := Note{
		Letter:     upper(token[0]),
		Octave:     DefaultOctave,
		Accidental: AccidentalNone,
	}

	if _, ok := noteFrequencies[note.Letter]; !ok {
		return Note{}, fmt.Errorf("%w: %q", ErrInvalidLetter, token[:1])
	}

	switch len(token) {
	case 1:
	case 2:
		// The second character is either an accidental or an octave digit.
		if token[1] == '#' || token[1] == 'b' {
			note.Accidental = accidentalOf(token[1])
		} else {
			octave, err := parseOctave(token[1])
			if err != nil {
				return Note{}, err
			}

			note.Octave = octave
		}
	case 3:
		octave, err := parseOctave(token[1])
		if err != nil {
			return Note{}, err
		}

		note.Octave = octave

		if token[2] != '#' && token[2] != 'b' {
			return Note{}, fmt.Errorf("%w: %q", ErrInvalidAccidental, token[2:3])
		}

		note.Accidental = accidentalOf(token[2])
	}

	return note, nil
}

// Frequency derives the tone frequency in Hz: the octave-0 fundamental for the
// letter, doubled per octave, shifted one semitone up or down for an
// accidental. Strictly positive for any parsed Note.
func (n Note) Frequency() float64 {
	freq := noteFrequencies[n.Letter] * math.Pow(2, float64(n.Octave))

	switch n.Accidental {
	case AccidentalSharp:
		freq *= semitoneRatio
	case AccidentalFlat:
		freq /= semitoneRatio
	case AccidentalNone:
	}

	return freq
}

// Resolve parses a token and returns its frequency in one step.
func Resolve(token string) (float64, error) {
	note, err := Parse(token)
	if err != nil {
		return 0, err
	}

	return note.Frequency(), nil
}

func parseOctave(c byte) (int, error) {
	if c < '0' || c > '9' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOctave, string(c))
	}

	octave := int(c - '0')
	if octave < minOctave || octave > maxOctave {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOctave, string(c))
	}

	return octave, nil
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}

	return c
}

func accidentalOf(c byte) Accidental {
	if c == '#' {
		return AccidentalSharp
	}

	return AccidentalFlat
}
