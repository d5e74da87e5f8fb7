// Package symbol resolves note tokens and chord shorthands into concrete
// pitch data. The tables are immutable static data, resolution is a pure
// lookup: resolving the same token twice always yields the same value.
package symbol

import (
	"fmt"
	"strconv"

	"github.com/abs0luty/stellar"
)

// semitone offsets of the natural pitch letters from c.
var naturals = map[byte]int{
	'c': 0,
	'd': 2,
	'e': 4,
	'f': 5,
	'g': 7,
	'a': 9,
	'b': 11,
}

// chord qualities as intervals-from-root in semitones. Root is interval 0.
var qualities = map[string][]int{
	"":     {0, 4, 7},
	"maj":  {0, 4, 7},
	"m":    {0, 3, 7},
	"min":  {0, 3, 7},
	"dim":  {0, 3, 6},
	"aug":  {0, 4, 8},
	"sus2": {0, 2, 7},
	"sus4": {0, 5, 7},
	"5":    {0, 7},
	"6":    {0, 4, 7, 9},
	"m6":   {0, 3, 7, 9},
	"7":    {0, 4, 7, 10},
	"maj7": {0, 4, 7, 11},
	"m7":   {0, 3, 7, 10},
	"min7": {0, 3, 7, 10},
	"dim7": {0, 3, 6, 9},
	"m7b5": {0, 3, 6, 10},
	"9":    {0, 4, 7, 10, 14},
	"maj9": {0, 4, 7, 11, 14},
	"m9":   {0, 3, 7, 10, 14},
	"add9": {0, 4, 7, 14},
}

// chordOctave is the octave chord roots are voiced in.
const chordOctave = 4

// ResolveNote resolves a note token like "c4", "a#3" or "eb2" into a Note.
// Malformed tokens fail with stellar.ErrUnknownSymbol, octaves outside the
// supported range fail with stellar.ErrInvalidArgument.
func ResolveNote(token string) (stellar.Note, error) {
	class, rest, ok := parsePitch(token)
	if !ok {
		return stellar.Note{}, fmt.Errorf("note %q: %w", token, stellar.ErrUnknownSymbol)
	}
	if rest == "" {
		return stellar.Note{}, fmt.Errorf("note %q: missing octave: %w", token, stellar.ErrUnknownSymbol)
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return stellar.Note{}, fmt.Errorf("note %q: %w", token, stellar.ErrUnknownSymbol)
	}
	if octave < stellar.MinOctave || octave > stellar.MaxOctave {
		return stellar.Note{}, fmt.Errorf("note %q: octave %d out of range: %w", token, octave, stellar.ErrInvalidArgument)
	}
	return stellar.Note{Class: class, Octave: octave}, nil
}

// ResolveChord resolves a chord shorthand like "cmaj7", "am" or "g7" into a
// Chord voiced from octave 4 upwards. Unrecognized roots or qualities fail
// with stellar.ErrUnknownSymbol.
func ResolveChord(name string) (stellar.Chord, error) {
	root, rest, ok := parsePitch(name)
	if !ok {
		return stellar.Chord{}, fmt.Errorf("chord %q: %w", name, stellar.ErrUnknownSymbol)
	}
	intervals, ok := qualities[rest]
	if !ok {
		return stellar.Chord{}, fmt.Errorf("chord %q: quality %q: %w", name, rest, stellar.ErrUnknownSymbol)
	}
	notes := make([]stellar.Note, len(intervals))
	for i, interval := range intervals {
		semis := int(root) + interval
		notes[i] = stellar.Note{
			Class:  stellar.PitchClass(semis % 12),
			Octave: chordOctave + semis/12,
		}
	}
	chord := stellar.NewChord(notes...)
	chord.Name = name
	return chord, nil
}

// parsePitch consumes a pitch letter with an optional accidental and
// returns the pitch class and the unconsumed tail.
func parsePitch(s string) (stellar.PitchClass, string, bool) {
	if s == "" {
		return 0, "", false
	}
	offset, ok := naturals[s[0]]
	if !ok {
		return 0, "", false
	}
	rest := s[1:]
	if rest != "" {
		switch rest[0] {
		case '#':
			offset++
			rest = rest[1:]
		case 'b':
			offset--
			rest = rest[1:]
		}
	}
	return stellar.PitchClass((offset + 12) % 12), rest, true
}
