package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abs0luty/stellar"
	"github.com/abs0luty/stellar/symbol"
)

func TestResolveNote(t *testing.T) {
	tests := []struct {
		token  string
		class  stellar.PitchClass
		octave int
	}{
		{"c4", stellar.C, 4},
		{"c#4", stellar.CSharp, 4},
		{"db4", stellar.CSharp, 4},
		{"a#3", stellar.ASharp, 3},
		{"bb3", stellar.ASharp, 3},
		{"eb2", stellar.DSharp, 2},
		{"b0", stellar.B, 0},
		{"g9", stellar.G, 9},
		{"f7", stellar.F, 7},
	}
	for _, test := range tests {
		t.Run(test.token, func(t *testing.T) {
			n, err := symbol.ResolveNote(test.token)
			require.NoError(t, err)
			assert.Equal(t, test.class, n.Class)
			assert.Equal(t, test.octave, n.Octave)

			// resolution is idempotent
			again, err := symbol.ResolveNote(test.token)
			require.NoError(t, err)
			assert.Equal(t, n, again)
		})
	}
}

func TestResolveNoteMalformed(t *testing.T) {
	for _, token := range []string{"", "h9", "c", "#4", "4c", "zzz9", "c4x", "c#"} {
		t.Run(token, func(t *testing.T) {
			_, err := symbol.ResolveNote(token)
			assert.ErrorIs(t, err, stellar.ErrUnknownSymbol)
		})
	}
}

func TestResolveNoteOctaveRange(t *testing.T) {
	for _, token := range []string{"c12", "d10", "c-1"} {
		t.Run(token, func(t *testing.T) {
			_, err := symbol.ResolveNote(token)
			assert.ErrorIs(t, err, stellar.ErrInvalidArgument)
		})
	}
}

func TestResolveChord(t *testing.T) {
	tests := []struct {
		name  string
		notes []string
	}{
		{"c", []string{"c4", "e4", "g4"}},
		{"cmaj7", []string{"c4", "e4", "g4", "b4"}},
		{"am", []string{"a4", "c5", "e5"}},
		{"g7", []string{"g4", "b4", "d5", "f5"}},
		{"f#m7", []string{"f#4", "a4", "c#5", "e5"}},
		{"ebmaj", []string{"d#4", "g4", "a#4"}},
		{"bdim", []string{"b4", "d5", "f5"}},
		{"dsus4", []string{"d4", "g4", "a4"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			chord, err := symbol.ResolveChord(test.name)
			require.NoError(t, err)
			assert.Equal(t, test.name, chord.Name)

			expected := make([]stellar.Note, len(test.notes))
			for i, token := range test.notes {
				expected[i], err = symbol.ResolveNote(token)
				require.NoError(t, err)
			}
			assert.Equal(t, expected, chord.Notes)
		})
	}
}

func TestResolveChordUnknown(t *testing.T) {
	for _, name := range []string{"", "h7", "cfoo", "maj7"} {
		t.Run(name, func(t *testing.T) {
			_, err := symbol.ResolveChord(name)
			assert.ErrorIs(t, err, stellar.ErrUnknownSymbol)
		})
	}
}
