package stellar

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/xid"
)

// NewUID returns new unique id value.
func NewUID() string {
	return xid.New().String()
}

// PitchClass is one of the 12 semitone names within an octave.
type PitchClass int

// Pitch classes in ascending semitone order, starting at C.
const (
	C PitchClass = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

var pitchNames = [12]string{"c", "c#", "d", "d#", "e", "f", "f#", "g", "g#", "a", "a#", "b"}

func (pc PitchClass) String() string {
	if pc < 0 || int(pc) >= len(pitchNames) {
		return fmt.Sprintf("pitch(%d)", int(pc))
	}
	return pitchNames[pc]
}

// MinOctave and MaxOctave bound the supported note range.
const (
	MinOctave = 0
	MaxOctave = 9
)

// Note is a single pitch: class plus octave. Equal class/octave pairs are
// equal notes.
type Note struct {
	Class  PitchClass
	Octave int
}

func (n Note) String() string {
	return fmt.Sprintf("%v%d", n.Class, n.Octave)
}

// MIDI returns the midi key number of the note, c4 mapped to 60.
func (n Note) MIDI() uint8 {
	return uint8((n.Octave+1)*12 + int(n.Class))
}

// Frequency returns the equal temperament frequency in Hz, a4 tuned to 440.
func (n Note) Frequency() float64 {
	return 440 * math.Pow(2, (float64(n.MIDI())-69)/12)
}

// Chord is an ordered set of notes sounded as a single onset. Name keeps the
// shorthand the chord was resolved from, if any.
type Chord struct {
	Name  string
	Notes []Note
}

// NewChord builds a chord from notes. Duplicates collapse to one voice, the
// order of first occurrence is kept so playback stays deterministic.
func NewChord(notes ...Note) Chord {
	seen := make(map[Note]struct{}, len(notes))
	voices := make([]Note, 0, len(notes))
	for _, n := range notes {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		voices = append(voices, n)
	}
	return Chord{Notes: voices}
}

func (c Chord) String() string {
	if c.Name != "" {
		return c.Name
	}
	names := make([]string, len(c.Notes))
	for i, n := range c.Notes {
		names[i] = n.String()
	}
	return "[" + strings.Join(names, ",") + "]"
}

// SampleRef is a reference to an externally loaded sample. The core never
// touches the file behind Path, it only forwards the reference to the sink.
type SampleRef struct {
	Name string
	Path string
}

func (s SampleRef) String() string {
	return s.Name
}

// SequenceRef is a by-name reference resolved lazily at play time. Forward
// references within a program are legal because of the late binding.
type SequenceRef string

func (s SequenceRef) String() string {
	return string(s)
}

// Playable is anything a play instruction may reference.
type Playable interface {
	fmt.Stringer
	playable()
}

func (Note) playable()        {}
func (Chord) playable()       {}
func (SampleRef) playable()   {}
func (SequenceRef) playable() {}

// PlayEvent is a single resolved, timestamped instruction to sound a note,
// chord or sample. Never mutated after creation.
type PlayEvent struct {
	Time    time.Duration // wall-clock offset from the run start
	Tacts   float64       // logical time on the emitting channel
	Channel int
	Synth   string
	Payload Playable
}

func (e PlayEvent) String() string {
	return fmt.Sprintf("%v @%v ch:%d synth:%v", e.Payload, e.Time, e.Channel, e.Synth)
}

// AudioSink receives play events in monotonically non-decreasing time order
// and performs actual sound output. Implementations own all synthesis and
// sample decoding, they are never called back into the core.
type AudioSink interface {
	Emit(PlayEvent) error
}
