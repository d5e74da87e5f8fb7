package midi_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/abs0luty/stellar"
	"github.com/abs0luty/stellar/midi"
)

func collector() (*[]gomidi.Message, func(gomidi.Message) error) {
	var sent []gomidi.Message
	return &sent, func(m gomidi.Message) error {
		sent = append(sent, m)
		return nil
	}
}

func TestSinkNotes(t *testing.T) {
	sent, send := collector()
	sink, err := midi.NewSink(send)
	require.NoError(t, err)

	c4 := stellar.Note{Class: stellar.C, Octave: 4}
	e4 := stellar.Note{Class: stellar.E, Octave: 4}
	require.NoError(t, sink.Emit(stellar.PlayEvent{Channel: 0, Payload: c4}))
	require.NoError(t, sink.Emit(stellar.PlayEvent{Channel: 0, Payload: e4}))
	require.NoError(t, sink.Flush())

	// second onset gates the first, flush gates the last
	assert.Equal(t, []gomidi.Message{
		gomidi.NoteOn(0, 60, 100),
		gomidi.NoteOff(0, 60),
		gomidi.NoteOn(0, 64, 100),
		gomidi.NoteOff(0, 64),
	}, *sent)
}

func TestSinkChord(t *testing.T) {
	sent, send := collector()
	sink, err := midi.NewSink(send, midi.WithVelocity(64))
	require.NoError(t, err)

	chord := stellar.NewChord(
		stellar.Note{Class: stellar.C, Octave: 3},
		stellar.Note{Class: stellar.E, Octave: 3},
		stellar.Note{Class: stellar.G, Octave: 3},
	)
	require.NoError(t, sink.Emit(stellar.PlayEvent{Channel: 2, Payload: chord}))

	require.Len(t, *sent, 3)
	assert.Equal(t, gomidi.NoteOn(2, 48, 64), (*sent)[0])
	assert.Equal(t, gomidi.NoteOn(2, 52, 64), (*sent)[1])
	assert.Equal(t, gomidi.NoteOn(2, 55, 64), (*sent)[2])

	require.NoError(t, sink.Flush())
	assert.Len(t, *sent, 6)
}

func TestSinkChannelsGateIndependently(t *testing.T) {
	sent, send := collector()
	sink, err := midi.NewSink(send)
	require.NoError(t, err)

	c4 := stellar.Note{Class: stellar.C, Octave: 4}
	e4 := stellar.Note{Class: stellar.E, Octave: 4}
	require.NoError(t, sink.Emit(stellar.PlayEvent{Channel: 0, Payload: c4}))
	require.NoError(t, sink.Emit(stellar.PlayEvent{Channel: 1, Payload: e4}))

	// an onset on channel 1 does not release channel 0
	assert.Equal(t, []gomidi.Message{
		gomidi.NoteOn(0, 60, 100),
		gomidi.NoteOn(1, 64, 100),
	}, *sent)
}

func TestSinkSkipsSamples(t *testing.T) {
	sent, send := collector()
	sink, err := midi.NewSink(send)
	require.NoError(t, err)

	require.NoError(t, sink.Emit(stellar.PlayEvent{Payload: stellar.SampleRef{Name: "kick"}}))
	assert.Empty(t, *sent)
}

func TestSinkSendError(t *testing.T) {
	boom := errors.New("port closed")
	sink, err := midi.NewSink(func(gomidi.Message) error { return boom })
	require.NoError(t, err)

	err = sink.Emit(stellar.PlayEvent{Payload: stellar.Note{Class: stellar.A, Octave: 4}})
	assert.Equal(t, boom, err)
}

func TestNewSinkValidation(t *testing.T) {
	_, err := midi.NewSink(nil)
	assert.Error(t, err)

	_, send := collector()
	_, err = midi.NewSink(send, midi.WithVelocity(200))
	assert.ErrorIs(t, err, stellar.ErrInvalidArgument)
}
