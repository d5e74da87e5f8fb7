package mock_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abs0luty/stellar"
	"github.com/abs0luty/stellar/mock"
)

func TestSinkCollects(t *testing.T) {
	sink := mock.NewSink()
	assert.NotEmpty(t, sink.UID)

	c4 := stellar.Note{Class: stellar.C, Octave: 4}
	require.NoError(t, sink.Emit(stellar.PlayEvent{Time: 0, Channel: 0, Payload: c4}))
	require.NoError(t, sink.Emit(stellar.PlayEvent{Time: time.Second, Channel: 1, Payload: c4}))

	assert.Equal(t, []time.Duration{0, time.Second}, sink.Times())
	assert.Equal(t, []int{0, 1}, sink.Channels())
	assert.Len(t, sink.OnChannel(1), 1)
	assert.Empty(t, sink.OnChannel(2))

	sink.Reset()
	assert.Empty(t, sink.Events)
}

func TestSinkFailAfter(t *testing.T) {
	boom := errors.New("broken")
	sink := &mock.Sink{ErrorOnEmit: boom, FailAfter: 2}

	ev := stellar.PlayEvent{Payload: stellar.Note{Class: stellar.C, Octave: 4}}
	require.NoError(t, sink.Emit(ev))
	require.NoError(t, sink.Emit(ev))
	assert.Equal(t, boom, sink.Emit(ev))
	assert.Len(t, sink.Events, 2)
}
