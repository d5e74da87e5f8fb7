package wav_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	gowav "github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abs0luty/stellar"
	"github.com/abs0luty/stellar/wav"
)

func TestSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	sink, err := wav.NewSink(path)
	require.NoError(t, err)

	a4 := stellar.Note{Class: stellar.A, Octave: 4}
	require.NoError(t, sink.Emit(stellar.PlayEvent{Time: 0, Payload: a4}))
	require.NoError(t, sink.Emit(stellar.PlayEvent{
		Time: 250 * time.Millisecond,
		Payload: stellar.NewChord(
			stellar.Note{Class: stellar.C, Octave: 4},
			stellar.Note{Class: stellar.E, Octave: 4},
		),
	}))
	require.NoError(t, sink.Flush())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	d := gowav.NewDecoder(f)
	assert.True(t, d.IsValidFile())
	buf, err := d.FullPCMBuffer()
	require.NoError(t, err)

	// last onset at 250ms, 500ms gate, 200ms tail
	assert.InDelta(t, 0.95*44100, float64(len(buf.Data)), 1)

	var peak int
	for _, v := range buf.Data {
		if v > peak {
			peak = v
		}
	}
	assert.Greater(t, peak, 0)
}

func TestSinkRendersRegisteredSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	click := make([]float64, 441)
	for i := range click {
		click[i] = 0.8 * math.Exp(-float64(i)/100)
	}
	sink, err := wav.NewSink(path, wav.WithSample("kick", click))
	require.NoError(t, err)

	require.NoError(t, sink.Emit(stellar.PlayEvent{Time: 0, Payload: stellar.SampleRef{Name: "kick"}}))
	require.NoError(t, sink.Flush())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	d := gowav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	require.NoError(t, err)

	// 441 sample frames plus the 200ms tail
	assert.InDelta(t, 441+0.2*44100, float64(len(buf.Data)), 1)
	assert.NotZero(t, buf.Data[0])
}

func TestSinkUnregisteredSampleIsSilence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	sink, err := wav.NewSink(path)
	require.NoError(t, err)

	require.NoError(t, sink.Emit(stellar.PlayEvent{Time: 0, Payload: stellar.SampleRef{Name: "ghost"}}))
	require.NoError(t, sink.Flush())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	buf, err := gowav.NewDecoder(f).FullPCMBuffer()
	require.NoError(t, err)
	for _, v := range buf.Data {
		require.Zero(t, v)
	}
}

func TestSinkOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")

	_, err := wav.NewSink(path, wav.WithBitDepth(24))
	assert.Equal(t, wav.ErrUnsupportedBitDepth, err)

	_, err = wav.NewSink(path, wav.WithSampleRate(0))
	assert.ErrorIs(t, err, stellar.ErrInvalidArgument)

	_, err = wav.NewSink(path, wav.WithGate(0))
	assert.ErrorIs(t, err, stellar.ErrInvalidArgument)

	sink, err := wav.NewSink(path, wav.WithSampleRate(8000), wav.WithBitDepth(32), wav.WithGate(100*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, sink.Emit(stellar.PlayEvent{Payload: stellar.Note{Class: stellar.C, Octave: 4}}))
	require.NoError(t, sink.Flush())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	d := gowav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, 8000, buf.Format.SampleRate)
	// 100ms gate plus 200ms tail at 8kHz
	assert.InDelta(t, 2400, float64(len(buf.Data)), 1)
}
