// Package wav renders play events offline into a wav file. It is a
// reference audio sink: every note becomes a decaying sine voice, a chord
// mixes its voices into one onset and samples play registered PCM buffers.
package wav

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"

	"github.com/abs0luty/stellar"
	"github.com/abs0luty/stellar/log"
)

// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
var ErrUnsupportedBitDepth = errors.New("only 16 and 32 bit depth is supported")

const (
	defaultSampleRate = 44100
	defaultBitDepth   = 16
	defaultGate       = 500 * time.Millisecond
	defaultGain       = 0.5
	voiceAmp          = 0.2
	tail              = 200 * time.Millisecond
)

// Sink buffers play events and renders them to a wav file on Flush.
type Sink struct {
	uid        string
	path       string
	sampleRate int
	bitDepth   int
	gate       time.Duration
	gain       float64
	samples    map[string][]float64
	events     []stellar.PlayEvent
	log        *logrus.Logger
}

// Option provides a way to set parameters to sink.
type Option func(*Sink) error

// WithSampleRate sets the output sample rate.
func WithSampleRate(rate int) Option {
	return func(s *Sink) error {
		if rate <= 0 {
			return fmt.Errorf("sample rate %d: %w", rate, stellar.ErrInvalidArgument)
		}
		s.sampleRate = rate
		return nil
	}
}

// WithBitDepth sets the output bit depth, 16 or 32.
func WithBitDepth(depth int) Option {
	return func(s *Sink) error {
		if depth != 16 && depth != 32 {
			return ErrUnsupportedBitDepth
		}
		s.bitDepth = depth
		return nil
	}
}

// WithGate sets how long a single onset sounds.
func WithGate(gate time.Duration) Option {
	return func(s *Sink) error {
		if gate <= 0 {
			return fmt.Errorf("gate %v: %w", gate, stellar.ErrInvalidArgument)
		}
		s.gate = gate
		return nil
	}
}

// WithGain sets the master gain applied before clipping.
func WithGain(gain float64) Option {
	return func(s *Sink) error {
		s.gain = gain
		return nil
	}
}

// WithSample registers mono PCM data for a sample name. Events referencing
// unregistered samples render as silence.
func WithSample(name string, data []float64) Option {
	return func(s *Sink) error {
		s.samples[name] = data
		return nil
	}
}

// NewSink creates a new wav sink writing to path on Flush.
func NewSink(path string, options ...Option) (*Sink, error) {
	s := &Sink{
		uid:        stellar.NewUID(),
		path:       path,
		sampleRate: defaultSampleRate,
		bitDepth:   defaultBitDepth,
		gate:       defaultGate,
		gain:       defaultGain,
		samples:    make(map[string][]float64),
		log:        log.GetLogger(),
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Emit implements stellar.AudioSink. Events are buffered until Flush.
func (s *Sink) Emit(ev stellar.PlayEvent) error {
	s.events = append(s.events, ev)
	return nil
}

// Flush renders all buffered events and writes the wav file.
func (s *Sink) Flush() error {
	buf := s.render()
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	e := wav.NewEncoder(f, s.sampleRate, s.bitDepth, 1, 1)
	scale := float64(int(1)<<(s.bitDepth-1)) - 1
	ib := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  s.sampleRate,
		},
		SourceBitDepth: s.bitDepth,
		Data:           make([]int, len(buf)),
	}
	for i, v := range buf {
		v *= s.gain
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		ib.Data[i] = int(v * scale)
	}
	if err := e.Write(ib); err != nil {
		f.Close()
		return err
	}
	if err := e.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// render mixes every buffered event into a single mono buffer.
func (s *Sink) render() []float64 {
	var end time.Duration
	for _, ev := range s.events {
		evEnd := ev.Time + s.gate
		if sr, ok := ev.Payload.(stellar.SampleRef); ok {
			if data := s.samples[sr.Name]; data != nil {
				evEnd = ev.Time + s.frameDur(len(data))
			}
		}
		if evEnd > end {
			end = evEnd
		}
	}
	buf := make([]float64, s.frames(end+tail))
	for _, ev := range s.events {
		start := s.frames(ev.Time)
		switch p := ev.Payload.(type) {
		case stellar.Note:
			s.addVoice(buf, start, p.Frequency())
		case stellar.Chord:
			for _, n := range p.Notes {
				s.addVoice(buf, start, n.Frequency())
			}
		case stellar.SampleRef:
			data, ok := s.samples[p.Name]
			if !ok {
				s.log.WithFields(logrus.Fields{"uid": s.uid, "sample": p.Name}).Debug("sample not registered, rendered as silence")
				continue
			}
			for i, v := range data {
				if start+i >= len(buf) {
					break
				}
				buf[start+i] += v
			}
		}
	}
	return buf
}

// addVoice mixes one decaying sine voice into buf.
func (s *Sink) addVoice(buf []float64, start int, freq float64) {
	gateSec := s.gate.Seconds()
	frames := s.frames(s.gate)
	for i := 0; i < frames && start+i < len(buf); i++ {
		t := float64(i) / float64(s.sampleRate)
		env := math.Exp(-6 * t / gateSec)
		buf[start+i] += voiceAmp * env * math.Sin(2*math.Pi*freq*t)
	}
}

func (s *Sink) frames(d time.Duration) int {
	return int(d.Seconds() * float64(s.sampleRate))
}

func (s *Sink) frameDur(frames int) time.Duration {
	return time.Duration(float64(frames) / float64(s.sampleRate) * float64(time.Second))
}
