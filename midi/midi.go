// Package midi forwards play events as MIDI messages through an injected
// sender func, the shape gitlab.com/gomidi drivers hand out. No device is
// opened here, which keeps the sink usable in tests and over any
// transport.
package midi

import (
	"fmt"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/abs0luty/stellar"
)

const defaultVelocity = 100

// Sink translates play events into NoteOn messages. Notes stay gated
// until the next onset on the same channel, Flush releases whatever is
// still sounding.
type Sink struct {
	uid      string
	send     func(gomidi.Message) error
	velocity uint8
	realtime bool
	started  bool
	start    time.Time
	open     map[int][]uint8
}

// Option provides a way to set parameters to sink.
type Option func(*Sink) error

// WithVelocity sets the velocity of all note-on messages.
func WithVelocity(velocity uint8) Option {
	return func(s *Sink) error {
		if velocity > 127 {
			return fmt.Errorf("velocity %d: %w", velocity, stellar.ErrInvalidArgument)
		}
		s.velocity = velocity
		return nil
	}
}

// Realtime makes Emit sleep until each event's wall-clock time, measured
// from the first emitted event.
func Realtime() Option {
	return func(s *Sink) error {
		s.realtime = true
		return nil
	}
}

// NewSink creates a midi sink around a sender func, for example the one
// returned by gomidi's SendTo for an out port.
func NewSink(send func(gomidi.Message) error, options ...Option) (*Sink, error) {
	if send == nil {
		return nil, fmt.Errorf("sender is required")
	}
	s := &Sink{
		uid:      stellar.NewUID(),
		send:     send,
		velocity: defaultVelocity,
		open:     make(map[int][]uint8),
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Emit implements stellar.AudioSink.
func (s *Sink) Emit(ev stellar.PlayEvent) error {
	if s.realtime {
		if !s.started {
			s.started = true
			s.start = time.Now().Add(-ev.Time)
		}
		time.Sleep(time.Until(s.start.Add(ev.Time)))
	}
	ch := uint8(ev.Channel % 16)
	if err := s.release(ev.Channel); err != nil {
		return err
	}
	for _, key := range keys(ev.Payload) {
		if err := s.send(gomidi.NoteOn(ch, key, s.velocity)); err != nil {
			return err
		}
		s.open[ev.Channel] = append(s.open[ev.Channel], key)
	}
	return nil
}

// Flush releases every note still sounding.
func (s *Sink) Flush() error {
	for id := range s.open {
		if err := s.release(id); err != nil {
			return err
		}
	}
	return nil
}

// release sends note-off for every sounding key on the channel.
func (s *Sink) release(id int) error {
	ch := uint8(id % 16)
	for _, key := range s.open[id] {
		if err := s.send(gomidi.NoteOff(ch, key)); err != nil {
			return err
		}
	}
	s.open[id] = nil
	return nil
}

// keys lists the midi keys of a playable. Samples carry no pitch and are
// skipped, a sample-capable device needs its own sink.
func keys(p stellar.Playable) []uint8 {
	switch p := p.(type) {
	case stellar.Note:
		return []uint8{p.MIDI()}
	case stellar.Chord:
		out := make([]uint8, len(p.Notes))
		for i, n := range p.Notes {
			out[i] = n.MIDI()
		}
		return out
	}
	return nil
}
