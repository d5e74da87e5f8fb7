// Package mock provides a controllable audio sink to test scheduling
// without touching real audio output.
package mock

import (
	"time"

	"github.com/abs0luty/stellar"
)

// Sink collects every emitted event for inspection. An ErrorOnEmit makes
// every Emit call fail, optionally only from the FailAfter-th event on.
type Sink struct {
	UID         string
	Events      []stellar.PlayEvent
	ErrorOnEmit error
	FailAfter   int
}

// NewSink returns a collecting sink with a fresh uid.
func NewSink() *Sink {
	return &Sink{UID: stellar.NewUID()}
}

// Emit implements stellar.AudioSink.
func (s *Sink) Emit(ev stellar.PlayEvent) error {
	if s.ErrorOnEmit != nil && len(s.Events) >= s.FailAfter {
		return s.ErrorOnEmit
	}
	s.Events = append(s.Events, ev)
	return nil
}

// Times returns the wall-clock timestamps of all collected events in
// dispatch order.
func (s *Sink) Times() []time.Duration {
	times := make([]time.Duration, len(s.Events))
	for i, ev := range s.Events {
		times[i] = ev.Time
	}
	return times
}

// Channels returns the channel tags of all collected events in dispatch
// order.
func (s *Sink) Channels() []int {
	channels := make([]int, len(s.Events))
	for i, ev := range s.Events {
		channels[i] = ev.Channel
	}
	return channels
}

// OnChannel returns the collected events tagged with the given channel.
func (s *Sink) OnChannel(id int) []stellar.PlayEvent {
	var events []stellar.PlayEvent
	for _, ev := range s.Events {
		if ev.Channel == id {
			events = append(events, ev)
		}
	}
	return events
}

// Reset drops all collected events so the sink can serve another run.
func (s *Sink) Reset() {
	s.Events = nil
}
