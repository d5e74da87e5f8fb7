// Package sched interprets a parsed stellar program and merges the play
// events of all its channels into one deterministic, time-ordered stream.
//
// Channels are not goroutines. Each one is a resumable cooperative task
// multiplexed by a single loop: the scheduler repeatedly picks the channel
// with the earliest wall-clock cursor, lets it run until it emits an event
// or suspends on a wait, and dispatches the event to the sink. Equal
// timestamps replay in spawn order, so a program always produces the same
// stream.
package sched

import (
	"container/heap"
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/abs0luty/stellar"
	"github.com/abs0luty/stellar/log"
	"github.com/abs0luty/stellar/program"
)

// DefaultBPM is the tempo a run starts with unless overridden.
const DefaultBPM = 120

// definition is a named binding created by sequence or sample
// instructions. Exactly one of the fields is set.
type definition struct {
	body   []program.Instruction
	sample *stellar.SampleRef
}

// Scheduler owns the live channels of one program run.
type Scheduler struct {
	uid    string
	sink   stellar.AudioSink
	clock  clock
	defs   map[string]definition
	queue  chanQueue
	nextID int
	synth  string
	used   bool
	log    *logrus.Logger
}

// Option provides a way to set parameters to scheduler.
type Option func(*Scheduler) error

// WithBPM sets the initial tempo.
func WithBPM(bpm float64) Option {
	return func(s *Scheduler) error {
		if bpm <= 0 {
			return fmt.Errorf("bpm %v: %w", bpm, stellar.ErrInvalidArgument)
		}
		s.clock.bpm = bpm
		return nil
	}
}

// WithSteps sets the initial steps-per-second subdivision.
func WithSteps(steps float64) Option {
	return func(s *Scheduler) error {
		if steps <= 0 {
			return fmt.Errorf("sps %v: %w", steps, stellar.ErrInvalidArgument)
		}
		s.clock.steps = steps
		return nil
	}
}

// WithSynth sets the synth binding the default channel starts with.
func WithSynth(name string) Option {
	return func(s *Scheduler) error {
		s.synth = name
		return nil
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Scheduler) error {
		s.log = l
		return nil
	}
}

// New creates a scheduler for one run of prog, dispatching to sink. The
// implicit default channel 0 is registered first and executes the
// program's top-level body.
func New(prog *program.Program, sink stellar.AudioSink, options ...Option) (*Scheduler, error) {
	if prog == nil {
		return nil, errors.New("program is required")
	}
	if sink == nil {
		return nil, errors.New("sink is required")
	}
	s := &Scheduler{
		uid:    stellar.NewUID(),
		sink:   sink,
		clock:  clock{bpm: DefaultBPM, steps: 1},
		defs:   make(map[string]definition),
		nextID: 1,
		synth:  DefaultSynth,
		log:    log.GetLogger(),
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	root := newChannel(0, 0, Context{Synth: s.synth, Channel: 0}, 0, prog.Body)
	s.queue = chanQueue{root}
	return s, nil
}

// UID returns the unique id of this scheduler.
func (s *Scheduler) UID() string {
	return s.uid
}

// RunSync drives every channel to completion on the calling goroutine.
// One channel's failure drops only that channel, siblings keep draining
// and the aggregate of all channel failures is returned at the end. A
// sink error aborts the whole run. Schedulers are single use.
func (s *Scheduler) RunSync(ctx context.Context) error {
	if s.used {
		return ErrSingleUseReused
	}
	s.used = true
	var failures RunError
	for s.queue.Len() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		ch := heap.Pop(&s.queue).(*channel)
		ev, cerr := s.step(ch)
		if cerr != nil {
			failures = append(failures, cerr)
			s.log.WithFields(logrus.Fields{"uid": s.uid, "channel": ch.id}).Info("channel failed: ", cerr.Err)
			continue
		}
		if ev != nil {
			s.log.WithFields(logrus.Fields{"uid": s.uid, "channel": ev.Channel, "time": ev.Time}).Debug("emit ", ev.Payload)
			if err := s.sink.Emit(*ev); err != nil {
				return fmt.Errorf("sink: %w", err)
			}
		}
		if !ch.done {
			heap.Push(&s.queue, ch)
		}
	}
	return failures.ret()
}

// Run drives the scheduler in its own goroutine. The returned channel
// yields the run error, if any, and is closed when the run is done.
func (s *Scheduler) Run(ctx context.Context) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		if err := s.RunSync(ctx); err != nil {
			errc <- err
		}
	}()
	return errc
}

// Wait blocks until the run is done and returns the first error met.
func Wait(errc <-chan error) error {
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}
