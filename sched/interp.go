package sched

import (
	"container/heap"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abs0luty/stellar"
	"github.com/abs0luty/stellar/program"
	"github.com/abs0luty/stellar/symbol"
)

// step runs one channel until it emits an event, suspends on a wait,
// errors, or exhausts its instruction stream. This is the cooperative
// yield point: the channel never blocks, it returns control here.
func (s *Scheduler) step(ch *channel) (*stellar.PlayEvent, *ChannelError) {
	for {
		in, ok := ch.next()
		if !ok {
			return nil, nil
		}
		ev, yield, err := s.exec(ch, in)
		if err != nil {
			return nil, &ChannelError{
				Channel: ch.id,
				Pos:     in.Position(),
				Instr:   in.String(),
				Err:     err,
			}
		}
		if ev != nil || yield {
			return ev, nil
		}
	}
}

// exec interprets a single instruction against the channel's context. The
// second return value reports whether the channel must yield without
// having emitted (a wait).
func (s *Scheduler) exec(ch *channel, in program.Instruction) (*stellar.PlayEvent, bool, error) {
	switch in := in.(type) {
	case program.Play:
		return s.play(ch, in.Target)
	case program.Wait:
		if in.Tacts < 0 {
			return nil, false, fmt.Errorf("negative wait: %w", stellar.ErrInvalidArgument)
		}
		ch.tacts += float64(in.Tacts)
		ch.wall += float64(in.Tacts) * s.clock.secondsPerTact()
		return nil, true, nil
	case program.Repeat:
		if in.Count < 0 {
			return nil, false, fmt.Errorf("repeat count %d: %w", in.Count, stellar.ErrInvalidArgument)
		}
		if in.Count > 0 && len(in.Body) > 0 {
			ch.push(frame{body: in.Body, remaining: in.Count})
		}
		return nil, false, nil
	case program.With:
		saved := ch.ctx
		f := frame{body: in.Body, restore: &saved}
		if in.Synth != nil {
			ch.ctx.Synth = *in.Synth
		}
		if in.Channel != nil {
			// channels materialize on first reference, an unknown id is
			// not an error
			ch.ctx.Channel = *in.Channel
		}
		ch.push(f)
		return nil, false, nil
	case program.SetTempo:
		if in.BPM <= 0 {
			return nil, false, fmt.Errorf("bpm %v: %w", in.BPM, stellar.ErrInvalidArgument)
		}
		s.clock.bpm = in.BPM
		s.log.WithFields(logrus.Fields{"uid": s.uid, "bpm": in.BPM}).Debug("tempo changed")
		return nil, false, nil
	case program.SetSteps:
		if in.PerSecond <= 0 {
			return nil, false, fmt.Errorf("sps %v: %w", in.PerSecond, stellar.ErrInvalidArgument)
		}
		s.clock.steps = in.PerSecond
		return nil, false, nil
	case program.Sequence:
		// redefinition replaces the binding
		s.defs[in.Name] = definition{body: in.Body}
		return nil, false, nil
	case program.Sample:
		s.defs[in.Name] = definition{sample: &stellar.SampleRef{Name: in.Name, Path: in.Path}}
		return nil, false, nil
	case program.Spawn:
		s.spawn(ch, in.Target)
		return nil, false, nil
	}
	return nil, false, fmt.Errorf("unsupported instruction %T", in)
}

// play resolves the target and either emits a single event at the current
// cursor or, for a sequence, inlines its body into the calling channel.
// The called sequence inherits the caller's context and cursor, playing a
// sequence is equivalent to inlining its instructions.
func (s *Scheduler) play(ch *channel, target stellar.Playable) (*stellar.PlayEvent, bool, error) {
	switch p := target.(type) {
	case stellar.SequenceRef:
		if def, ok := s.defs[string(p)]; ok {
			if def.sample != nil {
				return s.emit(ch, *def.sample), true, nil
			}
			if len(def.body) > 0 {
				ch.push(frame{body: def.body})
			}
			return nil, false, nil
		}
		resolved, err := resolveToken(string(p))
		if err != nil {
			return nil, false, err
		}
		return s.emit(ch, resolved), true, nil
	case stellar.Chord:
		if len(p.Notes) == 0 {
			return nil, false, fmt.Errorf("empty chord: %w", stellar.ErrInvalidArgument)
		}
		return s.emit(ch, p), true, nil
	default:
		return s.emit(ch, target), true, nil
	}
}

// resolveToken resolves a free name as a note token first and a chord
// shorthand second.
func resolveToken(name string) (stellar.Playable, error) {
	note, err := symbol.ResolveNote(name)
	if err == nil {
		return note, nil
	}
	if errors.Is(err, stellar.ErrInvalidArgument) {
		// a well-formed note token with a bad octave is an argument
		// error, not an unknown symbol
		return nil, err
	}
	if chord, cerr := symbol.ResolveChord(name); cerr == nil {
		return chord, nil
	}
	return nil, fmt.Errorf("%q: %w", name, stellar.ErrUnknownSymbol)
}

// emit builds the event for the channel's current cursor. A chord emits as
// one event carrying all its notes so it sounds as a single audio action.
func (s *Scheduler) emit(ch *channel, p stellar.Playable) *stellar.PlayEvent {
	return &stellar.PlayEvent{
		Time:    time.Duration(ch.wall * float64(time.Second)),
		Tacts:   ch.tacts,
		Channel: ch.ctx.Channel,
		Synth:   ch.ctx.Synth,
		Payload: p,
	}
}

// spawn registers a new channel playing target. It starts at the spawning
// channel's current wall-clock instant with a copy of the spawning
// context, and the spawner continues without yielding.
func (s *Scheduler) spawn(ch *channel, target stellar.Playable) {
	id := s.nextID
	s.nextID++
	ctx := ch.ctx
	ctx.Channel = id
	spawned := newChannel(id, id, ctx, ch.wall, []program.Instruction{program.Play{Target: target}})
	heap.Push(&s.queue, spawned)
	s.log.WithFields(logrus.Fields{"uid": s.uid, "channel": id}).Debug("channel spawned: ", target)
}
