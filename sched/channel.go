package sched

import "github.com/abs0luty/stellar/program"

// Context is the scoped bundle of bindings active during interpretation.
// Tempo is deliberately not part of it: tempo is shared run state owned by
// the scheduler's clock, a with block cannot scope it.
type Context struct {
	Synth   string
	Channel int
}

// DefaultSynth is the synth binding channels start with unless overridden.
const DefaultSynth = "default"

// frame is one level of a channel's execution stack: a block body and a
// cursor into it. Repeat bodies loop via remaining, with bodies reinstate
// the saved context when they pop.
type frame struct {
	body      []program.Instruction
	index     int
	remaining int      // repeat iterations left including the current one
	restore   *Context // context reinstated when the frame pops
}

// channel is an independently progressing timeline: its own context, its
// own logical and wall cursors, and a resumable cursor into the
// instruction stream it executes. Execution state never lives in the
// program tree itself.
type channel struct {
	id    int
	order int // spawn order, breaks wall-clock ties deterministically
	ctx   Context
	tacts float64 // logical time elapsed on this channel
	wall  float64 // seconds since the run's global start
	stack []frame
	done  bool
}

func newChannel(id, order int, ctx Context, wall float64, body []program.Instruction) *channel {
	return &channel{
		id:    id,
		order: order,
		ctx:   ctx,
		wall:  wall,
		stack: []frame{{body: body}},
	}
}

func (ch *channel) push(f frame) {
	ch.stack = append(ch.stack, f)
}

// next returns the instruction under the cursor and advances it, unwinding
// finished frames on the way. Restoring saved contexts here guarantees a
// with block's override disappears on every exit path.
func (ch *channel) next() (program.Instruction, bool) {
	for len(ch.stack) > 0 {
		f := &ch.stack[len(ch.stack)-1]
		if f.index < len(f.body) {
			in := f.body[f.index]
			f.index++
			return in, true
		}
		if f.remaining > 1 {
			f.remaining--
			f.index = 0
			continue
		}
		if f.restore != nil {
			ch.ctx = *f.restore
		}
		ch.stack = ch.stack[:len(ch.stack)-1]
	}
	ch.done = true
	return nil, false
}
