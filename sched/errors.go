package sched

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abs0luty/stellar/program"
)

// ErrSingleUseReused is returned when Run is called on an already used
// scheduler. Channel state is consumed by a run, build a new scheduler for
// the next one.
var ErrSingleUseReused = errors.New("scheduler cannot be reused")

// ChannelError is a tagged failure of one channel: which channel died, at
// which instruction, and why. Sibling channels keep draining.
type ChannelError struct {
	Channel int
	Pos     program.Pos
	Instr   string
	Err     error
}

func (e *ChannelError) Error() string {
	if e.Pos.IsZero() {
		return fmt.Sprintf("channel %d: %v: %v", e.Channel, e.Instr, e.Err)
	}
	return fmt.Sprintf("channel %d: %v at %v: %v", e.Channel, e.Instr, e.Pos, e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// RunError aggregates the failures of all channels that died during a run.
type RunError []*ChannelError

func (e RunError) Error() string {
	s := make([]string, len(e))
	for i, ce := range e {
		s[i] = ce.Error()
	}
	return strings.Join(s, ",")
}

// Is reports whether any channel failure matches the sentinel.
func (e RunError) Is(err error) bool {
	for _, ce := range e {
		if errors.Is(ce, err) {
			return true
		}
	}
	return false
}

// ret returns untyped nil if error list is empty.
func (e RunError) ret() error {
	if len(e) > 0 {
		return e
	}
	return nil
}
