// Package program defines the instruction tree the interpreter consumes.
// The tree is produced by an external parser or decoded from its yaml
// form, it is a pure data structure with no execution state: multiple
// channels may walk the same body concurrently, cursors live in sched.
package program

import (
	"fmt"
	"strings"

	"github.com/abs0luty/stellar"
)

// Pos locates an instruction in the original source. The zero value means
// the location is unknown.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsZero reports whether the position carries no location.
func (p Pos) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// Instruction is a single step of a stellar program.
type Instruction interface {
	fmt.Stringer
	// Position returns the instruction's source location, if known.
	Position() Pos
	instruction()
}

// Play sounds a playable at the current cursor time. Sequence references
// resolve lazily when the play executes.
type Play struct {
	Pos    Pos
	Target stellar.Playable
}

// Wait advances the channel's logical cursor by Tacts without emitting.
type Wait struct {
	Pos   Pos
	Tacts int
}

// Repeat executes Body Count times in strict sequence, every iteration
// continuing the cursor from where the previous one left off.
type Repeat struct {
	Pos   Pos
	Count int
	Body  []Instruction
}

// With executes Body in a child context with the set fields overridden.
// The parent context is restored when the block exits.
type With struct {
	Pos     Pos
	Synth   *string
	Channel *int
	Body    []Instruction
}

// SetTempo mutates the tempo shared by all channels. Never retroactive.
type SetTempo struct {
	Pos Pos
	BPM float64
}

// SetSteps configures the steps-per-second subdivision of tact-to-seconds
// conversion shared by all channels.
type SetSteps struct {
	Pos       Pos
	PerSecond float64
}

// Spawn registers a new channel playing Target, starting at the spawning
// channel's current wall-clock instant. The spawning channel continues
// immediately.
type Spawn struct {
	Pos    Pos
	Target stellar.Playable
}

// Sequence binds Name to Body. Definition only, nothing executes until the
// sequence is played. Redefinition replaces the binding.
type Sequence struct {
	Pos  Pos
	Name string
	Body []Instruction
}

// Sample binds Name to a sample reference. Loading the file behind Path is
// the sink's business.
type Sample struct {
	Pos  Pos
	Name string
	Path string
}

func (i Play) instruction()     {}
func (i Wait) instruction()     {}
func (i Repeat) instruction()   {}
func (i With) instruction()     {}
func (i SetTempo) instruction() {}
func (i SetSteps) instruction() {}
func (i Spawn) instruction()    {}
func (i Sequence) instruction() {}
func (i Sample) instruction()   {}

func (i Play) Position() Pos     { return i.Pos }
func (i Wait) Position() Pos     { return i.Pos }
func (i Repeat) Position() Pos   { return i.Pos }
func (i With) Position() Pos     { return i.Pos }
func (i SetTempo) Position() Pos { return i.Pos }
func (i SetSteps) Position() Pos { return i.Pos }
func (i Spawn) Position() Pos    { return i.Pos }
func (i Sequence) Position() Pos { return i.Pos }
func (i Sample) Position() Pos   { return i.Pos }

func (i Play) String() string {
	return fmt.Sprintf("play %v", i.Target)
}

func (i Wait) String() string {
	return fmt.Sprintf("wait %d", i.Tacts)
}

func (i Repeat) String() string {
	return fmt.Sprintf("repeat %d { %d instructions }", i.Count, len(i.Body))
}

func (i With) String() string {
	var overrides []string
	if i.Synth != nil {
		overrides = append(overrides, "synth: "+*i.Synth)
	}
	if i.Channel != nil {
		overrides = append(overrides, fmt.Sprintf("channel: %d", *i.Channel))
	}
	return fmt.Sprintf("with %v { %d instructions }", strings.Join(overrides, ", "), len(i.Body))
}

func (i SetTempo) String() string {
	return fmt.Sprintf("set_bpm %v", i.BPM)
}

func (i SetSteps) String() string {
	return fmt.Sprintf("sps %v", i.PerSecond)
}

func (i Spawn) String() string {
	return fmt.Sprintf("play! %v", i.Target)
}

func (i Sequence) String() string {
	return fmt.Sprintf("sequence %v { %d instructions }", i.Name, len(i.Body))
}

func (i Sample) String() string {
	return fmt.Sprintf("let %v = sample(%q)", i.Name, i.Path)
}

// Program is the parsed tree of a whole stellar source file.
type Program struct {
	Body []Instruction
}
