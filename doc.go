/*
Package stellar holds the shared value model of the stellar music
sequencing language: notes, chords, sample and sequence references, the
play events produced by interpretation and the AudioSink capability that
consumes them.

Concept

A stellar program is a tree of instructions (see the program package)
interpreted against one or more channels. A channel is an independent
cooperative timeline with its own logical cursor measured in tacts, the
base discrete time unit of a sequence. The scheduler (see the sched
package) multiplexes all channels on a single goroutine, converts tacts to
wall-clock time through the shared tempo and merges the emitted play
events into one deterministic, time-ordered stream:

    program.Program -> sched.Scheduler -> stellar.PlayEvent -> stellar.AudioSink

Sinks

The core never synthesizes sound. It dispatches immutable PlayEvent values
to an AudioSink in monotonically non-decreasing time order. The wav and
midi packages provide reference sinks, the mock package provides a
controllable sink for tests.
*/
package stellar
