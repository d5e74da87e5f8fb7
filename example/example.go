package example

import (
	"context"
	"path/filepath"

	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/abs0luty/stellar"
	"github.com/abs0luty/stellar/midi"
	"github.com/abs0luty/stellar/program"
	"github.com/abs0luty/stellar/sched"
	"github.com/abs0luty/stellar/wav"
)

func ref(name string) stellar.SequenceRef {
	return stellar.SequenceRef(name)
}

// Example 1:
//		Decode a program from yaml
//		Schedule it
//		Render the events to a .wav file
func one(dir string) error {
	source := []byte(`
- bpm: 100
- sequence:
    name: verse
    body:
      - play: am
      - wait: 2
      - play: [c4, e4]
      - wait: 2
- with:
    synth: dsaw
    body:
      - repeat:
          count: 2
          body:
            - play: verse
`)
	prog, err := program.Decode(source)
	if err != nil {
		return err
	}

	sink, err := wav.NewSink(filepath.Join(dir, "verse.wav"))
	if err != nil {
		return err
	}
	s, err := sched.New(prog, sink)
	if err != nil {
		return err
	}
	if err := s.RunSync(context.Background()); err != nil {
		return err
	}
	return sink.Flush()
}

// Example 2:
//		Build a program in code
//		Spawn two channels off the default one
//		Forward the events as midi messages
func two(send func(gomidi.Message) error) error {
	prog := &program.Program{Body: []program.Instruction{
		program.Sequence{Name: "bass", Body: []program.Instruction{
			program.Play{Target: ref("c2")},
			program.Wait{Tacts: 4},
			program.Play{Target: ref("g2")},
		}},
		program.Spawn{Target: ref("bass")},
		program.Play{Target: ref("cmaj7")},
		program.Wait{Tacts: 4},
		program.Play{Target: ref("fmaj7")},
	}}

	sink, err := midi.NewSink(send)
	if err != nil {
		return err
	}
	s, err := sched.New(prog, sink, sched.WithBPM(90))
	if err != nil {
		return err
	}
	if err := sched.Wait(s.Run(context.Background())); err != nil {
		return err
	}
	return sink.Flush()
}
