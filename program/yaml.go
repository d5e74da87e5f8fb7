package program

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/abs0luty/stellar"
	"github.com/abs0luty/stellar/symbol"
)

// Decode parses the yaml form of a program tree. The document is a list of
// single-key mappings, one per instruction:
//
//	- bpm: 120
//	- sample: {name: kick, path: samples/kick.wav}
//	- sequence:
//	    name: drum
//	    body:
//	      - repeat:
//	          count: 2
//	          body:
//	            - play: kick
//	            - wait: 2
//	- play: drum
//	- play: [c3, e3, g3]
//	- play!: drum
//
// This is the structured interchange for an already-parsed program, not
// the surface syntax of the language.
func Decode(data []byte) (*Program, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return &Program{}, nil
	}
	body, err := decodeBody(root.Content[0])
	if err != nil {
		return nil, err
	}
	return &Program{Body: body}, nil
}

// Encode renders the program tree back into its yaml form.
func Encode(p *Program) ([]byte, error) {
	return yaml.Marshal(encodeBody(p.Body))
}

func decodeBody(n *yaml.Node) ([]Instruction, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%d:%d: instruction list expected", n.Line, n.Column)
	}
	body := make([]Instruction, 0, len(n.Content))
	for _, item := range n.Content {
		in, err := decodeInstruction(item)
		if err != nil {
			return nil, err
		}
		body = append(body, in)
	}
	return body, nil
}

func decodeInstruction(n *yaml.Node) (Instruction, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, fmt.Errorf("%d:%d: instruction must be a single-key mapping", n.Line, n.Column)
	}
	key, val := n.Content[0], n.Content[1]
	pos := Pos{Line: key.Line, Column: key.Column}
	switch key.Value {
	case "play", "play!":
		target, err := decodePlayable(val)
		if err != nil {
			return nil, err
		}
		if key.Value == "play!" {
			return Spawn{Pos: pos, Target: target}, nil
		}
		return Play{Pos: pos, Target: target}, nil
	case "wait":
		var tacts int
		if err := val.Decode(&tacts); err != nil {
			return nil, err
		}
		return Wait{Pos: pos, Tacts: tacts}, nil
	case "bpm", "set_bpm":
		var bpm float64
		if err := val.Decode(&bpm); err != nil {
			return nil, err
		}
		return SetTempo{Pos: pos, BPM: bpm}, nil
	case "sps":
		var steps float64
		if err := val.Decode(&steps); err != nil {
			return nil, err
		}
		return SetSteps{Pos: pos, PerSecond: steps}, nil
	case "repeat":
		var aux struct {
			Count int
			Body  yaml.Node
		}
		if err := val.Decode(&aux); err != nil {
			return nil, err
		}
		body, err := decodeBody(&aux.Body)
		if err != nil {
			return nil, err
		}
		return Repeat{Pos: pos, Count: aux.Count, Body: body}, nil
	case "with":
		var aux struct {
			Synth   *string
			Channel *int
			Body    yaml.Node
		}
		if err := val.Decode(&aux); err != nil {
			return nil, err
		}
		body, err := decodeBody(&aux.Body)
		if err != nil {
			return nil, err
		}
		return With{Pos: pos, Synth: aux.Synth, Channel: aux.Channel, Body: body}, nil
	case "sequence":
		var aux struct {
			Name string
			Body yaml.Node
		}
		if err := val.Decode(&aux); err != nil {
			return nil, err
		}
		if aux.Name == "" {
			return nil, fmt.Errorf("%d:%d: sequence must be named", key.Line, key.Column)
		}
		body, err := decodeBody(&aux.Body)
		if err != nil {
			return nil, err
		}
		return Sequence{Pos: pos, Name: aux.Name, Body: body}, nil
	case "sample":
		var aux struct {
			Name string
			Path string
		}
		if err := val.Decode(&aux); err != nil {
			return nil, err
		}
		if aux.Name == "" {
			return nil, fmt.Errorf("%d:%d: sample must be named", key.Line, key.Column)
		}
		return Sample{Pos: pos, Name: aux.Name, Path: aux.Path}, nil
	}
	return nil, fmt.Errorf("%d:%d: unknown instruction %q", key.Line, key.Column, key.Value)
}

// decodePlayable interprets a scalar as a lazy name reference and a list
// as a bracketed chord of note tokens. Name references cover note tokens,
// chord shorthands, sequences and samples, resolution happens at play
// time so definitions may appear after their uses.
func decodePlayable(n *yaml.Node) (stellar.Playable, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value == "" {
			return nil, fmt.Errorf("%d:%d: empty play target", n.Line, n.Column)
		}
		return stellar.SequenceRef(n.Value), nil
	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			return nil, fmt.Errorf("%d:%d: chord must have at least one note", n.Line, n.Column)
		}
		notes := make([]stellar.Note, 0, len(n.Content))
		for _, item := range n.Content {
			note, err := symbol.ResolveNote(item.Value)
			if err != nil {
				return nil, fmt.Errorf("%d:%d: %w", item.Line, item.Column, err)
			}
			notes = append(notes, note)
		}
		return stellar.NewChord(notes...), nil
	}
	return nil, fmt.Errorf("%d:%d: play target must be a name or a note list", n.Line, n.Column)
}

func encodeBody(body []Instruction) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(body))
	for _, in := range body {
		out = append(out, encodeInstruction(in))
	}
	return out
}

func encodeInstruction(in Instruction) map[string]interface{} {
	switch in := in.(type) {
	case Play:
		return map[string]interface{}{"play": encodePlayable(in.Target)}
	case Spawn:
		return map[string]interface{}{"play!": encodePlayable(in.Target)}
	case Wait:
		return map[string]interface{}{"wait": in.Tacts}
	case SetTempo:
		return map[string]interface{}{"bpm": in.BPM}
	case SetSteps:
		return map[string]interface{}{"sps": in.PerSecond}
	case Repeat:
		return map[string]interface{}{"repeat": map[string]interface{}{
			"count": in.Count,
			"body":  encodeBody(in.Body),
		}}
	case With:
		m := map[string]interface{}{"body": encodeBody(in.Body)}
		if in.Synth != nil {
			m["synth"] = *in.Synth
		}
		if in.Channel != nil {
			m["channel"] = *in.Channel
		}
		return map[string]interface{}{"with": m}
	case Sequence:
		return map[string]interface{}{"sequence": map[string]interface{}{
			"name": in.Name,
			"body": encodeBody(in.Body),
		}}
	case Sample:
		return map[string]interface{}{"sample": map[string]interface{}{
			"name": in.Name,
			"path": in.Path,
		}}
	}
	return nil
}

func encodePlayable(p stellar.Playable) interface{} {
	switch p := p.(type) {
	case stellar.Note:
		return p.String()
	case stellar.Chord:
		if p.Name != "" {
			return p.Name
		}
		names := make([]string, len(p.Notes))
		for i, n := range p.Notes {
			names[i] = n.String()
		}
		return names
	case stellar.SampleRef:
		return p.Name
	case stellar.SequenceRef:
		return string(p)
	}
	return nil
}
