package transitionx

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Section names of the serialized form.
const (
	SectionMoves   = "moves"
	SectionStrings = "strings"
)

// envelope is the serialized document. Sections are independent and their
// order in the document does not matter; unknown keys are ignored on read.
type envelope struct {
	Moves   *string   `yaml:"moves,omitempty"`
	Strings *[]string `yaml:"strings,omitempty"`
}

func excludeSet(exclude []string) (map[string]bool, error) {
	set := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		switch name {
		case SectionMoves, SectionStrings:
			set[name] = true
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownSection, name)
		}
	}
	return set, nil
}

// ToBytes serializes the label frequencies ("moves", itself YAML text of
// kind -> label -> frequency) and the string table ("strings"). Sections
// named in exclude are left out.
func (s *System[S, G]) ToBytes(exclude ...string) ([]byte, error) {
	skip, err := excludeSet(exclude)
	if err != nil {
		return nil, err
	}

	var env envelope
	if !skip[SectionMoves] {
		labels := make(map[int]map[string]int, len(s.table.labels))
		for kind, freqs := range s.table.Labels() {
			labels[int(kind)] = freqs
		}
		text, err := yaml.Marshal(labels)
		if err != nil {
			return nil, fmt.Errorf("marshal moves: %w", err)
		}
		moves := string(text)
		env.Moves = &moves
	}
	if !skip[SectionStrings] {
		dump := s.strings.Dump()
		env.Strings = &dump
	}

	data, err := yaml.Marshal(&env)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return data, nil
}

// FromBytes restores what ToBytes wrote. The string table is loaded first,
// then the action table is rebuilt with Initialize from the recovered
// frequencies, which reproduces the original move IDs. Sections named in
// exclude, or absent from data, leave the corresponding table untouched.
func (s *System[S, G]) FromBytes(data []byte, exclude ...string) error {
	skip, err := excludeSet(exclude)
	if err != nil {
		return err
	}

	var env envelope
	if err := yaml.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}

	var labels map[ActionKind]map[string]int
	if !skip[SectionMoves] && env.Moves != nil {
		var raw map[int]map[string]int
		if err := yaml.Unmarshal([]byte(*env.Moves), &raw); err != nil {
			return fmt.Errorf("unmarshal moves: %w", err)
		}
		labels = make(map[ActionKind]map[string]int, len(raw))
		for kind, freqs := range raw {
			if err := s.checkKind(ActionKind(kind)); err != nil {
				return fmt.Errorf("moves section: %w", err)
			}
			if freqs == nil {
				freqs = map[string]int{}
			}
			labels[ActionKind(kind)] = freqs
		}
	}

	if !skip[SectionStrings] && env.Strings != nil {
		if err := s.strings.Load(*env.Strings); err != nil {
			return fmt.Errorf("strings section: %w", err)
		}
	}
	if labels != nil {
		return s.Initialize(labels, 0)
	}
	return nil
}
