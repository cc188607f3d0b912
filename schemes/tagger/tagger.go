// Package tagger implements left-to-right sequence labelling as a
// transition scheme with a single TAG kind: each move assigns its label to
// the next untagged token.
package tagger

import (
	"github.com/comalice/transitionx"
	"github.com/comalice/transitionx/builder"
)

// Tag assigns its label to the next token.
const Tag transitionx.ActionKind = 0

// State is the tagging position and the labels assigned so far.
type State struct {
	pos  int
	tags []transitionx.LabelID
}

// NewState creates an untagged state for n tokens.
func NewState(n int) *State {
	return &State{tags: make([]transitionx.LabelID, n)}
}

func (s *State) IsFinal() bool {
	return s.pos == len(s.tags)
}

func (s *State) Clone() *State {
	return &State{pos: s.pos, tags: append([]transitionx.LabelID(nil), s.tags...)}
}

// Tags returns the labels assigned so far.
func (s *State) Tags() []transitionx.LabelID {
	return append([]transitionx.LabelID(nil), s.tags[:s.pos]...)
}

// Pos is the index of the next token to tag.
func (s *State) Pos() int {
	return s.pos
}

// Gold is a gold tag sequence interned into the system's string table.
type Gold struct {
	tags []transitionx.LabelID
}

// NewGold interns tags into strings.
func NewGold(strings transitionx.Interner, tags []string) *Gold {
	g := &Gold{tags: make([]transitionx.LabelID, len(tags))}
	for i, t := range tags {
		g.tags[i] = transitionx.LabelID(strings.Add(t))
	}
	return g
}

// Scheme is the tagging transition scheme. The zero value is ready to use.
type Scheme struct{}

func (Scheme) KindNames() []string {
	return []string{"TAG"}
}

func (Scheme) IsValid(m transitionx.Move, s *State) bool {
	return m.Kind == Tag && s.pos < len(s.tags)
}

func (Scheme) Apply(m transitionx.Move, s *State) {
	s.tags[s.pos] = m.Label
	s.pos++
}

// Cost is 0 when the label matches the gold tag of the current token. A gold
// sequence shorter than the input leaves the rest unreachable.
func (Scheme) Cost(m transitionx.Move, s *State, gold *Gold) float64 {
	if s.pos < len(gold.tags) && gold.tags[s.pos] == m.Label {
		return 0
	}
	return 1
}

// InitializeState rewinds s to the first token.
func (Scheme) InitializeState(s *State) {
	s.pos = 0
}

// LabelCounts counts tag frequencies.
func LabelCounts(sequences [][]string) map[transitionx.ActionKind]map[string]int {
	c := builder.NewCounter()
	for _, seq := range sequences {
		for _, t := range seq {
			c.Add(Tag, t)
		}
	}
	return c.Build(0)
}
