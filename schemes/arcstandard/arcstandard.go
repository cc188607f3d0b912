// Package arcstandard implements arc-standard dependency parsing.
//
// The state is a stack and a buffer over token indices. SHIFT moves the next
// buffer token onto the stack; LEFT:label attaches the second stack item to
// the top and pops it; RIGHT:label attaches the top to the second item and
// pops it. Parsing ends when the buffer is empty and one token, the root,
// remains on the stack.
//
// Costs are 0 for moves consistent with the gold tree and 1 otherwise.
// Every projective, single-rooted tree is reachable; other trees make the
// oracle fail with ErrNoZeroCostMove.
package arcstandard

import (
	"fmt"

	"github.com/comalice/transitionx"
	"github.com/comalice/transitionx/builder"
)

const (
	Shift transitionx.ActionKind = iota
	Left
	Right
)

// RootLabel is the label FinalizeState gives the remaining root token.
const RootLabel = "ROOT"

// NoHead marks an unattached token.
const NoHead = -1

// State is an arc-standard parser configuration.
type State struct {
	stack  []int
	buffer int
	heads  []int
	labels []transitionx.LabelID
}

// NewState creates the initial configuration for n tokens.
func NewState(n int) *State {
	s := &State{heads: make([]int, n), labels: make([]transitionx.LabelID, n)}
	s.reset()
	return s
}

func (s *State) reset() {
	s.stack = s.stack[:0]
	s.buffer = 0
	for i := range s.heads {
		s.heads[i] = NoHead
		s.labels[i] = 0
	}
}

func (s *State) IsFinal() bool {
	return s.buffer == len(s.heads) && len(s.stack) <= 1
}

func (s *State) Clone() *State {
	return &State{
		stack:  append([]int(nil), s.stack...),
		buffer: s.buffer,
		heads:  append([]int(nil), s.heads...),
		labels: append([]transitionx.LabelID(nil), s.labels...),
	}
}

// Heads returns the head of every token, NoHead for unattached ones.
func (s *State) Heads() []int {
	return append([]int(nil), s.heads...)
}

// Labels returns the arc label of every token.
func (s *State) Labels() []transitionx.LabelID {
	return append([]transitionx.LabelID(nil), s.labels...)
}

func (s *State) top() (s0, s1 int) {
	n := len(s.stack)
	return s.stack[n-1], s.stack[n-2]
}

// Sentence is a raw gold annotation. Heads uses NoHead for the root.
type Sentence struct {
	Words  []string `yaml:"words"`
	Heads  []int    `yaml:"heads"`
	Labels []string `yaml:"labels"`
}

// Validate checks lengths and head ranges.
func (s Sentence) Validate() error {
	n := len(s.Heads)
	if len(s.Labels) != n {
		return fmt.Errorf("%d heads but %d labels", n, len(s.Labels))
	}
	if len(s.Words) != 0 && len(s.Words) != n {
		return fmt.Errorf("%d words but %d heads", len(s.Words), n)
	}
	for i, h := range s.Heads {
		if h != NoHead && (h < 0 || h >= n || h == i) {
			return fmt.Errorf("token %d: invalid head %d", i, h)
		}
	}
	return nil
}

// Gold is a gold tree with labels interned into the system's string table.
type Gold struct {
	heads  []int
	labels []transitionx.LabelID
	deps   [][]int
}

// NewGold interns the labels of sent and indexes its dependents.
func NewGold(strings transitionx.Interner, sent Sentence) (*Gold, error) {
	if err := sent.Validate(); err != nil {
		return nil, err
	}
	g := &Gold{
		heads:  append([]int(nil), sent.Heads...),
		labels: make([]transitionx.LabelID, len(sent.Heads)),
		deps:   make([][]int, len(sent.Heads)),
	}
	for i, h := range sent.Heads {
		g.labels[i] = transitionx.LabelID(strings.Add(sent.Labels[i]))
		if h != NoHead {
			g.deps[h] = append(g.deps[h], i)
		}
	}
	return g, nil
}

// Scheme is the arc-standard transition scheme.
type Scheme struct {
	strings transitionx.Interner
}

// New creates the scheme, interning RootLabel into strings. strings must be
// the table the system resolves labels through.
func New(strings transitionx.Interner) *Scheme {
	strings.Add(RootLabel)
	return &Scheme{strings: strings}
}

// rootLabel resolves RootLabel on every call; loading a string table can
// move it to another ID.
func (sc *Scheme) rootLabel() transitionx.LabelID {
	if id, ok := sc.strings.Lookup(RootLabel); ok {
		return transitionx.LabelID(id)
	}
	return transitionx.LabelID(sc.strings.Add(RootLabel))
}

func (*Scheme) KindNames() []string {
	return []string{"SHIFT", "LEFT", "RIGHT"}
}

func (*Scheme) IsValid(m transitionx.Move, s *State) bool {
	switch m.Kind {
	case Shift:
		return s.buffer < len(s.heads)
	case Left, Right:
		return len(s.stack) >= 2
	}
	return false
}

func (*Scheme) Apply(m transitionx.Move, s *State) {
	switch m.Kind {
	case Shift:
		s.stack = append(s.stack, s.buffer)
		s.buffer++
	case Left:
		s0, s1 := s.top()
		s.heads[s1] = s0
		s.labels[s1] = m.Label
		s.stack = append(s.stack[:len(s.stack)-2], s0)
	case Right:
		s0, s1 := s.top()
		s.heads[s0] = s1
		s.labels[s0] = m.Label
		s.stack = s.stack[:len(s.stack)-1]
	}
}

func (*Scheme) Cost(m transitionx.Move, s *State, gold *Gold) float64 {
	switch m.Kind {
	case Shift:
		if len(s.stack) >= 2 {
			s0, s1 := s.top()
			if gold.canAttach(s, s1, s0) || gold.canAttach(s, s0, s1) {
				return 1
			}
		}
		return 0
	case Left:
		s0, s1 := s.top()
		if gold.canAttach(s, s1, s0) && gold.labels[s1] == m.Label {
			return 0
		}
	case Right:
		s0, s1 := s.top()
		if gold.canAttach(s, s0, s1) && gold.labels[s0] == m.Label {
			return 0
		}
	}
	return 1
}

// canAttach reports whether dep's gold head is head and dep has collected
// all of its own gold dependents, so popping it loses nothing.
func (g *Gold) canAttach(s *State, dep, head int) bool {
	if g.heads[dep] != head {
		return false
	}
	for _, d := range g.deps[dep] {
		if s.heads[d] != dep {
			return false
		}
	}
	return true
}

// InitializeState resets s to the initial configuration.
func (*Scheme) InitializeState(s *State) {
	s.reset()
}

// FinalizeState labels the remaining root token.
func (sc *Scheme) FinalizeState(s *State) {
	root := sc.rootLabel()
	for _, i := range s.stack {
		if s.heads[i] == NoHead {
			s.labels[i] = root
		}
	}
}

// LabelCounts counts the moves the gold trees use, keyed for
// transitionx.System.Initialize. Root tokens need no arc and are not counted.
func LabelCounts(sents []Sentence) map[transitionx.ActionKind]map[string]int {
	c := builder.NewCounter()
	for _, sent := range sents {
		c.AddN(Shift, "", len(sent.Heads))
		for i, h := range sent.Heads {
			switch {
			case h == NoHead:
			case h > i:
				c.Add(Left, sent.Labels[i])
			default:
				c.Add(Right, sent.Labels[i])
			}
		}
	}
	return c.Build(0)
}
