// Package testutil provides small schemes and scorers shared by tests and
// benchmarks.
package testutil

import (
	"sync/atomic"

	"github.com/comalice/transitionx"
)

const (
	Shift  transitionx.ActionKind = 0
	Reduce transitionx.ActionKind = 1
)

// SRState is a counter machine: SHIFT consumes a token and opens a
// constituent, REDUCE closes one. It is final when every token is consumed
// and nothing is open.
type SRState struct {
	N     int
	Pos   int
	Depth int
	Trace []transitionx.ActionKind
}

func NewSRState(n int) *SRState {
	return &SRState{N: n}
}

func (s *SRState) IsFinal() bool {
	return s.Pos == s.N && s.Depth == 0
}

func (s *SRState) Clone() *SRState {
	c := *s
	c.Trace = append([]transitionx.ActionKind(nil), s.Trace...)
	return &c
}

// SRGold lists the kind the gold derivation uses at each step.
type SRGold struct {
	Script []transitionx.ActionKind
}

// ShiftReduce is a two-kind scheme with hook counters.
type ShiftReduce struct {
	Initialized atomic.Int64
	Finalized   atomic.Int64
}

func (*ShiftReduce) KindNames() []string {
	return []string{"SHIFT", "REDUCE"}
}

func (*ShiftReduce) IsValid(m transitionx.Move, s *SRState) bool {
	switch m.Kind {
	case Shift:
		return s.Pos < s.N
	case Reduce:
		return s.Depth > 0
	}
	return false
}

func (*ShiftReduce) Apply(m transitionx.Move, s *SRState) {
	switch m.Kind {
	case Shift:
		s.Pos++
		s.Depth++
	case Reduce:
		s.Depth--
	}
	s.Trace = append(s.Trace, m.Kind)
}

func (*ShiftReduce) Cost(m transitionx.Move, s *SRState, gold *SRGold) float64 {
	step := len(s.Trace)
	if step < len(gold.Script) && gold.Script[step] == m.Kind {
		return 0
	}
	return 1
}

func (sr *ShiftReduce) InitializeState(s *SRState) {
	sr.Initialized.Add(1)
	s.Pos, s.Depth, s.Trace = 0, 0, nil
}

func (sr *ShiftReduce) FinalizeState(*SRState) {
	sr.Finalized.Add(1)
}

// SRLabels is the frequency table registering one unlabeled SHIFT and REDUCE.
func SRLabels() map[transitionx.ActionKind]map[string]int {
	return map[transitionx.ActionKind]map[string]int{
		Shift:  {"": 1},
		Reduce: {"": 1},
	}
}

// NewShiftReduce builds an initialized shift/reduce system.
func NewShiftReduce() (*transitionx.System[*SRState, *SRGold], *ShiftReduce, error) {
	scheme := &ShiftReduce{}
	sys, err := transitionx.NewSystem[*SRState, *SRGold](scheme)
	if err != nil {
		return nil, nil, err
	}
	if err := sys.Initialize(SRLabels(), 0); err != nil {
		return nil, nil, err
	}
	return sys, scheme, nil
}

// ConstScorer returns the same score vector for every state.
func ConstScorer[S any](scores ...float64) transitionx.Scorer[S] {
	return transitionx.ScorerFunc[S](func(S) []float64 {
		return scores
	})
}
