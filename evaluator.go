package transitionx

import "math/bits"

// Validity is a bit vector with one bit per registered move.
type Validity struct {
	words []uint64
	n     int
}

func newValidity(n int) Validity {
	return Validity{words: make([]uint64, (n+63)/64), n: n}
}

func (v Validity) set(i int) {
	v.words[i/64] |= 1 << (uint(i) % 64)
}

// Get reports whether move i is valid.
func (v Validity) Get(i int) bool {
	if i < 0 || i >= v.n {
		return false
	}
	return v.words[i/64]&(1<<(uint(i)%64)) != 0
}

// Len returns the number of moves covered.
func (v Validity) Len() int {
	return v.n
}

// Count returns the number of valid moves.
func (v Validity) Count() int {
	c := 0
	for _, w := range v.words {
		c += bits.OnesCount64(w)
	}
	return c
}

// EvaluateValidity checks every registered move against state.
func (s *System[S, G]) EvaluateValidity(state S) Validity {
	n := s.table.Len()
	v := newValidity(n)
	for i := 0; i < n; i++ {
		if s.scheme.IsValid(s.table.moves[i], state) {
			v.set(i)
		}
	}
	return v
}

// EvaluateCosts computes validity and, for valid moves, the cost against
// gold. Invalid moves get Cost{Valid: false, Value: InvalidCost}.
// It returns a *NoZeroCostMoveError (Step -1) alongside the vectors when no
// valid move has cost <= 0.
func (s *System[S, G]) EvaluateCosts(state S, gold G) (Validity, []Cost, error) {
	n := s.table.Len()
	v := newValidity(n)
	costs := make([]Cost, n)
	zero := 0
	for i := 0; i < n; i++ {
		m := s.table.moves[i]
		if !s.scheme.IsValid(m, state) {
			costs[i] = Cost{Valid: false, Value: InvalidCost}
			continue
		}
		v.set(i)
		costs[i] = Cost{Valid: true, Value: s.scheme.Cost(m, state, gold)}
		if costs[i].Value <= 0 {
			zero++
		}
	}
	if zero == 0 {
		return v, costs, &NoZeroCostMoveError{Step: -1, Valid: v.Count(), Moves: n}
	}
	return v, costs, nil
}
