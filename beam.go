package transitionx

import (
	"errors"
	"fmt"
	"sort"

	"github.com/comalice/transitionx/internal/telemetry"
)

// BeamState is a State that can be copied, so every beam entry owns its
// state exclusively.
type BeamState[S any] interface {
	State
	Clone() S
}

// Scorer is the external model ranking moves. Score is called once per live
// entry per step and returns one score per move ID; entries for invalid
// moves are ignored.
type Scorer[S any] interface {
	Score(state S) []float64
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc[S any] func(state S) []float64

func (f ScorerFunc[S]) Score(state S) []float64 {
	return f(state)
}

// MoveScorer builds a Scorer from a per-move scoring function.
func MoveScorer[S State, G any](sys *System[S, G], fn func(state S, m Move) float64) Scorer[S] {
	return ScorerFunc[S](func(state S) []float64 {
		scores := make([]float64, sys.table.Len())
		for i, m := range sys.table.moves {
			if sys.scheme.IsValid(m, state) {
				scores[i] = fn(state, m)
			}
		}
		return scores
	})
}

// Input is one sequence to decode. Length is the number of tokens it covers
// in the caller's shared token buffer.
type Input[S any] struct {
	State  S
	Length int
}

// Entry is one hypothesis of a Beam.
type Entry[S any] struct {
	State   S
	Score   float64
	History []int
	Final   bool
}

// Beam holds up to Width hypotheses for one input. Offset and Length locate
// the input inside the shared token buffer the batch was built from.
type Beam[S BeamState[S], G any] struct {
	Width   int
	Density float64
	Offset  int
	Length  int

	sys     *System[S, G]
	entries []*Entry[S]
	steps   int
}

// InitializeBeams creates one beam per input, seeded with the input's state
// after the scheme's initialization hook. Offsets are the running sum of the
// input lengths.
//
// width caps the number of entries kept after every step. density, when
// positive, additionally drops expansions scoring more than density below
// the best surviving expansion.
func InitializeBeams[S BeamState[S], G any](sys *System[S, G], inputs []Input[S], width int, density float64) ([]*Beam[S, G], error) {
	if width < 1 {
		return nil, fmt.Errorf("beam width must be positive, got %d", width)
	}
	beams := make([]*Beam[S, G], len(inputs))
	offset := 0
	for i, in := range inputs {
		sys.initHook(in.State)
		beams[i] = &Beam[S, G]{
			Width:   width,
			Density: density,
			Offset:  offset,
			Length:  in.Length,
			sys:     sys,
			entries: []*Entry[S]{{
				State: in.State,
				Final: in.State.IsFinal(),
			}},
		}
		offset += in.Length
	}
	return beams, nil
}

// Entries returns the current hypotheses, best first.
func (b *Beam[S, G]) Entries() []*Entry[S] {
	return append([]*Entry[S](nil), b.entries...)
}

// Steps returns the number of Advance calls that expanded something.
func (b *Beam[S, G]) Steps() int {
	return b.steps
}

// Done reports whether every entry is final.
func (b *Beam[S, G]) Done() bool {
	for _, e := range b.entries {
		if !e.Final {
			return false
		}
	}
	return true
}

// Best returns the highest-scoring final entry.
func (b *Beam[S, G]) Best() (*Entry[S], bool) {
	for _, e := range b.entries {
		if e.Final {
			return e, true
		}
	}
	return nil, false
}

type candidate struct {
	parent int
	move   int // -1 carries a final entry over unchanged
	score  float64
}

// Advance performs one decoding step. Every non-final entry is expanded by
// each valid move, scored as parent score plus the scorer's score for the
// move. Final entries compete unchanged. The best Width candidates survive,
// minus any trailing the best by more than Density.
func (b *Beam[S, G]) Advance(scorer Scorer[S]) error {
	if b.Done() {
		return nil
	}
	n := b.sys.table.Len()

	var cands []candidate
	expanded := 0
	for i, e := range b.entries {
		if e.Final {
			cands = append(cands, candidate{parent: i, move: -1, score: e.Score})
			continue
		}
		valid := b.sys.EvaluateValidity(e.State)
		if valid.Count() == 0 {
			return fmt.Errorf("%w: entry %d after %d moves", ErrNoValidMove, i, len(e.History))
		}
		scores := scorer.Score(e.State)
		if len(scores) < n {
			return fmt.Errorf("%w: got %d, want %d", ErrScoreVector, len(scores), n)
		}
		for id := 0; id < n; id++ {
			if valid.Get(id) {
				cands = append(cands, candidate{parent: i, move: id, score: e.Score + scores[id]})
				expanded++
			}
		}
	}
	telemetry.BeamExpanded(expanded)

	// Stable: ties keep parent order, then move ID order.
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })
	if len(cands) > b.Width {
		telemetry.BeamPruned(telemetry.PruneWidth, len(cands)-b.Width)
		cands = cands[:b.Width]
	}
	if b.Density > 0 {
		best := cands[0].score
		keep := len(cands)
		for keep > 1 && best-cands[keep-1].score > b.Density {
			keep--
		}
		telemetry.BeamPruned(telemetry.PruneDensity, len(cands)-keep)
		cands = cands[:keep]
	}

	next := make([]*Entry[S], 0, len(cands))
	for _, c := range cands {
		parent := b.entries[c.parent]
		if c.move < 0 {
			next = append(next, parent)
			continue
		}
		st := parent.State.Clone()
		b.sys.scheme.Apply(b.sys.table.moves[c.move], st)
		hist := make([]int, len(parent.History), len(parent.History)+1)
		copy(hist, parent.History)
		next = append(next, &Entry[S]{
			State:   st,
			Score:   c.score,
			History: append(hist, c.move),
			Final:   st.IsFinal(),
		})
	}
	b.entries = next
	b.steps++
	return nil
}

// Finalize runs the scheme's finalization hook on every final entry.
func (b *Beam[S, G]) Finalize() {
	for _, e := range b.entries {
		if e.Final {
			b.sys.finalHook(e.State)
		}
	}
}

// Decode advances every beam until all are done, then finalizes them.
// maxSteps <= 0 means no limit; otherwise a beam still running after
// maxSteps steps yields ErrStepLimit.
func Decode[S BeamState[S], G any](beams []*Beam[S, G], scorer Scorer[S], maxSteps int) error {
	var errs []error
	for i, b := range beams {
		for !b.Done() {
			if maxSteps > 0 && b.steps >= maxSteps {
				errs = append(errs, fmt.Errorf("beam %d: %w (%d)", i, ErrStepLimit, maxSteps))
				break
			}
			if err := b.Advance(scorer); err != nil {
				errs = append(errs, fmt.Errorf("beam %d: %w", i, err))
				break
			}
		}
		b.Finalize()
	}
	return errors.Join(errs...)
}
