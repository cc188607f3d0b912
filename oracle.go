package transitionx

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/comalice/transitionx/internal/telemetry"
)

// DeriveSequence runs the dynamic oracle: starting from the initialized
// state it repeatedly applies the lowest-ID valid move with cost <= 0 until
// the state is final, and returns the applied move IDs.
//
// state is mutated and ends in the final state the sequence reaches. When
// some step has no zero-cost move the returned error is a
// *NoZeroCostMoveError; the gold structure cannot be reached and the input
// should be skipped.
func (s *System[S, G]) DeriveSequence(state S, gold G) ([]int, error) {
	s.initHook(state)

	var seq []int
	for !state.IsFinal() {
		_, costs, err := s.EvaluateCosts(state, gold)
		if err != nil {
			var nz *NoZeroCostMoveError
			if errors.As(err, &nz) {
				nz.Step = len(seq)
				s.logger.Warn("oracle found no zero-cost move",
					"step", nz.Step,
					"valid", nz.Valid,
					"moves", nz.Moves,
				)
			}
			telemetry.ObserveOracle(telemetry.ResultNoZeroCost, len(seq))
			return seq, err
		}

		best := -1
		for id, c := range costs {
			if c.GoldConsistent() {
				best = id
				break
			}
		}
		s.scheme.Apply(s.table.moves[best], state)
		seq = append(seq, best)
	}

	telemetry.ObserveOracle(telemetry.ResultOK, len(seq))
	return seq, nil
}

// OracleResult is the outcome of one input in OracleBatch.
type OracleResult struct {
	Sequence []int
	Err      error
}

// OracleBatch derives sequences for many independent inputs, running up to
// workers derivations at a time (workers <= 0 means no limit). Per-input
// failures are reported in the results and do not stop the batch; the
// returned error is non-nil only when ctx is cancelled.
//
// The scheme must tolerate concurrent IsValid/Cost/Apply calls on distinct
// states, and the action table must not change while the batch runs.
func OracleBatch[S State, G any](ctx context.Context, sys *System[S, G], states []S, golds []G, workers int) ([]OracleResult, error) {
	if len(states) != len(golds) {
		return nil, errors.New("states and golds differ in length")
	}
	results := make([]OracleResult, len(states))

	g, gCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range states {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			seq, err := sys.DeriveSequence(states[i], golds[i])
			results[i] = OracleResult{Sequence: seq, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
