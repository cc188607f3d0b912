// Package transitionx is the core of a transition-based structured
// prediction engine.
//
// A target structure (a dependency tree, a label sequence) is built over an
// input by repeatedly applying moves to a mutable state. A move is an
// (action kind, label) pair registered in an ActionTable, which assigns each
// move a stable numeric ID. A Scheme defines which moves are valid in a
// state, what they do, and what they cost against a gold structure.
//
// A System ties a Scheme to its ActionTable and provides:
//
//   - the validity/cost evaluator (EvaluateValidity, EvaluateCosts)
//   - the dynamic oracle (DeriveSequence, OracleBatch), which derives the
//     lowest-ID zero-cost move sequence toward a gold structure
//   - serialization (ToBytes, FromBytes) that reproduces move IDs exactly
//
// Beam search over K hypotheses per input is provided by InitializeBeams,
// Beam.Advance and Decode, driven by an external Scorer.
//
// # Example
//
//	sys, _ := transitionx.NewSystem[*arcstandard.State, *arcstandard.Gold](arcstandard.New(strs),
//		transitionx.WithInterner(strs))
//	_ = sys.Initialize(arcstandard.LabelCounts(sentences), 0)
//	seq, err := sys.DeriveSequence(arcstandard.NewState(len(words)), gold)
//
// The core is synchronous. Once built, the action table may be shared
// read-only by independent oracle and beam runs.
package transitionx
