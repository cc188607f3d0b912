package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/transitionx"
	"github.com/comalice/transitionx/internal/config"
	"github.com/comalice/transitionx/internal/production"
	"github.com/comalice/transitionx/schemes/arcstandard"
	"github.com/comalice/transitionx/schemes/tagger"
	"github.com/comalice/transitionx/stringstore"
)

// engine hides the state and gold types of a concrete scheme from the
// commands.
type engine interface {
	// Count derives label frequencies from a gold corpus file.
	Count(corpus []byte) (map[transitionx.ActionKind]map[string]int, error)
	Initialize(labels map[transitionx.ActionKind]map[string]int, minFreq int) error
	ToBytes(exclude ...string) ([]byte, error)
	FromBytes(data []byte, exclude ...string) error
	Rows() []production.Row
	// Oracle derives the move names for every item of a gold corpus file.
	Oracle(ctx context.Context, corpus []byte, workers int) ([]oracleLine, error)
	// Decode runs beam search over token sequences, ranking moves by their
	// training frequency.
	Decode(tokens [][]string, width int, density float64) ([]decodeLine, error)
}

type oracleLine struct {
	Moves []string
	Err   error
}

type decodeLine struct {
	Moves []string
	Score float64
}

func newEngine(scheme string, logger *slog.Logger) (engine, error) {
	strs := stringstore.New()
	switch scheme {
	case config.SchemeArcStandard:
		sys, err := transitionx.NewSystem[*arcstandard.State, *arcstandard.Gold](
			arcstandard.New(strs), transitionx.WithInterner(strs), transitionx.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return &arcEngine{sys: sys}, nil
	case config.SchemeTagger:
		sys, err := transitionx.NewSystem[*tagger.State, *tagger.Gold](
			tagger.Scheme{}, transitionx.WithInterner(strs), transitionx.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return &tagEngine{sys: sys}, nil
	}
	return nil, fmt.Errorf("unknown scheme %q", scheme)
}

func names[S transitionx.State, G any](sys *transitionx.System[S, G], results []transitionx.OracleResult) []oracleLine {
	out := make([]oracleLine, len(results))
	for i, r := range results {
		out[i].Err = r.Err
		for _, id := range r.Sequence {
			out[i].Moves = append(out[i].Moves, sys.DescribeMove(id))
		}
	}
	return out
}

// frequencyScorer scores each valid move by the log of its training
// frequency. Added moves, with negative frequencies, score zero.
func frequencyScorer[S transitionx.State, G any](sys *transitionx.System[S, G]) transitionx.Scorer[S] {
	table := sys.Table()
	return transitionx.MoveScorer(sys, func(_ S, m transitionx.Move) float64 {
		return math.Log1p(float64(max(table.Frequency(m.ID), 0)))
	})
}

func decode[S transitionx.BeamState[S], G any](sys *transitionx.System[S, G], inputs []transitionx.Input[S], width int, density float64) ([]decodeLine, error) {
	beams, err := transitionx.InitializeBeams(sys, inputs, width, density)
	if err != nil {
		return nil, err
	}
	// Both schemes finish within two moves per token.
	longest := 0
	for _, in := range inputs {
		longest = max(longest, in.Length)
	}
	if err := transitionx.Decode(beams, frequencyScorer(sys), 2*longest+1); err != nil {
		return nil, err
	}

	out := make([]decodeLine, len(beams))
	for i, b := range beams {
		best, ok := b.Best()
		if !ok {
			return nil, fmt.Errorf("input %d: no complete hypothesis", i)
		}
		out[i].Score = best.Score
		for _, id := range best.History {
			out[i].Moves = append(out[i].Moves, sys.DescribeMove(id))
		}
	}
	return out, nil
}

// #region arcstandard
type arcEngine struct {
	sys *transitionx.System[*arcstandard.State, *arcstandard.Gold]
}

func parseTrees(corpus []byte) ([]arcstandard.Sentence, error) {
	var sents []arcstandard.Sentence
	if err := yaml.Unmarshal(corpus, &sents); err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}
	for i, s := range sents {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i, err)
		}
	}
	return sents, nil
}

func (e *arcEngine) Count(corpus []byte) (map[transitionx.ActionKind]map[string]int, error) {
	sents, err := parseTrees(corpus)
	if err != nil {
		return nil, err
	}
	return arcstandard.LabelCounts(sents), nil
}

func (e *arcEngine) Initialize(labels map[transitionx.ActionKind]map[string]int, minFreq int) error {
	return e.sys.Initialize(labels, minFreq)
}

func (e *arcEngine) ToBytes(exclude ...string) ([]byte, error) { return e.sys.ToBytes(exclude...) }

func (e *arcEngine) FromBytes(data []byte, exclude ...string) error {
	return e.sys.FromBytes(data, exclude...)
}

func (e *arcEngine) Rows() []production.Row { return production.Rows(e.sys) }

func (e *arcEngine) Oracle(ctx context.Context, corpus []byte, workers int) ([]oracleLine, error) {
	sents, err := parseTrees(corpus)
	if err != nil {
		return nil, err
	}
	states := make([]*arcstandard.State, len(sents))
	golds := make([]*arcstandard.Gold, len(sents))
	for i, s := range sents {
		states[i] = arcstandard.NewState(len(s.Heads))
		// Unseen labels are interned here; they have no move, so those
		// sentences fail in the oracle instead.
		if golds[i], err = arcstandard.NewGold(e.sys.Strings(), s); err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i, err)
		}
	}
	results, err := transitionx.OracleBatch(ctx, e.sys, states, golds, workers)
	if err != nil {
		return nil, err
	}
	return names(e.sys, results), nil
}

func (e *arcEngine) Decode(tokens [][]string, width int, density float64) ([]decodeLine, error) {
	inputs := make([]transitionx.Input[*arcstandard.State], len(tokens))
	for i, toks := range tokens {
		inputs[i] = transitionx.Input[*arcstandard.State]{State: arcstandard.NewState(len(toks)), Length: len(toks)}
	}
	return decode(e.sys, inputs, width, density)
}
// #endregion arcstandard

// #region tagger
type tagEngine struct {
	sys *transitionx.System[*tagger.State, *tagger.Gold]
}

func parseSequences(corpus []byte) ([][]string, error) {
	var seqs [][]string
	if err := yaml.Unmarshal(corpus, &seqs); err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}
	for i, s := range seqs {
		for j, tag := range s {
			if strings.TrimSpace(tag) == "" {
				return nil, fmt.Errorf("sequence %d: empty tag at %d", i, j)
			}
		}
	}
	return seqs, nil
}

func (e *tagEngine) Count(corpus []byte) (map[transitionx.ActionKind]map[string]int, error) {
	seqs, err := parseSequences(corpus)
	if err != nil {
		return nil, err
	}
	return tagger.LabelCounts(seqs), nil
}

func (e *tagEngine) Initialize(labels map[transitionx.ActionKind]map[string]int, minFreq int) error {
	return e.sys.Initialize(labels, minFreq)
}

func (e *tagEngine) ToBytes(exclude ...string) ([]byte, error) { return e.sys.ToBytes(exclude...) }

func (e *tagEngine) FromBytes(data []byte, exclude ...string) error {
	return e.sys.FromBytes(data, exclude...)
}

func (e *tagEngine) Rows() []production.Row { return production.Rows(e.sys) }

func (e *tagEngine) Oracle(ctx context.Context, corpus []byte, workers int) ([]oracleLine, error) {
	seqs, err := parseSequences(corpus)
	if err != nil {
		return nil, err
	}
	states := make([]*tagger.State, len(seqs))
	golds := make([]*tagger.Gold, len(seqs))
	for i, s := range seqs {
		states[i] = tagger.NewState(len(s))
		golds[i] = tagger.NewGold(e.sys.Strings(), s)
	}
	results, err := transitionx.OracleBatch(ctx, e.sys, states, golds, workers)
	if err != nil {
		return nil, err
	}
	return names(e.sys, results), nil
}

func (e *tagEngine) Decode(tokens [][]string, width int, density float64) ([]decodeLine, error) {
	inputs := make([]transitionx.Input[*tagger.State], len(tokens))
	for i, toks := range tokens {
		inputs[i] = transitionx.Input[*tagger.State]{State: tagger.NewState(len(toks)), Length: len(toks)}
	}
	return decode(e.sys, inputs, width, density)
}
// #endregion tagger
