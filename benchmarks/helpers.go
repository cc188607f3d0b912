// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"
	"math/rand/v2"

	"github.com/comalice/transitionx"
	"github.com/comalice/transitionx/schemes/arcstandard"
	"github.com/comalice/transitionx/stringstore"
)

var relations = []string{"nsubj", "dobj", "amod", "det", "advmod", "prep", "pobj", "aux", "cc", "conj"}

// GenTreebank creates n random projective trees of the given length. The
// same seed gives the same trees.
func GenTreebank(n, length int, seed uint64) []arcstandard.Sentence {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]arcstandard.Sentence, n)
	for i := range out {
		s := arcstandard.Sentence{
			Words:  make([]string, length),
			Heads:  make([]int, length),
			Labels: make([]string, length),
		}
		for j := range s.Words {
			s.Words[j] = fmt.Sprintf("w%d", j)
		}
		root := span(rng, s, 0, length)
		s.Heads[root] = arcstandard.NoHead
		s.Labels[root] = arcstandard.RootLabel
		out[i] = s
	}
	return out
}

// span builds a projective subtree over [lo, hi) and returns its head.
func span(rng *rand.Rand, s arcstandard.Sentence, lo, hi int) int {
	if lo >= hi {
		return -1
	}
	r := lo + rng.IntN(hi-lo)
	for _, child := range []int{span(rng, s, lo, r), span(rng, s, r+1, hi)} {
		if child >= 0 {
			s.Heads[child] = r
			s.Labels[child] = relations[rng.IntN(len(relations))]
		}
	}
	return r
}

// NewParser creates an arc-standard system initialized from sents.
func NewParser(sents []arcstandard.Sentence) (*transitionx.System[*arcstandard.State, *arcstandard.Gold], error) {
	strs := stringstore.New()
	sys, err := transitionx.NewSystem[*arcstandard.State, *arcstandard.Gold](arcstandard.New(strs), transitionx.WithInterner(strs))
	if err != nil {
		return nil, err
	}
	if err := sys.Initialize(arcstandard.LabelCounts(sents), 0); err != nil {
		return nil, err
	}
	return sys, nil
}
