package benchmarks

import (
	"fmt"
	"testing"

	"github.com/comalice/transitionx"
	"github.com/comalice/transitionx/schemes/arcstandard"
)

// flatScorer prefers SHIFT early and arcs late, which keeps every beam busy
// until the end.
func flatScorer(n int) transitionx.Scorer[*arcstandard.State] {
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = float64(n-i) / float64(n)
	}
	return transitionx.ScorerFunc[*arcstandard.State](func(*arcstandard.State) []float64 {
		return scores
	})
}

func BenchmarkDecode(b *testing.B) {
	sents := GenTreebank(100, 20, 4)
	sys, err := NewParser(sents)
	if err != nil {
		b.Fatal(err)
	}
	scorer := flatScorer(sys.Table().Len())

	for _, width := range []int{1, 8, 32} {
		b.Run(fmt.Sprintf("width_%d", width), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				inputs := make([]transitionx.Input[*arcstandard.State], 8)
				for j := range inputs {
					inputs[j] = transitionx.Input[*arcstandard.State]{State: arcstandard.NewState(20), Length: 20}
				}
				beams, err := transitionx.InitializeBeams(sys, inputs, width, 0)
				if err != nil {
					b.Fatal(err)
				}
				if err := transitionx.Decode(beams, scorer, 0); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
