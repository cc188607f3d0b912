// Package benchmarks provides performance benchmarks for the oracle, the
// beam and the action table.
package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/comalice/transitionx"
	"github.com/comalice/transitionx/schemes/arcstandard"
)

func TestGenTreebankIsReachable(t *testing.T) {
	sents := GenTreebank(20, 15, 7)
	sys, err := NewParser(sents)
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range sents {
		gold, err := arcstandard.NewGold(sys.Strings(), s)
		if err != nil {
			t.Fatalf("sentence %d: %v", i, err)
		}
		seq, err := sys.DeriveSequence(arcstandard.NewState(len(s.Heads)), gold)
		if err != nil {
			t.Fatalf("sentence %d: %v", i, err)
		}
		if len(seq) != 2*len(s.Heads)-1 {
			t.Errorf("sentence %d: %d moves, want %d", i, len(seq), 2*len(s.Heads)-1)
		}
	}
}

func BenchmarkDeriveSequence(b *testing.B) {
	for _, length := range []int{10, 40} {
		b.Run(fmt.Sprintf("len_%d", length), func(b *testing.B) {
			sents := GenTreebank(1, length, 1)
			sys, err := NewParser(sents)
			if err != nil {
				b.Fatal(err)
			}
			gold, err := arcstandard.NewGold(sys.Strings(), sents[0])
			if err != nil {
				b.Fatal(err)
			}
			state := arcstandard.NewState(length)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := sys.DeriveSequence(state, gold); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkOracleBatch(b *testing.B) {
	sents := GenTreebank(256, 20, 2)
	sys, err := NewParser(sents)
	if err != nil {
		b.Fatal(err)
	}
	golds := make([]*arcstandard.Gold, len(sents))
	for i, s := range sents {
		if golds[i], err = arcstandard.NewGold(sys.Strings(), s); err != nil {
			b.Fatal(err)
		}
	}
	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				states := make([]*arcstandard.State, len(sents))
				for j, s := range sents {
					states[j] = arcstandard.NewState(len(s.Heads))
				}
				if _, err := transitionx.OracleBatch(context.Background(), sys, states, golds, workers); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkEvaluateValidity(b *testing.B) {
	sents := GenTreebank(50, 30, 3)
	sys, err := NewParser(sents)
	if err != nil {
		b.Fatal(err)
	}
	state := arcstandard.NewState(30)
	shift, err := sys.Lookup("SHIFT")
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := sys.Apply(state, shift.ID); err != nil {
			b.Fatal(err)
		}
	}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = sys.EvaluateValidity(state)
	}
}
