package transitionx_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/comalice/transitionx"
	"github.com/comalice/transitionx/testutil"
)

func srInputs(lengths ...int) []Input[*testutil.SRState] {
	out := make([]Input[*testutil.SRState], len(lengths))
	for i, n := range lengths {
		out[i] = Input[*testutil.SRState]{State: testutil.NewSRState(n), Length: n}
	}
	return out
}

func TestInitializeBeams(t *testing.T) {
	sys, scheme, err := testutil.NewShiftReduce()
	require.NoError(t, err)

	beams, err := InitializeBeams(sys, srInputs(3, 0, 4), 4, 0)
	require.NoError(t, err)
	require.Len(t, beams, 3)

	assert.Equal(t, []int{0, 3, 3}, []int{beams[0].Offset, beams[1].Offset, beams[2].Offset})
	assert.Equal(t, 4, beams[2].Length)
	assert.Equal(t, int64(3), scheme.Initialized.Load())
	assert.False(t, beams[0].Done())
	assert.True(t, beams[1].Done(), "empty input starts final")

	_, err = InitializeBeams(sys, srInputs(1), 0, 0)
	assert.Error(t, err)
}

func TestBeamNeverExceedsWidth(t *testing.T) {
	sys, _, err := testutil.NewShiftReduce()
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		_, err := sys.AddAction(R, fmt.Sprintf("X%d", i))
		require.NoError(t, err)
	}
	scores := make([]float64, sys.Table().Len())
	for i := range scores {
		scores[i] = float64(i % 3)
	}
	scorer := testutil.ConstScorer[*testutil.SRState](scores...)

	for _, width := range []int{1, 2, 5} {
		beams, err := InitializeBeams(sys, srInputs(4), width, 0)
		require.NoError(t, err)
		b := beams[0]
		for !b.Done() {
			require.NoError(t, b.Advance(scorer))
			assert.LessOrEqual(t, len(b.Entries()), width)
		}
		best, ok := b.Best()
		require.True(t, ok)
		assert.True(t, best.State.IsFinal())
		assert.Len(t, best.History, len(best.State.Trace))
	}
}

func TestBeamEntriesSortedAndIndependent(t *testing.T) {
	sys, _, err := testutil.NewShiftReduce()
	require.NoError(t, err)
	_, err = sys.AddAction(R, "NP")
	require.NoError(t, err)
	scorer := testutil.ConstScorer[*testutil.SRState](1, 3, 2)

	beams, err := InitializeBeams(sys, srInputs(2), 3, 0)
	require.NoError(t, err)
	b := beams[0]

	require.NoError(t, b.Advance(scorer)) // only SHIFT is valid
	require.NoError(t, b.Advance(scorer)) // SHIFT, REDUCE, REDUCE:NP
	entries := b.Entries()
	require.Len(t, entries, 3)

	assert.Equal(t, []float64{4, 3, 2}, []float64{entries[0].Score, entries[1].Score, entries[2].Score})
	assert.Equal(t, []int{0, 1}, entries[0].History)
	assert.Equal(t, []int{0, 2}, entries[1].History)
	assert.Equal(t, []int{0, 0}, entries[2].History)

	for i := range entries {
		for j := i + 1; j < len(entries); j++ {
			assert.NotSame(t, entries[i].State, entries[j].State)
		}
	}
	entries[0].State.Depth = 42
	assert.NotEqual(t, 42, entries[1].State.Depth)
}

func TestBeamDensityPruning(t *testing.T) {
	sys, _, err := testutil.NewShiftReduce()
	require.NoError(t, err)
	scorer := testutil.ConstScorer[*testutil.SRState](0, -5)

	beams, err := InitializeBeams(sys, srInputs(2), 8, 1)
	require.NoError(t, err)
	b := beams[0]

	require.NoError(t, b.Advance(scorer)) // S
	require.NoError(t, b.Advance(scorer)) // S (0) vs R (-5): R trails by 5 > 1
	require.Len(t, b.Entries(), 1)
	assert.Equal(t, []int{0, 0}, b.Entries()[0].History)
}

func TestBeamDensityKeepsCloseCandidates(t *testing.T) {
	sys, _, err := testutil.NewShiftReduce()
	require.NoError(t, err)
	scorer := testutil.ConstScorer[*testutil.SRState](0, -0.5)

	beams, err := InitializeBeams(sys, srInputs(2), 8, 1)
	require.NoError(t, err)
	b := beams[0]
	require.NoError(t, b.Advance(scorer))
	require.NoError(t, b.Advance(scorer))
	assert.Len(t, b.Entries(), 2)
}

func TestFinalEntriesCarryOver(t *testing.T) {
	sys, scheme, err := testutil.NewShiftReduce()
	require.NoError(t, err)
	// Reducing scores high, so every constituent closes as early as possible.
	scorer := testutil.ConstScorer[*testutil.SRState](0, 10)

	beams, err := InitializeBeams(sys, srInputs(2), 4, 0)
	require.NoError(t, err)
	require.NoError(t, Decode(beams, scorer, 0))

	b := beams[0]
	assert.True(t, b.Done())
	best, ok := b.Best()
	require.True(t, ok)
	assert.Equal(t, []int{0, 1, 0, 1}, best.History)
	assert.Equal(t, 20.0, best.Score)
	assert.Equal(t, int64(len(b.Entries())), scheme.Finalized.Load())
}

func TestAdvanceErrors(t *testing.T) {
	sys, _, err := testutil.NewShiftReduce()
	require.NoError(t, err)

	beams, err := InitializeBeams(sys, srInputs(2), 2, 0)
	require.NoError(t, err)
	err = beams[0].Advance(testutil.ConstScorer[*testutil.SRState](1))
	assert.ErrorIs(t, err, ErrScoreVector)

	shiftOnly, err := NewSystem[*testutil.SRState, *testutil.SRGold](&testutil.ShiftReduce{})
	require.NoError(t, err)
	require.NoError(t, shiftOnly.Initialize(map[ActionKind]map[string]int{S: {"": 1}}, 0))
	beams, err = InitializeBeams(shiftOnly, srInputs(1), 2, 0)
	require.NoError(t, err)
	scorer := testutil.ConstScorer[*testutil.SRState](0)
	require.NoError(t, beams[0].Advance(scorer))
	err = beams[0].Advance(scorer)
	assert.ErrorIs(t, err, ErrNoValidMove)
}

func TestDecodeStepLimit(t *testing.T) {
	sys, _, err := testutil.NewShiftReduce()
	require.NoError(t, err)

	beams, err := InitializeBeams(sys, srInputs(1, 3), 2, 0)
	require.NoError(t, err)
	err = Decode(beams, testutil.ConstScorer[*testutil.SRState](0, 0), 2)
	assert.ErrorIs(t, err, ErrStepLimit)
	assert.True(t, beams[0].Done())
	assert.False(t, beams[1].Done())
}

func TestMoveScorer(t *testing.T) {
	sys, _, err := testutil.NewShiftReduce()
	require.NoError(t, err)
	calls := 0
	scorer := MoveScorer(sys, func(_ *testutil.SRState, m Move) float64 {
		calls++
		return float64(m.ID + 1)
	})

	scores := scorer.Score(testutil.NewSRState(1))
	assert.Equal(t, []float64{1, 0}, scores, "invalid moves are not scored")
	assert.Equal(t, 1, calls)
}
