package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/moea/stats"
)

const (
	idSum = iota
	idCount
	idAvg
	idVariance
	idDeviation
	idBest
)

func newFloatValue(depth int) *stats.Value[float64] {
	return stats.NewValue(stats.NumericOps[float64](), stats.SumCombiner[float64]{}, depth, false)
}

// TestValue_HistoryCompression verifies that consecutive equal values merge
// into one block and IsChanged reports no change across the run.
func TestValue_HistoryCompression(t *testing.T) {
	v := newFloatValue(10)

	v.SetCurrent(1)
	require.NoError(t, v.Next())

	// five equal rotations compress into the newest block
	for i := 0; i < 5; i++ {
		v.SetCurrent(7)
		require.NoError(t, v.Next())
	}

	assert.Equal(t, 6, v.CurrentDepth())
	assert.False(t, v.IsChanged(4), "values within the equal run are unchanged")
	assert.True(t, v.IsChanged(6), "the oldest entry differs")
	assert.Equal(t, 4, v.LastChange(), "four merges since the last change")
}

// TestValue_HistoryEviction keeps the depth bounded and evicts from the
// oldest block.
func TestValue_HistoryEviction(t *testing.T) {
	v := newFloatValue(3)

	for i := 1; i <= 5; i++ {
		v.SetCurrent(float64(i))
		require.NoError(t, v.Next())
	}

	assert.Equal(t, 3, v.CurrentDepth())
	assert.True(t, v.HistoryFull())

	oldest, err := v.Previous(-1)
	require.NoError(t, err)
	assert.Equal(t, 3.0, oldest, "entries 1 and 2 were evicted")
}

// TestValue_Previous indexes from the newest entry backwards.
func TestValue_Previous(t *testing.T) {
	v := newFloatValue(5)

	for i := 1; i <= 4; i++ {
		v.SetCurrent(float64(i))
		require.NoError(t, v.Next())
	}
	v.SetCurrent(9)

	got, err := v.Previous(0)
	require.NoError(t, err)
	assert.Equal(t, 9.0, got, "depth 0 is the current value")

	got, err = v.Previous(1)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got)

	got, err = v.Previous(4)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

// TestValue_ProgressAndRelative computes absolute and relative progress
// against the history.
func TestValue_ProgressAndRelative(t *testing.T) {
	v := newFloatValue(5)

	v.SetCurrent(10)
	require.NoError(t, v.Next())
	v.SetCurrent(15)

	p, err := v.Progress(1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, p)

	r, err := v.RelativeProgress(1)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, r, 1e-12)
}

// TestValue_NextEmpty rejects rotating an empty current value.
func TestValue_NextEmpty(t *testing.T) {
	v := newFloatValue(3)
	assert.ErrorIs(t, v.Next(), stats.ErrEmptyValue)
}

// TestValue_Accumulation sums every rotated value into a running total.
func TestValue_Accumulation(t *testing.T) {
	v := stats.NewValue(stats.NumericOps[float64](), stats.SumCombiner[float64]{}, 3, true)

	for i := 1; i <= 4; i++ {
		v.SetCurrent(float64(i))
		require.NoError(t, v.Next())
	}

	total, ok := v.Accumulated()
	assert.True(t, ok)
	assert.Equal(t, 10.0, total)
}

// TestValue_SetHistoryDepthShrink drops the oldest entries.
func TestValue_SetHistoryDepthShrink(t *testing.T) {
	v := newFloatValue(10)

	for i := 1; i <= 6; i++ {
		v.SetCurrent(float64(i))
		require.NoError(t, v.Next())
	}

	require.NoError(t, v.SetHistoryDepth(2))
	assert.Equal(t, 2, v.CurrentDepth())

	oldest, err := v.Previous(-1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, oldest)
}

// TestSelectionCombiner keeps the greater or lower value per mode.
func TestSelectionCombiner(t *testing.T) {
	greater := stats.NewValue(stats.NumericOps[float64](), stats.SelectionCombiner[float64]{Mode: stats.SelectGreater}, 3, false)
	src := newFloatValue(3)

	greater.SetCurrent(2)
	src.SetCurrent(5)
	require.NoError(t, greater.Combine(src))
	assert.Equal(t, 5.0, greater.CurrentValue())

	lower := stats.NewValue(stats.NumericOps[float64](), stats.SelectionCombiner[float64]{Mode: stats.SelectLower}, 3, false)
	lower.SetCurrent(2)
	require.NoError(t, lower.Combine(src))
	assert.Equal(t, 2.0, lower.CurrentValue())
}

// TestStatistics_EvaluatedFreshness re-evaluates derived values the moment
// any dependency changes: avg = sum/count, deviation = sqrt(variance).
func TestStatistics_EvaluatedFreshness(t *testing.T) {
	s, err := stats.New(5)
	require.NoError(t, err)

	require.NoError(t, s.AddValue(idSum, newFloatValue(-1)))
	require.NoError(t, s.AddValue(idCount, newFloatValue(-1)))

	avg := stats.NewValue[float64](stats.NumericOps[float64](), nil, -1, false)
	require.NoError(t, s.AddEvaluatedValue(idAvg, avg, stats.DivisionEvaluator[float64]{NumeratorID: idSum, DenominatorID: idCount}))

	sum, err := stats.Get[float64](s, idSum)
	require.NoError(t, err)
	count, err := stats.Get[float64](s, idCount)
	require.NoError(t, err)

	count.SetCurrent(4)
	sum.SetCurrent(20)
	assert.Equal(t, 5.0, avg.CurrentValue(), "average recomputed on dependency change")

	sum.SetCurrent(40)
	assert.Equal(t, 10.0, avg.CurrentValue(), "average fresh before any read")

	// chain: deviation = sqrt(variance)
	require.NoError(t, s.AddValue(idVariance, newFloatValue(-1)))
	deviation := stats.NewValue[float64](stats.NumericOps[float64](), nil, -1, false)
	require.NoError(t, s.AddEvaluatedValue(idDeviation, deviation, stats.SqrtEvaluator{InputID: idVariance}))

	variance, err := stats.Get[float64](s, idVariance)
	require.NoError(t, err)
	variance.SetCurrent(9)
	assert.Equal(t, 3.0, deviation.CurrentValue())
}

// TestStatistics_CombineOnEvaluated is rejected.
func TestStatistics_CombineOnEvaluated(t *testing.T) {
	s, err := stats.New(3)
	require.NoError(t, err)

	require.NoError(t, s.AddValue(idSum, newFloatValue(-1)))

	avg := stats.NewValue[float64](stats.NumericOps[float64](), nil, -1, false)
	require.NoError(t, s.AddEvaluatedValue(idAvg, avg, stats.SqrtEvaluator{InputID: idSum}))

	other := newFloatValue(3)
	other.SetCurrent(1)
	assert.ErrorIs(t, avg.Combine(other), stats.ErrNotCombinable)
}

// TestStatistics_EvaluatorOnIndependent is rejected.
func TestStatistics_EvaluatorOnIndependent(t *testing.T) {
	s, err := stats.New(3)
	require.NoError(t, err)

	v := newFloatValue(-1)
	require.NoError(t, s.AddValue(idBest, v))

	assert.ErrorIs(t, v.SetEvaluator(stats.SqrtEvaluator{InputID: idBest}), stats.ErrIndependent)
}

// TestStatistics_DuplicateAndMissing covers the registry failure modes.
func TestStatistics_DuplicateAndMissing(t *testing.T) {
	s, err := stats.New(3)
	require.NoError(t, err)

	require.NoError(t, s.AddValue(idBest, newFloatValue(-1)))
	assert.ErrorIs(t, s.AddValue(idBest, newFloatValue(-1)), stats.ErrValueExists)

	_, err = s.Entry(999)
	assert.ErrorIs(t, err, stats.ErrValueNotFound)

	_, err = stats.Get[int](s, idBest)
	assert.ErrorIs(t, err, stats.ErrWrongValueType)
}

// TestStatistics_NextAdvancesGeneration rotates all values and counts
// generations.
func TestStatistics_NextAdvancesGeneration(t *testing.T) {
	s, err := stats.New(3)
	require.NoError(t, err)

	v := newFloatValue(-1)
	require.NoError(t, s.AddValue(idBest, v))

	v.SetCurrent(1)
	require.NoError(t, s.Next())
	assert.Equal(t, 1, s.CurrentGeneration())
	assert.Equal(t, 1, v.CurrentDepth())
}

// TestStatistics_PreferredDepthPropagation updates bound values only.
func TestStatistics_PreferredDepthPropagation(t *testing.T) {
	s, err := stats.New(4)
	require.NoError(t, err)

	bound := newFloatValue(-1)
	free := newFloatValue(7)
	require.NoError(t, s.AddValue(idBest, bound))
	require.NoError(t, s.AddValue(idSum, free))

	require.NoError(t, s.SetHistoryDepth(2))
	assert.Equal(t, 2, bound.HistoryDepth())
	assert.Equal(t, 7, free.HistoryDepth(), "free value keeps its own depth")
}
