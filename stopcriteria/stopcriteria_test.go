package stopcriteria_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/moea/stats"
	"github.com/katalvlaran/moea/stopcriteria"
)

const idFitness = 7

func newStats(t *testing.T) (*stats.Statistics, *stats.Value[float64]) {
	t.Helper()

	s, err := stats.New(8)
	require.NoError(t, err)

	v := stats.NewValue(stats.NumericOps[float64](), stats.SumCombiner[float64]{}, -1, false)
	require.NoError(t, s.AddValue(idFitness, v))

	return s, v
}

func advance(t *testing.T, s *stats.Statistics, v *stats.Value[float64], values ...float64) {
	t.Helper()

	for _, value := range values {
		v.SetCurrent(value)
		require.NoError(t, s.Next())
	}
}

// TestGenerationCount fires exactly at the configured generation.
func TestGenerationCount(t *testing.T) {
	s, v := newStats(t)
	c := stopcriteria.GenerationCount{Count: 3}

	advance(t, s, v, 1, 2)

	stop, err := c.Evaluate(s)
	require.NoError(t, err)
	assert.False(t, stop)

	advance(t, s, v, 3)

	stop, err = c.Evaluate(s)
	require.NoError(t, err)
	assert.True(t, stop)
}

// TestStatsValue_Modes covers the three bits of the stop mode.
func TestStatsValue_Modes(t *testing.T) {
	s, v := newStats(t)
	v.SetCurrent(5)

	cases := []struct {
		name    string
		desired float64
		mode    stopcriteria.StopMode
		want    bool
	}{
		{"higher reached", 3, stopcriteria.StopIfHigher, true},
		{"higher not reached", 7, stopcriteria.StopIfHigher, false},
		{"lower reached", 7, stopcriteria.StopIfLower, true},
		{"equal reached", 5, stopcriteria.StopIfEqual, true},
		{"higher-or-equal on equal", 5, stopcriteria.StopIfHigher | stopcriteria.StopIfEqual, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stop, err := stopcriteria.StatsValue[float64]{ValueID: idFitness, Desired: tc.desired, Mode: tc.mode}.Evaluate(s)
			require.NoError(t, err)
			assert.Equal(t, tc.want, stop)
		})
	}
}

// TestStatsValue_UnknownID propagates the registry error.
func TestStatsValue_UnknownID(t *testing.T) {
	s, _ := newStats(t)

	_, err := stopcriteria.StatsValue[float64]{ValueID: 99, Desired: 1, Mode: stopcriteria.StopIfHigher}.Evaluate(s)
	assert.ErrorIs(t, err, stats.ErrValueNotFound)
}

// TestStatsProgress waits for enough history, then compares the window
// delta.
func TestStatsProgress(t *testing.T) {
	s, v := newStats(t)
	c := stopcriteria.StatsProgress[float64]{ValueID: idFitness, Depth: 2, Desired: 0.5, Mode: stopcriteria.StopIfLower}

	advance(t, s, v, 10)
	v.SetCurrent(10.1)

	stop, err := c.Evaluate(s)
	require.NoError(t, err)
	assert.False(t, stop, "one recorded generation is not enough for depth 2")

	advance(t, s, v, 10.1)
	v.SetCurrent(10.2)

	// progress over depth 2 = 10.2 - 10 = 0.2 < 0.5
	stop, err = c.Evaluate(s)
	require.NoError(t, err)
	assert.True(t, stop, "stalled progress below the threshold stops the loop")
}

// TestStatsProgress_BadDepth rejects non-positive windows.
func TestStatsProgress_BadDepth(t *testing.T) {
	s, _ := newStats(t)

	_, err := stopcriteria.StatsProgress[float64]{ValueID: idFitness, Depth: 0}.Evaluate(s)
	assert.ErrorIs(t, err, stopcriteria.ErrBadDepth)
}

// TestStatsRelativeProgress compares the relative window delta.
func TestStatsRelativeProgress(t *testing.T) {
	s, v := newStats(t)
	c := stopcriteria.StatsRelativeProgress{ValueID: idFitness, Depth: 1, Desired: 0.01, Mode: stopcriteria.StopIfLower}

	advance(t, s, v, 100)
	v.SetCurrent(100.5)

	// |(100.5-100)/100| = 0.005 < 0.01
	stop, err := c.Evaluate(s)
	require.NoError(t, err)
	assert.True(t, stop)
}

// TestStatsChanges counts the unchanged streak.
func TestStatsChanges(t *testing.T) {
	s, v := newStats(t)
	c := stopcriteria.StatsChanges{ValueID: idFitness, Generations: 3}

	advance(t, s, v, 5, 6, 6, 6)

	stop, err := c.Evaluate(s)
	require.NoError(t, err)
	assert.False(t, stop, "two merges are below the streak threshold")

	advance(t, s, v, 6)

	stop, err = c.Evaluate(s)
	require.NoError(t, err)
	assert.True(t, stop, "three unchanged generations reach the threshold")
}
