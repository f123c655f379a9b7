package population_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/moea/population"
)

// TestNewProbability_Range accepts the closed unit interval only.
func TestNewProbability_Range(t *testing.T) {
	for _, valid := range []float64{0, 0.5, 1} {
		_, err := population.NewProbability(valid)
		assert.NoError(t, err, "p=%v", valid)
	}

	for _, invalid := range []float64{-0.01, 1.01} {
		_, err := population.NewProbability(invalid)
		assert.ErrorIs(t, err, population.ErrProbabilityRange, "p=%v", invalid)
	}
}

// TestProbability_Gate passes always at 1 and never at 0.
func TestProbability_Gate(t *testing.T) {
	src := population.DefaultRandomSource(1, 2)

	always, err := population.NewProbability(1)
	require.NoError(t, err)
	never, err := population.NewProbability(0)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		assert.True(t, always.Gate(src))
		assert.False(t, never.Gate(src))
	}
}
