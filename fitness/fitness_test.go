package fitness_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/moea/fitness"
)

func mustMulti(t *testing.T, params *fitness.Params, values ...float64) *fitness.Multi {
	t.Helper()

	f := fitness.NewMulti(params)
	require.NoError(t, f.SetValues(values))

	return f
}

// TestParams_Validation rejects bad objective counts and indices.
func TestParams_Validation(t *testing.T) {
	_, err := fitness.NewParams(0, 0)
	assert.ErrorIs(t, err, fitness.ErrValueCount)

	_, err = fitness.NewParams(2, 2)
	assert.ErrorIs(t, err, fitness.ErrProbabilityIndex)
}

// TestParams_NextProbabilityIndex wraps past the last objective.
func TestParams_NextProbabilityIndex(t *testing.T) {
	p, err := fitness.NewParams(3, 0)
	require.NoError(t, err)

	p.NextProbabilityIndex()
	assert.Equal(t, 1, p.ProbabilityBaseIndex())
	p.NextProbabilityIndex()
	p.NextProbabilityIndex()
	assert.Equal(t, 0, p.ProbabilityBaseIndex(), "index must wrap to the first objective")
}

// TestSingle_Arithmetic covers the scalar variant's contract.
func TestSingle_Arithmetic(t *testing.T) {
	a, b := fitness.NewSingle(5), fitness.NewSingle(2)

	assert.Equal(t, 5.0, a.ProbabilityBase())

	d, err := a.Distance(b)
	require.NoError(t, err)
	assert.Equal(t, 3.0, d)

	require.NoError(t, a.Add(b))
	assert.Equal(t, 7.0, a.Value())

	require.NoError(t, a.Sub(b))
	require.NoError(t, a.Div(5))
	assert.Equal(t, 1.0, a.Value())
}

// TestMulti_ProbabilityBase follows the shared parameters' index.
func TestMulti_ProbabilityBase(t *testing.T) {
	p, err := fitness.NewParams(3, 0)
	require.NoError(t, err)

	f := mustMulti(t, p, 1, 2, 3)
	assert.Equal(t, 1.0, f.ProbabilityBase())

	p.NextProbabilityIndex()
	assert.Equal(t, 2.0, f.ProbabilityBase(), "probability base follows the shared index")
}

// TestMulti_Distance is Euclidean over the vector.
func TestMulti_Distance(t *testing.T) {
	p, err := fitness.NewParams(2, 0)
	require.NoError(t, err)

	a := mustMulti(t, p, 0, 0)
	b := mustMulti(t, p, 3, 4)

	d, err := a.Distance(b)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, d, 1e-12)
}

// TestMulti_DimensionMismatch rejects operands of different dimension.
func TestMulti_DimensionMismatch(t *testing.T) {
	p2, err := fitness.NewParams(2, 0)
	require.NoError(t, err)
	p3, err := fitness.NewParams(3, 0)
	require.NoError(t, err)

	a := mustMulti(t, p2, 1, 2)
	b := mustMulti(t, p3, 1, 2, 3)

	_, err = a.Distance(b)
	assert.ErrorIs(t, err, fitness.ErrDimensionMismatch)
	assert.ErrorIs(t, a.Add(b), fitness.ErrDimensionMismatch)
}

// TestWeighted_SumMaintained recomputes the weighted sum after every
// mutation.
func TestWeighted_SumMaintained(t *testing.T) {
	p, err := fitness.NewWeightedParams([]float64{2, 1})
	require.NoError(t, err)

	f := fitness.NewWeighted(p)
	require.NoError(t, f.SetValues([]float64{3, 4}))
	assert.Equal(t, 10.0, f.WeightedSum())
	assert.Equal(t, 10.0, f.ProbabilityBase())

	require.NoError(t, f.SetValue(1, 10))
	assert.Equal(t, 16.0, f.WeightedSum())

	g := f.Clone().(*fitness.Weighted)
	require.NoError(t, g.Add(f))
	assert.Equal(t, 32.0, g.WeightedSum(), "sum recomputed after component-wise add")
}

// TestSimpleComparator orders scalars under both senses.
func TestSimpleComparator(t *testing.T) {
	a, b := fitness.NewSingle(5), fitness.NewSingle(2)

	res, err := fitness.SimpleComparator{Sense: fitness.Maximise}.Compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, -1, res, "larger value is better when maximising")

	res, err = fitness.SimpleComparator{Sense: fitness.Minimise}.Compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1, res, "larger value is worse when minimising")
}

// TestPositionalComparator decides on the first differing objective.
func TestPositionalComparator(t *testing.T) {
	p, err := fitness.NewParams(3, 0)
	require.NoError(t, err)

	a := mustMulti(t, p, 1, 9, 0)
	b := mustMulti(t, p, 1, 2, 5)

	res, err := fitness.PositionalComparator{Sense: fitness.Maximise}.Compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, -1, res, "objective 1 decides before objective 2")
}

// TestDominanceComparator covers dominance, incomparability and equality.
func TestDominanceComparator(t *testing.T) {
	p, err := fitness.NewParams(2, 0)
	require.NoError(t, err)

	cmp := fitness.DominanceComparator{Sense: fitness.Maximise}

	dominant := mustMulti(t, p, 3, 3)
	dominated := mustMulti(t, p, 1, 1)
	mixed := mustMulti(t, p, 2, 4)

	res, err := cmp.Compare(dominant, dominated)
	require.NoError(t, err)
	assert.Equal(t, -1, res)

	res, err = cmp.Compare(dominated, dominant)
	require.NoError(t, err)
	assert.Equal(t, 1, res)

	res, err = cmp.Compare(dominant, mixed)
	require.NoError(t, err)
	assert.Zero(t, res, "conflicting objectives are incomparable")

	res, err = cmp.Compare(dominant, mustMulti(t, p, 3, 3))
	require.NoError(t, err)
	assert.Zero(t, res, "equal vectors compare as zero")
}

// TestDominanceComparator_Minimise flips the direction.
func TestDominanceComparator_Minimise(t *testing.T) {
	p, err := fitness.NewParams(2, 0)
	require.NoError(t, err)

	cmp := fitness.DominanceComparator{Sense: fitness.Minimise}

	res, err := cmp.Compare(mustMulti(t, p, 1, 1), mustMulti(t, p, 3, 3))
	require.NoError(t, err)
	assert.Equal(t, -1, res, "smaller vector dominates when minimising")
}

// TestObjectiveComparator compares one chosen objective only.
func TestObjectiveComparator(t *testing.T) {
	p, err := fitness.NewParams(2, 0)
	require.NoError(t, err)

	a := mustMulti(t, p, 1, 9)
	b := mustMulti(t, p, 5, 2)

	res, err := fitness.ObjectiveComparator{Sense: fitness.Maximise, Index: 1}.Compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, -1, res)

	_, err = fitness.ObjectiveComparator{Sense: fitness.Maximise, Index: 9}.Compare(a, b)
	assert.ErrorIs(t, err, fitness.ErrProbabilityIndex)
}
