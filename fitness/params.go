package fitness

import "errors"

// Sentinel errors for fitness construction and arithmetic.
var (
	// ErrValueCount indicates a parameter set with fewer than one objective.
	ErrValueCount = errors.New("fitness: value count must be at least 1")

	// ErrProbabilityIndex indicates a probability-base index outside the vector.
	ErrProbabilityIndex = errors.New("fitness: probability-base index out of range")

	// ErrDimensionMismatch indicates operands of different shape or dimension.
	ErrDimensionMismatch = errors.New("fitness: operands have mismatched dimensions")

	// ErrBadComparand indicates a comparator fed a fitness variant it does not handle.
	ErrBadComparand = errors.New("fitness: comparator cannot handle this fitness variant")
)

// Params describes the shape of multi-value fitness objects: how many
// objectives they carry and which objective currently serves as the
// probability base. One Params instance is shared by every fitness object of
// a population, so rotating the probability-base index (VEGA style) takes
// effect everywhere at once.
type Params struct {
	valueCount int
	pbIndex    int
}

// NewParams creates parameters for valueCount objectives with the
// probability base at pbIndex.
func NewParams(valueCount, pbIndex int) (*Params, error) {
	if valueCount < 1 {
		return nil, ErrValueCount
	}
	if pbIndex < 0 || pbIndex >= valueCount {
		return nil, ErrProbabilityIndex
	}

	return &Params{valueCount: valueCount, pbIndex: pbIndex}, nil
}

// ValueCount returns the number of objectives.
func (p *Params) ValueCount() int { return p.valueCount }

// ProbabilityBaseIndex returns the objective currently used as probability
// base.
func (p *Params) ProbabilityBaseIndex() int { return p.pbIndex }

// SetProbabilityBaseIndex moves the probability base to another objective.
func (p *Params) SetProbabilityBaseIndex(index int) error {
	if index < 0 || index >= p.valueCount {
		return ErrProbabilityIndex
	}
	p.pbIndex = index

	return nil
}

// NextProbabilityIndex advances the probability base to the next objective,
// wrapping past the last one.
func (p *Params) NextProbabilityIndex() { p.pbIndex = (p.pbIndex + 1) % p.valueCount }

// WeightedParams extends Params with per-objective weights for the weighted
// sum variant.
type WeightedParams struct {
	Params
	weights []float64
}

// NewWeightedParams creates weighted parameters; the objective count is the
// weight vector length.
func NewWeightedParams(weights []float64) (*WeightedParams, error) {
	if len(weights) < 1 {
		return nil, ErrValueCount
	}

	return &WeightedParams{
		Params:  Params{valueCount: len(weights)},
		weights: append([]float64(nil), weights...),
	}, nil
}

// Weight returns the weight of objective index.
func (p *WeightedParams) Weight(index int) float64 { return p.weights[index] }

// Weights returns the weight vector; callers must not mutate it.
func (p *WeightedParams) Weights() []float64 { return p.weights }
