// Package fitness defines the value model for candidate solutions: the
// fitness variants stored per chromosome and the comparator strategies that
// order them.
//
// Three variants share one interface:
//
//   - Single   - one numeric value; the probability base is the value itself.
//   - Multi    - an ordered vector of objective values; the probability base
//     is the value at the parameters' probability-base index.
//   - Weighted - a vector plus a weight vector with a maintained weighted
//     sum; the probability base and every scalar comparison use the sum.
//
// Arithmetic (+, -, /n and their in-place forms) is component-wise; the
// weighted sum is recomputed after any mutation. Comparing or combining two
// fitness values requires identical shape and dimension - a mismatch is
// reported as ErrDimensionMismatch.
//
// Comparators return a negative result when the first fitness is strictly
// better under the configured sense, positive when strictly worse, and zero
// when equal or incomparable (Pareto ties).
//
// Errors:
//
//	ErrValueCount        - a parameter set with fewer than one objective.
//	ErrProbabilityIndex  - probability-base index outside the vector.
//	ErrDimensionMismatch - operands of different shape or dimension.
//	ErrBadComparand      - a comparator fed a variant it does not handle.
package fitness
