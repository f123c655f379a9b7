// Package stats implements the statistics engine: named values keyed by
// caller-owned integer IDs, each carrying a current value and a compact
// run-length history of past generations.
//
// Two flavours of value exist:
//
//   - independent values receive their current value from the outside
//     (trackers, workers) and can be combined across workers with a
//     Combiner (selection of the greater/lower value, or summation);
//   - evaluated values derive their current value from other values through
//     an Evaluator; they re-evaluate immediately whenever any of their
//     dependencies changes, so a read never observes a stale derivative.
//
// Calling Next on the statistics object rotates every current value into
// its history. Consecutive equal values are compressed into one block with
// a count, so deep histories of a converged run stay cheap; the oldest
// entry is evicted once the configured depth is reached. A value bound to
// the statistics object's preferred depth follows SetHistoryDepth calls,
// a free value keeps its own.
//
// Errors:
//
//	ErrValueExists      - duplicate value ID on a strict add.
//	ErrValueNotFound    - unknown value ID.
//	ErrNotCombinable    - combine invoked on an evaluated value.
//	ErrIndependent      - evaluator installed on an independent value.
//	ErrEmptyValue       - history rotation of an empty current value.
//	ErrNegativeDepth    - negative history depth.
//	ErrWrongValueType   - typed access with a mismatched type parameter.
package stats
