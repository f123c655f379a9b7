// Package branch provides the intra-process parallel runtime the engine's
// operations execute under: a fixed set of worker goroutines ("branches"),
// each with an ID in [0, N), sharing a reusable barrier.
//
// Operations receive a *Branch and use three facilities:
//
//   - For partitions an index range over the branches, each branch working
//     a contiguous slice;
//   - ForPairs additionally feeds every unordered index pair to exactly one
//     branch (the one owning the smaller index) - the shape of the
//     dominance comparison pass;
//   - Barrier.SyncDo is the single-writer region: every branch arrives, the
//     last arrival runs the critical section alone, then all proceed. All
//     writes made before the barrier are visible to every branch after it.
//
// Executor runs one function per branch and joins them, propagating the
// first error; the engine treats a failed parallel region as
// generation-fatal.
//
// There is no cooperative suspension: a branch runs to the next barrier
// before termination can be observed.
package branch
