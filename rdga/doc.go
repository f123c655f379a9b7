// Package rdga implements Rank-Density based replacement: offspring and
// parents compete for survival on two axes, Pareto rank and adaptive-grid
// density.
//
// One Exec invocation runs per branch of a parallel region and performs, in
// order: offspring insertion, a fused bounds/dominance pass over all
// chromosome pairs, adaptive-grid resize, the front-zero pass (first Pareto
// front plus hyperbox assignment and density counting), lock-free rank
// propagation through the unranked front, the removal selection over the
// offspring batch, population compaction, and the two-pass best-per-cell
// collection.
//
// Ranks follow the RDGA definition: 1 for the first front, otherwise the
// sum of the ranks of all dominators plus one.
//
// All working state lives in chromosome and population tags registered by
// Prepare and dropped by Clear, so the operation attaches to any population
// without changing its types. Cross-branch writes during parallel phases
// are limited to atomic counters and the lock-free front; everything else
// is branch-partitioned until a barrier publishes it.
//
// The removal rule's forbidden-region test intentionally requires the child
// to compare worse than both corners of the parent's cell on every
// objective, which is narrower than an inside-the-cell test; see Exec.
package rdga
