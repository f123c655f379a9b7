// Package moea is the runtime core for multi-objective evolutionary
// search: a population of candidate solutions is iteratively evaluated,
// compared, scaled and partially replaced until a stopping condition is
// met.
//
// 🚀 What is moea?
//
//	An engine core that brings together:
//
//	  • Tagged chromosome storage — per-chromosome state (dominance counts,
//	    hyperbox coordinates, per-worker lists) attached through stable tag
//	    slots, without touching the chromosome type
//	  • A fitness value model — single, multi and weighted-sum variants
//	    with component-wise arithmetic and pluggable comparators
//	  • A statistics engine — named values with run-length history,
//	    combiners and auto-recomputed derived values
//	  • Hypergrids — fixed and adaptive partitioning of the fitness space
//	    with a best-per-cell density matrix
//	  • RDGA replacement — rank + density guided survival decisions over a
//	    branch-parallel work distribution
//
// ✨ Why choose moea?
//
//   - Composable    — chromosomes, raw evaluators and loop control stay
//     outside; the core consumes narrow interfaces
//   - Parallel      — phases run on worker branches with lock-free fronts
//     and barrier-synchronised single-writer regions
//   - Observable    — every tracked quantity is a named statistic with
//     history, progress and change queries
//
// The packages, leaves first: ndarray (containers and coordinate
// iteration), tags (attachment system), fitness (value model and
// comparators), stats (statistics engine), hypergrid (space partitioning),
// lflist (lock-free LIFO), population (storage, pooling, best-per-cell),
// scaling (fitness transforms), rdga (replacement), stopcriteria
// (termination predicates), branch (parallel runtime).
package moea
