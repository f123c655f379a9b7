// Package scaling transforms raw fitness into the scaled fitness selection
// operates on. Every strategy follows one contract: when a complete update
// is required - the population requests one, the scaled-fitness prototype
// changed, or the strategy's own inputs moved - every chromosome is
// rescaled and the population is marked accordingly; otherwise only this
// generation's offspring are touched.
//
// Strategies:
//
//   - NoScaling        - copies the raw probability base.
//   - WindowScaling    - subtracts the worst raw probability base; a moved
//     worst value forces a full rescale.
//   - RankingScaling   - assigns maxRank − index over the (externally
//     ordered) population.
//   - ExponentialScaling - raises the raw probability base to a power.
//   - LinearScaling    - applies a·raw + b with coefficients derived from
//     best, worst and average: the average keeps its value and the best
//     maps to factor·average, unless that would take the worst below zero,
//     in which case the worst maps to zero instead.
//   - SigmaTruncation  - subtracts average − factor·deviation.
//   - VEGA             - copies the raw probability base and rotates the
//     multi-value probability-base index each generation, so successive
//     generations select on successive objectives.
//
// All strategies expect the scaled fitness objects to be single-value.
package scaling
