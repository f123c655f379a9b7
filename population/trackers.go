package population

import (
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/moea/fitness"
	"github.com/katalvlaran/moea/stats"
)

// Built-in statistic value IDs. Consumers register their own values with
// IDs at or above StatUserBase.
const (
	// StatPopulationSize tracks the number of chromosomes.
	StatPopulationSize = iota

	// StatBestFitness tracks the best raw fitness under the comparator.
	StatBestFitness

	// StatWorstFitness tracks the worst raw fitness under the comparator.
	StatWorstFitness

	// StatFitnessSum tracks the component-wise sum of raw fitness values.
	StatFitnessSum

	// StatAvgFitness derives the average raw fitness from sum and size.
	StatAvgFitness

	// StatVariance tracks the variance of raw probability bases.
	StatVariance

	// StatDeviation derives the standard deviation from the variance.
	StatDeviation

	// StatScalingTime accumulates seconds reported through AddScalingTime;
	// the rdga replacement reports its run time here.
	StatScalingTime

	// StatUserBase is the first ID free for consumers.
	StatUserBase = 1000
)

// FitnessOps adapts the fitness interface to the statistics engine's
// arithmetic. The better function orders values for selection combiners;
// build it from the population comparator.
func FitnessOps(better func(a, b fitness.Fitness) bool) stats.Ops[fitness.Fitness] {
	return stats.Ops[fitness.Fitness]{
		Clone: func(f fitness.Fitness) fitness.Fitness { return f.Clone() },
		Add: func(a, b fitness.Fitness) fitness.Fitness {
			sum := a.Clone()
			_ = sum.Add(b)
			return sum
		},
		Sub: func(a, b fitness.Fitness) fitness.Fitness {
			diff := a.Clone()
			_ = diff.Sub(b)
			return diff
		},
		Equal:   func(a, b fitness.Fitness) bool { return a.Equal(b) },
		Greater: better,
		RelProgress: func(cur, prev fitness.Fitness) float64 {
			r, err := cur.RelativeProgress(prev)
			if err != nil {
				return 0
			}
			return r
		},
	}
}

// registerStatistics installs the built-in values: independent trackers for
// size, best, worst, sum and variance, and evaluated derivatives for the
// average (sum divided by size) and the deviation (square root of the
// variance).
func (p *Population) registerStatistics() error {
	better := func(a, b fitness.Fitness) bool {
		res, err := p.CompareFitness(a, b)
		return err == nil && res < 0
	}
	ops := FitnessOps(better)

	if err := p.stats.AddValue(StatPopulationSize,
		stats.NewValue(stats.NumericOps[int](), stats.SumCombiner[int]{}, -1, false)); err != nil {
		return err
	}

	if err := p.stats.AddValue(StatBestFitness,
		stats.NewValue(ops, stats.SelectionCombiner[fitness.Fitness]{Mode: stats.SelectGreater, Greater: better}, -1, false)); err != nil {
		return err
	}
	if err := p.stats.AddValue(StatWorstFitness,
		stats.NewValue(ops, stats.SelectionCombiner[fitness.Fitness]{Mode: stats.SelectLower, Greater: better}, -1, false)); err != nil {
		return err
	}
	if err := p.stats.AddValue(StatFitnessSum,
		stats.NewValue(ops, stats.SumCombiner[fitness.Fitness]{}, -1, false)); err != nil {
		return err
	}
	if err := p.stats.AddValue(StatVariance,
		stats.NewValue(stats.NumericOps[float64](), stats.SumCombiner[float64]{}, -1, false)); err != nil {
		return err
	}

	avg := stats.NewValue[fitness.Fitness](ops, nil, -1, false)
	if err := p.stats.AddEvaluatedValue(StatAvgFitness, avg, stats.FuncEvaluator{
		Deps: []int{StatFitnessSum, StatPopulationSize},
		Fn: func(owner *stats.Statistics, target stats.Entry) {
			sum, err := stats.Get[fitness.Fitness](owner, StatFitnessSum)
			if err != nil {
				return
			}
			size, err := stats.Get[int](owner, StatPopulationSize)
			if err != nil {
				return
			}

			s, okS := sum.Current()
			n, okN := size.Current()
			if !okS || !okN || n == 0 {
				return
			}

			mean := s.Clone()
			if mean.Div(n) == nil {
				target.(*stats.Value[fitness.Fitness]).SetCurrent(mean)
			}
		},
	}); err != nil {
		return err
	}

	deviation := stats.NewValue[float64](stats.NumericOps[float64](), nil, -1, false)
	if err := p.stats.AddEvaluatedValue(StatDeviation, deviation, stats.SqrtEvaluator{InputID: StatVariance}); err != nil {
		return err
	}

	return p.stats.AddValue(StatScalingTime,
		stats.NewValue(stats.NumericOps[float64](), stats.SumCombiner[float64]{}, -1, true))
}

// UpdateSizeStatistic refreshes the population-size value.
func (p *Population) UpdateSizeStatistic() error {
	size, err := stats.Get[int](p.stats, StatPopulationSize)
	if err != nil {
		return err
	}
	size.SetCurrent(len(p.storages))

	return nil
}

// UpdateRawFitnessStatistics refreshes best, worst, sum and variance over
// the current generation's raw fitness. Runs inside a single-writer region.
func (p *Population) UpdateRawFitnessStatistics() error {
	if len(p.storages) == 0 {
		return nil
	}

	best := p.storages[0].Fitness(RawFitness)
	worst := best
	sum := best.Clone()
	bases := make([]float64, len(p.storages))
	bases[0] = best.ProbabilityBase()

	for i := 1; i < len(p.storages); i++ {
		raw := p.storages[i].Fitness(RawFitness)
		bases[i] = raw.ProbabilityBase()

		if err := sum.Add(raw); err != nil {
			return err
		}

		if res, err := p.CompareFitness(raw, best); err != nil {
			return err
		} else if res < 0 {
			best = raw
		}

		if res, err := p.CompareFitness(raw, worst); err != nil {
			return err
		} else if res > 0 {
			worst = raw
		}
	}

	bestValue, err := stats.Get[fitness.Fitness](p.stats, StatBestFitness)
	if err != nil {
		return err
	}
	bestValue.SetCurrent(best.Clone())

	worstValue, err := stats.Get[fitness.Fitness](p.stats, StatWorstFitness)
	if err != nil {
		return err
	}
	worstValue.SetCurrent(worst.Clone())

	sumValue, err := stats.Get[fitness.Fitness](p.stats, StatFitnessSum)
	if err != nil {
		return err
	}
	sumValue.SetCurrent(sum)

	variance, err := stats.Get[float64](p.stats, StatVariance)
	if err != nil {
		return err
	}
	variance.SetCurrent(stat.Variance(bases, nil))

	return p.UpdateSizeStatistic()
}

// AddScalingTime accumulates seconds into the scaling-time statistic.
func (p *Population) AddScalingTime(seconds float64) error {
	v, err := stats.Get[float64](p.stats, StatScalingTime)
	if err != nil {
		return err
	}

	cur, ok := v.Current()
	if !ok {
		cur = 0
	}
	v.SetCurrent(cur + seconds)

	return nil
}
