package scaling

import (
	"errors"
	"math"

	"github.com/katalvlaran/moea/branch"
	"github.com/katalvlaran/moea/fitness"
	"github.com/katalvlaran/moea/population"
	"github.com/katalvlaran/moea/stats"
)

// Sentinel errors for scaling operations.
var (
	// ErrNotSingleScaled indicates a scaled fitness object that is not
	// single-value.
	ErrNotSingleScaled = errors.New("scaling: scaled fitness must be single-value")

	// ErrNoParams indicates a VEGA operation without fitness parameters.
	ErrNoParams = errors.New("scaling: fitness parameters must be specified")
)

// Operation scales the population's fitness on one branch of a parallel
// region.
type Operation interface {
	Apply(pop *population.Population, b *branch.Branch) error
}

// setScaled writes value into the chromosome's single-value scaled fitness.
func setScaled(s *population.Storage, value float64) error {
	scaled, ok := s.Fitness(population.ScaledFitness).(*fitness.Single)
	if !ok {
		return ErrNotSingleScaled
	}
	scaled.SetValue(value)

	return nil
}

// perform applies op to every chromosome or only to the offspring,
// depending on whether a complete update is required. The population is
// marked rescaled after a full pass.
func perform(pop *population.Population, b *branch.Branch, completeUpdate bool, op func(s *population.Storage, index int) error) error {
	full := completeUpdate ||
		pop.Flags().Any(population.FlagCompleteFitnessUpdate|population.FlagScaledFitnessPrototypeChanged)

	var opErr error
	apply := func(members []*population.Storage) func(int) {
		return func(i int) {
			if err := op(members[i], i); err != nil && opErr == nil {
				opErr = err
			}
		}
	}

	if full {
		branch.For(b, pop.Len(), apply(pop.Storages()))

		if err := b.Barrier().SyncDo(func() error {
			pop.Flags().Set(population.FlagCompleteScaledFitnessUpdate)
			return nil
		}); err != nil {
			return err
		}

		return opErr
	}

	fresh := pop.NewChromosomes()
	branch.For(b, fresh.Count(), apply(fresh.Members()))

	return opErr
}

// NoScaling copies the raw probability base into the scaled fitness.
type NoScaling struct{}

// Apply implements Operation.
func (NoScaling) Apply(pop *population.Population, b *branch.Branch) error {
	return perform(pop, b, false, func(s *population.Storage, _ int) error {
		return setScaled(s, s.Fitness(population.RawFitness).ProbabilityBase())
	})
}

// WindowScaling subtracts the worst raw probability base from every
// chromosome's raw probability base. A change of the worst value rescales
// the whole population.
type WindowScaling struct{}

// Apply implements Operation.
func (WindowScaling) Apply(pop *population.Population, b *branch.Branch) error {
	// refresh the fitness trackers once; every branch reads them after the
	// barrier opens
	if err := b.Barrier().SyncDo(func() error {
		return pop.UpdateRawFitnessStatistics()
	}); err != nil {
		return err
	}

	value, err := stats.Get[fitness.Fitness](pop.Statistics(), population.StatWorstFitness)
	if err != nil {
		return err
	}

	current := value.CurrentValue()
	worst := current.ProbabilityBase()

	prev, prevErr := value.Previous(1)
	changed := prevErr != nil || !current.Equal(prev)
	if changed {
		pop.Flags().Set(population.FlagCompleteScaledFitnessUpdate)
	}

	return perform(pop, b, changed, func(s *population.Storage, _ int) error {
		return setScaled(s, s.Fitness(population.RawFitness).ProbabilityBase()-worst)
	})
}

// RankingScaling assigns maxRank − index as the scaled fitness, relying on
// the population's external ordering.
type RankingScaling struct{}

// Apply implements Operation.
func (RankingScaling) Apply(pop *population.Population, b *branch.Branch) error {
	maxRank := pop.Len() - 1

	var opErr error
	branch.For(b, pop.Len(), func(i int) {
		if err := setScaled(pop.At(i), float64(maxRank-i)); err != nil && opErr == nil {
			opErr = err
		}
	})

	if err := b.Barrier().SyncDo(func() error {
		pop.Flags().Set(population.FlagCompleteScaledFitnessUpdate)
		return nil
	}); err != nil {
		return err
	}

	return opErr
}

// ExponentialScaling raises the raw probability base to the configured
// power.
type ExponentialScaling struct {
	// Factor is the exponent.
	Factor float64
}

// Apply implements Operation.
func (e ExponentialScaling) Apply(pop *population.Population, b *branch.Branch) error {
	return perform(pop, b, false, func(s *population.Storage, _ int) error {
		return setScaled(s, math.Pow(s.Fitness(population.RawFitness).ProbabilityBase(), e.Factor))
	})
}

// LinearScaling applies a·raw + b, deriving the coefficients from the
// population's best, worst and average probability bases so that the best
// chromosome's expected share approaches Factor times the average.
type LinearScaling struct {
	// Factor is the desired best-to-average ratio.
	Factor float64
}

// Apply implements Operation.
func (l LinearScaling) Apply(pop *population.Population, b *branch.Branch) error {
	if err := b.Barrier().SyncDo(func() error {
		if err := pop.UpdateRawFitnessStatistics(); err != nil {
			return err
		}
		pop.Flags().Set(population.FlagCompleteScaledFitnessUpdate)

		return nil
	}); err != nil {
		return err
	}

	best, err := stats.Get[fitness.Fitness](pop.Statistics(), population.StatBestFitness)
	if err != nil {
		return err
	}
	worst, err := stats.Get[fitness.Fitness](pop.Statistics(), population.StatWorstFitness)
	if err != nil {
		return err
	}
	avgValue, err := stats.Get[fitness.Fitness](pop.Statistics(), population.StatAvgFitness)
	if err != nil {
		return err
	}

	max := best.CurrentValue().ProbabilityBase()
	min := worst.CurrentValue().ProbabilityBase()
	avg := avgValue.CurrentValue().ProbabilityBase()

	var ca, cb float64

	// two regimes: scale towards the desired ratio when the minimum stays
	// non-negative, otherwise stretch down to zero at the minimum
	if min > (l.Factor*avg-max)/(l.Factor-1) {
		d := max - avg
		if math.Abs(d) < 0.00001 {
			ca, cb = 1, 0
		} else {
			ca = avg / d
			cb = ca * (max - l.Factor*avg)
			ca *= l.Factor - 1
		}
	} else {
		d := avg - min
		if math.Abs(d) < 0.00001 {
			ca, cb = 1, 0
		} else {
			ca = avg / d
			cb = -min * ca
		}
	}

	var opErr error
	branch.For(b, pop.Len(), func(i int) {
		s := pop.At(i)
		if err := setScaled(s, ca*s.Fitness(population.RawFitness).ProbabilityBase()+cb); err != nil && opErr == nil {
			opErr = err
		}
	})

	return opErr
}

// SigmaTruncation subtracts average − Factor·deviation from the raw
// probability base, cutting off chromosomes more than Factor deviations
// below the average.
type SigmaTruncation struct {
	// Factor is the truncation multiplier.
	Factor float64
}

// Apply implements Operation.
func (t SigmaTruncation) Apply(pop *population.Population, b *branch.Branch) error {
	if err := b.Barrier().SyncDo(func() error {
		if err := pop.UpdateRawFitnessStatistics(); err != nil {
			return err
		}
		pop.Flags().Set(population.FlagCompleteScaledFitnessUpdate)

		return nil
	}); err != nil {
		return err
	}

	avgValue, err := stats.Get[fitness.Fitness](pop.Statistics(), population.StatAvgFitness)
	if err != nil {
		return err
	}
	devValue, err := stats.Get[float64](pop.Statistics(), population.StatDeviation)
	if err != nil {
		return err
	}

	offset := avgValue.CurrentValue().ProbabilityBase() - t.Factor*devValue.CurrentValue()

	var opErr error
	branch.For(b, pop.Len(), func(i int) {
		s := pop.At(i)
		if err := setScaled(s, s.Fitness(population.RawFitness).ProbabilityBase()-offset); err != nil && opErr == nil {
			opErr = err
		}
	})

	return opErr
}

// VEGA copies the raw probability base into the scaled fitness and rotates
// the shared probability-base index afterwards, so the next generation
// selects on the next objective.
type VEGA struct {
	// Params is the multi-value parameter object shared by the population's
	// raw fitness values.
	Params *fitness.Params
}

// Apply implements Operation.
func (v VEGA) Apply(pop *population.Population, b *branch.Branch) error {
	if v.Params == nil {
		return ErrNoParams
	}

	var opErr error
	branch.For(b, pop.Len(), func(i int) {
		s := pop.At(i)
		if err := setScaled(s, s.Fitness(population.RawFitness).ProbabilityBase()); err != nil && opErr == nil {
			opErr = err
		}
	})

	if err := b.Barrier().SyncDo(func() error {
		v.Params.NextProbabilityIndex()
		pop.Flags().Set(population.FlagCompleteScaledFitnessUpdate)

		return nil
	}); err != nil {
		return err
	}

	return opErr
}
