package rdga

import (
	"errors"
	"sync/atomic"

	"github.com/katalvlaran/moea/fitness"
	"github.com/katalvlaran/moea/hypergrid"
	"github.com/katalvlaran/moea/lflist"
	"github.com/katalvlaran/moea/population"
	"github.com/katalvlaran/moea/tags"
)

// Sentinel errors for the replacement operation.
var (
	// ErrNoAdaptiveGrid indicates a configuration without an adaptive grid.
	ErrNoAdaptiveGrid = errors.New("rdga: adaptive grid must be configured")

	// ErrNotMultiFitness indicates a raw fitness that is not multi-value.
	ErrNotMultiFitness = errors.New("rdga: raw fitness must be multi-value")

	// ErrEmptyPopulation indicates an Exec call on an empty population.
	ErrEmptyPopulation = errors.New("rdga: population is empty")
)

// Params carries the replacement size and the caller-owned tag IDs the
// operation registers its working state under.
type Params struct {
	// ReplacementSize is the number of chromosomes replaced per generation.
	ReplacementSize int

	// Chromosome tag IDs.
	DomCountTagID    int
	DomListTagID     int
	RankTagID        int
	HyperBoxTagID    int
	CellTagID        int
	NextInFrontTagID int

	// Population tag IDs.
	BestMatrixTagID int
	PerBranchTagID  int
	UnrankedTagID   int
	GridTagID       int
}

// DefaultParams returns parameters with sequential tag IDs starting at
// base.
func DefaultParams(replacementSize, base int) Params {
	return Params{
		ReplacementSize:  replacementSize,
		DomCountTagID:    base,
		DomListTagID:     base + 1,
		RankTagID:        base + 2,
		HyperBoxTagID:    base + 3,
		CellTagID:        base + 4,
		NextInFrontTagID: base + 5,
		BestMatrixTagID:  base + 6,
		PerBranchTagID:   base + 7,
		UnrankedTagID:    base + 8,
		GridTagID:        base + 9,
	}
}

// Config couples the operation to the adaptive grid that partitions the
// raw-fitness space.
type Config struct {
	AdaptiveGrid *hypergrid.AdaptiveGrid[fitness.Fitness]
}

// Coordinates extracts the objective vector of a multi-value fitness for
// grid arithmetic; the slice aliases the fitness storage.
func Coordinates(f fitness.Fitness) []float64 {
	return f.(*fitness.Multi).Values()
}

// copyPoint overwrites dst's objective vector with src's.
func copyPoint(dst, src fitness.Fitness) {
	copy(Coordinates(dst), Coordinates(src))
}

// domList is the per-branch sharded list of chromosomes dominated by the
// owner.
type domList = tags.Partitioned[[]*population.Storage]

// unrankedFront tracks the chromosomes of the current Pareto front that
// still await consumption, plus the count of chromosomes not yet ranked.
type unrankedFront struct {
	front *lflist.Stack[population.Storage]
	count atomic.Int32
}

// setNextAccessor wires the front's intrusive list through the chromosome
// tag slot at index.
func (u *unrankedFront) setNextAccessor(index int) {
	accessor := func(s *population.Storage) *atomic.Pointer[population.Storage] {
		return population.TagData[atomic.Pointer[population.Storage]](s, index)
	}

	if u.front == nil {
		u.front = lflist.New(accessor)
		return
	}
	u.front.SetNextAccessor(accessor)
}

// setCount stores the number of chromosomes that still need a rank.
func (u *unrankedFront) setCount(n int) { u.count.Store(int32(n)) }

// queue inserts a newly non-dominated chromosome into the current front.
func (u *unrankedFront) queue(s *population.Storage) { u.front.Push(s) }

// dequeue removes one chromosome from the current front, spinning while
// the front is empty but unranked chromosomes remain. Returns nil once
// every chromosome is ranked.
func (u *unrankedFront) dequeue() *population.Storage {
	for {
		if s := u.front.Pop(); s != nil {
			u.count.Add(-1)
			return s
		}

		if u.count.Load() == 0 {
			return nil
		}
	}
}

// gridState is the population tag that carries the per-branch bounding
// boxes and the fixed hypergrid the adaptive grid maintains.
type gridState struct {
	// bounds has one slot per branch plus a final slot for the merge.
	bounds   []hypergrid.Bounds[fitness.Fitness]
	fixed    *hypergrid.FixedGrid[fitness.Fitness]
	adaptive *hypergrid.AdaptiveGrid[fitness.Fitness]
}

// setAdaptiveGrid installs the grid that drives the fixed hypergrid; a
// different grid drops the derived state.
func (g *gridState) setAdaptiveGrid(adaptive *hypergrid.AdaptiveGrid[fitness.Fitness]) {
	if g.adaptive != adaptive {
		g.fixed = nil
		g.adaptive = adaptive
	}
}

// setSize makes room for branchCount bounding boxes plus the merge slot,
// creating fitness-typed bound points from the population's raw prototype.
// A changed fitness operation recreates every bound object.
func (g *gridState) setSize(branchCount int, pop *population.Population) {
	size := branchCount + 1

	if pop.Flags().Any(population.FlagFitnessOperationChanged) {
		for i := range g.bounds {
			g.bounds[i] = hypergrid.Bounds[fitness.Fitness]{
				Lower: pop.CreateFitness(population.RawFitness),
				Upper: pop.CreateFitness(population.RawFitness),
			}
		}
	}

	for len(g.bounds) < size {
		g.bounds = append(g.bounds, hypergrid.Bounds[fitness.Fitness]{
			Lower: pop.CreateFitness(population.RawFitness),
			Upper: pop.CreateFitness(population.RawFitness),
		})
	}
	g.bounds = g.bounds[:size]
}

// branchBounds returns the bounding box maintained by one branch.
func (g *gridState) branchBounds(branchID int) *hypergrid.Bounds[fitness.Fitness] {
	return &g.bounds[branchID]
}

// merged returns the slot holding the bounds merged across branches.
func (g *gridState) merged() *hypergrid.Bounds[fitness.Fitness] {
	return &g.bounds[len(g.bounds)-1]
}

// update merges the per-branch bounding boxes into the final slot and
// resizes or creates the fixed hypergrid to cover them.
func (g *gridState) update() error {
	out := g.merged()

	copyPoint(out.Lower, g.bounds[0].Lower)
	copyPoint(out.Upper, g.bounds[0].Upper)

	for i := len(g.bounds) - 2; i > 0; i-- {
		if err := g.adaptive.UpdateBounds(g.bounds[i].Lower, out); err != nil {
			return err
		}
		if err := g.adaptive.UpdateBounds(g.bounds[i].Upper, out); err != nil {
			return err
		}
	}

	return g.adaptive.UpdateFixedGrid(out, &g.fixed)
}
