package rdga

import (
	"sync/atomic"
	"time"

	"github.com/katalvlaran/moea/branch"
	"github.com/katalvlaran/moea/hypergrid"
	"github.com/katalvlaran/moea/population"
	"github.com/katalvlaran/moea/tags"
)

// Operation is the Rank-Density based replacement. Prepare and Clear
// bracket its attachment to a population; Update adjusts per-branch state
// when the branch count changes; Exec runs one replacement on every branch
// of a parallel region.
type Operation struct {
	Params Params
	Config Config
}

// slots caches the resolved tag slot indices for one population.
type slots struct {
	domCount    int
	domListSlot int
	rank        int
	hyperBox    int
	cell        int
	nextInFront int

	bestMatrix int
	perBranch  int
	unranked   int
	grid       int
}

func (o *Operation) resolve(pop *population.Population) (slots, error) {
	var s slots
	var err error

	chrom := pop.ChromosomeTags()
	if s.domCount, err = chrom.TagIndex(o.Params.DomCountTagID); err != nil {
		return s, err
	}
	if s.domListSlot, err = chrom.TagIndex(o.Params.DomListTagID); err != nil {
		return s, err
	}
	if s.rank, err = chrom.TagIndex(o.Params.RankTagID); err != nil {
		return s, err
	}
	if s.hyperBox, err = chrom.TagIndex(o.Params.HyperBoxTagID); err != nil {
		return s, err
	}
	if s.cell, err = chrom.TagIndex(o.Params.CellTagID); err != nil {
		return s, err
	}
	if s.nextInFront, err = chrom.TagIndex(o.Params.NextInFrontTagID); err != nil {
		return s, err
	}

	popTags := pop.PopulationTags()
	if s.bestMatrix, err = popTags.TagIndex(o.Params.BestMatrixTagID); err != nil {
		return s, err
	}
	if s.perBranch, err = popTags.TagIndex(o.Params.PerBranchTagID); err != nil {
		return s, err
	}
	if s.unranked, err = popTags.TagIndex(o.Params.UnrankedTagID); err != nil {
		return s, err
	}
	if s.grid, err = popTags.TagIndex(o.Params.GridTagID); err != nil {
		return s, err
	}

	return s, nil
}

// Prepare registers the operation's chromosome and population tags. Runs
// once, outside any parallel region.
func (o *Operation) Prepare(pop *population.Population, branchCount int) error {
	if o.Config.AdaptiveGrid == nil {
		return ErrNoAdaptiveGrid
	}

	chrom := pop.ChromosomeTags()

	if _, err := chrom.Add(o.Params.DomListTagID,
		&tags.SizableLifecycle[[]*population.Storage]{Size: branchCount}); err != nil {
		return err
	}
	if _, err := chrom.Add(o.Params.DomCountTagID,
		&tags.TypedLifecycle[atomic.Int32]{CleanPayload: func(c *atomic.Int32) { c.Store(0) }}); err != nil {
		return err
	}
	if _, err := chrom.Add(o.Params.RankTagID,
		&tags.TypedLifecycle[atomic.Int32]{CleanPayload: func(c *atomic.Int32) { c.Store(0) }}); err != nil {
		return err
	}
	if _, err := chrom.Add(o.Params.HyperBoxTagID,
		&tags.SizableLifecycle[int]{Size: o.Config.AdaptiveGrid.DimensionCount()}); err != nil {
		return err
	}
	if _, err := chrom.Add(o.Params.CellTagID,
		&tags.TypedLifecycle[*population.Cell]{CleanPayload: func(c **population.Cell) { *c = nil }}); err != nil {
		return err
	}
	nextIdx, err := chrom.Add(o.Params.NextInFrontTagID,
		&tags.TypedLifecycle[atomic.Pointer[population.Storage]]{
			CleanPayload: func(p *atomic.Pointer[population.Storage]) { p.Store(nil) },
		})
	if err != nil {
		return err
	}

	popTags := pop.PopulationTags()

	if _, err = popTags.Add(o.Params.BestMatrixTagID, &tags.TypedLifecycle[*population.BestMatrix]{
		NewPayload: population.NewBestMatrix,
	}); err != nil {
		return err
	}

	perIdx, err := popTags.Add(o.Params.PerBranchTagID,
		&tags.TypedLifecycle[population.PerBranchMatrices]{})
	if err != nil {
		return err
	}
	population.PopulationTagData[population.PerBranchMatrices](pop, perIdx).SetSize(branchCount)

	unrankedIdx, err := popTags.Add(o.Params.UnrankedTagID, &tags.TypedLifecycle[unrankedFront]{})
	if err != nil {
		return err
	}
	population.PopulationTagData[unrankedFront](pop, unrankedIdx).setNextAccessor(nextIdx)

	gridIdx, err := popTags.Add(o.Params.GridTagID, &tags.TypedLifecycle[gridState]{})
	if err != nil {
		return err
	}
	population.PopulationTagData[gridState](pop, gridIdx).setAdaptiveGrid(o.Config.AdaptiveGrid)

	return nil
}

// Clear drops every tag registered by Prepare.
func (o *Operation) Clear(pop *population.Population) error {
	chrom := pop.ChromosomeTags()
	for _, id := range []int{
		o.Params.DomListTagID, o.Params.DomCountTagID, o.Params.RankTagID,
		o.Params.HyperBoxTagID, o.Params.CellTagID, o.Params.NextInFrontTagID,
	} {
		if _, err := chrom.Remove(id); err != nil {
			return err
		}
	}

	popTags := pop.PopulationTags()
	for _, id := range []int{
		o.Params.BestMatrixTagID, o.Params.PerBranchTagID,
		o.Params.UnrankedTagID, o.Params.GridTagID,
	} {
		if _, err := popTags.Remove(id); err != nil {
			return err
		}
	}

	return nil
}

// Update adjusts the per-branch shard counts after a branch-count change,
// folding trimmed dominance-list shards into the retained ones.
func (o *Operation) Update(pop *population.Population, branchCount int) error {
	if err := pop.ChromosomeTags().Update(o.Params.DomListTagID,
		&tags.SizableUpdate[[]*population.Storage]{
			NewSize: branchCount,
			Merge:   tags.ConcatMerge[*population.Storage],
		}); err != nil {
		return err
	}

	s, err := o.resolve(pop)
	if err != nil {
		return err
	}
	population.PopulationTagData[population.PerBranchMatrices](pop, s.perBranch).SetSize(branchCount)

	return nil
}

// Exec runs one replacement. Every branch of the parallel region calls it
// with the same input group; barriers inside sequence the single-writer
// steps.
func (o *Operation) Exec(input *population.Group, pop *population.Population, b *branch.Branch) error {
	started := time.Now()

	s, err := o.resolve(pop)
	if err != nil {
		return err
	}

	branchID := b.ID()
	branchCount := b.Count()

	unranked := population.PopulationTagData[unrankedFront](pop, s.unranked)
	grid := population.PopulationTagData[gridState](pop, s.grid)
	bestMatrix := *population.PopulationTagData[*population.BestMatrix](pop, s.bestMatrix)
	perBranch := population.PopulationTagData[population.PerBranchMatrices](pop, s.perBranch)

	domCountOf := func(c *population.Storage) *atomic.Int32 {
		return population.TagData[atomic.Int32](c, s.domCount)
	}
	rankOf := func(c *population.Storage) *atomic.Int32 {
		return population.TagData[atomic.Int32](c, s.rank)
	}
	rankValue := func(c *population.Storage) int { return int(rankOf(c).Load()) }
	boxOf := func(c *population.Storage) hypergrid.HyperBox {
		return hypergrid.HyperBox(*population.TagData[tags.Partitioned[int]](c, s.hyperBox))
	}
	cellOf := func(c *population.Storage) **population.Cell {
		return population.TagData[*population.Cell](c, s.cell)
	}
	listsOf := func(c *population.Storage) *domList {
		return population.TagData[domList](c, s.domListSlot)
	}

	// drop the best-per-cell state of the previous generation
	bestMatrix.Clear()

	// 1) Prepare & insert: trim the offspring batch, insert it, reset the
	//    unranked counter. Single writer.
	if err = b.Barrier().SyncDo(func() error {
		if syncErr := pop.ChromosomeTags().Update(o.Params.HyperBoxTagID, &tags.SizableUpdate[int]{
			NewSize: o.Config.AdaptiveGrid.DimensionCount(),
			Merge:   tags.IgnoreMerge[int],
		}); syncErr != nil {
			return syncErr
		}

		grid.setSize(branchCount, pop)

		for _, rejected := range input.Trim(o.Params.ReplacementSize) {
			pop.ReleaseStorage(rejected)
		}
		pop.Insert(input.Members())

		if pop.Len() == 0 {
			return ErrEmptyPopulation
		}
		unranked.setCount(pop.Len())

		return nil
	}); err != nil {
		return err
	}

	// 2+3) Bounds and dominance pass: each branch widens its own bounding
	//      box and clears ranks while every unordered pair is compared once.
	bounds := grid.branchBounds(branchID)
	copyPoint(bounds.Lower, pop.At(0).Fitness(population.RawFitness))
	copyPoint(bounds.Upper, bounds.Lower)

	var passErr error
	branch.ForPairs(b, pop.Len(),
		func(i int) {
			x := pop.At(i)
			if err := grid.adaptive.UpdateBounds(x.Fitness(population.RawFitness), bounds); err != nil && passErr == nil {
				passErr = err
			}
			rankOf(x).Store(0)
		},
		func(i, j int) {
			a, c := pop.At(i), pop.At(j)

			res, cmpErr := pop.CompareStorages(a, c)
			if cmpErr != nil {
				if passErr == nil {
					passErr = cmpErr
				}
				return
			}

			switch {
			case res < 0:
				domCountOf(c).Add(1)
				(*listsOf(a))[branchID] = append((*listsOf(a))[branchID], c)
			case res > 0:
				domCountOf(a).Add(1)
				(*listsOf(c))[branchID] = append((*listsOf(c))[branchID], a)
			}
		})

	// 4) Merge bounds and fit the fixed hypergrid; size the best-per-cell
	//    matrix for the new shape. Single writer.
	if err = b.Barrier().SyncDo(func() error {
		if passErr != nil {
			return passErr
		}
		if syncErr := grid.update(); syncErr != nil {
			return syncErr
		}

		return bestMatrix.Update(grid.adaptive.GridSize())
	}); err != nil {
		return err
	}

	// each branch sizes and clears its own scratch matrix
	localBest := perBranch.Branch(branchID)
	if err = localBest.Update(grid.adaptive.GridSize()); err != nil {
		return err
	}

	// 5) Front-zero pass: queue non-dominated chromosomes with rank 1 and
	//    record every chromosome's hyperbox and density cell.
	origin := grid.merged().Lower

	branch.For(b, pop.Len(), func(i int) {
		x := pop.At(i)

		if domCountOf(x).Load() == 0 {
			rankOf(x).Store(1)
			unranked.queue(x)
		}

		box := boxOf(x)
		if cellErr := grid.fixed.CellFrom(x.Fitness(population.RawFitness), origin, box); cellErr != nil {
			if passErr == nil {
				passErr = cellErr
			}
			return
		}

		cell, insErr := bestMatrix.Insert(box)
		if insErr != nil {
			if passErr == nil {
				passErr = insErr
			}
			return
		}
		*cellOf(x) = cell
	})

	// every branch finishes the front-zero pass before any rank propagates,
	// so a chromosome joins the front only once and every cell is recorded
	// before the removal selection reads it
	b.Barrier().Sync()

	// 6) Rank propagation: consume the unranked front, pushing rank sums
	//    down the dominance lists; a chromosome whose last dominator is
	//    consumed joins the front.
	for n := unranked.dequeue(); n != nil; n = unranked.dequeue() {
		lists := listsOf(n)
		rank := rankOf(n).Load()

		for i := branchCount - 1; i >= 0; i-- {
			for _, dominated := range (*lists)[i] {
				rankOf(dominated).Add(rank)

				if domCountOf(dominated).Add(-1) == 0 {
					rankOf(dominated).Add(1)
					unranked.queue(dominated)
				}
			}

			// ready for the next generation
			(*lists)[i] = (*lists)[i][:0]
		}
	}

	// 7) Removal selection over the offspring batch: rank decides for the
	//    second half, density (outside the forbidden region) for the first.
	half := pop.NewChromosomes().Count() / 2
	scratch := grid.branchBounds(branchID)

	branch.For(b, pop.NewChromosomes().Count(), func(i int) {
		x := pop.NewChromosomes().At(i)

		parent := x.Parent()
		if parent == nil {
			return
		}

		if boundsErr := grid.fixed.BoxBounds(boxOf(parent), origin, scratch); boundsErr != nil {
			if passErr == nil {
				passErr = boundsErr
			}
			return
		}

		raw := x.Fitness(population.RawFitness)

		// the child is inside the forbidden region only when it compares
		// worse than both corners of the parent's cell; kept verbatim from
		// the original formulation even though it is narrower than an
		// inside-the-cell test
		cmpLow, err1 := pop.CompareFitness(raw, scratch.Lower)
		cmpUp, err2 := pop.CompareFitness(raw, scratch.Upper)
		if err1 != nil || err2 != nil {
			if passErr == nil {
				if err1 != nil {
					passErr = err1
				} else {
					passErr = err2
				}
			}
			return
		}
		inForbidden := cmpLow > 0 && cmpUp > 0

		parentCell, childCell := *cellOf(parent), *cellOf(x)
		if parentCell == nil || childCell == nil {
			return
		}

		if (i >= half && rankValue(parent) > rankValue(x)) ||
			(i < half && parentCell.Count() > childCell.Count() && !inForbidden) {
			parent.Flags().Set(population.FlagRemoveChromosome)
			x.SetParent(nil)
		} else {
			x.Flags().Set(population.FlagRemoveChromosome)
		}
	})

	// 8) Compact. Single writer.
	if err = b.Barrier().SyncDo(func() error {
		if passErr != nil {
			return passErr
		}
		pop.Remove()

		return nil
	}); err != nil {
		return err
	}

	// 9) Best-per-cell, first pass: each branch offers its slice of the
	//    survivors to its scratch matrix.
	branch.For(b, pop.Len(), func(i int) {
		x := pop.At(i)
		if offerErr := localBest.Offer(x, boxOf(x), rankValue); offerErr != nil && passErr == nil {
			passErr = offerErr
		}
	})

	// 9+10) Second pass merges the scratch matrices; accounting records the
	//       elapsed time. Single writer.
	if err = b.Barrier().SyncDo(func() error {
		if passErr != nil {
			return passErr
		}
		if mergeErr := bestMatrix.CollectBest(perBranch, rankValue); mergeErr != nil {
			return mergeErr
		}

		elapsed := time.Since(started).Seconds()
		b.Log().WithField("elapsed", elapsed).Debug("replacement finished")

		return pop.AddScalingTime(elapsed)
	}); err != nil {
		return err
	}

	// surface an error this branch saw even when another branch ran the
	// critical sections
	return passErr
}
