package population

import (
	"sync/atomic"

	"github.com/katalvlaran/moea/hypergrid"
	"github.com/katalvlaran/moea/lflist"
	"github.com/katalvlaran/moea/ndarray"
)

// Cell is one hyperbox entry of the best-per-cell matrix: the number of
// chromosomes currently mapped to the box and the best-ranked member after
// the merge pass.
type Cell struct {
	box   hypergrid.HyperBox
	count atomic.Int32
	best  *Storage

	// listNext chains occupied cells on the matrix's lock-free list.
	listNext atomic.Pointer[Cell]
}

// Box returns the cell's hyperbox coordinates.
func (c *Cell) Box() hypergrid.HyperBox { return c.box }

// Count returns the number of chromosomes mapped to the cell this
// generation.
func (c *Cell) Count() int { return int(c.count.Load()) }

// Best returns the best-ranked member stored by the last CollectBest merge.
func (c *Cell) Best() *Storage { return c.best }

// ItemMatrix is one branch's scratch matrix of best candidates per
// hyperbox.
type ItemMatrix struct {
	cells *hypergrid.StorageMatrix[*Storage]
}

// Update resizes the scratch matrix to the grid shape and clears every
// entry, so no stale candidate from a previous generation survives.
func (m *ItemMatrix) Update(gridSize []int) error {
	if m.cells == nil {
		cells, err := hypergrid.NewStorageMatrix[*Storage](gridSize)
		if err != nil {
			return err
		}
		m.cells = cells

		return nil
	}

	if err := m.cells.Update(gridSize); err != nil {
		return err
	}
	m.cells.Fill(nil)

	return nil
}

// At returns the candidate slot of the given hyperbox.
func (m *ItemMatrix) At(box hypergrid.HyperBox) (**Storage, error) { return m.cells.At(box) }

// Offer stores the candidate when it outranks the current entry and is not
// flagged for removal. rank is the ranking accessor of the caller.
func (m *ItemMatrix) Offer(candidate *Storage, box hypergrid.HyperBox, rank func(*Storage) int) error {
	slot, err := m.cells.At(box)
	if err != nil {
		return err
	}

	if candidate.Flags().Any(FlagRemoveChromosome) {
		return nil
	}
	if *slot == nil || rank(candidate) > rank(*slot) {
		*slot = candidate
	}

	return nil
}

// PerBranchMatrices holds one scratch matrix per branch.
type PerBranchMatrices struct {
	matrices []ItemMatrix
}

// SetSize adjusts the number of branch matrices.
func (p *PerBranchMatrices) SetSize(branches int) {
	if len(p.matrices) == branches {
		return
	}

	next := make([]ItemMatrix, branches)
	copy(next, p.matrices)
	p.matrices = next
}

// Size returns the number of branch matrices.
func (p *PerBranchMatrices) Size() int { return len(p.matrices) }

// Branch returns one branch's scratch matrix.
func (p *PerBranchMatrices) Branch(id int) *ItemMatrix { return &p.matrices[id] }

// BestMatrix is the global best-per-cell structure: per hyperbox an atomic
// density count and, after CollectBest, the best-ranked chromosome.
// Occupied cells are tracked on an intrusive lock-free LIFO so clearing and
// merging touch only the cells that saw inserts. Cells are held by pointer;
// reshaping allocates fresh cells, so a cell pointer stashed in a
// chromosome tag stays valid for the generation it was issued in.
type BestMatrix struct {
	cells    *hypergrid.StorageMatrix[*Cell]
	occupied *lflist.Stack[Cell]
}

// NewBestMatrix creates an empty matrix; Update gives it a shape.
func NewBestMatrix() *BestMatrix {
	return &BestMatrix{
		occupied: lflist.New(func(c *Cell) *atomic.Pointer[Cell] { return &c.listNext }),
	}
}

// Update resizes the matrix to the grid shape, allocating a fresh cell per
// hyperbox. Runs in a single-writer region; the occupied list must be
// empty (Clear first).
func (b *BestMatrix) Update(gridSize []int) error {
	if b.cells == nil {
		cells, err := hypergrid.NewStorageMatrix[*Cell](gridSize)
		if err != nil {
			return err
		}
		b.cells = cells
	} else if err := b.cells.Update(gridSize); err != nil {
		return err
	}

	// stamp coordinates so a cell can be mapped back to its box
	shape := b.cells.GridSize()
	coords := make([]int, len(shape))
	for i := 0; i < b.cells.Len(); i++ {
		slot, err := b.cells.At(coords)
		if err != nil {
			return err
		}

		*slot = &Cell{box: append(hypergrid.HyperBox(nil), coords...)}

		ndarray.NextCoord(coords, shape)
	}

	return nil
}

// Insert counts a chromosome into the cell of the given hyperbox and
// registers the cell as occupied on its first insert. Safe for concurrent
// use; returns the cell so callers can stash the back-pointer.
func (b *BestMatrix) Insert(box hypergrid.HyperBox) (*Cell, error) {
	slot, err := b.cells.At(box)
	if err != nil {
		return nil, err
	}

	cell := *slot
	if cell.count.Add(1) == 1 {
		b.occupied.Push(cell)
	}

	return cell, nil
}

// Clear resets every occupied cell and empties the occupied list. Runs in a
// single-writer region.
func (b *BestMatrix) Clear() {
	for cell := b.occupied.Pop(); cell != nil; cell = b.occupied.Pop() {
		cell.count.Store(0)
		cell.best = nil
	}
}

// CollectBest merges the branch-local scratch matrices: for every occupied
// cell the highest-ranked candidate across all branches wins; candidates
// flagged for removal are ignored. Runs in a single-writer region.
func (b *BestMatrix) CollectBest(perBranch *PerBranchMatrices, rank func(*Storage) int) error {
	var firstErr error

	b.occupied.Walk(func(cell *Cell) bool {
		var best *Storage

		for i := 0; i < perBranch.Size(); i++ {
			slot, err := perBranch.Branch(i).At(cell.box)
			if err != nil {
				firstErr = err
				return false
			}

			candidate := *slot
			if candidate == nil || candidate.Flags().Any(FlagRemoveChromosome) {
				continue
			}
			if best == nil || rank(candidate) > rank(best) {
				best = candidate
			}
		}

		cell.best = best

		return true
	})

	return firstErr
}

// Occupied walks the occupied cells, newest first.
func (b *BestMatrix) Occupied(visit func(*Cell) bool) { b.occupied.Walk(visit) }

// GridSize returns the matrix shape, nil before the first Update.
func (b *BestMatrix) GridSize() []int {
	if b.cells == nil {
		return nil
	}

	return b.cells.GridSize()
}
