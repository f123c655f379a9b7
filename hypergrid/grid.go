package hypergrid

import (
	"errors"
	"math"
)

// Sentinel errors for grid construction and lookups.
var (
	// ErrBadCellSize indicates a fixed-grid cell size that is not positive.
	ErrBadCellSize = errors.New("hypergrid: cell size must be positive")

	// ErrBadCellCount indicates an adaptive-grid cell count that is not positive.
	ErrBadCellCount = errors.New("hypergrid: cell count must be positive")

	// ErrDimensionMismatch indicates a point or box of the wrong dimension.
	ErrDimensionMismatch = errors.New("hypergrid: dimension mismatch")
)

// HyperBox is the coordinate vector of one grid cell.
type HyperBox []int

// Equal reports whether both boxes have identical coordinates.
func (b HyperBox) Equal(other HyperBox) bool {
	if len(b) != len(other) {
		return false
	}
	for i, c := range b {
		if c != other[i] {
			return false
		}
	}

	return true
}

// Compare orders boxes lexicographically from the highest dimension down:
// the last differing coordinate pair decides. Returns -1, 0 or 1.
func (b HyperBox) Compare(other HyperBox) int {
	res := 0
	for i := len(b) - 1; i >= 0 && res == 0; i-- {
		res = b[i] - other[i]
	}

	switch {
	case res < 0:
		return -1
	case res > 0:
		return 1
	default:
		return 0
	}
}

// CopyFrom overwrites the box with another box's coordinates.
func (b HyperBox) CopyFrom(other HyperBox) { copy(b, other) }

// Getter extracts the coordinate vector from a point payload. The returned
// slice aliases the payload's storage, so grid operations can write bounds
// back through it.
type Getter[P any] func(point P) []float64

// Bounds is an axis-aligned region of the point space, stored as two
// payloads so it can travel wherever points do.
type Bounds[P any] struct {
	Lower P
	Upper P
}

// FixedGrid splits the space into cells of a fixed per-dimension size.
type FixedGrid[P any] struct {
	sizes  []float64
	getter Getter[P]
}

// NewFixedGrid creates a grid with the given per-dimension cell sizes.
func NewFixedGrid[P any](sizes []float64, getter Getter[P]) (*FixedGrid[P], error) {
	for _, s := range sizes {
		if s <= 0 {
			return nil, ErrBadCellSize
		}
	}

	return &FixedGrid[P]{sizes: append([]float64(nil), sizes...), getter: getter}, nil
}

// DimensionCount returns the grid's dimensionality.
func (g *FixedGrid[P]) DimensionCount() int { return len(g.sizes) }

// CellSizes returns the per-dimension cell sizes; callers must not mutate
// the slice.
func (g *FixedGrid[P]) CellSizes() []float64 { return g.sizes }

// SetCellSizes replaces the cell size vector, possibly changing the
// dimension count.
func (g *FixedGrid[P]) SetCellSizes(sizes []float64) error {
	for _, s := range sizes {
		if s <= 0 {
			return ErrBadCellSize
		}
	}

	g.sizes = append(g.sizes[:0], sizes...)

	return nil
}

// Cell computes the hyperbox containing point, writing into box. The origin
// is the zero point; coordinates are floored, so a point just below zero
// falls into cell -1.
func (g *FixedGrid[P]) Cell(point P, box HyperBox) error {
	coords := g.getter(point)
	if len(coords) != len(g.sizes) || len(box) != len(g.sizes) {
		return ErrDimensionMismatch
	}

	for i := len(g.sizes) - 1; i >= 0; i-- {
		box[i] = int(math.Floor(coords[i] / g.sizes[i]))
	}

	return nil
}

// CellFrom computes the hyperbox containing point relative to origin,
// writing into box.
func (g *FixedGrid[P]) CellFrom(point, origin P, box HyperBox) error {
	p := g.getter(point)
	o := g.getter(origin)
	if len(p) != len(g.sizes) || len(o) != len(g.sizes) || len(box) != len(g.sizes) {
		return ErrDimensionMismatch
	}

	for i := len(box) - 1; i >= 0; i-- {
		box[i] = int(math.Floor((p[i] - o[i]) / g.sizes[i]))
	}

	return nil
}

// BoxBounds writes the point-space range of the hyperbox relative to origin
// into bounds.
func (g *FixedGrid[P]) BoxBounds(box HyperBox, origin P, bounds *Bounds[P]) error {
	o := g.getter(origin)
	low := g.getter(bounds.Lower)
	up := g.getter(bounds.Upper)
	if len(box) != len(g.sizes) || len(o) != len(g.sizes) || len(low) != len(g.sizes) || len(up) != len(g.sizes) {
		return ErrDimensionMismatch
	}

	for i := len(g.sizes) - 1; i >= 0; i-- {
		low[i] = o[i] + float64(box[i])*g.sizes[i]
		up[i] = low[i] + g.sizes[i]
	}

	return nil
}

// AdaptiveGrid derives fixed grids from a running bounding box so that a
// fixed number of cells per dimension covers everything observed so far.
type AdaptiveGrid[P any] struct {
	counts []int
	getter Getter[P]
}

// NewAdaptiveGrid creates an adaptive grid with the given per-dimension
// cell counts.
func NewAdaptiveGrid[P any](counts []int, getter Getter[P]) (*AdaptiveGrid[P], error) {
	for _, n := range counts {
		if n <= 0 {
			return nil, ErrBadCellCount
		}
	}

	return &AdaptiveGrid[P]{counts: append([]int(nil), counts...), getter: getter}, nil
}

// DimensionCount returns the grid's dimensionality.
func (g *AdaptiveGrid[P]) DimensionCount() int { return len(g.counts) }

// CellCounts returns the per-dimension cell counts; callers must not mutate
// the slice.
func (g *AdaptiveGrid[P]) CellCounts() []int { return g.counts }

// GridSize returns the hyperbox coordinate limits of the derived fixed
// grid, the cell counts themselves.
func (g *AdaptiveGrid[P]) GridSize() []int { return g.counts }

// UpdateBounds widens bounds so that it contains point.
func (g *AdaptiveGrid[P]) UpdateBounds(point P, bounds *Bounds[P]) error {
	in := g.getter(point)
	low := g.getter(bounds.Lower)
	up := g.getter(bounds.Upper)
	if len(in) != len(g.counts) || len(low) != len(g.counts) || len(up) != len(g.counts) {
		return ErrDimensionMismatch
	}

	for i := len(in) - 1; i >= 0; i-- {
		if in[i] < low[i] {
			low[i] = in[i]
		}
		if in[i] > up[i] {
			up[i] = in[i]
		}
	}

	return nil
}

// UpdateFixedGrid creates or resizes a fixed grid so that bounds is covered
// with one cell of margin on each side: the cell size on dimension i is
// (upᵢ-lowᵢ + 2·(upᵢ-lowᵢ)/nᵢ) / nᵢ.
func (g *AdaptiveGrid[P]) UpdateFixedGrid(bounds *Bounds[P], grid **FixedGrid[P]) error {
	low := g.getter(bounds.Lower)
	up := g.getter(bounds.Upper)
	if len(low) != len(g.counts) || len(up) != len(g.counts) {
		return ErrDimensionMismatch
	}

	sizes := make([]float64, len(g.counts))
	for i := len(g.counts) - 1; i >= 0; i-- {
		span := up[i] - low[i]
		n := float64(g.counts[i])
		sizes[i] = (span + 2*span/n) / n
	}

	if *grid == nil {
		*grid = &FixedGrid[P]{sizes: sizes, getter: g.getter}
		return nil
	}

	(*grid).sizes = sizes

	return nil
}
