package hypergrid_test

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/moea/hypergrid"
)

// point is the minimal payload used by grid tests.
type point []float64

func getter(p point) []float64 { return p }

func newGrid(t *testing.T, sizes ...float64) *hypergrid.FixedGrid[point] {
	t.Helper()

	g, err := hypergrid.NewFixedGrid(sizes, getter)
	require.NoError(t, err)

	return g
}

// TestFixedGrid_CellMath pins the reference cases: unit cells, origin at
// zero, including the negative-floor correction.
func TestFixedGrid_CellMath(t *testing.T) {
	g := newGrid(t, 1.0, 1.0)

	box := make(hypergrid.HyperBox, 2)

	require.NoError(t, g.Cell(point{0.4, 2.7}, box))
	assert.Equal(t, hypergrid.HyperBox{0, 2}, box)

	require.NoError(t, g.Cell(point{-0.4, 0.0}, box))
	assert.Equal(t, hypergrid.HyperBox{-1, 0}, box, "a point just below zero falls into cell -1")
}

// TestFixedGrid_BoxBounds checks the point range of a cell.
func TestFixedGrid_BoxBounds(t *testing.T) {
	g := newGrid(t, 1.0, 1.0)

	bounds := hypergrid.Bounds[point]{Lower: make(point, 2), Upper: make(point, 2)}
	require.NoError(t, g.BoxBounds(hypergrid.HyperBox{0, 2}, point{0, 0}, &bounds))

	assert.Equal(t, point{0, 2}, bounds.Lower)
	assert.Equal(t, point{1, 3}, bounds.Upper)
}

// TestFixedGrid_RoundTrip verifies cell(bounds(cell(p)).low) == cell(p) for
// a mix of points, sizes and origins.
func TestFixedGrid_RoundTrip(t *testing.T) {
	g := newGrid(t, 0.5, 2.0, 1.25)
	origin := point{-1, 0.5, 3}

	box := make(hypergrid.HyperBox, 3)
	back := make(hypergrid.HyperBox, 3)
	bounds := hypergrid.Bounds[point]{Lower: make(point, 3), Upper: make(point, 3)}

	for _, p := range []point{
		{0.1, 0.6, 3.1},
		{2.4, 7.9, 10.0},
		{-0.9, 4.2, 5.55},
	} {
		require.NoError(t, g.CellFrom(p, origin, box))
		require.NoError(t, g.BoxBounds(box, origin, &bounds))
		require.NoError(t, g.CellFrom(point(bounds.Lower), origin, back))

		assert.Equal(t, box, back, "lower corner of the cell maps back to the same cell for %v", p)
	}
}

// TestFixedGrid_Validation rejects non-positive cell sizes and mismatched
// dimensions.
func TestFixedGrid_Validation(t *testing.T) {
	_, err := hypergrid.NewFixedGrid([]float64{1, 0}, getter)
	assert.ErrorIs(t, err, hypergrid.ErrBadCellSize)

	g := newGrid(t, 1, 1)
	err = g.Cell(point{1}, make(hypergrid.HyperBox, 2))
	assert.ErrorIs(t, err, hypergrid.ErrDimensionMismatch)
}

// TestAdaptiveGrid_Bounds widens the running bounding box point by point.
func TestAdaptiveGrid_Bounds(t *testing.T) {
	ag, err := hypergrid.NewAdaptiveGrid([]int{4, 4}, getter)
	require.NoError(t, err)

	bounds := hypergrid.Bounds[point]{Lower: point{1, 1}, Upper: point{1, 1}}

	require.NoError(t, ag.UpdateBounds(point{3, 0}, &bounds))
	require.NoError(t, ag.UpdateBounds(point{-2, 5}, &bounds))

	assert.Equal(t, point{-2, 0}, bounds.Lower)
	assert.Equal(t, point{3, 5}, bounds.Upper)
}

// TestAdaptiveGrid_UpdateFixedGrid derives cell sizes that enclose the box
// with one cell of margin per side.
func TestAdaptiveGrid_UpdateFixedGrid(t *testing.T) {
	ag, err := hypergrid.NewAdaptiveGrid([]int{4, 2}, getter)
	require.NoError(t, err)

	bounds := hypergrid.Bounds[point]{Lower: point{0, 0}, Upper: point{8, 6}}

	var g *hypergrid.FixedGrid[point]
	require.NoError(t, ag.UpdateFixedGrid(&bounds, &g))
	require.NotNil(t, g)

	// (span + 2·span/n) / n
	assert.InDelta(t, (8.0+2*8.0/4)/4, g.CellSizes()[0], 1e-12)
	assert.InDelta(t, (6.0+2*6.0/2)/2, g.CellSizes()[1], 1e-12)

	// n cells span the box plus one pre-margin cell estimate per side
	for i, span := range []float64{8, 6} {
		n := float64([]int{4, 2}[i])
		cell := g.CellSizes()[i]
		assert.InDelta(t, span+2*span/n, n*cell, 1e-9, "coverage on dimension %d", i)
	}

	// a second update resizes the existing grid in place
	bounds.Upper = point{16, 6}
	require.NoError(t, ag.UpdateFixedGrid(&bounds, &g))
	assert.InDelta(t, (16.0+2*16.0/4)/4, g.CellSizes()[0], 1e-12)
}

// TestHyperBox_Compare orders right-to-left.
func TestHyperBox_Compare(t *testing.T) {
	assert.Equal(t, -1, hypergrid.HyperBox{9, 1}.Compare(hypergrid.HyperBox{0, 2}), "the higher dimension decides")
	assert.Equal(t, 1, hypergrid.HyperBox{1, 2}.Compare(hypergrid.HyperBox{0, 2}), "ties fall back to lower dimensions")
	assert.Zero(t, hypergrid.HyperBox{1, 2}.Compare(hypergrid.HyperBox{1, 2}))
}

func collectRing(centre hypergrid.HyperBox, limits []int, level int) []string {
	var it hypergrid.Neighbours
	var out []string

	it.Begin(centre, limits, level)
	if it.Done() {
		return out
	}

	for {
		out = append(out, fmt.Sprint(it.Current()))
		if !it.Next() {
			break
		}
	}

	sort.Strings(out)

	return out
}

// TestNeighbours_FullRing visits the eight boxes around
// [2,2] at level 1, centre excluded.
func TestNeighbours_FullRing(t *testing.T) {
	got := collectRing(hypergrid.HyperBox{2, 2}, []int{5, 5}, 1)

	want := []string{
		fmt.Sprint(hypergrid.HyperBox{1, 1}), fmt.Sprint(hypergrid.HyperBox{1, 2}), fmt.Sprint(hypergrid.HyperBox{1, 3}),
		fmt.Sprint(hypergrid.HyperBox{2, 1}), fmt.Sprint(hypergrid.HyperBox{2, 3}),
		fmt.Sprint(hypergrid.HyperBox{3, 1}), fmt.Sprint(hypergrid.HyperBox{3, 2}), fmt.Sprint(hypergrid.HyperBox{3, 3}),
	}
	sort.Strings(want)

	assert.Equal(t, want, got)
}

// TestNeighbours_CornerClipping keeps the ring inside [0, limit) on every
// axis.
func TestNeighbours_CornerClipping(t *testing.T) {
	got := collectRing(hypergrid.HyperBox{0, 0}, []int{3, 3}, 1)

	want := []string{
		fmt.Sprint(hypergrid.HyperBox{0, 1}),
		fmt.Sprint(hypergrid.HyperBox{1, 0}),
		fmt.Sprint(hypergrid.HyperBox{1, 1}),
	}
	sort.Strings(want)

	assert.Equal(t, want, got)
}

// TestNeighbours_LevelZero yields exactly the centre.
func TestNeighbours_LevelZero(t *testing.T) {
	got := collectRing(hypergrid.HyperBox{1, 1}, []int{3, 3}, 0)
	assert.Equal(t, []string{fmt.Sprint(hypergrid.HyperBox{1, 1})}, got)
}

// TestNeighbours_RingOutsideDomain yields nothing when the whole ring is
// clipped away.
func TestNeighbours_RingOutsideDomain(t *testing.T) {
	got := collectRing(hypergrid.HyperBox{0, 0}, []int{1, 1}, 1)
	assert.Empty(t, got)
}

// TestStorageMatrix_Update reshapes across dimension-count changes.
func TestStorageMatrix_Update(t *testing.T) {
	m, err := hypergrid.NewStorageMatrix[int]([]int{2, 2})
	require.NoError(t, err)

	p, err := m.At(hypergrid.HyperBox{1, 1})
	require.NoError(t, err)
	*p = 5

	require.NoError(t, m.Update([]int{3, 3}))
	assert.Equal(t, []int{3, 3}, m.GridSize())

	p, err = m.At(hypergrid.HyperBox{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 5, *p, "surviving cell keeps its payload")

	require.NoError(t, m.Update([]int{2, 2, 2}))
	assert.Equal(t, []int{2, 2, 2}, m.GridSize())

	require.NoError(t, m.Update([]int{4}))
	assert.Equal(t, []int{4}, m.GridSize())
}

// TestInfoBuffer_RunsAndCrowding builds runs bottom-up and merges the
// per-branch crowding picks.
func TestInfoBuffer_RunsAndCrowding(t *testing.T) {
	buf := hypergrid.NewInfoBuffer(4)

	// a sorted collection with runs of length 1, 3, 2 (walked from the end)
	run := buf.Add(5, hypergrid.HyperBox{2, 0})
	run.MoveStart()
	run = buf.Add(3, hypergrid.HyperBox{1, 0})
	run.MoveStart()
	run.MoveStart()
	buf.Add(0, hypergrid.HyperBox{0, 0})

	require.Equal(t, 3, buf.Len())
	assert.Equal(t, 2, buf.At(0).Count())
	assert.Equal(t, 3, buf.At(1).Count())
	assert.Equal(t, 1, buf.At(1).Start())

	cs := hypergrid.NewCrowdingStorage(2)
	for i := 0; i < buf.Len(); i++ {
		cs.Branch(i % 2).Store(i, buf.At(i).Count())
	}

	assert.Equal(t, 1, cs.MergeGlobal(), "run 1 is the most crowded")
	assert.True(t, cs.RequiresUpdate(1), "the winning branch must rescan")
	assert.False(t, cs.RequiresUpdate(0))
}
