// Package hypergrid partitions a continuous multi-dimensional space (in the
// engine: the raw-fitness space) into discrete hyperboxes.
//
// Two grid kinds share the coordinate-getter abstraction, which extracts a
// point's coordinate vector from an arbitrary payload type:
//
//   - FixedGrid has a user-chosen cell size per dimension and maps points to
//     integer hyperbox coordinates with floor semantics (a point just below
//     zero falls into cell -1, not cell 0);
//   - AdaptiveGrid has a user-chosen cell *count* per dimension; it widens a
//     running bounding box over observed points and derives a FixedGrid
//     whose cells cover the box with one cell of margin on each side.
//
// The Neighbours iterator visits the surface of the Chebyshev ring at a
// given distance around a centre box, clipped to the grid limits - the
// density neighbourhood scan of grid-based algorithms.
//
// StorageMatrix keeps one payload per hyperbox, backed by the ndarray
// package, and InfoBuffer summarises a hyperbox-sorted collection into
// per-box runs for crowding scans.
//
// Errors:
//
//	ErrBadCellSize       - a fixed-grid cell size that is not positive.
//	ErrBadCellCount      - an adaptive-grid cell count that is not positive.
//	ErrDimensionMismatch - a point or box of the wrong dimension.
package hypergrid
