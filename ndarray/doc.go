// Package ndarray provides the dense value containers used across the
// engine: a k-dimensional array with contiguous column-major storage,
// coordinate iterators for walking (and selectively skipping) dimensions,
// and a cache-line aligned buffer for contention-free per-worker slots.
//
// The Array type stores its elements so that the element at coordinates
// c[0..k) lives at index
//
//	idx = Σᵢ c[i] · Πⱼ<ᵢ s[j]
//
// where s[j] is the size of dimension j. Dimensions can be inserted and
// removed after construction; elements at intersecting coordinates are
// preserved, new cells are initialised from a default value.
//
// Coordinate iteration comes in three flavours:
//
//   - NextCoord         - plain carry over all dimensions;
//   - NextCoordSkip     - carry that treats a contiguous dimension range
//     as if it had size 1;
//   - NextCoordSkipCount / NextCoordLimitCount - carry that additionally
//     maintains how many of the current coordinates sit outside a
//     per-dimension bound.
//
// Errors:
//
//	ErrNegativeSize  - a dimension size or buffer length is negative.
//	ErrBadDimension  - a dimension index is outside the array.
//	ErrBadCount      - a dimension count does not fit the array.
//	ErrBadAlignment  - alignment is not a positive power of two.
package ndarray
