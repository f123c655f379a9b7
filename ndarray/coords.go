package ndarray

// NextCoord advances coords to the next element of an array with the given
// dimension sizes, carrying from dimension 0 upward. Advancing the last
// element wraps back to the origin.
func NextCoord(coords []int, sizes []int) {
	for j := 0; j < len(coords); j++ {
		coords[j]++
		if coords[j] < sizes[j] {
			break
		}

		coords[j] = 0
	}
}

// NextCoordSkip advances coords like NextCoord but treats the dimensions in
// [firstSkip, lastSkip) as if they had size 1: their coordinates are never
// incremented and the carry jumps over them.
func NextCoordSkip(coords []int, sizes []int, firstSkip, lastSkip int) {
	for j := 0; j < len(coords); j++ {
		if j == firstSkip {
			j = lastSkip - 1
			continue
		}

		coords[j]++
		if coords[j] < sizes[j] {
			break
		}

		coords[j] = 0
	}
}

// NextCoordSkipCount advances coords over the full shape while maintaining
// in *skip the number of coordinates within [firstSkip, lastSkip) that are
// currently non-zero. A caller that treats the skipped range as size-1 can
// consume a paired source element exactly when *skip == 0.
func NextCoordSkipCount(coords []int, sizes []int, firstSkip, lastSkip int, skip *int) {
	for j := 0; j < len(coords); j++ {
		coords[j]++
		if coords[j] < sizes[j] {
			if j >= firstSkip && j < lastSkip && coords[j] == 1 {
				// coordinate just left the size-1 range
				*skip++
			}

			break
		}

		if j >= firstSkip && j < lastSkip {
			// coordinate wrapped back into the size-1 range
			*skip--
		}

		coords[j] = 0
	}
}

// NextCoordLimitCount advances coords over the full shape while maintaining
// in *skip the number of coordinates that are at or beyond their per-dimension
// limit. limits must have the same length as coords.
func NextCoordLimitCount(coords []int, sizes []int, limits []int, skip *int) {
	for j := 0; j < len(coords); j++ {
		coords[j]++

		if coords[j] == limits[j] {
			// coordinate just crossed its limit
			*skip++
		}

		if coords[j] < sizes[j] {
			break
		}

		if coords[j] >= limits[j] {
			// wrapping coordinate re-enters the limited range
			*skip--
		}

		coords[j] = 0
	}
}
