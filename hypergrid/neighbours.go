package hypergrid

// Neighbours iterates over the hyperboxes on the surface of the Chebyshev
// ring at a given distance around a centre box, clipped to [0, limitᵢ) on
// every axis. The traversal walks the ring edge by edge: one axis is pinned
// to the ring's lower or upper face while the remaining coordinates sweep
// the clipped cuboid; faces that fall outside the clipped domain are
// skipped, and swept ranges shrink as faces complete so no box is visited
// twice.
type Neighbours struct {
	coords HyperBox

	// limits holds the clipped sweep range per axis, min and max
	// interleaved: limits[2i] / limits[2i+1].
	limits []int

	// skip marks faces that lie outside the clipped domain.
	skip []bool

	// face is the index of the currently pinned face.
	face int

	done bool
}

// SetDimensionCount prepares the iterator for boxes of the given
// dimensionality.
func (n *Neighbours) SetDimensionCount(count int) {
	if len(n.coords) != count {
		n.coords = make(HyperBox, count)
		n.limits = make([]int, count*2)
		n.skip = make([]bool, count*2)
	}
}

// Begin positions the iterator on the first box of the ring at the given
// level around centre. A level of zero visits only the centre box.
func (n *Neighbours) Begin(centre HyperBox, limits []int, level int) {
	n.SetDimensionCount(len(centre))
	n.done = false

	// 1) Clip the ring's faces against the domain.
	for i := len(n.coords) - 1; i >= 0; i-- {
		j := i << 1
		k := j + 1
		n.limits[j] = centre[i] - level
		n.limits[k] = centre[i] + level

		n.skip[j] = n.limits[j] < 0
		if n.skip[j] {
			n.limits[j] = 0
		}

		n.skip[k] = n.limits[k] >= limits[i]
		if n.skip[k] {
			n.limits[k] = limits[i] - 1
		}

		n.coords[i] = n.limits[j]
	}

	// 2) A zero level degenerates every face to the centre box; keeping only
	//    the first face yields the centre exactly once.
	if level == 0 {
		for f := 1; f < len(n.skip); f++ {
			n.skip[f] = true
		}
	}

	n.face = 0

	// 3) The first face may be clipped away entirely.
	if n.skip[0] {
		n.done = !n.find()
	}
}

// Current returns the box the iterator stands on. The slice is reused by
// Next; copy it to keep it.
func (n *Neighbours) Current() HyperBox { return n.coords }

// Done reports whether the iteration is exhausted; true straight after
// Begin means the whole ring was clipped away.
func (n *Neighbours) Done() bool { return n.done }

// Next advances to the next box of the ring. It returns false once every
// box has been visited.
func (n *Neighbours) Next() bool {
	if n.done {
		return false
	}

	c := len(n.coords) - 1
	pinned := n.face >> 1

	// carry over the swept coordinates, skipping the pinned axis
	for ; c >= 0; c-- {
		if c == pinned {
			continue
		}

		n.coords[c]++
		if n.coords[c] <= n.limits[(c<<1)+1] {
			break
		}

		n.coords[c] = n.limits[c<<1]
	}

	if c < 0 && !n.find() {
		n.done = true
		return false
	}

	return true
}

// find moves to the next face of the ring that intersects the clipped
// domain, shrinking the completed face's sweep range so its boxes are not
// revisited.
func (n *Neighbours) find() bool {
	// retire the completed face
	if !n.skip[n.face] {
		if n.face&1 == 1 {
			n.limits[n.face]--
		} else {
			n.limits[n.face]++
		}
	}

	// reset the axis to its lower sweep bound
	n.coords[n.face>>1] = n.limits[n.face&^1]

	for n.face++; n.face < len(n.limits); n.face++ {
		if !n.skip[n.face] {
			n.coords[n.face>>1] = n.limits[n.face]
			return true
		}

		n.coords[n.face>>1] = n.limits[n.face&^1]
	}

	return false
}
