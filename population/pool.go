package population

import (
	"sync/atomic"

	"github.com/katalvlaran/moea/lflist"
)

// Pool recycles chromosome storages through a lock-free free list. Acquire
// pops a recycled storage or builds a fresh one; Release cleans the storage
// and keeps it unless the pool is at capacity, in which case the storage is
// dropped for the collector.
type Pool struct {
	free    *lflist.Stack[Storage]
	size    atomic.Int32
	cap     int32
	build   func() *Storage
	recycle func(*Storage)
}

// NewPool creates a pool capped at capacity storages, building new ones
// with build and cleaning released ones with recycle (may be nil).
func NewPool(capacity int, build func() *Storage, recycle func(*Storage)) *Pool {
	return &Pool{
		free:    lflist.New(func(s *Storage) *atomic.Pointer[Storage] { return s.PoolNext() }),
		cap:     int32(capacity),
		build:   build,
		recycle: recycle,
	}
}

// Acquire returns a cleared storage, reusing a pooled one when available.
func (p *Pool) Acquire() *Storage {
	if s := p.free.Pop(); s != nil {
		p.size.Add(-1)
		return s
	}

	return p.build()
}

// Release returns a storage to the pool, reporting whether the pool kept
// it; a full pool drops the storage for the collector.
func (p *Pool) Release(s *Storage) bool {
	s.Clear()
	if p.recycle != nil {
		p.recycle(s)
	}

	for {
		n := p.size.Load()
		if n >= p.cap {
			// full - let the collector take it
			return false
		}
		if p.size.CompareAndSwap(n, n+1) {
			p.free.Push(s)
			return true
		}
	}
}
