package branch

import (
	"errors"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrBadWorkerCount indicates an executor configured with fewer than one
// worker.
var ErrBadWorkerCount = errors.New("branch: worker count must be at least 1")

// Barrier is a reusable synchronisation point for a fixed number of
// branches.
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	count      int
	arrived    int
	generation int

	// err is the critical-section result published to the branches waiting
	// on the current generation.
	err error
}

// NewBarrier creates a barrier for count branches.
func NewBarrier(count int) *Barrier {
	b := &Barrier{count: count}
	b.cond = sync.NewCond(&b.mu)

	return b
}

// Sync blocks until every branch has arrived.
func (b *Barrier) Sync() { _ = b.SyncDo(nil) }

// SyncDo blocks until every branch has arrived; the last branch to arrive
// runs critical alone before the barrier opens. The critical section's
// error is returned to every branch.
func (b *Barrier) SyncDo(critical func() error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.generation
	b.arrived++

	if b.arrived == b.count {
		// single-writer region: everyone else is parked on the condition
		var err error
		if critical != nil {
			err = critical()
		}

		b.err = err
		b.arrived = 0
		b.generation++
		b.cond.Broadcast()

		return err
	}

	for gen == b.generation {
		b.cond.Wait()
	}

	return b.err
}

// Branch is one worker's identity inside a parallel region.
type Branch struct {
	id      int
	count   int
	barrier *Barrier
	log     logrus.FieldLogger
}

// ID returns the branch ID in [0, Count).
func (b *Branch) ID() int { return b.id }

// Count returns the number of sibling branches sharing the barrier.
func (b *Branch) Count() int { return b.count }

// Barrier returns the barrier shared with the siblings.
func (b *Branch) Barrier() *Barrier { return b.barrier }

// Log returns the branch's logger.
func (b *Branch) Log() logrus.FieldLogger { return b.log }

// Slice returns this branch's contiguous partition [lo, hi) of an index
// range of length n.
func (b *Branch) Slice(n int) (lo, hi int) {
	per := n / b.count
	rest := n % b.count

	lo = b.id * per
	if b.id < rest {
		lo += b.id
	} else {
		lo += rest
	}

	hi = lo + per
	if b.id < rest {
		hi++
	}

	return lo, hi
}

// For runs op over this branch's partition of [0, n).
func For(b *Branch, n int, op func(index int)) {
	lo, hi := b.Slice(n)
	for i := lo; i < hi; i++ {
		op(i)
	}
}

// ForPairs runs itemOp over this branch's partition of [0, n) and pairOp
// over every unordered pair whose smaller index lies in the partition, so
// each pair is visited by exactly one branch.
func ForPairs(b *Branch, n int, itemOp func(i int), pairOp func(i, j int)) {
	lo, hi := b.Slice(n)
	for i := lo; i < hi; i++ {
		if itemOp != nil {
			itemOp(i)
		}
		for j := i + 1; j < n; j++ {
			pairOp(i, j)
		}
	}
}

// Option configures an Executor.
type Option func(*Executor)

// WithWorkers fixes the number of branches; the default is GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Executor) { e.workers = n }
}

// WithLogger installs a logger handed to every branch.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Executor) { e.log = log }
}

// Executor runs a function once per branch and joins the results.
type Executor struct {
	workers int
	log     logrus.FieldLogger
}

// NewExecutor creates an executor with the given options.
func NewExecutor(opts ...Option) (*Executor, error) {
	e := &Executor{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(e)
	}

	if e.workers < 1 {
		return nil, ErrBadWorkerCount
	}
	if e.log == nil {
		logger := logrus.New()
		logger.SetLevel(logrus.PanicLevel)
		e.log = logger
	}

	return e, nil
}

// Workers returns the branch count the executor runs with.
func (e *Executor) Workers() int { return e.workers }

// Execute runs fn on every branch concurrently and returns the first error.
// A failed branch does not interrupt its siblings mid-region; they run to
// completion and the error surfaces after the join.
func (e *Executor) Execute(fn func(b *Branch) error) error {
	barrier := NewBarrier(e.workers)

	var group errgroup.Group
	for id := 0; id < e.workers; id++ {
		br := &Branch{
			id:      id,
			count:   e.workers,
			barrier: barrier,
			log:     e.log.WithField("branch", id),
		}
		group.Go(func() error { return fn(br) })
	}

	if err := group.Wait(); err != nil {
		e.log.WithError(err).Error("parallel region failed")
		return err
	}

	return nil
}
