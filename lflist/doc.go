// Package lflist implements an intrusive lock-free LIFO (a Treiber stack)
// shared by the engine's hot paths: the unranked-front queue of the
// replacement operation, the occupied-cell list of the best-per-cell matrix
// and the free list of the chromosome storage pool.
//
// The stack is intrusive: it does not allocate nodes. The caller supplies a
// NextAccessor that exposes a next-pointer slot embedded in the item itself
// (for chromosomes this slot lives in a tag buffer). Push and pop are single
// compare-and-swap loops; with a bounded number of producers and consumers
// both complete without blocking.
//
// An item must not be pushed onto two stacks at once, and must not be
// re-pushed while still reachable from a previous push - the embedded next
// slot can only serve one list membership at a time.
package lflist
