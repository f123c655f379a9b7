// Package tags implements the attachment system that lets operations hang
// per-object state off chromosomes and populations without changing their
// types: dominance counters, hyperbox coordinates, per-worker partial lists.
//
// A Manager owns an integer-ID space. Each live tag ID maps to a stable slot
// index inside every attached Buffer plus a Lifecycle policy that knows how
// to create and reset the slot payload. Slot indices never move while the
// tag stays live: growth appends slots, shrink only trims a trailing run of
// free slots, and a removed-then-re-added ID may land on a fresh index.
//
// The Manager talks to its buffers through a single UpdateSink installed by
// the owning collection. Every structural change (add, remove, replace,
// payload update, resize) is dispatched through the sink so that all
// observed buffers keep an identical logical slot layout. A sink failure
// rolls the manager's own bookkeeping back, leaving the collection
// unchanged.
//
// Errors:
//
//	ErrTagExists    - strict add with an ID that is already live.
//	ErrTagNotFound  - operation on an ID that is not live.
//	ErrNilLifecycle - a tag registered without a lifecycle policy.
package tags
