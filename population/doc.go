// Package population implements chromosome storage and the population
// container the engine's operations work on.
//
// A Storage owns one chromosome handle, its raw and scaled fitness, an
// atomic flag word, a weak parent link and a tag buffer whose layout is
// managed by the population's chromosome tag manager. Storages are recycled
// through a lock-free Pool; Clear resets fitness, flags and parent link but
// keeps the tag buffer sizing.
//
// The Population holds the current generation in a fixed-capacity sequence,
// stages offspring in a separate group, carries two tag managers (one for
// chromosome buffers, one for population-wide attachments), a fitness
// factory pair for raw and scaled values, and a flag word describing
// cross-generation events (fitness operation changed, complete update
// required, scaled prototype changed).
//
// BestMatrix is the best-per-cell structure density algorithms maintain:
// per cell an atomic occupancy count and the best-ranked member, with an
// intrusive lock-free list of occupied cells and branch-local scratch
// matrices merged by CollectBest.
//
// Statistic trackers feed the stats engine with population size, best,
// worst and summed raw fitness, and raw-fitness deviation.
//
// Errors:
//
//	ErrFlagsExhausted - the flag manager has no free flags to hand out.
//	ErrNoComparator   - fitness comparison without an installed comparator.
//	ErrBadCapacity    - a population capacity that is not positive.
package population
