package population

import (
	"errors"

	"github.com/katalvlaran/moea/fitness"
	"github.com/katalvlaran/moea/stats"
	"github.com/katalvlaran/moea/tags"
)

// Sentinel errors for population construction and use.
var (
	// ErrNoComparator indicates fitness comparison without an installed comparator.
	ErrNoComparator = errors.New("population: no fitness comparator installed")

	// ErrBadCapacity indicates a population capacity that is not positive.
	ErrBadCapacity = errors.New("population: capacity must be positive")
)

// Cross-generation population flags.
const (
	// FlagFitnessOperationChanged marks a replaced raw-fitness operation.
	FlagFitnessOperationChanged uint32 = 1 << iota

	// FlagCompleteFitnessUpdate requires re-evaluation of every raw fitness.
	FlagCompleteFitnessUpdate

	// FlagScaledFitnessPrototypeChanged marks a replaced scaled-fitness
	// prototype.
	FlagScaledFitnessPrototypeChanged

	// FlagCompleteScaledFitnessUpdate records that a full scaled-fitness
	// update has been performed this generation.
	FlagCompleteScaledFitnessUpdate
)

// Option configures a Population.
type Option func(*Population)

// WithCapacity fixes the population size; the default is 128.
func WithCapacity(capacity int) Option {
	return func(p *Population) { p.capacity = capacity }
}

// WithPoolCapacity caps the storage recycling pool; the default is twice
// the population capacity.
func WithPoolCapacity(capacity int) Option {
	return func(p *Population) { p.poolCapacity = capacity }
}

// WithHistoryDepth sets the statistics object's preferred history depth;
// the default is 16.
func WithHistoryDepth(depth int) Option {
	return func(p *Population) { p.historyDepth = depth }
}

// Population is the chromosome container the engine's operations act on.
type Population struct {
	capacity     int
	poolCapacity int
	historyDepth int

	storages []*Storage
	fresh    *Group

	chromTags *tags.Manager
	chromSink *tags.BufferSet

	popTags   *tags.Manager
	popBuffer *tags.Buffer

	rawFactory    fitness.Factory
	scaledFactory fitness.Factory
	comparator    fitness.Comparator

	flags Flags
	pool  *Pool
	stats *stats.Statistics
}

// New creates a population producing raw fitness values with rawFactory,
// scaled values with scaledFactory and comparing chromosomes with
// comparator.
func New(rawFactory, scaledFactory fitness.Factory, comparator fitness.Comparator, opts ...Option) (*Population, error) {
	p := &Population{
		capacity:      128,
		poolCapacity:  -1,
		historyDepth:  16,
		fresh:         NewGroup(),
		rawFactory:    rawFactory,
		scaledFactory: scaledFactory,
		comparator:    comparator,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.capacity < 1 {
		return nil, ErrBadCapacity
	}
	if p.poolCapacity < 0 {
		p.poolCapacity = 2 * p.capacity
	}

	// chromosome tag buffers are mirrored through a shared sink
	p.chromSink = tags.NewBufferSet()
	p.chromTags = tags.NewManager(4, p.chromSink)

	// the population's own attachments live in a single buffer
	popSink := tags.NewBufferSet()
	p.popTags = tags.NewManager(4, popSink)
	p.popBuffer = p.popTags.NewAttachedBuffer()
	popSink.Attach(p.popBuffer)

	p.pool = NewPool(p.poolCapacity, p.buildStorage, nil)

	st, err := stats.New(p.historyDepth)
	if err != nil {
		return nil, err
	}
	p.stats = st
	if err = p.registerStatistics(); err != nil {
		return nil, err
	}

	p.storages = make([]*Storage, 0, p.capacity)

	return p, nil
}

func (p *Population) buildStorage() *Storage {
	buf := p.chromTags.NewAttachedBuffer()
	p.chromSink.Attach(buf)

	return NewStorage(p.rawFactory.CreateFitness(), p.scaledFactory.CreateFitness(), buf)
}

// AcquireStorage hands out a cleared storage from the pool, attaching its
// tag buffer to the layout sink.
func (p *Population) AcquireStorage() *Storage { return p.pool.Acquire() }

// ReleaseStorage cleans a storage and returns it to the pool; storages the
// pool cannot keep are detached from the tag layout.
func (p *Population) ReleaseStorage(s *Storage) {
	p.chromTags.CleanBuffer(s.Tags())
	if !p.pool.Release(s) {
		p.chromSink.Detach(s.Tags())
	}
}

// Capacity returns the configured population size.
func (p *Population) Capacity() int { return p.capacity }

// Len returns the number of storages currently in the population.
func (p *Population) Len() int { return len(p.storages) }

// At returns the storage at index.
func (p *Population) At(index int) *Storage { return p.storages[index] }

// Storages exposes the current generation; callers must not grow the
// slice.
func (p *Population) Storages() []*Storage { return p.storages }

// NewChromosomes returns the staging group of this generation's offspring.
func (p *Population) NewChromosomes() *Group { return p.fresh }

// ChromosomeTags returns the manager of per-chromosome tag layouts.
func (p *Population) ChromosomeTags() *tags.Manager { return p.chromTags }

// PopulationTags returns the manager of population-wide attachments.
func (p *Population) PopulationTags() *tags.Manager { return p.popTags }

// PopulationTagData returns the typed payload of a population tag by slot
// index.
func PopulationTagData[T any](p *Population, index int) *T {
	return tags.Data[T](p.popBuffer, index)
}

// Flags returns the population's cross-generation flag word.
func (p *Population) Flags() *Flags { return &p.flags }

// Statistics returns the population's statistics object.
func (p *Population) Statistics() *stats.Statistics { return p.stats }

// Comparator returns the installed fitness comparator.
func (p *Population) Comparator() fitness.Comparator { return p.comparator }

// CreateFitness produces a fresh fitness object of the given kind.
func (p *Population) CreateFitness(kind FitnessKind) fitness.Fitness {
	if kind == RawFitness {
		return p.rawFactory.CreateFitness()
	}

	return p.scaledFactory.CreateFitness()
}

// CompareFitness orders two raw fitness values with the installed
// comparator.
func (p *Population) CompareFitness(a, b fitness.Fitness) (int, error) {
	if p.comparator == nil {
		return 0, ErrNoComparator
	}

	return p.comparator.Compare(a, b)
}

// CompareStorages orders two chromosomes by raw fitness.
func (p *Population) CompareStorages(a, b *Storage) (int, error) {
	return p.CompareFitness(a.Fitness(RawFitness), b.Fitness(RawFitness))
}

// Insert appends a batch of offspring storages to the population and the
// staging group, marking each as new.
func (p *Population) Insert(batch []*Storage) {
	for _, s := range batch {
		s.Flags().Set(FlagNewChromosome)
		p.storages = append(p.storages, s)
		p.fresh.Add(s)
	}
}

// Remove compacts the population, evicting every storage flagged for
// removal and releasing it to the pool. The staging group is compacted the
// same way.
func (p *Population) Remove() int {
	// compact the staging group first; releases happen in the main pass
	freshKept := p.fresh.members[:0]
	for _, s := range p.fresh.members {
		if !s.Flags().Any(FlagRemoveChromosome) {
			freshKept = append(freshKept, s)
		}
	}
	p.fresh.members = freshKept

	kept := p.storages[:0]
	removed := 0

	for _, s := range p.storages {
		if s.Flags().Any(FlagRemoveChromosome) {
			removed++
			p.ReleaseStorage(s)
			continue
		}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(p.storages); i++ {
		p.storages[i] = nil
	}
	p.storages = kept

	return removed
}

// NextGeneration clears the staging group and new-chromosome flags, rotates
// the statistics and resets the per-generation population flags.
func (p *Population) NextGeneration() error {
	for _, s := range p.fresh.members {
		s.Flags().Clear(FlagNewChromosome)
	}
	p.fresh.Clear()

	p.flags.Clear(FlagCompleteFitnessUpdate | FlagScaledFitnessPrototypeChanged | FlagCompleteScaledFitnessUpdate | FlagFitnessOperationChanged)

	return p.stats.Next()
}
