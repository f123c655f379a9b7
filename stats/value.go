package stats

// Entry is the untyped view of a statistics value used by the owning
// Statistics object and by dependency bookkeeping. Concrete values are
// *Value[T]; use Get for typed access.
type Entry interface {
	// Next rotates the current value into history.
	Next() error

	// HasCurrent reports whether a current value has been set.
	HasCurrent() bool

	// Clear drops the history and the current value.
	Clear()

	// ClearCurrent drops only the current value.
	ClearCurrent()

	// SetHistoryDepth changes the history capacity, evicting the oldest
	// entries when shrinking.
	SetHistoryDepth(depth int) error

	// HistoryDepth returns the history capacity.
	HistoryDepth() int

	// CurrentDepth returns the number of entries currently recorded.
	CurrentDepth() int

	// HistoryFull reports whether the history reached its capacity.
	HistoryFull() bool

	// LastChange returns the number of consecutive generations the newest
	// recorded value has stayed unchanged.
	LastChange() int

	// IsChanged reports whether the value at the given history depth
	// differs from the newest recorded value.
	IsChanged(depth int) bool

	// RelativeProgress returns the relative change of the current value
	// against the value depth generations back.
	RelativeProgress(depth int) (float64, error)

	// IsEvaluated reports whether the value derives from other values.
	IsEvaluated() bool

	// Combine folds another worker's value into this one.
	Combine(other Entry) error

	// FreeHistoryDepth reports whether the value keeps its own depth
	// instead of following the statistics object's preferred depth.
	FreeHistoryDepth() bool

	setOwner(s *Statistics)
	evaluate()
	dependants() map[Entry]struct{}
	dependencies() map[Entry]struct{}
}

// block is one run of equal consecutive history entries.
type block[T any] struct {
	value T
	size  int
}

// Value tracks one named statistic of payload type T.
type Value[T any] struct {
	owner *Statistics
	ops   Ops[T]

	current  T
	hasValue bool

	// history is ordered oldest first; the newest block is the last.
	history    []block[T]
	maxDepth   int
	curDepth   int
	freeDepth  bool
	lastChange int

	accumulating bool
	accumulated  T
	accumEmpty   bool

	combiner  Combiner[T]
	evaluator Evaluator

	deps map[Entry]struct{}
	subs map[Entry]struct{}
}

// NewValue creates an independent value with the given combiner. A negative
// depth binds the value to the owner's preferred history depth once it is
// registered.
func NewValue[T any](ops Ops[T], combiner Combiner[T], depth int, accumulating bool) *Value[T] {
	v := &Value[T]{
		ops:          ops,
		combiner:     combiner,
		accumulating: accumulating,
		accumEmpty:   true,
		deps:         make(map[Entry]struct{}),
		subs:         make(map[Entry]struct{}),
	}
	if depth < 0 {
		v.freeDepth = false
	} else {
		v.freeDepth = true
		v.maxDepth = depth
	}

	return v
}

// Current returns the current value; the second result reports whether one
// has been set this generation.
func (v *Value[T]) Current() (T, bool) { return v.current, v.hasValue }

// CurrentValue returns the current value, zero when empty.
func (v *Value[T]) CurrentValue() T { return v.current }

// HasCurrent implements Entry.
func (v *Value[T]) HasCurrent() bool { return v.hasValue }

// SetCurrent replaces the current value and immediately re-evaluates every
// dependant value.
func (v *Value[T]) SetCurrent(value T) {
	v.current = value
	v.hasValue = true

	for dep := range v.subs {
		dep.evaluate()
	}
}

// Accumulated returns the running sum of every value rotated into history;
// only meaningful when accumulation is enabled.
func (v *Value[T]) Accumulated() (T, bool) { return v.accumulated, !v.accumEmpty }

// EnableAccumulation switches value accumulation on or off; disabling drops
// the running total.
func (v *Value[T]) EnableAccumulation(enabled bool) {
	if v.accumulating == enabled {
		return
	}
	if !enabled {
		var zero T
		v.accumulated = zero
		v.accumEmpty = true
	}
	v.accumulating = enabled
}

// Next implements Entry. Equal consecutive values merge into the newest
// history block; a full history evicts from the oldest block.
func (v *Value[T]) Next() error {
	if !v.hasValue {
		return ErrEmptyValue
	}

	// 1) Fold the value into the accumulator.
	if v.accumulating {
		if v.accumEmpty {
			v.accumulated = v.ops.clone(v.current)
			v.accumEmpty = false
		} else {
			v.accumulated = v.ops.Add(v.accumulated, v.current)
		}
	}

	if v.maxDepth == 0 {
		return nil
	}

	// 2) First entry starts the history.
	if v.curDepth == 0 {
		v.history = append(v.history, block[T]{value: v.ops.clone(v.current), size: 1})
		v.curDepth = 1

		return nil
	}

	// 3) Merge into the newest block when the value did not change.
	last := &v.history[len(v.history)-1]
	change := !v.ops.Equal(last.value, v.current)
	if change {
		v.lastChange = 0
	} else {
		last.size++
		v.lastChange++
	}

	if v.curDepth < v.maxDepth {
		if change {
			v.history = append(v.history, block[T]{value: v.ops.clone(v.current), size: 1})
		}
		v.curDepth++

		return nil
	}

	// 4) History is full - evict one entry from the oldest block.
	first := &v.history[0]
	if first.size == 1 {
		v.history = v.history[1:]
	} else {
		first.size--
	}
	if change {
		v.history = append(v.history, block[T]{value: v.ops.clone(v.current), size: 1})
	}

	return nil
}

// Clear implements Entry.
func (v *Value[T]) Clear() {
	v.history = nil
	v.curDepth = 0
	v.lastChange = 0
	v.ClearCurrent()
}

// ClearCurrent implements Entry.
func (v *Value[T]) ClearCurrent() {
	var zero T
	v.current = zero
	v.hasValue = false
}

// SetHistoryDepth implements Entry.
func (v *Value[T]) SetHistoryDepth(depth int) error {
	if depth < 0 {
		return ErrNegativeDepth
	}

	// trim the oldest entries that exceed the new depth
	for v.curDepth > depth {
		first := &v.history[0]
		over := v.curDepth - depth
		if first.size > over {
			first.size -= over
			v.curDepth = depth
			break
		}

		v.curDepth -= first.size
		v.history = v.history[1:]
	}

	v.maxDepth = depth

	return nil
}

// HistoryDepth implements Entry.
func (v *Value[T]) HistoryDepth() int { return v.maxDepth }

// CurrentDepth implements Entry.
func (v *Value[T]) CurrentDepth() int { return v.curDepth }

// HistoryFull implements Entry.
func (v *Value[T]) HistoryFull() bool { return v.curDepth == v.maxDepth }

// LastChange implements Entry.
func (v *Value[T]) LastChange() int { return v.lastChange }

// Previous returns the value depth generations back: depth 0 is the current
// value, a negative depth or one past the recorded history returns the
// oldest entry.
func (v *Value[T]) Previous(depth int) (T, error) {
	if depth == 0 {
		if !v.hasValue {
			var zero T
			return zero, ErrEmptyValue
		}

		return v.current, nil
	}

	if v.curDepth == 0 {
		var zero T
		return zero, ErrEmptyValue
	}

	if depth < 0 || depth > v.curDepth {
		return v.history[0].value, nil
	}

	// scan from the newest block until the depth is covered
	covered := 0
	for i := len(v.history) - 1; i >= 0; i-- {
		covered += v.history[i].size
		if depth <= covered {
			return v.history[i].value, nil
		}
	}

	return v.history[0].value, nil
}

// IsChanged implements Entry: it compares the entry at the given depth with
// the newest recorded value.
func (v *Value[T]) IsChanged(depth int) bool {
	if depth == 0 || v.curDepth == 0 {
		return false
	}

	newest := v.history[len(v.history)-1].value

	if depth < 0 || depth > v.curDepth {
		return !v.ops.Equal(v.history[0].value, newest)
	}

	covered := 0
	for i := len(v.history) - 1; i >= 0; i-- {
		covered += v.history[i].size
		if depth <= covered {
			return !v.ops.Equal(v.history[i].value, newest)
		}
	}

	return false
}

// Changed reports whether the newest rotation recorded a different value
// than the one before it.
func (v *Value[T]) Changed() bool { return v.IsChanged(1) }

// Progress returns current − previous(depth) as a new value.
func (v *Value[T]) Progress(depth int) (T, error) {
	prev, err := v.Previous(depth)
	if err != nil {
		var zero T
		return zero, err
	}
	if !v.hasValue {
		var zero T
		return zero, ErrEmptyValue
	}

	return v.ops.Sub(v.ops.clone(v.current), prev), nil
}

// RelativeProgress implements Entry.
func (v *Value[T]) RelativeProgress(depth int) (float64, error) {
	prev, err := v.Previous(depth)
	if err != nil {
		return 0, err
	}
	if !v.hasValue {
		return 0, ErrEmptyValue
	}
	if v.ops.RelProgress == nil {
		return 0, ErrNotCombinable
	}

	return v.ops.RelProgress(v.current, prev), nil
}

// IsEvaluated implements Entry.
func (v *Value[T]) IsEvaluated() bool { return v.evaluator != nil }

// FreeHistoryDepth implements Entry.
func (v *Value[T]) FreeHistoryDepth() bool { return v.freeDepth }

// SetFreeHistoryDepth detaches (true) or re-binds (false) the value from
// the owner's preferred history depth.
func (v *Value[T]) SetFreeHistoryDepth(free bool) error {
	if !free && v.owner != nil {
		if err := v.SetHistoryDepth(v.owner.HistoryDepth()); err != nil {
			return err
		}
	}
	v.freeDepth = free

	return nil
}

// Combine implements Entry: it folds another worker's partial value into
// this one through the combiner. Evaluated values cannot be combined.
func (v *Value[T]) Combine(other Entry) error {
	if v.evaluator != nil || v.combiner == nil {
		return ErrNotCombinable
	}

	o, ok := other.(*Value[T])
	if !ok {
		return ErrWrongValueType
	}

	v.combiner.Combine(v, o)

	return nil
}

// SetEvaluator installs an evaluator, rewiring dependencies atomically: the
// previous dependency edges are removed, the new ones installed, and the
// value re-evaluated. Fails with ErrIndependent when the value was created
// with a combiner.
func (v *Value[T]) SetEvaluator(evaluator Evaluator) error {
	if v.combiner != nil {
		return ErrIndependent
	}
	if v.owner == nil {
		return ErrValueNotFound
	}

	// drop edges of the previous evaluator
	for dep := range v.deps {
		delete(dep.dependants(), Entry(v))
		delete(v.deps, dep)
	}

	for _, id := range evaluator.Dependencies() {
		dep, err := v.owner.Entry(id)
		if err != nil {
			// roll the new edges back so the value is left unwired
			for d := range v.deps {
				delete(d.dependants(), Entry(v))
				delete(v.deps, d)
			}

			return err
		}

		v.deps[dep] = struct{}{}
		dep.dependants()[v] = struct{}{}
	}

	v.evaluator = evaluator
	v.evaluate()

	return nil
}

func (v *Value[T]) setOwner(s *Statistics) {
	v.owner = s
	if !v.freeDepth && s != nil {
		v.maxDepth = s.HistoryDepth()
	}
}

func (v *Value[T]) evaluate() {
	if v.evaluator != nil && v.owner != nil {
		v.evaluator.Evaluate(v.owner, v)
	}
}

func (v *Value[T]) dependants() map[Entry]struct{}   { return v.subs }
func (v *Value[T]) dependencies() map[Entry]struct{} { return v.deps }
