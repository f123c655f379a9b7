package tags

import "errors"

// Sentinel errors for tag management.
var (
	// ErrTagExists indicates a strict add with an ID that is already live.
	ErrTagExists = errors.New("tags: tag with this ID already exists")

	// ErrTagNotFound indicates an operation on an ID that is not live.
	ErrTagNotFound = errors.New("tags: tag does not exist")

	// ErrNilLifecycle indicates a tag registered without a lifecycle policy.
	ErrNilLifecycle = errors.New("tags: lifecycle must be specified")
)

type tagEntry struct {
	index     int
	lifecycle Lifecycle
}

// Manager allocates stable slot indices for tag IDs and keeps every attached
// buffer's layout in sync through its UpdateSink. IDs are opaque to the
// manager; the caller owns their meaning.
//
// Manager is not safe for concurrent mutation; the engine mutates tag layout
// only inside barrier-synchronised single-writer regions.
type Manager struct {
	entries    map[int]*tagEntry
	free       []int
	bufferSize int
	sink       UpdateSink
}

// NewManager creates a manager whose buffers start with the given slot
// capacity. The sink is installed once by the owning collection and receives
// every structural change; it may be nil for a detached manager.
func NewManager(initialSize int, sink UpdateSink) *Manager {
	if initialSize < 0 {
		initialSize = 0
	}

	m := &Manager{
		entries:    make(map[int]*tagEntry),
		bufferSize: initialSize,
		sink:       sink,
	}
	for i := initialSize - 1; i >= 0; i-- {
		m.free = append(m.free, i)
	}

	return m
}

// BufferSize returns the current number of slots every attached buffer has.
func (m *Manager) BufferSize() int { return m.bufferSize }

// NewAttachedBuffer creates a buffer sized for this manager's layout and
// populates its live slots from their lifecycles. The caller is responsible
// for registering the buffer with the sink.
func (m *Manager) NewAttachedBuffer() *Buffer {
	b := NewBuffer(m.bufferSize)
	for _, e := range m.entries {
		b.Set(e.index, e.lifecycle.Create())
	}

	return b
}

// CleanBuffer resets every live slot of a buffer through its tag's
// lifecycle; used when the owning object is recycled.
func (m *Manager) CleanBuffer(b *Buffer) {
	for _, e := range m.entries {
		e.lifecycle.Clean(b.At(e.index))
	}
}

// TagIndex resolves a tag ID to its slot index.
func (m *Manager) TagIndex(id int) (int, error) {
	e, ok := m.entries[id]
	if !ok {
		return 0, ErrTagNotFound
	}

	return e.index, nil
}

// Has reports whether the tag ID is live.
func (m *Manager) Has(id int) bool {
	_, ok := m.entries[id]
	return ok
}

// Add registers a new tag and returns its slot index. Fails with
// ErrTagExists when the ID is already live.
func (m *Manager) Add(id int, lifecycle Lifecycle) (int, error) {
	if _, ok := m.entries[id]; ok {
		return 0, ErrTagExists
	}

	return m.add(id, lifecycle)
}

// Ensure registers the tag if it is not live yet and returns the slot index
// either way. The lifecycle of an already-live tag is left untouched.
func (m *Manager) Ensure(id int, lifecycle Lifecycle) (int, error) {
	if e, ok := m.entries[id]; ok {
		return e.index, nil
	}

	return m.add(id, lifecycle)
}

func (m *Manager) add(id int, lifecycle Lifecycle) (int, error) {
	if lifecycle == nil {
		return 0, ErrNilLifecycle
	}

	// 1) Grow all buffers when no slot is free; capacity doubles.
	if len(m.free) == 0 {
		grow := m.bufferSize
		if grow == 0 {
			grow = 1
		}
		if err := m.changeBufferSize(grow); err != nil {
			return 0, err
		}
	}

	// 2) Take a free slot and initialise it in every buffer.
	index := m.free[len(m.free)-1]
	if m.sink != nil {
		if err := m.sink.AddTag(index, lifecycle); err != nil {
			return 0, err
		}
	}

	m.free = m.free[:len(m.free)-1]
	m.entries[id] = &tagEntry{index: index, lifecycle: lifecycle}

	return index, nil
}

// Remove frees the tag's slot for reuse and reports whether the ID was live.
// Buffers may shrink when the trailing portion of the layout is empty and at
// least a quarter of the capacity is free.
func (m *Manager) Remove(id int) (bool, error) {
	e, ok := m.entries[id]
	if !ok {
		return false, nil
	}

	if m.sink != nil {
		if err := m.sink.RemoveTag(e.index); err != nil {
			return false, err
		}
	}

	m.free = append(m.free, e.index)
	delete(m.entries, id)

	if err := m.shrink(); err != nil {
		return false, err
	}

	return true, nil
}

// Replace recreates the tag's slot with a new lifecycle, reusing the index.
// A missing ID behaves like Add.
func (m *Manager) Replace(id int, lifecycle Lifecycle) (int, error) {
	e, ok := m.entries[id]
	if !ok {
		return m.add(id, lifecycle)
	}
	if lifecycle == nil {
		return 0, ErrNilLifecycle
	}

	if m.sink != nil {
		if err := m.sink.AddTag(e.index, lifecycle); err != nil {
			return 0, err
		}
	}
	e.lifecycle = lifecycle

	return e.index, nil
}

// Update applies an update policy to the tag's lifecycle and to the slot in
// every attached buffer, but only when update.Required reports an actual
// change - repeated identical updates are no-ops.
func (m *Manager) Update(id int, update Update) error {
	e, ok := m.entries[id]
	if !ok {
		return ErrTagNotFound
	}

	if !update.Required(e.lifecycle) {
		return nil
	}

	if m.sink != nil {
		if err := m.sink.UpdateTag(e.index, update); err != nil {
			return err
		}
	}
	update.ApplyLifecycle(e.lifecycle)

	return nil
}

// ChangeID relabels a live tag. Fails with ErrTagNotFound when the current
// ID is not live and ErrTagExists when the new ID already is.
func (m *Manager) ChangeID(currentID, newID int) error {
	if currentID == newID {
		return nil
	}

	e, ok := m.entries[currentID]
	if !ok {
		return ErrTagNotFound
	}
	if _, ok = m.entries[newID]; ok {
		return ErrTagExists
	}

	m.entries[newID] = e
	delete(m.entries, currentID)

	return nil
}

// shrink trims the trailing run of free slots, keeping a quarter of the live
// count (one slot when nothing is live) free as headroom; it trims nothing
// unless at least that many slots can go.
func (m *Manager) shrink() error {
	if len(m.free) == 0 {
		return nil
	}

	// 1) Measure the run of free slots at the end of the layout.
	used := make(map[int]bool, len(m.entries))
	for _, e := range m.entries {
		used[e.index] = true
	}

	trailing := 0
	for i := m.bufferSize - 1; i >= 0 && !used[i]; i-- {
		trailing++
	}
	if trailing == 0 {
		return nil
	}

	// 2) Keep headroom proportional to the live slot count.
	required := (m.bufferSize - len(m.free)) / 4
	if m.bufferSize == len(m.free) {
		required = 1
	}

	remove := trailing
	if allowed := len(m.free) - required; remove > allowed {
		remove = allowed
	}
	if remove < required {
		return nil
	}

	return m.changeBufferSize(-remove)
}

// changeBufferSize grows or trims the layout by delta slots, updating the
// free list and resizing every attached buffer through the sink.
func (m *Manager) changeBufferSize(delta int) error {
	newSize := m.bufferSize + delta

	if m.sink != nil {
		if err := m.sink.SetBufferSize(newSize); err != nil {
			return err
		}
	}

	if delta > 0 {
		for i := m.bufferSize; i < newSize; i++ {
			m.free = append(m.free, i)
		}
	} else {
		kept := m.free[:0]
		for _, idx := range m.free {
			if idx < newSize {
				kept = append(kept, idx)
			}
		}
		m.free = kept
	}

	m.bufferSize = newSize

	return nil
}
