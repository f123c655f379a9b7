package tags

// Buffer holds the slot payloads for one object. All buffers attached to the
// same Manager share a slot layout; the Manager addresses slots purely by
// index.
type Buffer struct {
	slots []any
}

// NewBuffer creates a buffer with the given number of empty slots.
func NewBuffer(size int) *Buffer { return &Buffer{slots: make([]any, size)} }

// At returns the payload stored at index.
func (b *Buffer) At(index int) any { return b.slots[index] }

// Set stores a payload at index.
func (b *Buffer) Set(index int, payload any) { b.slots[index] = payload }

// Remove clears the payload at index.
func (b *Buffer) Remove(index int) { b.slots[index] = nil }

// Size returns the number of slots.
func (b *Buffer) Size() int { return len(b.slots) }

// SetSize grows or trims the buffer to the given number of slots. Surviving
// slots keep their payloads.
func (b *Buffer) SetSize(size int) {
	if size == len(b.slots) {
		return
	}

	next := make([]any, size)
	copy(next, b.slots)
	b.slots = next
}

// UpdateSink receives every structural change the Manager makes, so the
// owning collection can mirror it onto all attached buffers. Implementations
// must apply a change to every buffer they observe or fail without applying
// it to any - the Manager rolls back on error.
type UpdateSink interface {
	// AddTag initialises slot index in every buffer from the lifecycle.
	AddTag(index int, lifecycle Lifecycle) error

	// RemoveTag clears slot index in every buffer.
	RemoveTag(index int) error

	// UpdateTag applies the update to slot index in every buffer.
	UpdateTag(index int, update Update) error

	// SetBufferSize resizes every buffer.
	SetBufferSize(size int) error
}

// BufferSet is a ready-made UpdateSink over a set of buffers that the owner
// registers and unregisters as objects come and go.
type BufferSet struct {
	buffers map[*Buffer]struct{}
}

// NewBufferSet creates an empty buffer set.
func NewBufferSet() *BufferSet { return &BufferSet{buffers: make(map[*Buffer]struct{})} }

// Attach registers a buffer so it starts receiving layout changes.
func (s *BufferSet) Attach(b *Buffer) { s.buffers[b] = struct{}{} }

// Detach unregisters a buffer.
func (s *BufferSet) Detach(b *Buffer) { delete(s.buffers, b) }

// AddTag implements UpdateSink.
func (s *BufferSet) AddTag(index int, lifecycle Lifecycle) error {
	for b := range s.buffers {
		b.Set(index, lifecycle.Create())
	}

	return nil
}

// RemoveTag implements UpdateSink.
func (s *BufferSet) RemoveTag(index int) error {
	for b := range s.buffers {
		b.Remove(index)
	}

	return nil
}

// UpdateTag implements UpdateSink.
func (s *BufferSet) UpdateTag(index int, update Update) error {
	for b := range s.buffers {
		update.Apply(b.At(index))
	}

	return nil
}

// SetBufferSize implements UpdateSink.
func (s *BufferSet) SetBufferSize(size int) error {
	for b := range s.buffers {
		b.SetSize(size)
	}

	return nil
}
