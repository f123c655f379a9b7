package tags

// Lifecycle is the policy that creates and resets slot payloads for one tag.
// Create acts as the prototype, Clean returns a payload to its pristine
// state when the owning object is recycled.
type Lifecycle interface {
	// Create produces a fresh payload for one slot.
	Create() any

	// Clean resets a payload in place when its owner is recycled.
	Clean(payload any)
}

// Update is a policy applied to a live tag: it mutates the lifecycle so that
// future slots are created in the new shape, and patches every existing slot
// to match. Required gates the whole operation - when it reports false the
// update is a no-op, which makes updates idempotent.
type Update interface {
	// Required reports whether the lifecycle actually needs the change.
	Required(lifecycle Lifecycle) bool

	// ApplyLifecycle mutates the lifecycle policy itself.
	ApplyLifecycle(lifecycle Lifecycle)

	// Apply patches one existing slot payload.
	Apply(payload any)
}

// TypedLifecycle creates slot payloads of a single concrete type through a
// factory function. A nil clean function leaves recycled payloads untouched.
type TypedLifecycle[T any] struct {
	// NewPayload produces the payload; when nil the zero value of T is used.
	NewPayload func() T

	// CleanPayload resets a payload in place; may be nil.
	CleanPayload func(*T)
}

// Create implements Lifecycle.
func (l *TypedLifecycle[T]) Create() any {
	if l.NewPayload != nil {
		v := l.NewPayload()
		return &v
	}

	var v T
	return &v
}

// Clean implements Lifecycle.
func (l *TypedLifecycle[T]) Clean(payload any) {
	if l.CleanPayload != nil {
		l.CleanPayload(payload.(*T))
	}
}

// Data returns the typed payload stored at slot index of buf. It is the
// accessor used by operations that resolved their slot index up front.
func Data[T any](buf *Buffer, index int) *T { return buf.At(index).(*T) }
