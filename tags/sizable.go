package tags

// Partitioned is the payload shape used by per-worker sharded tags: one
// partition per branch, read together, written only by the owning branch.
type Partitioned[T any] []T

// SizableLifecycle creates Partitioned payloads with a configurable number
// of partitions. SizableUpdate changes the partition count of live tags.
type SizableLifecycle[T any] struct {
	// Size is the number of partitions new payloads receive.
	Size int

	// NewPartition produces one partition; when nil the zero value is used.
	NewPartition func() T

	// CleanPartition resets one partition in place; may be nil.
	CleanPartition func(*T)
}

// Create implements Lifecycle.
func (l *SizableLifecycle[T]) Create() any {
	p := make(Partitioned[T], l.Size)
	if l.NewPartition != nil {
		for i := range p {
			p[i] = l.NewPartition()
		}
	}

	return &p
}

// Clean implements Lifecycle.
func (l *SizableLifecycle[T]) Clean(payload any) {
	if l.CleanPartition == nil {
		return
	}

	p := payload.(*Partitioned[T])
	for i := range *p {
		l.CleanPartition(&(*p)[i])
	}
}

// MergePolicy folds a trimmed partition back into a retained one when a
// sizable tag shrinks.
type MergePolicy[T any] func(retained *T, trimmed *T)

// IgnoreMerge drops trimmed partitions.
func IgnoreMerge[T any](*T, *T) {}

// SumMerge folds trimmed numeric partitions by addition.
func SumMerge[T int | int64 | float32 | float64](retained *T, trimmed *T) { *retained += *trimmed }

// ConcatMerge folds trimmed slice partitions by concatenation.
func ConcatMerge[E any](retained *[]E, trimmed *[]E) {
	*retained = append(*retained, *trimmed...)
	*trimmed = nil
}

// SizableUpdate resizes Partitioned payloads of a live tag. Growth appends
// fresh partitions; shrink folds partition j into partition j%newSize using
// the merge policy before trimming.
type SizableUpdate[T any] struct {
	// NewSize is the partition count after the update.
	NewSize int

	// Merge folds trimmed partitions on shrink; nil behaves like IgnoreMerge.
	Merge MergePolicy[T]

	// NewPartition produces appended partitions on growth; may be nil.
	NewPartition func() T
}

// Required implements Update: the resize happens only when the lifecycle's
// partition count actually differs.
func (u *SizableUpdate[T]) Required(lifecycle Lifecycle) bool {
	return lifecycle.(*SizableLifecycle[T]).Size != u.NewSize
}

// ApplyLifecycle implements Update.
func (u *SizableUpdate[T]) ApplyLifecycle(lifecycle Lifecycle) {
	lifecycle.(*SizableLifecycle[T]).Size = u.NewSize
}

// Apply implements Update.
func (u *SizableUpdate[T]) Apply(payload any) {
	p := payload.(*Partitioned[T])
	old := len(*p)

	switch {
	case u.NewSize < old:
		// fold the trimmed tail back into the retained prefix
		if u.Merge != nil {
			for j := old - 1; j >= u.NewSize; j-- {
				u.Merge(&(*p)[j%u.NewSize], &(*p)[j])
			}
		}
		*p = (*p)[:u.NewSize]

	case u.NewSize > old:
		grown := make(Partitioned[T], u.NewSize)
		copy(grown, *p)
		if u.NewPartition != nil {
			for i := old; i < u.NewSize; i++ {
				grown[i] = u.NewPartition()
			}
		}
		*p = grown
	}
}
