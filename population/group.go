package population

// Group is an ordered sequence of storages used for staging offspring
// before insertion.
type Group struct {
	members []*Storage
}

// NewGroup creates an empty group.
func NewGroup() *Group { return &Group{} }

// Add appends a storage to the group.
func (g *Group) Add(s *Storage) { g.members = append(g.members, s) }

// At returns the storage at index.
func (g *Group) At(index int) *Storage { return g.members[index] }

// Count returns the number of members.
func (g *Group) Count() int { return len(g.members) }

// Members exposes the backing slice; callers must not grow it.
func (g *Group) Members() []*Storage { return g.members }

// Trim drops members beyond size, returning the removed tail.
func (g *Group) Trim(size int) []*Storage {
	if size < 0 || size >= len(g.members) {
		return nil
	}

	tail := g.members[size:]
	g.members = g.members[:size]

	return tail
}

// Clear removes every member.
func (g *Group) Clear() { g.members = g.members[:0] }
