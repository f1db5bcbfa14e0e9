package mode

// Store exposes mode definitions for HTTP handlers.
type Store interface {
	List() []Definition
	FindByID(id Mode) (Definition, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Definition
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied definitions.
func NewMemoryStore(items []Definition) *MemoryStore {
	return &MemoryStore{items: append([]Definition(nil), items...)}
}

// List returns a copy of the definitions.
func (s *MemoryStore) List() []Definition {
	return append([]Definition(nil), s.items...)
}

// FindByID looks up a definition by mode.
func (s *MemoryStore) FindByID(id Mode) (Definition, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Definition{}, false
}
