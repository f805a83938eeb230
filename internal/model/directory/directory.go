package directory

// Entry is a single emergency service and how to reach it.
type Entry struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// Store exposes emergency contact retrieval for handlers and services.
type Store interface {
	List() []Entry
	Lookup(name string) (string, bool)
}

// MemoryStore implements Store with an in-memory slice. The directory is
// read-only after initialization and needs no synchronization.
type MemoryStore struct {
	items []Entry
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied entries.
func NewMemoryStore(items []Entry) *MemoryStore {
	return &MemoryStore{items: append([]Entry(nil), items...)}
}

// List returns the directory entries in seed order.
func (s *MemoryStore) List() []Entry {
	return append([]Entry(nil), s.items...)
}

// Lookup finds a contact by service name.
func (s *MemoryStore) Lookup(name string) (string, bool) {
	for _, item := range s.items {
		if item.Name == name {
			return item.Contact, true
		}
	}
	return "", false
}

// Seed provides the Nepal emergency services the assistant refers callers to.
func Seed() []Entry {
	return []Entry{
		{Name: "Police", Contact: "100"},
		{Name: "Child Helpline", Contact: "1098"},
		{Name: "Women Commission", Contact: "1145"},
	}
}
