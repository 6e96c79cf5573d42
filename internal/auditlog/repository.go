package auditlog

import "sync"

type Repository interface {
	Create(e Entry) (Entry, error)
	// List returns entries newest first; entityType filters when non-empty.
	List(entityType string) ([]Entry, error)
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	entries []Entry
	nextID  int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Create(e Entry) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == 0 {
		e.ID = r.nextID
		r.nextID++
	}
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *InMemoryRepository) List(entityType string) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		if entityType != "" && r.entries[i].EntityType != entityType {
			continue
		}
		out = append(out, r.entries[i])
	}
	return out, nil
}
