package notification

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("notification not found")

type Repository interface {
	Create(n Notification) (Notification, error)
	ListByUser(userID int) ([]Notification, error)
	MarkRead(id, userID int) error
	MarkAllRead(userID int) error
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	entries []Notification
	nextID  int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Create(n Notification) (Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == 0 {
		n.ID = r.nextID
		r.nextID++
	}
	r.entries = append(r.entries, n)
	return n, nil
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Notification, 0)
	// newest first
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID == userID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *InMemoryRepository) MarkRead(id, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].ID == id && r.entries[i].UserID == userID {
			r.entries[i].Read = true
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) MarkAllRead(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].UserID == userID {
			r.entries[i].Read = true
		}
	}
	return nil
}
