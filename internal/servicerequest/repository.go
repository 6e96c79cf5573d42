package servicerequest

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("service request not found")

type Repository interface {
	Create(sr ServiceRequest) (ServiceRequest, error)
	GetByID(id int) (ServiceRequest, error)
	ListByUser(userID int) ([]ServiceRequest, error)
	// List returns all requests newest first; status filters when non-empty.
	List(status string) ([]ServiceRequest, error)
	Update(sr ServiceRequest) (ServiceRequest, error)
}

type InMemoryRepository struct {
	mu       sync.RWMutex
	requests map[int]ServiceRequest
	nextID   int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		requests: make(map[int]ServiceRequest),
		nextID:   1,
	}
}

func (r *InMemoryRepository) Create(sr ServiceRequest) (ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sr.ID == 0 {
		sr.ID = r.nextID
		r.nextID++
	}
	r.requests[sr.ID] = sr
	return sr, nil
}

func (r *InMemoryRepository) GetByID(id int) (ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sr, ok := r.requests[id]
	if !ok {
		return ServiceRequest{}, ErrNotFound
	}
	return sr, nil
}

func (r *InMemoryRepository) ListByUser(userID int) ([]ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ServiceRequest, 0)
	for id := r.nextID - 1; id >= 1; id-- {
		sr, ok := r.requests[id]
		if ok && sr.UserID == userID {
			out = append(out, sr)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) List(status string) ([]ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ServiceRequest, 0)
	for id := r.nextID - 1; id >= 1; id-- {
		sr, ok := r.requests[id]
		if !ok {
			continue
		}
		if status != "" && sr.Status != status {
			continue
		}
		out = append(out, sr)
	}
	return out, nil
}

func (r *InMemoryRepository) Update(sr ServiceRequest) (ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[sr.ID]; !ok {
		return ServiceRequest{}, ErrNotFound
	}
	r.requests[sr.ID] = sr
	return sr, nil
}
