package product

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrSlugExists        = errors.New("slug already exists")
	ErrSKUExists         = errors.New("sku already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Filter narrows catalog listings. Zero values mean "no filter".
type Filter struct {
	ItemType   ItemType
	Brand      string
	Category   string
	ActiveOnly bool
}

type Repository interface {
	List(f Filter) []Product
	GetByID(id int) (Product, error)
	GetBySlug(slug string) (Product, error)
	Create(p Product) (Product, error)
	Update(id int, p Product) (Product, error)
	Delete(id int) error
	// AdjustStock applies delta to the product's stock. A negative delta
	// that would drive stock below zero fails with ErrInsufficientStock
	// and leaves the row unchanged.
	AdjustStock(id int, delta int) error
}

// InMemoryRepository is a simple in-memory implementation useful for tests
// and seeding local data.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Product
	nextID  int
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{
		storage: make([]Product, 0, len(seed)),
		nextID:  1,
	}

	maxID := 0
	for _, p := range seed {
		r.storage = append(r.storage, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) List(f Filter) []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(r.storage))
	for _, p := range r.storage {
		if f.ItemType != "" && p.ItemType != f.ItemType {
			continue
		}
		if f.Brand != "" && (p.Brand == nil || !strings.EqualFold(*p.Brand, f.Brand)) {
			continue
		}
		if f.Category != "" && (p.Category == nil || !strings.EqualFold(*p.Category, f.Category)) {
			continue
		}
		if f.ActiveOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *InMemoryRepository) GetByID(id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) GetBySlug(slug string) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Create(p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.storage {
		if existing.Slug == p.Slug {
			return Product{}, ErrSlugExists
		}
		if existing.SKU == p.SKU {
			return Product{}, ErrSKUExists
		}
	}
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	r.storage = append(r.storage, p)
	return p, nil
}

func (r *InMemoryRepository) Update(id int, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.storage {
		if existing.ID == id {
			continue
		}
		if existing.Slug == p.Slug {
			return Product{}, ErrSlugExists
		}
		if existing.SKU == p.SKU {
			return Product{}, ErrSKUExists
		}
	}
	for i := range r.storage {
		if r.storage[i].ID == id {
			p.ID = id
			p.CreatedAt = r.storage[i].CreatedAt
			r.storage[i] = p
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage = append(r.storage[:i], r.storage[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) AdjustStock(id int, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			next := r.storage[i].Stock + delta
			if next < 0 {
				return ErrInsufficientStock
			}
			r.storage[i].Stock = next
			return nil
		}
	}
	return ErrNotFound
}
