package cart

import (
	"errors"
	"sort"
	"sync"

	"github.com/voltdepot/genstore-backend/internal/product"
)

var ErrNotFound = errors.New("cart not found")

type Repository interface {
	// Lines returns the raw product/quantity pairs for a user's cart.
	Lines(userID int) ([]Line, error)
	// Items returns the cart enriched with live product records.
	Items(userID int) ([]CartItem, error)
	// Add merges qty into the user's cart line for productID. Negative
	// quantities decrement; a line at or below zero is removed.
	Add(userID, productID, qty int) error
	Clear(userID int) error
}

// InMemoryRepository keeps carts in a map and resolves product records from
// an in-memory product repository. Used by tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	carts    map[int]map[int]int // userID -> productID -> qty
	products *product.InMemoryRepository
}

func NewInMemoryRepository(products *product.InMemoryRepository) *InMemoryRepository {
	return &InMemoryRepository{
		carts:    make(map[int]map[int]int),
		products: products,
	}
}

func (r *InMemoryRepository) Lines(userID int) ([]Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m := r.carts[userID]
	out := make([]Line, 0, len(m))
	for pid, qty := range m {
		out = append(out, Line{ProductID: pid, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *InMemoryRepository) Items(userID int) ([]CartItem, error) {
	lines, err := r.Lines(userID)
	if err != nil {
		return nil, err
	}

	out := make([]CartItem, 0, len(lines))
	for _, ln := range lines {
		p, err := r.products.GetByID(ln.ProductID)
		if err != nil {
			continue
		}
		out = append(out, CartItem{
			ProductID: p.ID,
			Name:      p.Name,
			SKU:       p.SKU,
			ItemType:  p.ItemType,
			Price:     p.Price,
			Stock:     p.Stock,
			Quantity:  ln.Quantity,
			LineTotal: p.Price * float64(ln.Quantity),
		})
	}
	return out, nil
}

func (r *InMemoryRepository) Add(userID, productID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.carts[userID]
	if m == nil {
		m = make(map[int]int)
		r.carts[userID] = m
	}
	next := m[productID] + qty
	if next <= 0 {
		delete(m, productID)
	} else {
		m[productID] = next
	}
	return nil
}

func (r *InMemoryRepository) Clear(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}
