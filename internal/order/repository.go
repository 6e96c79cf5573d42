package order

import (
	"errors"
	"sync"

	"github.com/voltdepot/genstore-backend/internal/cart"
	"github.com/voltdepot/genstore-backend/internal/coupon"
	"github.com/voltdepot/genstore-backend/internal/product"
)

var ErrNotFound = errors.New("order not found")

type Repository interface {
	// Create persists the order with its item snapshots, decrements stock
	// per line, records the coupon redemption when couponID > 0, and clears
	// the buyer's cart. The whole write is atomic: a failed stock decrement
	// aborts everything with product.ErrInsufficientStock.
	Create(ord Order, couponID int) (Order, error)
	GetByID(id int) (Order, error)
	ListByUser(userID int) ([]Order, error)
	// List returns all orders newest first; status filters when non-empty.
	List(status string) ([]Order, error)
	// Update persists status, payment status, tracking and notes fields.
	Update(ord Order) (Order, error)
	// Cancel persists ord (already carrying its cancelled status and
	// payment fields) and restores stock for every line, atomically.
	Cancel(ord Order) (Order, error)
}

// InMemoryRepository mirrors the transactional Postgres behaviour against
// the in-memory product, coupon and cart repositories. Used by tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	orders   map[int]Order
	nextID   int
	products *product.InMemoryRepository
	coupons  *coupon.InMemoryRepository
	carts    *cart.InMemoryRepository
}

func NewInMemoryRepository(products *product.InMemoryRepository, coupons *coupon.InMemoryRepository, carts *cart.InMemoryRepository) *InMemoryRepository {
	return &InMemoryRepository{
		orders:   make(map[int]Order),
		nextID:   1,
		products: products,
		coupons:  coupons,
		carts:    carts,
	}
}

func (r *InMemoryRepository) Create(ord Order, couponID int) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Decrement stock line by line, undoing on failure so a rejected
	// checkout leaves stock untouched.
	for i, it := range ord.Items {
		if err := r.products.AdjustStock(it.ProductID, -it.Quantity); err != nil {
			for _, done := range ord.Items[:i] {
				r.products.AdjustStock(done.ProductID, done.Quantity)
			}
			return Order{}, err
		}
	}

	ord.ID = r.nextID
	r.nextID++
	for i := range ord.Items {
		ord.Items[i].ID = i + 1
	}
	r.orders[ord.ID] = ord

	if couponID > 0 {
		if err := r.coupons.Redeem(couponID, ord.UserID, ord.ID); err != nil {
			return Order{}, err
		}
	}
	if err := r.carts.Clear(ord.UserID); err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *InMemoryRepository) GetByID(id int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ord, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return ord, nil
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for id := r.nextID - 1; id >= 1; id-- {
		ord, ok := r.orders[id]
		if ok && ord.UserID == userID {
			out = append(out, ord)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) List(status string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for id := r.nextID - 1; id >= 1; id-- {
		ord, ok := r.orders[id]
		if !ok {
			continue
		}
		if status != "" && ord.Status != status {
			continue
		}
		out = append(out, ord)
	}
	return out, nil
}

func (r *InMemoryRepository) Update(ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[ord.ID]; !ok {
		return Order{}, ErrNotFound
	}
	r.orders[ord.ID] = ord
	return ord, nil
}

func (r *InMemoryRepository) Cancel(ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[ord.ID]; !ok {
		return Order{}, ErrNotFound
	}
	for _, it := range ord.Items {
		if err := r.products.AdjustStock(it.ProductID, it.Quantity); err != nil {
			return Order{}, err
		}
	}
	r.orders[ord.ID] = ord
	return ord, nil
}
