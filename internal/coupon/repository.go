package coupon

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrNotFound   = errors.New("coupon not found")
	ErrCodeExists = errors.New("coupon code already exists")
)

type Repository interface {
	List() []Coupon
	GetByID(id int) (Coupon, error)
	// GetByCode matches case-insensitively.
	GetByCode(code string) (Coupon, error)
	Create(c Coupon) (Coupon, error)
	Update(id int, c Coupon) (Coupon, error)
	Delete(id int) error
	// CountRedemptions returns how many orders this user has already
	// applied the coupon to.
	CountRedemptions(couponID, userID int) (int, error)
	// Redeem increments the usage counter and records a redemption row.
	Redeem(couponID, userID, orderID int) error
}

type redemption struct {
	couponID int
	userID   int
	orderID  int
}

type InMemoryRepository struct {
	mu          sync.RWMutex
	coupons     []Coupon
	redemptions []redemption
	nextID      int
}

func NewInMemoryRepository(seed []Coupon) *InMemoryRepository {
	r := &InMemoryRepository{
		coupons: make([]Coupon, 0, len(seed)),
		nextID:  1,
	}
	maxID := 0
	for _, c := range seed {
		r.coupons = append(r.coupons, c)
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) List() []Coupon {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Coupon, len(r.coupons))
	copy(out, r.coupons)
	return out
}

func (r *InMemoryRepository) GetByID(id int) (Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.coupons {
		if c.ID == id {
			return c, nil
		}
	}
	return Coupon{}, ErrNotFound
}

func (r *InMemoryRepository) GetByCode(code string) (Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.coupons {
		if strings.EqualFold(c.Code, code) {
			return c, nil
		}
	}
	return Coupon{}, ErrNotFound
}

func (r *InMemoryRepository) Create(c Coupon) (Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.coupons {
		if strings.EqualFold(existing.Code, c.Code) {
			return Coupon{}, ErrCodeExists
		}
	}
	if c.ID == 0 {
		c.ID = r.nextID
		r.nextID++
	}
	r.coupons = append(r.coupons, c)
	return c, nil
}

func (r *InMemoryRepository) Update(id int, upd Coupon) (Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.coupons {
		if existing.ID != id && strings.EqualFold(existing.Code, upd.Code) {
			return Coupon{}, ErrCodeExists
		}
	}
	for i := range r.coupons {
		if r.coupons[i].ID == id {
			upd.ID = id
			upd.UsageCount = r.coupons[i].UsageCount
			upd.CreatedAt = r.coupons[i].CreatedAt
			r.coupons[i] = upd
			return upd, nil
		}
	}
	return Coupon{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.coupons {
		if r.coupons[i].ID == id {
			r.coupons = append(r.coupons[:i], r.coupons[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) CountRedemptions(couponID, userID int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, rd := range r.redemptions {
		if rd.couponID == couponID && rd.userID == userID {
			n++
		}
	}
	return n, nil
}

func (r *InMemoryRepository) Redeem(couponID, userID, orderID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.coupons {
		if r.coupons[i].ID == couponID {
			r.coupons[i].UsageCount++
			r.redemptions = append(r.redemptions, redemption{couponID, userID, orderID})
			return nil
		}
	}
	return ErrNotFound
}
