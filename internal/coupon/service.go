package coupon

import (
	"strings"
	"time"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() []Coupon {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (Coupon, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(c Coupon) (Coupon, error) {
	c.Code = strings.TrimSpace(strings.ToUpper(c.Code))
	return s.repo.Create(c)
}

func (s *Service) Update(id int, c Coupon) (Coupon, error) {
	c.Code = strings.TrimSpace(strings.ToUpper(c.Code))
	return s.repo.Update(id, c)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

// Resolve checks whether code can be applied by userID to an order with the
// given subtotal and shipping cost, and returns the coupon plus its
// discount. A coupon that fails any of its own constraints is skipped
// (ok=false) rather than treated as an error: checkout proceeds undiscounted.
func (s *Service) Resolve(code string, userID int, subtotal, shipping float64) (Coupon, float64, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Coupon{}, 0, false
	}

	c, err := s.repo.GetByCode(code)
	if err != nil {
		return Coupon{}, 0, false
	}
	if !c.ActiveAt(time.Now().UTC()) {
		return Coupon{}, 0, false
	}
	if c.MinOrderAmount > 0 && subtotal < c.MinOrderAmount {
		return Coupon{}, 0, false
	}
	if c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit {
		return Coupon{}, 0, false
	}
	if c.PerUserLimit > 0 {
		used, err := s.repo.CountRedemptions(c.ID, userID)
		if err != nil || used >= c.PerUserLimit {
			return Coupon{}, 0, false
		}
	}

	return c, c.Discount(subtotal, shipping), true
}

// Redeem records that an order applied the coupon. Usage counts are never
// decremented, even when the order is later cancelled.
func (s *Service) Redeem(couponID, userID, orderID int) error {
	return s.repo.Redeem(couponID, userID, orderID)
}
