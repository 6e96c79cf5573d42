package coupon

import "time"

// DiscountType enumerates the three supported coupon kinds.
type DiscountType string

const (
	DiscountPercentage   DiscountType = "PERCENTAGE"
	DiscountFixedAmount  DiscountType = "FIXED_AMOUNT"
	DiscountFreeShipping DiscountType = "FREE_SHIPPING"
)

// ValidDiscountType reports whether t is a supported discount type.
func ValidDiscountType(t DiscountType) bool {
	switch t {
	case DiscountPercentage, DiscountFixedAmount, DiscountFreeShipping:
		return true
	}
	return false
}

// Coupon is a discount code with usage constraints. Zero-valued limits
// (MinOrderAmount, MaxDiscount, UsageLimit, PerUserLimit) mean "no limit".
// StartsAt/ExpiresAt are RFC3339 strings; empty means unbounded.
type Coupon struct {
	ID             int          `json:"couponId"`
	Code           string       `json:"code"`
	DiscountType   DiscountType `json:"discountType"`
	Value          float64      `json:"value"`
	MinOrderAmount float64      `json:"minOrderAmount,omitempty"`
	MaxDiscount    float64      `json:"maxDiscount,omitempty"`
	UsageLimit     int          `json:"usageLimit,omitempty"`
	PerUserLimit   int          `json:"perUserLimit,omitempty"`
	UsageCount     int          `json:"usageCount"`
	StartsAt       string       `json:"startsAt,omitempty"`
	ExpiresAt      string       `json:"expiresAt,omitempty"`
	Active         bool         `json:"active"`
	CreatedAt      string       `json:"createdAt,omitempty"`
	UpdatedAt      string       `json:"updatedAt,omitempty"`
}

// ActiveAt reports whether the coupon's window covers now. Unparseable
// bounds are treated as absent.
func (c Coupon) ActiveAt(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.StartsAt != "" {
		if start, err := time.Parse(time.RFC3339, c.StartsAt); err == nil && now.Before(start) {
			return false
		}
	}
	if c.ExpiresAt != "" {
		if end, err := time.Parse(time.RFC3339, c.ExpiresAt); err == nil && now.After(end) {
			return false
		}
	}
	return true
}

// Discount computes the discount this coupon grants against a priced order.
// Constraint checks (window, limits, min order) are the caller's concern;
// this is pure arithmetic per discount type.
func (c Coupon) Discount(subtotal, shipping float64) float64 {
	switch c.DiscountType {
	case DiscountPercentage:
		d := subtotal * c.Value / 100
		if c.MaxDiscount > 0 && d > c.MaxDiscount {
			d = c.MaxDiscount
		}
		return d
	case DiscountFixedAmount:
		if c.Value > subtotal {
			return subtotal
		}
		return c.Value
	case DiscountFreeShipping:
		return shipping
	}
	return 0
}
