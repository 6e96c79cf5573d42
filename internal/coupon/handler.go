package coupon

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Get("/coupons", h.listCoupons)
	r.Post("/coupons", h.createCoupon)
	r.Put("/coupons/:id<[0-9]+>", h.updateCoupon)
	r.Delete("/coupons/:id<[0-9]+>", h.deleteCoupon)
}

type couponRequest struct {
	Code           string       `json:"code"`
	DiscountType   DiscountType `json:"discountType"`
	Value          float64      `json:"value"`
	MinOrderAmount float64      `json:"minOrderAmount"`
	MaxDiscount    float64      `json:"maxDiscount"`
	UsageLimit     int          `json:"usageLimit"`
	PerUserLimit   int          `json:"perUserLimit"`
	StartsAt       string       `json:"startsAt"`
	ExpiresAt      string       `json:"expiresAt"`
	Active         *bool        `json:"active"`
}

func (r couponRequest) validate() string {
	switch {
	case r.Code == "":
		return "code is required"
	case !ValidDiscountType(r.DiscountType):
		return "discountType must be PERCENTAGE, FIXED_AMOUNT or FREE_SHIPPING"
	case r.DiscountType == DiscountPercentage && (r.Value <= 0 || r.Value > 100):
		return "percentage value must be between 0 and 100"
	case r.DiscountType == DiscountFixedAmount && r.Value <= 0:
		return "fixed amount must be positive"
	case r.MinOrderAmount < 0 || r.MaxDiscount < 0:
		return "limits must be non-negative"
	case r.UsageLimit < 0 || r.PerUserLimit < 0:
		return "limits must be non-negative"
	}
	for _, ts := range []string{r.StartsAt, r.ExpiresAt} {
		if ts == "" {
			continue
		}
		if _, err := time.Parse(time.RFC3339, ts); err != nil {
			return "timestamps must be RFC3339"
		}
	}
	return ""
}

func (r couponRequest) toCoupon(now string) Coupon {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return Coupon{
		Code:           r.Code,
		DiscountType:   r.DiscountType,
		Value:          r.Value,
		MinOrderAmount: r.MinOrderAmount,
		MaxDiscount:    r.MaxDiscount,
		UsageLimit:     r.UsageLimit,
		PerUserLimit:   r.PerUserLimit,
		StartsAt:       r.StartsAt,
		ExpiresAt:      r.ExpiresAt,
		Active:         active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (h *Handler) listCoupons(c *fiber.Ctx) error {
	return c.JSON(h.service.List())
}

func (h *Handler) createCoupon(c *fiber.Ctx) error {
	payload := new(couponRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if msg := payload.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	created, err := h.service.Create(payload.toCoupon(now))
	switch err {
	case nil:
		return c.Status(fiber.StatusCreated).JSON(created)
	case ErrCodeExists:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}

func (h *Handler) updateCoupon(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	payload := new(couponRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if msg := payload.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	cp := payload.toCoupon(now)
	cp.CreatedAt = ""
	updated, err := h.service.Update(id, cp)
	switch err {
	case nil:
		return c.JSON(updated)
	case ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "coupon not found"})
	case ErrCodeExists:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}

func (h *Handler) deleteCoupon(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	if err := h.service.Delete(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "coupon not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
