package order

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/voltdepot/genstore-backend/internal/auth"
	"github.com/voltdepot/genstore-backend/internal/product"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/orders", h.checkout)
	app.Get("/api/orders", h.listOwnOrders)
	app.Get("/api/orders/:id<[0-9]+>", h.getOwnOrder)
}

func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Get("/orders", h.listOrders)
	r.Get("/orders/:id<[0-9]+>", h.getOrder)
	r.Patch("/orders/:id<[0-9]+>/status", h.updateStatus)
	r.Patch("/orders/:id<[0-9]+>/payment", h.updatePayment)
}

type checkoutBody struct {
	ShippingName    string `json:"shippingName"`
	ShippingPhone   string `json:"shippingPhone"`
	ShippingAddress string `json:"shippingAddress"`
	ShippingCity    string `json:"shippingCity"`
	PaymentMethod   string `json:"paymentMethod"`
	CouponCode      string `json:"couponCode"`
}

func (b checkoutBody) validate() error {
	if strings.TrimSpace(b.ShippingName) == "" {
		return errors.New("shippingName is required")
	}
	if strings.TrimSpace(b.ShippingPhone) == "" {
		return errors.New("shippingPhone is required")
	}
	if strings.TrimSpace(b.ShippingAddress) == "" {
		return errors.New("shippingAddress is required")
	}
	if strings.TrimSpace(b.ShippingCity) == "" {
		return errors.New("shippingCity is required")
	}
	if !ValidPaymentMethod(b.PaymentMethod) {
		return errors.New("paymentMethod must be one of COD, BANK_TRANSFER, CARD")
	}
	return nil
}

func (h *Handler) checkout(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	var body checkoutBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	if err := body.validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	ord, err := h.service.Checkout(userID, CheckoutInput{
		ShippingName:    body.ShippingName,
		ShippingPhone:   body.ShippingPhone,
		ShippingAddress: body.ShippingAddress,
		ShippingCity:    body.ShippingCity,
		PaymentMethod:   body.PaymentMethod,
		CouponCode:      body.CouponCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrInvalidPaymentMethod),
			errors.Is(err, product.ErrInsufficientStock):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create order"})
	}
	return c.Status(fiber.StatusCreated).JSON(ord)
}

func (h *Handler) listOwnOrders(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	out, err := h.service.ListByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch orders"})
	}
	return c.JSON(out)
}

func (h *Handler) getOwnOrder(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, _ := strconv.Atoi(c.Params("id"))

	ord, err := h.service.GetForUser(id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch order"})
	}
	return c.JSON(ord)
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	out, err := h.service.List(c.Query("status"))
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid status filter"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch orders"})
	}
	return c.JSON(out)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	ord, err := h.service.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch order"})
	}
	return c.JSON(ord)
}

type statusUpdateBody struct {
	Status          string `json:"status"`
	TrackingNumber  string `json:"trackingNumber"`
	TrackingCarrier string `json:"trackingCarrier"`
	AdminNotes      string `json:"adminNotes"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	actorID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, _ := strconv.Atoi(c.Params("id"))

	var body statusUpdateBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	ord, err := h.service.UpdateStatus(actorID, id, StatusUpdateInput{
		Status:          body.Status,
		TrackingNumber:  body.TrackingNumber,
		TrackingCarrier: body.TrackingCarrier,
		AdminNotes:      body.AdminNotes,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidTransition):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to update order"})
	}
	return c.JSON(ord)
}

type paymentUpdateBody struct {
	PaymentStatus string `json:"paymentStatus"`
}

func (h *Handler) updatePayment(c *fiber.Ctx) error {
	actorID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, _ := strconv.Atoi(c.Params("id"))

	var body paymentUpdateBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	ord, err := h.service.UpdatePaymentStatus(actorID, id, body.PaymentStatus)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case errors.Is(err, ErrInvalidPaymentStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to update payment status"})
	}
	return c.JSON(ord)
}
