package address

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/voltdepot/genstore-backend/internal/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/addresses", h.listAddresses)
	app.Post("/api/addresses", h.createAddress)
	app.Put("/api/addresses/:id<[0-9]+>", h.updateAddress)
	app.Delete("/api/addresses/:id<[0-9]+>", h.deleteAddress)
}

type addressRequest struct {
	Label       string `json:"label"`
	Recipient   string `json:"recipient"`
	Phone       string `json:"phone"`
	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
}

func (r addressRequest) validate() string {
	switch {
	case r.Recipient == "":
		return "recipient is required"
	case r.Phone == "":
		return "phone is required"
	case r.AddressLine == "":
		return "addressLine is required"
	case r.City == "":
		return "city is required"
	}
	return ""
}

func (h *Handler) listAddresses(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	out, err := h.service.ListByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(out)
}

func (h *Handler) createAddress(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(addressRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if msg := payload.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	created, err := h.service.Create(Address{
		UserID:      userID,
		Label:       payload.Label,
		Recipient:   payload.Recipient,
		Phone:       payload.Phone,
		AddressLine: payload.AddressLine,
		City:        payload.City,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateAddress(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	payload := new(addressRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if msg := payload.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg})
	}

	updated, err := h.service.Update(id, userID, Address{
		Label:       payload.Label,
		Recipient:   payload.Recipient,
		Phone:       payload.Phone,
		AddressLine: payload.AddressLine,
		City:        payload.City,
		UpdatedAt:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "address not found"})
	}
	return c.JSON(updated)
}

func (h *Handler) deleteAddress(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	if err := h.service.Delete(id, userID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "address not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
