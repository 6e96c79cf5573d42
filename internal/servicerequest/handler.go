package servicerequest

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
	app.Post("/api/services", h.createRequest)
	app.Get("/api/services", h.listOwnRequests)
	app.Get("/api/services/:id<[0-9]+>", h.getOwnRequest)
	app.Post("/api/services/:id<[0-9]+>/cancel", h.cancelOwnRequest)
}

func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Get("/services", h.listRequests)
	r.Patch("/services/:id<[0-9]+>/status", h.updateStatus)
}

type createRequestBody struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	ServiceType string `json:"serviceType"`
	ProductID   *int   `json:"productId"`
}

func (b createRequestBody) validate() error {
	if strings.TrimSpace(b.Subject) == "" {
		return errors.New("subject is required")
	}
	if strings.TrimSpace(b.Description) == "" {
		return errors.New("description is required")
	}
	if !ValidServiceType(b.ServiceType) {
		return errors.New("serviceType must be one of INSTALLATION, MAINTENANCE, REPAIR, INSPECTION")
	}
	return nil
}

func (h *Handler) createRequest(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	var body createRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	if err := body.validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	sr, err := h.service.Create(userID, body.Subject, body.Description, body.ServiceType, body.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create service request"})
	}
	return c.Status(fiber.StatusCreated).JSON(sr)
}

func (h *Handler) listOwnRequests(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	out, err := h.service.ListByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch service requests"})
	}
	return c.JSON(out)
}

func (h *Handler) getOwnRequest(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, _ := strconv.Atoi(c.Params("id"))

	sr, err := h.service.GetForUser(id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "service request not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch service request"})
	}
	return c.JSON(sr)
}

func (h *Handler) cancelOwnRequest(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, _ := strconv.Atoi(c.Params("id"))

	sr, err := h.service.Cancel(id, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "service request not found"})
		case errors.Is(err, ErrNotCancellable):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "only pending requests can be cancelled"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to cancel service request"})
	}
	return c.JSON(sr)
}

func (h *Handler) listRequests(c *fiber.Ctx) error {
	out, err := h.service.List(c.Query("status"))
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid status filter"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch service requests"})
	}
	return c.JSON(out)
}

type updateStatusBody struct {
	Status       string  `json:"status"`
	QuotedAmount float64 `json:"quotedAmount"`
	AdminNotes   string  `json:"adminNotes"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	actorID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, _ := strconv.Atoi(c.Params("id"))

	var body updateStatusBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	sr, err := h.service.UpdateStatus(actorID, id, body.Status, body.QuotedAmount, body.AdminNotes)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "service request not found"})
		case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidTransition):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to update service request"})
	}
	return c.JSON(sr)
}
