package auditlog

import "github.com/gofiber/fiber/v2"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Get("/audit-logs", h.list)
}

func (h *Handler) list(c *fiber.Ctx) error {
	entries, err := h.service.List(c.Query("entityType"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch audit logs",
		})
	}
	return c.JSON(entries)
}
