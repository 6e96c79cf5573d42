package product

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/products", h.listProducts)
	app.Get("/api/products/slug/:slug", h.getProductBySlug)
	app.Get("/api/products/:id<[0-9]+>", h.getProduct)
}

func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Post("/products", h.createProduct)
	r.Put("/products/:id<[0-9]+>", h.updateProduct)
	r.Delete("/products/:id<[0-9]+>", h.deleteProduct)
	r.Post("/products/:id<[0-9]+>/restock", h.restockProduct)
}

func (h *Handler) listProducts(c *fiber.Ctx) error {
	f := Filter{
		ItemType:   ItemType(c.Query("itemType")),
		Brand:      c.Query("brand"),
		Category:   c.Query("category"),
		ActiveOnly: c.Query("all") != "1",
	}
	if f.ItemType != "" && !ValidItemType(f.ItemType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid itemType"})
	}
	return c.JSON(h.service.List(f))
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	p, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	}
	return c.JSON(p)
}

func (h *Handler) getProductBySlug(c *fiber.Ctx) error {
	p, err := h.service.GetBySlug(c.Params("slug"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	}
	return c.JSON(p)
}

type productRequest struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	SKU         string   `json:"sku"`
	ItemType    ItemType `json:"itemType"`
	Brand       *string  `json:"brand"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Wattage     *int     `json:"wattage"`
	Category    *string  `json:"category"`
	Active      *bool    `json:"active"`
}

func (r productRequest) validate() string {
	switch {
	case r.Name == "":
		return "name is required"
	case r.Slug == "":
		return "slug is required"
	case r.SKU == "":
		return "sku is required"
	case !ValidItemType(r.ItemType):
		return "itemType must be GENERATOR or PART"
	case r.Price < 0:
		return "price must be non-negative"
	case r.Stock < 0:
		return "stock must be non-negative"
	}
	return ""
}

func (r productRequest) toProduct(now string) Product {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return Product{
		Name:        r.Name,
		Slug:        r.Slug,
		SKU:         r.SKU,
		ItemType:    r.ItemType,
		Brand:       r.Brand,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Wattage:     r.Wattage,
		Category:    r.Category,
		Active:      active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if msg := payload.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	created, err := h.service.Create(payload.toProduct(now))
	switch err {
	case nil:
		return c.Status(fiber.StatusCreated).JSON(created)
	case ErrSlugExists, ErrSKUExists:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if msg := payload.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	p := payload.toProduct(now)
	p.CreatedAt = ""
	updated, err := h.service.Update(id, p)
	switch err {
	case nil:
		return c.JSON(updated)
	case ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	case ErrSlugExists, ErrSKUExists:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	if err := h.service.Delete(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) restockProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	payload := new(restockRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	switch err := h.service.Restock(id, payload.Quantity); err {
	case nil:
		p, err := h.service.GetByID(id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
		return c.JSON(p)
	case ErrInvalidQuantity:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
