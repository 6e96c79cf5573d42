package product

import (
	"errors"
	"strings"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

type Service struct {
	repo Repository
}

// ServiceInterface is implemented by *Service and consumed by the cart and
// order packages so tests can substitute fakes.
type ServiceInterface interface {
	GetByID(id int) (Product, error)
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(f Filter) []Product {
	return s.repo.List(f)
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) GetBySlug(slug string) (Product, error) {
	return s.repo.GetBySlug(slug)
}

func (s *Service) Create(p Product) (Product, error) {
	p.Slug = strings.TrimSpace(strings.ToLower(p.Slug))
	p.SKU = strings.TrimSpace(strings.ToUpper(p.SKU))
	return s.repo.Create(p)
}

func (s *Service) Update(id int, p Product) (Product, error) {
	p.Slug = strings.TrimSpace(strings.ToLower(p.Slug))
	p.SKU = strings.TrimSpace(strings.ToUpper(p.SKU))
	return s.repo.Update(id, p)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

// Restock adds quantity back to a product, used by admin restock actions.
func (s *Service) Restock(id int, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	return s.repo.AdjustStock(id, qty)
}
