package cart

import "github.com/voltdepot/genstore-backend/internal/product"

// Service orchestrates cart operations.
type Service struct {
	repo    Repository
	catalog product.ServiceInterface
}

func NewService(repo Repository, catalog product.ServiceInterface) *Service {
	return &Service{repo: repo, catalog: catalog}
}

func (s *Service) Lines(userID int) ([]Line, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.Lines(userID)
}

func (s *Service) Items(userID int) ([]CartItem, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.Items(userID)
}

// Add merges qty into the user's cart. Adding an unknown product fails with
// product.ErrNotFound; negative quantities decrement existing lines.
func (s *Service) Add(userID, productID, qty int) ([]CartItem, error) {
	if userID <= 0 || productID <= 0 {
		return nil, ErrNotFound
	}
	if qty == 0 {
		return s.repo.Items(userID)
	}
	if qty > 0 {
		if _, err := s.catalog.GetByID(productID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Add(userID, productID, qty); err != nil {
		return nil, err
	}
	return s.repo.Items(userID)
}

func (s *Service) Clear(userID int) error {
	if userID <= 0 {
		return ErrNotFound
	}
	return s.repo.Clear(userID)
}
