package address

// Service guards ownership of addresses: callers pass the acting user and
// may only see or modify their own entries.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListByUser(userID int) ([]Address, error) {
	return s.repo.ListByUser(userID)
}

func (s *Service) GetForUser(id, userID int) (Address, error) {
	a, err := s.repo.GetByID(id)
	if err != nil {
		return Address{}, err
	}
	if a.UserID != userID {
		return Address{}, ErrNotFound
	}
	return a, nil
}

func (s *Service) Create(a Address) (Address, error) {
	return s.repo.Create(a)
}

func (s *Service) Update(id, userID int, a Address) (Address, error) {
	if _, err := s.GetForUser(id, userID); err != nil {
		return Address{}, err
	}
	return s.repo.Update(id, a)
}

func (s *Service) Delete(id, userID int) error {
	if _, err := s.GetForUser(id, userID); err != nil {
		return err
	}
	return s.repo.Delete(id)
}
