package notification

import "time"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Notify records an in-app notification for a user.
func (s *Service) Notify(userID int, typ, title, message string) (Notification, error) {
	return s.repo.Create(Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Service) ListByUser(userID int) ([]Notification, error) {
	return s.repo.ListByUser(userID)
}

func (s *Service) MarkRead(id, userID int) error {
	return s.repo.MarkRead(id, userID)
}

func (s *Service) MarkAllRead(userID int) error {
	return s.repo.MarkAllRead(userID)
}
