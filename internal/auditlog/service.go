package auditlog

import (
	"encoding/json"
	"time"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record writes one audit entry. Old and new values are stored as JSON
// snapshots; a nil value is stored as an empty string.
func (s *Service) Record(actorID int, action, entityType string, entityID int, oldValue, newValue any) error {
	e := Entry{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OldValue:   encodeValue(oldValue),
		NewValue:   encodeValue(newValue),
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	_, err := s.repo.Create(e)
	return err
}

func (s *Service) List(entityType string) ([]Entry, error) {
	return s.repo.List(entityType)
}

func encodeValue(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
