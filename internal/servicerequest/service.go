package servicerequest

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/voltdepot/genstore-backend/internal/mailer"
	"github.com/voltdepot/genstore-backend/internal/notification"
	"github.com/voltdepot/genstore-backend/internal/product"
	"github.com/voltdepot/genstore-backend/internal/user"
)

var (
	ErrInvalidStatus      = errors.New("invalid service request status")
	ErrInvalidServiceType = errors.New("invalid service type")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrNotCancellable     = errors.New("service request can no longer be cancelled")
)

type Notifier interface {
	Notify(userID int, typ, title, message string) (notification.Notification, error)
}

type Users interface {
	GetByID(id int) (user.User, error)
}

type Auditor interface {
	Record(actorID int, action, entityType string, entityID int, oldValue, newValue any) error
}

type Service struct {
	repo     Repository
	catalog  product.ServiceInterface
	notifier Notifier
	users    Users
	auditor  Auditor
	mail     mailer.Mailer
	logger   *zap.Logger
}

func NewService(repo Repository, catalog product.ServiceInterface, notifier Notifier, users Users, auditor Auditor, mail mailer.Mailer, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		catalog:  catalog,
		notifier: notifier,
		users:    users,
		auditor:  auditor,
		mail:     mail,
		logger:   logger,
	}
}

func (s *Service) Create(userID int, subject, description, serviceType string, productID *int) (ServiceRequest, error) {
	if !ValidServiceType(serviceType) {
		return ServiceRequest{}, fmt.Errorf("%w: %s", ErrInvalidServiceType, serviceType)
	}
	if productID != nil {
		if _, err := s.catalog.GetByID(*productID); err != nil {
			return ServiceRequest{}, err
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return s.repo.Create(ServiceRequest{
		UserID:      userID,
		Subject:     subject,
		Description: description,
		ServiceType: serviceType,
		ProductID:   productID,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *Service) ListByUser(userID int) ([]ServiceRequest, error) {
	return s.repo.ListByUser(userID)
}

// GetForUser returns the request only when it belongs to the user.
// Requests owned by someone else are reported as not found.
func (s *Service) GetForUser(id, userID int) (ServiceRequest, error) {
	sr, err := s.repo.GetByID(id)
	if err != nil {
		return ServiceRequest{}, err
	}
	if sr.UserID != userID {
		return ServiceRequest{}, ErrNotFound
	}
	return sr, nil
}

// Cancel lets the owner withdraw a request that has not been picked up yet.
func (s *Service) Cancel(id, userID int) (ServiceRequest, error) {
	sr, err := s.GetForUser(id, userID)
	if err != nil {
		return ServiceRequest{}, err
	}
	if sr.Status != StatusPending {
		return ServiceRequest{}, ErrNotCancellable
	}
	sr.Status = StatusCancelled
	sr.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.Update(sr)
}

func (s *Service) List(status string) ([]ServiceRequest, error) {
	if status != "" && !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.repo.List(status)
}

// UpdateStatus moves a request along its lifecycle. The audit entry and the
// database update must succeed; notification and email are best-effort.
func (s *Service) UpdateStatus(actorID, id int, status string, quotedAmount float64, notes string) (ServiceRequest, error) {
	if !ValidStatus(status) {
		return ServiceRequest{}, ErrInvalidStatus
	}
	sr, err := s.repo.GetByID(id)
	if err != nil {
		return ServiceRequest{}, err
	}
	if !CanTransition(sr.Status, status) {
		return ServiceRequest{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, sr.Status, status)
	}

	old := sr
	sr.Status = status
	if quotedAmount > 0 {
		sr.QuotedAmount = quotedAmount
	}
	if notes != "" {
		sr.AdminNotes = notes
	}
	sr.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	sr, err = s.repo.Update(sr)
	if err != nil {
		return ServiceRequest{}, err
	}

	if err := s.auditor.Record(actorID, "service_request.status_update", "SERVICE_REQUEST", sr.ID, old, sr); err != nil {
		s.logger.Error("Failed to write audit entry",
			zap.Int("request_id", sr.ID), zap.Error(err))
	}

	s.notifyOwner(sr)
	return sr, nil
}

func (s *Service) notifyOwner(sr ServiceRequest) {
	title := fmt.Sprintf("Service request #%d is now %s", sr.ID, sr.Status)
	if _, err := s.notifier.Notify(sr.UserID, notification.TypeServiceRequest, title, sr.Subject); err != nil {
		s.logger.Error("Failed to create notification",
			zap.Int("request_id", sr.ID), zap.Error(err))
	}

	subject, body, ok := mailer.ServiceRequestStatusEmail(sr.ID, sr.Status, sr.QuotedAmount)
	if !ok {
		return
	}
	owner, err := s.users.GetByID(sr.UserID)
	if err != nil {
		s.logger.Error("Failed to look up request owner",
			zap.Int("user_id", sr.UserID), zap.Error(err))
		return
	}
	if err := s.mail.Send([]string{owner.Email}, subject, body); err != nil {
		s.logger.Error("Failed to send status email",
			zap.Int("request_id", sr.ID), zap.Error(err))
	}
}
