package order

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/voltdepot/genstore-backend/internal/cart"
	"github.com/voltdepot/genstore-backend/internal/coupon"
	"github.com/voltdepot/genstore-backend/internal/events"
	"github.com/voltdepot/genstore-backend/internal/mailer"
	"github.com/voltdepot/genstore-backend/internal/notification"
	"github.com/voltdepot/genstore-backend/internal/product"
	"github.com/voltdepot/genstore-backend/internal/user"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidTransition    = errors.New("order status can no longer change")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

type Carts interface {
	Items(userID int) ([]cart.CartItem, error)
}

type Coupons interface {
	Resolve(code string, userID int, subtotal, shipping float64) (coupon.Coupon, float64, bool)
}

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
	repo        Repository
	carts       Carts
	coupons     Coupons
	notifier    Notifier
	users       Users
	auditor     Auditor
	mail        mailer.Mailer
	producer    *events.Producer
	rules       PricingRules
	adminEmails []string
	logger      *zap.Logger
}

func NewService(repo Repository, carts Carts, coupons Coupons, notifier Notifier, users Users, auditor Auditor, mail mailer.Mailer, producer *events.Producer, rules PricingRules, adminEmails []string, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		carts:       carts,
		coupons:     coupons,
		notifier:    notifier,
		users:       users,
		auditor:     auditor,
		mail:        mail,
		producer:    producer,
		rules:       rules,
		adminEmails: adminEmails,
		logger:      logger,
	}
}

// CheckoutInput carries the buyer-supplied checkout fields. Line items come
// from the server-side cart, never from the client.
type CheckoutInput struct {
	ShippingName    string
	ShippingPhone   string
	ShippingAddress string
	ShippingCity    string
	PaymentMethod   string
	CouponCode      string
}

// Checkout turns the user's cart into an order. Stock validation, pricing,
// coupon resolution and all writes happen before any notification goes out;
// notifications, emails and events after the commit are best-effort.
func (s *Service) Checkout(userID int, in CheckoutInput) (Order, error) {
	if !ValidPaymentMethod(in.PaymentMethod) {
		return Order{}, ErrInvalidPaymentMethod
	}

	items, err := s.carts.Items(userID)
	if err != nil {
		return Order{}, err
	}
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}

	var subtotal float64
	lines := make([]OrderItem, 0, len(items))
	for _, it := range items {
		if it.Quantity > it.Stock {
			return Order{}, fmt.Errorf("%s: %w", it.Name, product.ErrInsufficientStock)
		}
		lines = append(lines, OrderItem{
			ProductID: it.ProductID,
			ItemType:  it.ItemType,
			Name:      it.Name,
			SKU:       it.SKU,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Total:     it.Price * float64(it.Quantity),
		})
		subtotal += it.Price * float64(it.Quantity)
	}

	shipping := s.rules.ShippingFee(subtotal)
	tax := s.rules.Tax(subtotal)

	var couponID int
	var couponCode string
	var discount float64
	if c, d, ok := s.coupons.Resolve(in.CouponCode, userID, subtotal, shipping); ok {
		couponID = c.ID
		couponCode = c.Code
		discount = d
	}

	now := time.Now().UTC().Format(time.RFC3339)
	ord := Order{
		OrderNumber:     NewOrderNumber(),
		UserID:          userID,
		ShippingName:    in.ShippingName,
		ShippingPhone:   in.ShippingPhone,
		ShippingAddress: in.ShippingAddress,
		ShippingCity:    in.ShippingCity,
		Items:           lines,
		Subtotal:        subtotal,
		ShippingFee:     shipping,
		Tax:             tax,
		Discount:        discount,
		Total:           subtotal + shipping + tax - discount,
		CouponCode:      couponCode,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		PaymentMethod:   in.PaymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	ord, err = s.repo.Create(ord, couponID)
	if err != nil {
		return Order{}, err
	}

	s.afterCheckout(ord)
	return ord, nil
}

func (s *Service) afterCheckout(ord Order) {
	title := fmt.Sprintf("Order %s placed", ord.OrderNumber)
	message := fmt.Sprintf("Total PKR %.2f, %d item(s)", ord.Total, len(ord.Items))
	if _, err := s.notifier.Notify(ord.UserID, notification.TypeOrder, title, message); err != nil {
		s.logger.Error("Failed to create notification", zap.Int("order_id", ord.ID), zap.Error(err))
	}

	if buyer, err := s.users.GetByID(ord.UserID); err != nil {
		s.logger.Error("Failed to look up buyer", zap.Int("user_id", ord.UserID), zap.Error(err))
	} else {
		subject, body := mailer.OrderConfirmationEmail(ord.OrderNumber, ord.Total)
		if err := s.mail.Send([]string{buyer.Email}, subject, body); err != nil {
			s.logger.Error("Failed to send confirmation email", zap.Int("order_id", ord.ID), zap.Error(err))
		}
	}

	if len(s.adminEmails) > 0 {
		subject, body := mailer.AdminNewOrderEmail(ord.OrderNumber, ord.Total)
		if err := s.mail.Send(s.adminEmails, subject, body); err != nil {
			s.logger.Error("Failed to send admin email", zap.Int("order_id", ord.ID), zap.Error(err))
		}
	}

	if err := s.producer.PublishOrderCreated(ord.ID, ord.OrderNumber, ord.UserID, ord.Total, ord.Status); err != nil {
		s.logger.Error("Failed to publish order event", zap.Int("order_id", ord.ID), zap.Error(err))
	}
}

func (s *Service) ListByUser(userID int) ([]Order, error) {
	return s.repo.ListByUser(userID)
}

// GetForUser returns the order only when it belongs to the user. Other
// users' orders are reported as not found.
func (s *Service) GetForUser(id, userID int) (Order, error) {
	ord, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, err
	}
	if ord.UserID != userID {
		return Order{}, ErrNotFound
	}
	return ord, nil
}

func (s *Service) GetByID(id int) (Order, error) {
	return s.repo.GetByID(id)
}

func (s *Service) List(status string) ([]Order, error) {
	if status != "" && !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.repo.List(status)
}

// StatusUpdateInput carries the admin-supplied fields of a status change.
type StatusUpdateInput struct {
	Status          string
	TrackingNumber  string
	TrackingCarrier string
	AdminNotes      string
}

// UpdateStatus moves an order to a new status. Cancelling a PAID order
// restores the stock deducted at creation and flips the payment status to
// REFUNDED. Coupon usage stays counted either way.
func (s *Service) UpdateStatus(actorID, id int, in StatusUpdateInput) (Order, error) {
	if !ValidStatus(in.Status) {
		return Order{}, ErrInvalidStatus
	}
	ord, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(ord.Status, in.Status) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, ord.Status, in.Status)
	}

	old := ord
	ord.Status = in.Status
	if in.TrackingNumber != "" {
		ord.TrackingNumber = in.TrackingNumber
	}
	if in.TrackingCarrier != "" {
		ord.TrackingCarrier = in.TrackingCarrier
	}
	if in.AdminNotes != "" {
		ord.AdminNotes = in.AdminNotes
	}
	ord.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	cancelled := in.Status == StatusCancelled
	if cancelled && ord.PaymentStatus == PaymentPaid {
		// A paid order being cancelled gives its stock back and gets
		// refunded in the same transaction.
		ord.PaymentStatus = PaymentRefunded
		ord, err = s.repo.Cancel(ord)
	} else {
		ord, err = s.repo.Update(ord)
	}
	if err != nil {
		return Order{}, err
	}

	if err := s.auditor.Record(actorID, "order.status_update", "ORDER", ord.ID, old, ord); err != nil {
		s.logger.Error("Failed to write audit entry", zap.Int("order_id", ord.ID), zap.Error(err))
	}

	s.notifyStatus(ord)

	if cancelled {
		if err := s.producer.PublishOrderCancelled(ord.ID, ord.OrderNumber, ord.UserID, ord.Total); err != nil {
			s.logger.Error("Failed to publish order event", zap.Int("order_id", ord.ID), zap.Error(err))
		}
	}
	return ord, nil
}

// UpdatePaymentStatus records a payment outcome without touching the order
// status or stock.
func (s *Service) UpdatePaymentStatus(actorID, id int, paymentStatus string) (Order, error) {
	if !ValidPaymentStatus(paymentStatus) {
		return Order{}, ErrInvalidPaymentStatus
	}
	ord, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, err
	}

	old := ord
	ord.PaymentStatus = paymentStatus
	ord.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	ord, err = s.repo.Update(ord)
	if err != nil {
		return Order{}, err
	}

	if err := s.auditor.Record(actorID, "order.payment_update", "ORDER", ord.ID, old, ord); err != nil {
		s.logger.Error("Failed to write audit entry", zap.Int("order_id", ord.ID), zap.Error(err))
	}

	title := fmt.Sprintf("Order %s payment %s", ord.OrderNumber, ord.PaymentStatus)
	if _, err := s.notifier.Notify(ord.UserID, notification.TypeOrder, title, ""); err != nil {
		s.logger.Error("Failed to create notification", zap.Int("order_id", ord.ID), zap.Error(err))
	}
	return ord, nil
}

func (s *Service) notifyStatus(ord Order) {
	title := fmt.Sprintf("Order %s is now %s", ord.OrderNumber, ord.Status)
	if _, err := s.notifier.Notify(ord.UserID, notification.TypeOrder, title, ""); err != nil {
		s.logger.Error("Failed to create notification", zap.Int("order_id", ord.ID), zap.Error(err))
	}

	subject, body, ok := mailer.OrderStatusEmail(ord.OrderNumber, ord.Status)
	if !ok {
		return
	}
	buyer, err := s.users.GetByID(ord.UserID)
	if err != nil {
		s.logger.Error("Failed to look up buyer", zap.Int("user_id", ord.UserID), zap.Error(err))
		return
	}
	if err := s.mail.Send([]string{buyer.Email}, subject, body); err != nil {
		s.logger.Error("Failed to send status email", zap.Int("order_id", ord.ID), zap.Error(err))
	}
}
