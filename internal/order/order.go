package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voltdepot/genstore-backend/internal/product"
)

// Order statuses.
const (
	StatusPending        = "PENDING"
	StatusConfirmed      = "CONFIRMED"
	StatusProcessing     = "PROCESSING"
	StatusShipped        = "SHIPPED"
	StatusOutForDelivery = "OUT_FOR_DELIVERY"
	StatusDelivered      = "DELIVERED"
	StatusCancelled      = "CANCELLED"
	StatusRefunded       = "REFUNDED"
)

// Payment statuses.
const (
	PaymentPending           = "PENDING"
	PaymentPaid              = "PAID"
	PaymentFailed            = "FAILED"
	PaymentRefunded          = "REFUNDED"
	PaymentPartiallyRefunded = "PARTIALLY_REFUNDED"
)

// Payment methods.
const (
	MethodCOD          = "COD"
	MethodBankTransfer = "BANK_TRANSFER"
	MethodCard         = "CARD"
)

// OrderItem snapshots a product at purchase time. Name, SKU and price stay
// frozen even when the product record changes later.
type OrderItem struct {
	ID        int              `json:"itemId,omitempty"`
	ProductID int              `json:"productId"`
	ItemType  product.ItemType `json:"itemType"`
	Name      string           `json:"name"`
	SKU       string           `json:"sku"`
	Price     float64          `json:"price"`
	Quantity  int              `json:"quantity"`
	Total     float64          `json:"total"`
}

type Order struct {
	ID              int         `json:"orderId"`
	OrderNumber     string      `json:"orderNumber"`
	UserID          int         `json:"userId"`
	ShippingName    string      `json:"shippingName"`
	ShippingPhone   string      `json:"shippingPhone"`
	ShippingAddress string      `json:"shippingAddress"`
	ShippingCity    string      `json:"shippingCity"`
	Items           []OrderItem `json:"items"`
	Subtotal        float64     `json:"subtotal"`
	ShippingFee     float64     `json:"shippingFee"`
	Tax             float64     `json:"tax"`
	Discount        float64     `json:"discount"`
	Total           float64     `json:"total"`
	CouponCode      string      `json:"couponCode,omitempty"`
	Status          string      `json:"status"`
	PaymentStatus   string      `json:"paymentStatus"`
	PaymentMethod   string      `json:"paymentMethod"`
	TrackingNumber  string      `json:"trackingNumber,omitempty"`
	TrackingCarrier string      `json:"trackingCarrier,omitempty"`
	AdminNotes      string      `json:"adminNotes,omitempty"`
	CreatedAt       string      `json:"createdAt,omitempty"`
	UpdatedAt       string      `json:"updatedAt,omitempty"`
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusOutForDelivery, StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// Terminal reports whether an order may no longer change status.
func Terminal(status string) bool {
	return status == StatusCancelled || status == StatusRefunded
}

var fulfilmentRank = map[string]int{
	StatusPending:        0,
	StatusConfirmed:      1,
	StatusProcessing:     2,
	StatusShipped:        3,
	StatusOutForDelivery: 4,
	StatusDelivered:      5,
}

// CanTransition reports whether an order may move from one status to
// another. Fulfilment only advances; CANCELLED and REFUNDED are reachable
// from any non-terminal status and allow no further moves.
func CanTransition(from, to string) bool {
	if Terminal(from) {
		return false
	}
	if to == StatusCancelled || to == StatusRefunded {
		return true
	}
	return fulfilmentRank[to] > fulfilmentRank[from]
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded, PaymentPartiallyRefunded:
		return true
	}
	return false
}

func ValidPaymentMethod(m string) bool {
	switch m {
	case MethodCOD, MethodBankTransfer, MethodCard:
		return true
	}
	return false
}

// NewOrderNumber returns a unique human-readable order number like
// ORD-20260901-3F2A9C1B.
func NewOrderNumber() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), fragment)
}
