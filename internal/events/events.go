package events

// OrderEvent is published to Kafka whenever an order is created or cancelled.
type OrderEvent struct {
	EventID     string  `json:"event_id"`
	EventType   string  `json:"event_type"`
	OrderID     int     `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	UserID      int     `json:"user_id"`
	Total       float64 `json:"total"`
	Status      string  `json:"status"`
	Timestamp   string  `json:"timestamp"`
}

const (
	EventOrderCreated   = "order.created"
	EventOrderCancelled = "order.cancelled"
)
