package notification

// Notification is an in-app message shown to a user, written as a side
// effect of checkout and status transitions.
type Notification struct {
	ID        int    `json:"notificationId"`
	UserID    int    `json:"userId"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Notification types.
const (
	TypeOrder          = "ORDER"
	TypeServiceRequest = "SERVICE_REQUEST"
)
