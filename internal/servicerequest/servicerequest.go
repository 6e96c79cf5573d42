package servicerequest

// Service request statuses.
const (
	StatusPending    = "PENDING"
	StatusReviewing  = "REVIEWING"
	StatusQuoted     = "QUOTED"
	StatusApproved   = "APPROVED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// Service types.
const (
	TypeInstallation = "INSTALLATION"
	TypeMaintenance  = "MAINTENANCE"
	TypeRepair       = "REPAIR"
	TypeInspection   = "INSPECTION"
)

// ServiceRequest is a standalone ticket, independent of orders.
type ServiceRequest struct {
	ID           int     `json:"requestId"`
	UserID       int     `json:"userId"`
	Subject      string  `json:"subject"`
	Description  string  `json:"description"`
	ServiceType  string  `json:"serviceType"`
	ProductID    *int    `json:"productId,omitempty"`
	QuotedAmount float64 `json:"quotedAmount"`
	AdminNotes   string  `json:"adminNotes,omitempty"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt,omitempty"`
	UpdatedAt    string  `json:"updatedAt,omitempty"`
}

func ValidServiceType(t string) bool {
	switch t {
	case TypeInstallation, TypeMaintenance, TypeRepair, TypeInspection:
		return true
	}
	return false
}

// transitions lists the statuses each status may move to.
var transitions = map[string][]string{
	StatusPending:    {StatusReviewing, StatusCancelled},
	StatusReviewing:  {StatusQuoted, StatusCancelled},
	StatusQuoted:     {StatusApproved, StatusCancelled},
	StatusApproved:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether a request may move from one status to
// another. COMPLETED and CANCELLED are terminal.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusReviewing, StatusQuoted, StatusApproved,
		StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
