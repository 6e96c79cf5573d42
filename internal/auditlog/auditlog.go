package auditlog

// Entry is an append-only audit record of an admin mutation, capturing the
// actor and the old/new values as JSON strings.
type Entry struct {
	ID         int    `json:"logId"`
	ActorID    int    `json:"actorId"`
	Action     string `json:"action"`
	EntityType string `json:"entityType"`
	EntityID   int    `json:"entityId"`
	OldValue   string `json:"oldValue,omitempty"`
	NewValue   string `json:"newValue,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// Entity types used across the admin surface.
const (
	EntityOrder          = "ORDER"
	EntityServiceRequest = "SERVICE_REQUEST"
)
