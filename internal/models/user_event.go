package models

import "time"

// Audit event types.
const (
	EventCreated = "CREATED"
	EventUpdated = "UPDATED"
	EventDeleted = "DELETED"
	EventSeeded  = "SEEDED"
)

// UserEvent is a single audit log entry.
type UserEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"` // CREATED | UPDATED | DELETED | SEEDED
	UserID      string    `json:"user_id,omitempty"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
