package models

import "time"

// AuditEntry represents one audit log row.
type AuditEntry struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	Action     string    `json:"action"`      // create, update, delete, attach, detach, sync
	EntityType string    `json:"entity_type"` // user, pet, category
	EntityID   int       `json:"entity_id"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
