package types

import "time"

// Entity is the base type for all ledger entities with timestamps.
// Embed this in domain types to get timestamp handling.
type Entity struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEntity creates a new Entity stamped with now (in UTC).
func NewEntity(now time.Time) Entity {
	now = now.UTC()
	return Entity{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp.
func (e *Entity) Touch(now time.Time) {
	e.UpdatedAt = now.UTC()
}
