package audit

import (
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the trail.
const (
	ActionCreate = "C"
	ActionUpdate = "U"
	ActionDelete = "D"
)

// Entry is one row of the append-only audit trail. Entries are written in
// the same transaction as the mutation they describe and are never updated
// or deleted afterwards.
type Entry struct {
	ID         uuid.UUID              `db:"id" json:"id"`
	ActorID    uuid.UUID              `db:"actor_id" json:"actor_id"`
	ActorRole  string                 `db:"actor_role" json:"actor_role"`
	Action     string                 `db:"action" json:"action"`
	EntityType string                 `db:"entity_type" json:"entity_type"`
	EntityID   uuid.UUID              `db:"entity_id" json:"entity_id"`
	Label      string                 `db:"label" json:"label"`
	Changes    map[string]interface{} `db:"changes" json:"changes,omitempty"`
	IPAddress  string                 `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent  string                 `db:"user_agent" json:"user_agent,omitempty"`
	RecordedAt time.Time              `db:"recorded_at" json:"recorded_at"`
}

// FieldChange is the before/after pair recorded per field on updates.
type FieldChange struct {
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}
