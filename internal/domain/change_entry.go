package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChangeEntry records one field-level change on one record revision. Entries
// are immutable once appended to the log; the core never updates or deletes
// them.
type ChangeEntry struct {
	ID         uuid.UUID `json:"id"`
	EntityKind string    `json:"entity_kind"`
	EntityID   int64     `json:"entity_id"`
	RevisionID int64     `json:"revision_id"`
	FieldLabel string    `json:"field_label"`
	DiffText   string    `json:"diff_text"`
	LoggedAt   time.Time `json:"logged_at"`
	ActorID    int64     `json:"actor_id"`
}
