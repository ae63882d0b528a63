package entity

import (
	"time"

	"github.com/google/uuid"
)

// Assignment is one edge of the gift graph: giver draws receiver. A giver
// appears at most once per event and so does a receiver, and nobody draws
// themselves. Rows are immutable; the only way to undo them is clearing
// the whole event.
type Assignment struct {
	ID         uuid.UUID `db:"id" json:"id"`
	EventID    uuid.UUID `db:"event_id" json:"event_id"`
	GiverID    uuid.UUID `db:"giver_id" json:"giver_id"`
	ReceiverID uuid.UUID `db:"receiver_id" json:"receiver_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
