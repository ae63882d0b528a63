package entity

import (
	"time"

	"github.com/google/uuid"
)

// Participant is one roster entry. Name is the human lookup key used by
// the public reveal flow and is unique within its event.
type Participant struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	EventID    uuid.UUID  `db:"event_id" json:"event_id"`
	Name       string     `db:"name" json:"name"`
	Email      *string    `db:"email" json:"email,omitempty"`
	IsRevealed bool       `db:"is_revealed" json:"is_revealed"`
	RevealedAt *time.Time `db:"revealed_at" json:"revealed_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
