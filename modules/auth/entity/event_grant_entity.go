package entity

import (
	"time"

	"github.com/google/uuid"
)

// EventGrant lets a guest user manage an event they did not create.
type EventGrant struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	EventID   uuid.UUID `db:"event_id" json:"event_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
