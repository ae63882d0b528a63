package entity

import (
	"time"

	coreEntity "secret-santa-api/core/entity"

	"github.com/google/uuid"
)

// EventStatus represents the lifecycle state of an event.
type EventStatus string

const (
	EventStatusDraft    EventStatus = "draft"
	EventStatusActive   EventStatus = "active"
	EventStatusFinished EventStatus = "finished"
)

// Event is the scoping unit for a Secret Santa game: one roster and one
// assignment ledger per event.
type Event struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Description string      `db:"description" json:"description"`
	Date        time.Time   `db:"date" json:"date"`
	Slug        string      `db:"slug" json:"slug"`
	Status      EventStatus `db:"status" json:"status"`
	CreatedBy   uuid.UUID   `db:"created_by" json:"created_by"`
	coreEntity.BaseEntity
}

// EventWithCount adds the roster size for listing views.
type EventWithCount struct {
	Event
	ParticipantCount int `db:"participant_count" json:"participant_count"`
}
