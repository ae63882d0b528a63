package dto

import (
	"time"

	"secret-santa-api/modules/event/entity"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

type UpdateEventRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type EventResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Date             time.Time `json:"date"`
	Slug             string    `json:"slug"`
	Status           string    `json:"status"`
	CreatedBy        uuid.UUID `json:"created_by"`
	ParticipantCount int       `json:"participant_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// ParticipantSummary is the roster entry embedded in event detail views.
type ParticipantSummary struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      *string    `json:"email,omitempty"`
	IsRevealed bool       `json:"is_revealed"`
	RevealedAt *time.Time `json:"revealed_at,omitempty"`
}

type EventDetailResponse struct {
	EventResponse
	Participants []ParticipantSummary `json:"participants"`
}

// PublicParticipant is the roster entry shown on the public event page.
// No IDs or emails leave the admin surface.
type PublicParticipant struct {
	Name       string `json:"name"`
	IsRevealed bool   `json:"is_revealed"`
}

type PublicEventResponse struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Date         time.Time           `json:"date"`
	Slug         string              `json:"slug"`
	Participants []PublicParticipant `json:"participants"`
}

func ToEventResponse(event *entity.Event, participantCount int) *EventResponse {
	return &EventResponse{
		ID:               event.ID,
		Name:             event.Name,
		Description:      event.Description,
		Date:             event.Date,
		Slug:             event.Slug,
		Status:           string(event.Status),
		CreatedBy:        event.CreatedBy,
		ParticipantCount: participantCount,
		CreatedAt:        event.CreatedAt,
	}
}
