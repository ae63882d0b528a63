package dto

import (
	"time"

	"secret-santa-api/modules/participant/entity"

	"github.com/google/uuid"
)

type AddParticipantRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
}

type ParticipantResponse struct {
	ID         uuid.UUID  `json:"id"`
	EventID    uuid.UUID  `json:"event_id"`
	Name       string     `json:"name"`
	Email      *string    `json:"email,omitempty"`
	IsRevealed bool       `json:"is_revealed"`
	RevealedAt *time.Time `json:"revealed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type ParticipantListResponse struct {
	Participants []ParticipantResponse `json:"participants"`
	Total        int                   `json:"total"`
}

func ToParticipantResponse(p *entity.Participant) *ParticipantResponse {
	return &ParticipantResponse{
		ID:         p.ID,
		EventID:    p.EventID,
		Name:       p.Name,
		Email:      p.Email,
		IsRevealed: p.IsRevealed,
		RevealedAt: p.RevealedAt,
		CreatedAt:  p.CreatedAt,
	}
}

func ToParticipantListResponse(participants []entity.Participant) *ParticipantListResponse {
	responses := make([]ParticipantResponse, 0, len(participants))
	for i := range participants {
		responses = append(responses, *ToParticipantResponse(&participants[i]))
	}
	return &ParticipantListResponse{
		Participants: responses,
		Total:        len(responses),
	}
}
