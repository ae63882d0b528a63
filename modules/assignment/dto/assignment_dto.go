package dto

import (
	"time"

	"github.com/google/uuid"
)

type RevealRequest struct {
	ParticipantName string `json:"participant_name"`
}

// AssignmentPair is the resolved giver/receiver edge shown to callers.
type AssignmentPair struct {
	Giver    string `json:"giver"`
	Receiver string `json:"receiver"`
}

type ParticipantState struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	IsRevealed bool       `json:"is_revealed"`
	RevealedAt *time.Time `json:"revealed_at,omitempty"`
}

type RevealResponse struct {
	Assignment  AssignmentPair   `json:"assignment"`
	Participant ParticipantState `json:"participant"`
	Replayed    bool             `json:"replayed"`
}

type AssignmentListResponse struct {
	Assignments          map[string]string `json:"assignments"`
	RevealedParticipants []string          `json:"revealed_participants"`
	TotalAssignments     int               `json:"total_assignments"`
	TotalParticipants    int               `json:"total_participants"`
}

type ClearAssignmentsResponse struct {
	Cleared int64 `json:"cleared"`
}

type PreviewResponse struct {
	Assignments map[string]string `json:"assignments"`
}
