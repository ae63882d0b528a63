package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	coreEntity "secret-santa-api/core/entity"

	"github.com/google/uuid"
)

// Actions recorded in the audit log.
const (
	ActionReveal           = "reveal"
	ActionReactivate       = "reactivate"
	ActionClearAssignments = "clear_assignments"
	ActionEventCreated     = "event_created"
	ActionEventDeleted     = "event_deleted"
)

type AuditLog struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	EventID   *uuid.UUID `db:"event_id" json:"event_id,omitempty"`
	ActorID   *uuid.UUID `db:"actor_id" json:"actor_id,omitempty"`
	Action    string     `db:"action" json:"action"`
	Detail    JSONB      `db:"detail" json:"detail"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

type JSONB map[string]interface{}

func (a JSONB) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *JSONB) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &a)
}

type PaginatedAuditLogEntity = coreEntity.Pagination[AuditLog]
