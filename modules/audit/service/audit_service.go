package service

import (
	"context"
	"time"

	"secret-santa-api/core/logger"
	"secret-santa-api/core/params"
	"secret-santa-api/modules/audit/entity"
	"secret-santa-api/modules/audit/repository"

	"github.com/google/uuid"
)

type AuditService struct {
	repo repository.AuditRepositoryInterface
}

func NewAuditService(repo repository.AuditRepositoryInterface) *AuditService {
	return &AuditService{repo: repo}
}

// AuditServiceInterface is the recorder surface other modules depend on.
type AuditServiceInterface interface {
	Record(ctx context.Context, eventID, actorID *uuid.UUID, action string, detail map[string]interface{})
	ListByEvent(ctx context.Context, eventID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedAuditLogEntity, error)
}

// Record writes an audit entry. Failures are logged and swallowed so a
// broken audit table never blocks the action being recorded.
func (s *AuditService) Record(ctx context.Context, eventID, actorID *uuid.UUID, action string, detail map[string]interface{}) {
	log := &entity.AuditLog{
		EventID:   eventID,
		ActorID:   actorID,
		Action:    action,
		Detail:    entity.JSONB(detail),
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, log); err != nil {
		logger.Error("AuditService:Record", err)
	}
}

func (s *AuditService) ListByEvent(ctx context.Context, eventID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedAuditLogEntity, error) {
	return s.repo.ListByEvent(ctx, eventID, queryParams)
}
