package repository

import (
	"context"

	"secret-santa-api/core/database"
	"secret-santa-api/core/logger"
	"secret-santa-api/core/params"
	"secret-santa-api/modules/audit/entity"

	"github.com/google/uuid"
)

type AuditRepository struct {
	db database.Database
}

func NewAuditRepository(db database.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

type AuditRepositoryInterface interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	ListByEvent(ctx context.Context, eventID uuid.UUID, params params.QueryParams) (*entity.PaginatedAuditLogEntity, error)
}

func (r *AuditRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (event_id, actor_id, action, detail, created_at)
		VALUES (:event_id, :actor_id, :action, :detail, :created_at)
		RETURNING id
	`
	rows, err := r.db.NamedQueryContext(ctx, query, log)
	if err != nil {
		logger.Error("AuditRepository:Create:Error:", err)
		return err
	}
	defer rows.Close()

	if rows.Next() {
		return rows.Scan(&log.ID)
	}
	return nil
}

func (r *AuditRepository) ListByEvent(ctx context.Context, eventID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedAuditLogEntity, error) {
	baseQuery := `FROM audit_logs WHERE event_id = $1`

	var totalItems int
	err := r.db.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery, eventID)
	if err != nil {
		logger.Error("AuditRepository:ListByEvent:Count:Error:", err)
		return nil, err
	}

	query := `
		SELECT * ` + baseQuery + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var logs []entity.AuditLog
	err = r.db.SelectContext(ctx, &logs, query, eventID, queryParams.PageSize, queryParams.Offset())
	if err != nil {
		logger.Error("AuditRepository:ListByEvent:Select:Error:", err)
		return nil, err
	}

	return &entity.PaginatedAuditLogEntity{
		Items:      logs,
		TotalItems: totalItems,
		PageNumber: queryParams.PageNumber,
		PageSize:   queryParams.PageSize,
	}, nil
}
