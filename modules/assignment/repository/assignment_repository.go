package repository

import (
	"context"
	"database/sql"

	"secret-santa-api/core/database"
	"secret-santa-api/core/logger"
	"secret-santa-api/modules/assignment/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AssignmentRepository handles the assignment ledger. Inserts and the
// full wipe run inside caller-owned transactions so they commit together
// with the roster flag updates.
type AssignmentRepository struct {
	DB database.Database
}

func NewAssignmentRepository(db database.Database) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

// AssignmentRepositoryInterface defines the repository contract.
type AssignmentRepositoryInterface interface {
	GetByGiver(ctx context.Context, eventID, giverID uuid.UUID) (*entity.Assignment, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Assignment, error)
	Create(ctx context.Context, tx *sqlx.Tx, assignment *entity.Assignment) (*entity.Assignment, error)
	DeleteAllByEvent(ctx context.Context, tx *sqlx.Tx, eventID uuid.UUID) (int64, error)
}

const assignmentColumns = `id, event_id, giver_id, receiver_id, created_at`

func (r *AssignmentRepository) GetByGiver(ctx context.Context, eventID, giverID uuid.UUID) (*entity.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE event_id = $1 AND giver_id = $2`

	var assignment entity.Assignment
	err := r.DB.GetContext(ctx, &assignment, query, eventID, giverID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AssignmentRepository:GetByGiver", err)
		return nil, err
	}

	return &assignment, nil
}

func (r *AssignmentRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE event_id = $1 ORDER BY created_at`

	var assignments []entity.Assignment
	err := r.DB.SelectContext(ctx, &assignments, query, eventID)
	if err != nil {
		logger.Error("AssignmentRepository:ListByEvent", err)
		return nil, err
	}

	return assignments, nil
}

func (r *AssignmentRepository) Create(ctx context.Context, tx *sqlx.Tx, assignment *entity.Assignment) (*entity.Assignment, error) {
	query := `
		INSERT INTO assignments (event_id, giver_id, receiver_id)
		VALUES ($1, $2, $3)
		RETURNING ` + assignmentColumns

	var created entity.Assignment
	err := tx.GetContext(ctx, &created, query,
		assignment.EventID, assignment.GiverID, assignment.ReceiverID)
	if err != nil {
		logger.Error("AssignmentRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *AssignmentRepository) DeleteAllByEvent(ctx context.Context, tx *sqlx.Tx, eventID uuid.UUID) (int64, error) {
	result, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE event_id = $1`, eventID)
	if err != nil {
		logger.Error("AssignmentRepository:DeleteAllByEvent", err)
		return 0, err
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return count, nil
}
