package repository

import (
	"context"
	"database/sql"
	"time"

	"secret-santa-api/core/database"
	"secret-santa-api/core/logger"
	"secret-santa-api/modules/participant/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ParticipantRepository handles roster database operations. It is the
// store of record for reveal state; only the reveal coordinator and the
// explicit admin actions mutate the flags.
type ParticipantRepository struct {
	DB database.Database
}

func NewParticipantRepository(db database.Database) *ParticipantRepository {
	return &ParticipantRepository{DB: db}
}

// ParticipantRepositoryInterface defines the repository contract.
type ParticipantRepositoryInterface interface {
	Create(ctx context.Context, participant *entity.Participant) (*entity.Participant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Participant, error)
	GetByEventAndName(ctx context.Context, eventID uuid.UUID, name string) (*entity.Participant, error)
	ListByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Participant, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MarkRevealed(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, revealedAt time.Time) error
	ClearRevealed(ctx context.Context, id uuid.UUID) error
	ResetAllRevealed(ctx context.Context, tx *sqlx.Tx, eventID uuid.UUID) error
}

const participantColumns = `id, event_id, name, email, is_revealed, revealed_at, created_at`

func (r *ParticipantRepository) Create(ctx context.Context, participant *entity.Participant) (*entity.Participant, error) {
	query := `
		INSERT INTO participants (event_id, name, email)
		VALUES ($1, $2, $3)
		RETURNING ` + participantColumns

	var created entity.Participant
	err := r.DB.GetContext(ctx, &created, query,
		participant.EventID, participant.Name, participant.Email)
	if err != nil {
		logger.Error("ParticipantRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`

	var participant entity.Participant
	err := r.DB.GetContext(ctx, &participant, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ParticipantRepository:GetByID", err)
		return nil, err
	}

	return &participant, nil
}

func (r *ParticipantRepository) GetByEventAndName(ctx context.Context, eventID uuid.UUID, name string) (*entity.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE event_id = $1 AND name = $2`

	var participant entity.Participant
	err := r.DB.GetContext(ctx, &participant, query, eventID, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ParticipantRepository:GetByEventAndName", err)
		return nil, err
	}

	return &participant, nil
}

func (r *ParticipantRepository) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE event_id = $1 ORDER BY created_at`

	var participants []entity.Participant
	err := r.DB.SelectContext(ctx, &participants, query, eventID)
	if err != nil {
		logger.Error("ParticipantRepository:ListByEventID", err)
		return nil, err
	}

	return participants, nil
}

func (r *ParticipantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM participants WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("ParticipantRepository:Delete", err)
		return err
	}
	return nil
}

// MarkRevealed flips the reveal flag inside the caller's transaction so
// it commits together with the assignment insert.
func (r *ParticipantRepository) MarkRevealed(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, revealedAt time.Time) error {
	query := `UPDATE participants SET is_revealed = TRUE, revealed_at = $2 WHERE id = $1`
	_, err := tx.ExecContext(ctx, query, id, revealedAt)
	if err != nil {
		logger.Error("ParticipantRepository:MarkRevealed", err)
		return err
	}
	return nil
}

// ClearRevealed resets the reveal flag only; any ledger entry for the
// participant is left intact so a later reveal replays it.
func (r *ParticipantRepository) ClearRevealed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE participants SET is_revealed = FALSE, revealed_at = NULL WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("ParticipantRepository:ClearRevealed", err)
		return err
	}
	return nil
}

// ResetAllRevealed resets every participant of an event. Runs inside the
// clear-assignments transaction.
func (r *ParticipantRepository) ResetAllRevealed(ctx context.Context, tx *sqlx.Tx, eventID uuid.UUID) error {
	query := `UPDATE participants SET is_revealed = FALSE, revealed_at = NULL WHERE event_id = $1`
	_, err := tx.ExecContext(ctx, query, eventID)
	if err != nil {
		logger.Error("ParticipantRepository:ResetAllRevealed", err)
		return err
	}
	return nil
}
