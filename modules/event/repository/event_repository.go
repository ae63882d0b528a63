package repository

import (
	"context"
	"database/sql"
	"time"

	"secret-santa-api/core/database"
	"secret-santa-api/core/logger"
	"secret-santa-api/modules/event/entity"

	"github.com/google/uuid"
)

// EventRepository handles event database operations.
type EventRepository struct {
	DB database.Database
}

func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract.
type EventRepositoryInterface interface {
	CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetActiveEvent(ctx context.Context) (*entity.Event, error)
	ListEvents(ctx context.Context) ([]entity.EventWithCount, error)
	ListEventsByCreator(ctx context.Context, createdBy uuid.UUID) ([]entity.EventWithCount, error)
	CountEventsByCreator(ctx context.Context, createdBy uuid.UUID) (int, error)
	UpdateEvent(ctx context.Context, event *entity.Event) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.EventStatus) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	FinishExpired(ctx context.Context, before time.Time) (int64, error)
}

const eventColumns = `id, name, description, date, slug, status, created_by, created_at, updated_at`

func (r *EventRepository) CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (name, description, date, slug, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + eventColumns

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.Name, event.Description, event.Date, event.Slug, event.Status, event.CreatedBy)
	if err != nil {
		logger.Error("EventRepository:CreateEvent", err)
		return nil, err
	}

	return &created, nil
}

func (r *EventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByID", err)
		return nil, err
	}

	return &event, nil
}

// GetActiveEvent returns the most recently created active event.
func (r *EventRepository) GetActiveEvent(ctx context.Context) (*entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, entity.EventStatusActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetActiveEvent", err)
		return nil, err
	}

	return &event, nil
}

const eventWithCountQuery = `
	SELECT e.id, e.name, e.description, e.date, e.slug, e.status, e.created_by,
	       e.created_at, e.updated_at,
	       COUNT(p.id) AS participant_count
	FROM events e
	LEFT JOIN participants p ON p.event_id = e.id
`

func (r *EventRepository) ListEvents(ctx context.Context) ([]entity.EventWithCount, error) {
	query := eventWithCountQuery + `
		GROUP BY e.id
		ORDER BY e.created_at DESC
	`

	var events []entity.EventWithCount
	err := r.DB.SelectContext(ctx, &events, query)
	if err != nil {
		logger.Error("EventRepository:ListEvents", err)
		return nil, err
	}

	return events, nil
}

// ListEventsByCreator returns events created by the user or granted to
// them.
func (r *EventRepository) ListEventsByCreator(ctx context.Context, createdBy uuid.UUID) ([]entity.EventWithCount, error) {
	query := eventWithCountQuery + `
		WHERE e.created_by = $1
		   OR EXISTS (SELECT 1 FROM event_grants g WHERE g.event_id = e.id AND g.user_id = $1)
		GROUP BY e.id
		ORDER BY e.created_at DESC
	`

	var events []entity.EventWithCount
	err := r.DB.SelectContext(ctx, &events, query, createdBy)
	if err != nil {
		logger.Error("EventRepository:ListEventsByCreator", err)
		return nil, err
	}

	return events, nil
}

func (r *EventRepository) CountEventsByCreator(ctx context.Context, createdBy uuid.UUID) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM events WHERE created_by = $1`, createdBy)
	if err != nil {
		logger.Error("EventRepository:CountEventsByCreator", err)
		return 0, err
	}
	return count, nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET name = $2, description = $3, date = $4, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query, event.ID, event.Name, event.Description, event.Date)
	if err != nil {
		logger.Error("EventRepository:UpdateEvent", err)
		return err
	}

	return nil
}

func (r *EventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.EventStatus) error {
	query := `UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		logger.Error("EventRepository:UpdateStatus", err)
		return err
	}
	return nil
}

// DeleteEvent removes the event; participants, assignments, grants and
// audit rows go with it via ON DELETE CASCADE.
func (r *EventRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM events WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("EventRepository:DeleteEvent", err)
		return err
	}
	return nil
}

// FinishExpired marks active events whose date has passed as finished.
// Used by the periodic sweep task.
func (r *EventRepository) FinishExpired(ctx context.Context, before time.Time) (int64, error) {
	query := `UPDATE events SET status = $1, updated_at = NOW() WHERE status = $2 AND date < $3`

	result, err := r.DB.SQLx().ExecContext(ctx, query, entity.EventStatusFinished, entity.EventStatusActive, before)
	if err != nil {
		logger.Error("EventRepository:FinishExpired", err)
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return affected, nil
}
