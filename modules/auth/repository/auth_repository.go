package repository

import (
	"context"
	"database/sql"

	"secret-santa-api/core/database"
	"secret-santa-api/core/logger"
	"secret-santa-api/core/params"
	"secret-santa-api/modules/auth/entity"

	"github.com/google/uuid"
)

// AuthRepository handles user and event-grant database operations.
type AuthRepository struct {
	DB database.Database
}

func NewAuthRepository(db database.Database) *AuthRepository {
	return &AuthRepository{DB: db}
}

// AuthRepositoryInterface defines the repository contract.
type AuthRepositoryInterface interface {
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	ListUsers(ctx context.Context, params params.QueryParams) (*entity.PaginatedUserEntity, error)
	UpdateUser(ctx context.Context, user *entity.User) error
	CountUsers(ctx context.Context) (int, error)

	GrantEvent(ctx context.Context, userID, eventID uuid.UUID) error
	RevokeEvent(ctx context.Context, userID, eventID uuid.UUID) error
	ListGrantsByUser(ctx context.Context, userID uuid.UUID) ([]entity.EventGrant, error)
	HasGrant(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
}

// ===================== Users =====================

func (r *AuthRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (email, name, password_hash, role, max_events)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, name, password_hash, role, max_events, created_at, updated_at
	`

	var created entity.User
	err := r.DB.GetContext(ctx, &created, query,
		user.Email, user.Name, user.PasswordHash, user.Role, user.MaxEvents)
	if err != nil {
		logger.Error("AuthRepository:CreateUser", err)
		return nil, err
	}

	return &created, nil
}

func (r *AuthRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, email, name, password_hash, role, max_events, created_at, updated_at
		FROM users WHERE email = $1
	`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByEmail", err)
		return nil, err
	}

	return &user, nil
}

func (r *AuthRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT id, email, name, password_hash, role, max_events, created_at, updated_at
		FROM users WHERE id = $1
	`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByID", err)
		return nil, err
	}

	return &user, nil
}

func (r *AuthRepository) ListUsers(ctx context.Context, queryParams params.QueryParams) (*entity.PaginatedUserEntity, error) {
	countQuery := `SELECT COUNT(*) FROM users WHERE ($1 = '' OR email ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%')`

	var total int
	if err := r.DB.GetContext(ctx, &total, countQuery, queryParams.Search); err != nil {
		logger.Error("AuthRepository:ListUsers:Count", err)
		return nil, err
	}

	query := `
		SELECT id, email, name, password_hash, role, max_events, created_at, updated_at
		FROM users
		WHERE ($1 = '' OR email ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var users []entity.User
	err := r.DB.SelectContext(ctx, &users, query, queryParams.Search, queryParams.PageSize, queryParams.Offset())
	if err != nil {
		logger.Error("AuthRepository:ListUsers", err)
		return nil, err
	}

	return &entity.PaginatedUserEntity{
		Items:      users,
		TotalItems: total,
		PageNumber: queryParams.PageNumber,
		PageSize:   queryParams.PageSize,
	}, nil
}

func (r *AuthRepository) UpdateUser(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET name = $2, role = $3, max_events = $4, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query, user.ID, user.Name, user.Role, user.MaxEvents)
	if err != nil {
		logger.Error("AuthRepository:UpdateUser", err)
		return err
	}

	return nil
}

func (r *AuthRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	if err != nil {
		logger.Error("AuthRepository:CountUsers", err)
		return 0, err
	}
	return count, nil
}

// ===================== Event grants =====================

func (r *AuthRepository) GrantEvent(ctx context.Context, userID, eventID uuid.UUID) error {
	query := `
		INSERT INTO event_grants (user_id, event_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, event_id) DO NOTHING
	`

	err := r.DB.ExecContext(ctx, query, userID, eventID)
	if err != nil {
		logger.Error("AuthRepository:GrantEvent", err)
		return err
	}

	return nil
}

func (r *AuthRepository) RevokeEvent(ctx context.Context, userID, eventID uuid.UUID) error {
	query := `DELETE FROM event_grants WHERE user_id = $1 AND event_id = $2`
	err := r.DB.ExecContext(ctx, query, userID, eventID)
	if err != nil {
		logger.Error("AuthRepository:RevokeEvent", err)
		return err
	}
	return nil
}

func (r *AuthRepository) ListGrantsByUser(ctx context.Context, userID uuid.UUID) ([]entity.EventGrant, error) {
	query := `
		SELECT user_id, event_id, created_at
		FROM event_grants
		WHERE user_id = $1
		ORDER BY created_at
	`

	var grants []entity.EventGrant
	err := r.DB.SelectContext(ctx, &grants, query, userID)
	if err != nil {
		logger.Error("AuthRepository:ListGrantsByUser", err)
		return nil, err
	}

	return grants, nil
}

func (r *AuthRepository) HasGrant(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM event_grants WHERE user_id = $1 AND event_id = $2)`

	var exists bool
	err := r.DB.GetContext(ctx, &exists, query, userID, eventID)
	if err != nil {
		logger.Error("AuthRepository:HasGrant", err)
		return false, err
	}

	return exists, nil
}
