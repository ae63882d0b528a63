package service

import (
	"context"

	"secret-santa-api/core/cache"
	"secret-santa-api/core/constants"
	"secret-santa-api/core/errors"
	"secret-santa-api/core/logger"
	"secret-santa-api/core/params"
	"secret-santa-api/core/utils"
	"secret-santa-api/modules/auth/dto"
	"secret-santa-api/modules/auth/entity"
	"secret-santa-api/modules/auth/repository"

	"github.com/google/uuid"
)

// AuthService handles account and token business logic.
type AuthService struct {
	repo  repository.AuthRepositoryInterface
	cache cache.Cache
}

// AuthServiceInterface defines the service contract.
type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError)
	Logout(ctx context.Context, accessToken, refreshToken string) *errors.AppError
	RefreshToken(ctx context.Context, refreshToken string) (*dto.LoginResponse, *errors.AppError)
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)

	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, *errors.AppError)
	ListUsers(ctx context.Context, queryParams params.QueryParams) (*dto.PaginatedUsersResponse, *errors.AppError)
	UpdateUser(ctx context.Context, actorID, userID uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, *errors.AppError)

	GrantEvent(ctx context.Context, userID, eventID uuid.UUID) *errors.AppError
	RevokeEvent(ctx context.Context, userID, eventID uuid.UUID) *errors.AppError
	ListUserEvents(ctx context.Context, userID uuid.UUID) ([]entity.EventGrant, *errors.AppError)
	CanManageEvent(ctx context.Context, userID, eventID, createdBy uuid.UUID) (bool, *errors.AppError)
}

func NewAuthService(repo repository.AuthRepositoryInterface, cache cache.Cache) AuthServiceInterface {
	return &AuthService{repo: repo, cache: cache}
}

func toUserResponse(user *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		MaxEvents: user.MaxEvents,
		CreatedAt: user.CreatedAt,
	}
}

// Register creates a guest account. The very first account becomes the
// admin so a fresh install is manageable without seeding.
func (service *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, *errors.AppError) {
	existing, err := service.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorageFailure, "Failed to check existing user", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "A user with this email already exists", nil)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("AuthService:Register:HashPassword", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to hash password", err)
	}

	role := constants.RoleGuest
	maxEvents := 5
	count, err := service.repo.CountUsers(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorageFailure, "Failed to count users", err)
	}
	if count == 0 {
		role = constants.RoleAdmin
		maxEvents = 100
	}

	user := &entity.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         role,
		MaxEvents:    maxEvents,
	}

	created, err := service.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create user", err)
	}

	return toUserResponse(created), nil
}

// Login verifies credentials, enforcing the per-email attempt throttle.
func (service *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError) {
	loginKey := constants.RedisKeyLoginAttempt + req.Email

	attempts, err := service.cache.IsLoginBlocked(ctx, loginKey)
	if err != nil {
		logger.Error("AuthService:Login:IsLoginBlocked", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check login attempts", err)
	}
	if attempts >= constants.MaxLoginAttempts {
		errExpire := service.cache.Expire(ctx, loginKey, constants.BlockDuration)
		if errExpire != nil {
			logger.Error("AuthService:Login:Expire", errExpire)
		}
		return nil, errors.NewAppError(errors.ErrForbidden, "Too many failed attempts, try again later", nil)
	}

	user, err := service.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorageFailure, "Failed to get user", err)
	}
	if user == nil || !utils.ComparePassword(user.PasswordHash, req.Password) {
		errIncrement := service.cache.IncrementLoginAttempt(ctx, loginKey)
		if errIncrement != nil {
			logger.Error("AuthService:Login:IncrementLoginAttempt", errIncrement)
		}
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid email or password", nil)
	}

	if errDel := service.cache.Del(ctx, loginKey); errDel != nil {
		logger.Error("AuthService:Login:Del", errDel)
	}

	accessToken, err := utils.GenerateToken(user.ID, user.Email, user.Role, constants.ScopeTokenAccess)
	if err != nil {
		logger.Error("AuthService:Login:GenerateAccessToken", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to generate token", err)
	}
	refreshToken, err := utils.GenerateToken(user.ID, user.Email, user.Role, constants.ScopeTokenRefresh)
	if err != nil {
		logger.Error("AuthService:Login:GenerateRefreshToken", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to generate token", err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *toUserResponse(user),
	}, nil
}

// Logout blacklists both tokens.
func (service *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) *errors.AppError {
	if errAdd := service.cache.AddToTokenBlacklist(ctx, accessToken); errAdd != nil {
		logger.Error("AuthService:Logout:BlacklistAccess", errAdd)
		return errors.NewAppError(errors.ErrInternalServer, "Failed to revoke token", errAdd)
	}
	if refreshToken != "" {
		if errAdd := service.cache.AddToTokenBlacklist(ctx, refreshToken); errAdd != nil {
			logger.Error("AuthService:Logout:BlacklistRefresh", errAdd)
			return errors.NewAppError(errors.ErrInternalServer, "Failed to revoke token", errAdd)
		}
	}
	return nil
}

// RefreshToken rotates the token pair. The old refresh token is
// blacklisted so it cannot be replayed.
func (service *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.LoginResponse, *errors.AppError) {
	blacklisted, err := service.cache.IsTokenBlacklisted(ctx, refreshToken)
	if err != nil {
		logger.Error("AuthService:RefreshToken:IsTokenBlacklisted", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check token", err)
	}
	if blacklisted {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Token has been revoked", nil)
	}

	claims, err := utils.ValidateAndParseToken(refreshToken)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid refresh token", err)
	}
	if claims.Scope != constants.ScopeTokenRefresh {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Token scope not allowed", nil)
	}

	user, err := service.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorageFailure, "Failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "User not found", nil)
	}

	if errAdd := service.cache.AddToTokenBlacklist(ctx, refreshToken); errAdd != nil {
		logger.Error("AuthService:RefreshToken:Blacklist", errAdd)
	}

	accessToken, err := utils.GenerateToken(user.ID, user.Email, user.Role, constants.ScopeTokenAccess)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to generate token", err)
	}
	newRefreshToken, err := utils.GenerateToken(user.ID, user.Email, user.Role, constants.ScopeTokenRefresh)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to generate token", err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		User:         *toUserResponse(user),
	}, nil
}

func (service *AuthService) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return service.cache.IsTokenBlacklisted(ctx, token)
}
