package service

import (
	"context"

	"secret-santa-api/core/constants"
	"secret-santa-api/core/errors"
	"secret-santa-api/core/params"
	"secret-santa-api/modules/auth/dto"
	"secret-santa-api/modules/auth/entity"

	"github.com/google/uuid"
)

// GetUserByID retrieves a single user.
func (service *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, *errors.AppError) {
	user, err := service.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorageFailure, "Failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "User not found", nil)
	}
	return user, nil
}

// ListUsers returns a page of users without password hashes.
func (service *AuthService) ListUsers(ctx context.Context, queryParams params.QueryParams) (*dto.PaginatedUsersResponse, *errors.AppError) {
	page, err := service.repo.ListUsers(ctx, queryParams)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list users", err)
	}

	users := make([]dto.UserResponse, 0, len(page.Items))
	for i := range page.Items {
		users = append(users, *toUserResponse(&page.Items[i]))
	}

	return &dto.PaginatedUsersResponse{
		Users:      users,
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}, nil
}

// UpdateUser changes role and/or event quota. An admin cannot demote
// themselves; guests switched from admin get a default quota if none was
// supplied.
func (service *AuthService) UpdateUser(ctx context.Context, actorID, userID uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, *errors.AppError) {
	user, err := service.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorageFailure, "Failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "User not found", nil)
	}

	if req.Role != nil {
		if actorID == userID && *req.Role != constants.RoleAdmin {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "You cannot change your own admin role", nil)
		}
		if *req.Role == constants.RoleGuest && user.Role == constants.RoleAdmin && req.MaxEvents == nil {
			user.MaxEvents = 5
		}
		user.Role = *req.Role
	}
	if req.MaxEvents != nil {
		user.MaxEvents = *req.MaxEvents
	}

	if err := service.repo.UpdateUser(ctx, user); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update user", err)
	}

	return toUserResponse(user), nil
}

// GrantEvent lets the user manage the given event.
func (service *AuthService) GrantEvent(ctx context.Context, userID, eventID uuid.UUID) *errors.AppError {
	user, err := service.repo.GetUserByID(ctx, userID)
	if err != nil {
		return errors.NewAppError(errors.ErrStorageFailure, "Failed to get user", err)
	}
	if user == nil {
		return errors.NewAppError(errors.ErrNotFound, "User not found", nil)
	}

	if err := service.repo.GrantEvent(ctx, userID, eventID); err != nil {
		return errors.NewAppError(errors.ErrCreateFailed, "Failed to grant event", err)
	}
	return nil
}

// RevokeEvent removes a grant.
func (service *AuthService) RevokeEvent(ctx context.Context, userID, eventID uuid.UUID) *errors.AppError {
	if err := service.repo.RevokeEvent(ctx, userID, eventID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to revoke event", err)
	}
	return nil
}

// ListUserEvents lists the grants for a user.
func (service *AuthService) ListUserEvents(ctx context.Context, userID uuid.UUID) ([]entity.EventGrant, *errors.AppError) {
	grants, err := service.repo.ListGrantsByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list event grants", err)
	}
	return grants, nil
}

// CanManageEvent reports whether the user may administer the event:
// admins always, creators always, guests via an explicit grant.
func (service *AuthService) CanManageEvent(ctx context.Context, userID, eventID, createdBy uuid.UUID) (bool, *errors.AppError) {
	user, err := service.repo.GetUserByID(ctx, userID)
	if err != nil {
		return false, errors.NewAppError(errors.ErrStorageFailure, "Failed to get user", err)
	}
	if user == nil {
		return false, nil
	}
	if user.Role == constants.RoleAdmin || createdBy == userID {
		return true, nil
	}

	granted, err := service.repo.HasGrant(ctx, userID, eventID)
	if err != nil {
		return false, errors.NewAppError(errors.ErrStorageFailure, "Failed to check event grant", err)
	}
	return granted, nil
}
