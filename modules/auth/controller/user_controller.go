package controller

import (
	"secret-santa-api/core/errors"
	"secret-santa-api/core/params"
	"secret-santa-api/modules/auth/dto"
	"secret-santa-api/modules/auth/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ListUsers handles GET /private/users (admin)
// @Summary List organizer accounts
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Filter by name or email"
// @Success 200 {object} dto.PaginatedUsersResponse
// @Router /private/users [get]
func (c *AuthController) ListUsers(ctx echo.Context) error {
	queryParams := params.NewQueryParams(ctx)

	result, appErr := c.AuthService.ListUsers(ctx.Request().Context(), queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateUser handles PATCH /private/users/:id (admin)
// @Summary Update a user's role or event quota
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} errors.AppError
// @Router /private/users/{id} [patch]
func (c *AuthController) UpdateUser(ctx echo.Context) error {
	actorID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	userID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user ID")
	}

	requestData := new(dto.UpdateUserRequest)
	if err := ctx.Bind(requestData); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.ValidateUpdateUserRequest(requestData)
	if validationResult.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	result, appErr := c.AuthService.UpdateUser(ctx.Request().Context(), actorID, userID, requestData)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "User updated successfully")
}

// ListUserEvents handles GET /private/users/:id/events (admin)
// @Summary List events granted to a user
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} entity.EventGrant
// @Router /private/users/{id}/events [get]
func (c *AuthController) ListUserEvents(ctx echo.Context) error {
	userID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user ID")
	}

	grants, appErr := c.AuthService.ListUserEvents(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, grants, "Success")
}

// GrantUserEvent handles POST /private/users/:id/events (admin)
// @Summary Grant a user access to manage an event
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.GrantEventRequest true "Event to grant"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/users/{id}/events [post]
func (c *AuthController) GrantUserEvent(ctx echo.Context) error {
	userID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user ID")
	}

	requestData := new(dto.GrantEventRequest)
	if err := ctx.Bind(requestData); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	eventID, err := uuid.Parse(requestData.EventID)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	if appErr := c.AuthService.GrantEvent(ctx.Request().Context(), userID, eventID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Event granted")
}

// RevokeUserEvent handles DELETE /private/users/:id/events/:eventId (admin)
// @Summary Revoke a user's access to an event
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Param eventId path string true "Event ID"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/users/{id}/events/{eventId} [delete]
func (c *AuthController) RevokeUserEvent(ctx echo.Context) error {
	userID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user ID")
	}

	eventID, err := uuid.Parse(ctx.Param("eventId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	if appErr := c.AuthService.RevokeEvent(ctx.Request().Context(), userID, eventID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Event grant revoked")
}
