package controller

import (
	"secret-santa-api/core/constants"
	"secret-santa-api/core/controller"
	"secret-santa-api/core/errors"
	"secret-santa-api/core/utils"
	"secret-santa-api/modules/assignment/dto"
	"secret-santa-api/modules/assignment/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AssignmentController struct {
	service service.AssignmentServiceInterface
	controller.BaseController
}

func NewAssignmentController(service service.AssignmentServiceInterface) *AssignmentController {
	return &AssignmentController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

func getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return claims.UserID, nil
}

// Reveal draws or replays the receiver for a participant
// @Summary Reveal assignment
// @Description Returns the receiver for the named participant, drawing one if needed
// @Tags Assignment
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.RevealRequest true "Participant name"
// @Success 200 {object} dto.RevealResponse
// @Failure 404 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /public/events/{id}/assignments [put]
func (c *AssignmentController) Reveal(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event id", nil)
	}

	req := new(dto.RevealRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.Reveal(ctx.Request().Context(), eventID, req.ParticipantName)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Assignment revealed successfully")
}

// ListAssignments returns the resolved ledger of an event
// @Summary List assignments
// @Tags Assignment
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.AssignmentListResponse
// @Router /private/events/{id}/assignments [get]
func (c *AssignmentController) ListAssignments(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event id", nil)
	}

	result, appErr := c.service.ListAssignments(ctx.Request().Context(), userID, eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Assignments retrieved successfully")
}

// ClearAssignments wipes the ledger and resets the roster
// @Summary Clear assignments
// @Description Deletes every assignment of the event and resets reveal flags
// @Tags Assignment
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.ClearAssignmentsResponse
// @Router /private/events/{id}/assignments [delete]
func (c *AssignmentController) ClearAssignments(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event id", nil)
	}

	result, appErr := c.service.ClearAssignments(ctx.Request().Context(), userID, eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Assignments cleared successfully")
}

// PreviewAssignments computes a full derangement without saving it
// @Summary Preview assignments
// @Description Returns a hypothetical complete matching of the current roster
// @Tags Assignment
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.PreviewResponse
// @Router /private/events/{id}/assignments/preview [post]
func (c *AssignmentController) PreviewAssignments(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event id", nil)
	}

	result, appErr := c.service.PreviewAssignments(ctx.Request().Context(), userID, eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Assignment preview generated successfully")
}
