package controller

import (
	"secret-santa-api/core/constants"
	"secret-santa-api/core/controller"
	"secret-santa-api/core/errors"
	"secret-santa-api/core/utils"
	"secret-santa-api/modules/participant/dto"
	"secret-santa-api/modules/participant/service"
	"secret-santa-api/modules/participant/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ParticipantController struct {
	service service.ParticipantServiceInterface
	controller.BaseController
}

func NewParticipantController(service service.ParticipantServiceInterface) *ParticipantController {
	return &ParticipantController{
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

func (c *ParticipantController) eventIDFromPath(ctx echo.Context) (uuid.UUID, error) {
	return uuid.Parse(ctx.Param("id"))
}

// AddParticipant adds a name to the event roster
// @Summary Add participant
// @Description Adds a participant to the event; names are unique per event
// @Tags Participant
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.AddParticipantRequest true "Participant"
// @Success 200 {object} dto.ParticipantResponse
// @Failure 409 {object} errors.AppError
// @Router /private/events/{id}/participants [post]
func (c *ParticipantController) AddParticipant(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	eventID, err := c.eventIDFromPath(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event id", nil)
	}

	req := new(dto.AddParticipantRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	if result := validator.ValidateAddParticipantRequest(req); result.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Validation failed", result.Errors)
	}

	participant, appErr := c.service.AddParticipant(ctx.Request().Context(), userID, eventID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, participant, "Participant added successfully")
}

// ListParticipants lists the event roster
// @Summary List participants
// @Tags Participant
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.ParticipantListResponse
// @Router /private/events/{id}/participants [get]
func (c *ParticipantController) ListParticipants(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	eventID, err := c.eventIDFromPath(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event id", nil)
	}

	result, appErr := c.service.ListParticipants(ctx.Request().Context(), userID, eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Participants retrieved successfully")
}

// DeleteParticipant removes a participant from the roster
// @Summary Delete participant
// @Tags Participant
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Param participantId path string true "Participant ID"
// @Success 200 {object} map[string]string
// @Router /private/events/{id}/participants/{participantId} [delete]
func (c *ParticipantController) DeleteParticipant(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	eventID, err := c.eventIDFromPath(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event id", nil)
	}

	participantID, err := uuid.Parse(ctx.Param("participantId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid participant id", nil)
	}

	if appErr := c.service.DeleteParticipant(ctx.Request().Context(), userID, eventID, participantID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Participant deleted successfully")
}

// ReactivateParticipant clears the reveal flag of a participant
// @Summary Reactivate participant
// @Description Lets the participant draw again; a recorded assignment is replayed
// @Tags Participant
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Param participantId path string true "Participant ID"
// @Success 200 {object} dto.ParticipantResponse
// @Router /private/events/{id}/participants/{participantId}/reactivate [put]
func (c *ParticipantController) ReactivateParticipant(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	eventID, err := c.eventIDFromPath(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event id", nil)
	}

	participantID, err := uuid.Parse(ctx.Param("participantId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid participant id", nil)
	}

	participant, appErr := c.service.ReactivateParticipant(ctx.Request().Context(), userID, eventID, participantID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, participant, "Participant reactivated successfully")
}
