package controller

import (
	"secret-santa-api/core/constants"
	"secret-santa-api/core/controller"
	"secret-santa-api/core/errors"
	"secret-santa-api/core/utils"
	"secret-santa-api/modules/event/dto"
	"secret-santa-api/modules/event/entity"
	"secret-santa-api/modules/event/service"
	"secret-santa-api/modules/event/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EventController struct {
	service service.EventServiceInterface
	controller.BaseController
}

func NewEventController(service service.EventServiceInterface) *EventController {
	return &EventController{
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

// CreateEvent creates a draft event
// @Summary Create event
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event"
// @Success 200 {object} dto.EventResponse
// @Failure 403 {object} errors.AppError
// @Router /private/events [post]
func (c *EventController) CreateEvent(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.CreateEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	if result := validator.ValidateCreateEventRequest(req); result.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Validation failed", result.Errors)
	}

	event, appErr := c.service.CreateEvent(ctx.Request().Context(), userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, event, "Event created successfully")
}

// GetMyEvents lists events the caller manages
// @Summary List events
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.EventResponse
// @Router /private/events [get]
func (c *EventController) GetMyEvents(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	events, appErr := c.service.ListEvents(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, events, "Events retrieved successfully")
}

// GetEvent returns an event with its roster
// @Summary Get event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventDetailResponse
// @Failure 404 {object} errors.AppError
// @Router /private/events/{id} [get]
func (c *EventController) GetEvent(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event id", nil)
	}

	event, appErr := c.service.GetEvent(ctx.Request().Context(), userID, eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, event, "Event retrieved successfully")
}

// UpdateEvent updates name, description or date
// @Summary Update event
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Event"
// @Success 200 {object} dto.EventResponse
// @Router /private/events/{id} [put]
func (c *EventController) UpdateEvent(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event id", nil)
	}

	req := new(dto.UpdateEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	if result := validator.ValidateUpdateEventRequest(req); result.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Validation failed", result.Errors)
	}

	event, appErr := c.service.UpdateEvent(ctx.Request().Context(), userID, eventID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, event, "Event updated successfully")
}

// UpdateStatus changes the event lifecycle state
// @Summary Update event status
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.UpdateStatusRequest true "Status"
// @Success 200 {object} dto.EventResponse
// @Router /private/events/{id}/status [put]
func (c *EventController) UpdateStatus(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event id", nil)
	}

	req := new(dto.UpdateStatusRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	if result := validator.ValidateUpdateStatusRequest(req); result.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Validation failed", result.Errors)
	}

	event, appErr := c.service.UpdateStatus(ctx.Request().Context(), userID, eventID, entity.EventStatus(req.Status))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, event, "Event status updated successfully")
}

// DeleteEvent removes an event with its roster and assignments
// @Summary Delete event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]string
// @Router /private/events/{id} [delete]
func (c *EventController) DeleteEvent(ctx echo.Context) error {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event id", nil)
	}

	if appErr := c.service.DeleteEvent(ctx.Request().Context(), userID, eventID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Event deleted successfully")
}

// GetActiveEvent returns the most recent active event
// @Summary Get active event
// @Tags Public
// @Produce json
// @Success 200 {object} dto.PublicEventResponse
// @Failure 404 {object} errors.AppError
// @Router /public/events/active [get]
func (c *EventController) GetActiveEvent(ctx echo.Context) error {
	event, appErr := c.service.GetActiveEvent(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, event, "Active event retrieved successfully")
}

// GetPublicEvent returns an active event by id
// @Summary Get public event
// @Tags Public
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.PublicEventResponse
// @Failure 404 {object} errors.AppError
// @Router /public/events/{id} [get]
func (c *EventController) GetPublicEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event id", nil)
	}

	event, appErr := c.service.GetPublicEvent(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, event, "Event retrieved successfully")
}
