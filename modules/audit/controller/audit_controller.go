package controller

import (
	"secret-santa-api/core/controller"
	"secret-santa-api/core/errors"
	"secret-santa-api/core/params"
	"secret-santa-api/modules/audit/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AuditController struct {
	service service.AuditServiceInterface
	controller.BaseController
}

func NewAuditController(service service.AuditServiceInterface) *AuditController {
	return &AuditController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// ListEventAudit retrieves the audit trail of an event
// @Summary List audit entries
// @Description Returns the recorded actions for an event, newest first
// @Tags Audit
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.AppError
// @Router /private/events/{id}/audit [get]
func (c *AuditController) ListEventAudit(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid event id", nil)
	}

	queryParams := params.NewQueryParams(ctx)
	result, listErr := c.service.ListByEvent(ctx.Request().Context(), eventID, queryParams)
	if listErr != nil {
		return c.InternalServerError(errors.ErrInternalServer, "Failed to list audit entries", listErr)
	}

	return c.SuccessResponse(ctx, result, "Audit entries retrieved successfully")
}
