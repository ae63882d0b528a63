package router

import (
	"secret-santa-api/core/middleware"
	"secret-santa-api/modules/audit/controller"

	"github.com/labstack/echo/v4"
)

// AuditRouter handles audit trail routes
type AuditRouter struct {
	AuditController *controller.AuditController
}

func NewAuditRouter(auditController *controller.AuditController) *AuditRouter {
	return &AuditRouter{AuditController: auditController}
}

// Setup registers audit routes
func (r *AuditRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	auditRoutes := v1.Group("/private/events", mw.AuthMiddleware(), mw.AdminMiddleware())
	auditRoutes.GET("/:id/audit", r.AuditController.ListEventAudit)
}
