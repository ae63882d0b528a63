package audit

import (
	"secret-santa-api/core/database"
	"secret-santa-api/core/middleware"
	"secret-santa-api/modules/audit/controller"
	"secret-santa-api/modules/audit/repository"
	"secret-santa-api/modules/audit/router"
	"secret-santa-api/modules/audit/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the audit module and registers routes.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) service.AuditServiceInterface {
	repo := repository.NewAuditRepository(db)
	svc := service.NewAuditService(repo)
	ctrl := controller.NewAuditController(svc)

	router.NewAuditRouter(ctrl).Setup(e, mw)

	return svc
}
