package participant

import (
	"secret-santa-api/core/database"
	"secret-santa-api/core/middleware"
	"secret-santa-api/core/utils"
	auditService "secret-santa-api/modules/audit/service"
	authService "secret-santa-api/modules/auth/service"
	eventRepository "secret-santa-api/modules/event/repository"
	"secret-santa-api/modules/participant/controller"
	"secret-santa-api/modules/participant/repository"
	"secret-santa-api/modules/participant/router"
	"secret-santa-api/modules/participant/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the participant module and registers routes.
func Init(
	e *echo.Echo,
	db database.Database,
	mw *middleware.Middleware,
	auth authService.AuthServiceInterface,
	audit auditService.AuditServiceInterface,
	locks *utils.KeyedMutex,
) service.ParticipantServiceInterface {
	repo := repository.NewParticipantRepository(db)
	eventRepo := eventRepository.NewEventRepository(db)
	svc := service.NewParticipantService(repo, eventRepo, auth, audit, locks)
	ctrl := controller.NewParticipantController(svc)

	router.NewParticipantRouter(ctrl).Setup(e, mw)

	return svc
}
