package assignment

import (
	"secret-santa-api/core/database"
	"secret-santa-api/core/middleware"
	"secret-santa-api/core/utils"
	"secret-santa-api/modules/assignment/controller"
	"secret-santa-api/modules/assignment/repository"
	"secret-santa-api/modules/assignment/router"
	"secret-santa-api/modules/assignment/service"
	auditService "secret-santa-api/modules/audit/service"
	authService "secret-santa-api/modules/auth/service"
	eventRepository "secret-santa-api/modules/event/repository"
	participantRepository "secret-santa-api/modules/participant/repository"

	"github.com/labstack/echo/v4"
)

// Init initializes the assignment module and registers routes.
func Init(
	e *echo.Echo,
	db database.Database,
	mw *middleware.Middleware,
	auth authService.AuthServiceInterface,
	audit auditService.AuditServiceInterface,
	locks *utils.KeyedMutex,
) service.AssignmentServiceInterface {
	repo := repository.NewAssignmentRepository(db)
	participantRepo := participantRepository.NewParticipantRepository(db)
	eventRepo := eventRepository.NewEventRepository(db)
	engine := service.NewEngine(nil)
	svc := service.NewAssignmentService(repo, participantRepo, eventRepo, auth, audit, engine, &db, locks)
	ctrl := controller.NewAssignmentController(svc)

	router.NewAssignmentRouter(ctrl).Setup(e, mw)

	return svc
}
