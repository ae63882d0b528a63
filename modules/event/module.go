package event

import (
	"context"

	"secret-santa-api/core/config"
	"secret-santa-api/core/constants"
	"secret-santa-api/core/database"
	"secret-santa-api/core/logger"
	"secret-santa-api/core/middleware"
	"secret-santa-api/core/worker"
	auditService "secret-santa-api/modules/audit/service"
	authService "secret-santa-api/modules/auth/service"
	"secret-santa-api/modules/event/controller"
	"secret-santa-api/modules/event/repository"
	"secret-santa-api/modules/event/router"
	"secret-santa-api/modules/event/service"
	participantRepository "secret-santa-api/modules/participant/repository"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Init initializes the event module, registers routes and the periodic
// expiry sweep.
func Init(
	e *echo.Echo,
	db database.Database,
	mw *middleware.Middleware,
	auth authService.AuthServiceInterface,
	audit auditService.AuditServiceInterface,
	w *worker.Worker,
) service.EventServiceInterface {
	repo := repository.NewEventRepository(db)
	participantRepo := participantRepository.NewParticipantRepository(db)
	svc := service.NewEventService(repo, participantRepo, auth, audit)
	ctrl := controller.NewEventController(svc)

	router.NewEventRouter(ctrl).Setup(e, mw)

	if w != nil {
		registerTasks(w, svc)
	}

	return svc
}

func registerTasks(w *worker.Worker, svc service.EventServiceInterface) {
	w.HandleFunc(constants.TaskEventExpirySweep, func(ctx context.Context, t *asynq.Task) error {
		_, err := svc.FinishExpiredEvents(ctx)
		return err
	})

	cronspec := "@every 1h"
	if cfg, ok := config.GetSafe(); ok && cfg.Worker.ExpirySweepCron != "" {
		cronspec = cfg.Worker.ExpirySweepCron
	}
	if err := w.Schedule(cronspec, asynq.NewTask(constants.TaskEventExpirySweep, nil)); err != nil {
		logger.Error("Event:RegisterTasks:Schedule", err)
	}
}
