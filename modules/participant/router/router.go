package router

import (
	"secret-santa-api/core/middleware"
	"secret-santa-api/modules/participant/controller"

	"github.com/labstack/echo/v4"
)

// ParticipantRouter handles roster routes
type ParticipantRouter struct {
	ParticipantController *controller.ParticipantController
}

func NewParticipantRouter(participantController *controller.ParticipantController) *ParticipantRouter {
	return &ParticipantRouter{ParticipantController: participantController}
}

// Setup registers roster routes
func (r *ParticipantRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	rosterRoutes := v1.Group("/private/events/:id/participants", mw.AuthMiddleware())
	rosterRoutes.POST("", r.ParticipantController.AddParticipant)
	rosterRoutes.GET("", r.ParticipantController.ListParticipants)
	rosterRoutes.DELETE("/:participantId", r.ParticipantController.DeleteParticipant)
	rosterRoutes.PUT("/:participantId/reactivate", r.ParticipantController.ReactivateParticipant)
}
