package router

import (
	"secret-santa-api/core/middleware"
	"secret-santa-api/modules/event/controller"

	"github.com/labstack/echo/v4"
)

// EventRouter handles event routes
type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{EventController: eventController}
}

// Setup registers event routes
func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	// Admin surface (all protected)
	eventRoutes := v1.Group("/private/events", mw.AuthMiddleware())
	eventRoutes.POST("", r.EventController.CreateEvent)
	eventRoutes.GET("", r.EventController.GetMyEvents)
	eventRoutes.GET("/:id", r.EventController.GetEvent)
	eventRoutes.PUT("/:id", r.EventController.UpdateEvent)
	eventRoutes.PUT("/:id/status", r.EventController.UpdateStatus)
	eventRoutes.DELETE("/:id", r.EventController.DeleteEvent)

	// Public surface
	publicRoutes := v1.Group("/public/events")
	publicRoutes.GET("/active", r.EventController.GetActiveEvent)
	publicRoutes.GET("/:id", r.EventController.GetPublicEvent)
}
