package router

import (
	"secret-santa-api/core/middleware"
	"secret-santa-api/modules/assignment/controller"

	"github.com/labstack/echo/v4"
)

// AssignmentRouter handles assignment routes
type AssignmentRouter struct {
	AssignmentController *controller.AssignmentController
}

func NewAssignmentRouter(assignmentController *controller.AssignmentController) *AssignmentRouter {
	return &AssignmentRouter{AssignmentController: assignmentController}
}

// Setup registers assignment routes
func (r *AssignmentRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	// Public reveal endpoint, no auth: participants only know their name
	publicRoutes := v1.Group("/public/events/:id/assignments")
	publicRoutes.PUT("", r.AssignmentController.Reveal)

	// Organizer surface
	privateRoutes := v1.Group("/private/events/:id/assignments", mw.AuthMiddleware())
	privateRoutes.GET("", r.AssignmentController.ListAssignments)
	privateRoutes.DELETE("", r.AssignmentController.ClearAssignments)
	privateRoutes.POST("/preview", r.AssignmentController.PreviewAssignments)
}
