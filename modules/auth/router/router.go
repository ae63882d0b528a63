package router

import (
	"secret-santa-api/core/middleware"
	"secret-santa-api/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

// AuthRouter handles auth and user-management routes
type AuthRouter struct {
	AuthController *controller.AuthController
}

func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{AuthController: authController}
}

// Setup registers auth routes
func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	// Public auth endpoints
	authRoutes := v1.Group("/auth")
	authRoutes.POST("/register", r.AuthController.Register)
	authRoutes.POST("/login", r.AuthController.Login)
	authRoutes.POST("/refresh", r.AuthController.RefreshToken)

	// Authenticated endpoints
	privateAuth := v1.Group("/private/auth", mw.AuthMiddleware())
	privateAuth.POST("/logout", r.AuthController.Logout)
	privateAuth.GET("/me", r.AuthController.Me)

	// User management (admin only)
	userRoutes := v1.Group("/private/users", mw.AuthMiddleware(), mw.AdminMiddleware())
	userRoutes.GET("", r.AuthController.ListUsers)
	userRoutes.PATCH("/:id", r.AuthController.UpdateUser)
	userRoutes.GET("/:id/events", r.AuthController.ListUserEvents)
	userRoutes.POST("/:id/events", r.AuthController.GrantUserEvent)
	userRoutes.DELETE("/:id/events/:eventId", r.AuthController.RevokeUserEvent)
}
