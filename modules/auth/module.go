package auth

import (
	"context"

	"secret-santa-api/core/cache"
	"secret-santa-api/core/config"
	"secret-santa-api/core/constants"
	"secret-santa-api/core/database"
	"secret-santa-api/core/logger"
	"secret-santa-api/core/middleware"
	"secret-santa-api/core/utils"
	"secret-santa-api/modules/auth/controller"
	"secret-santa-api/modules/auth/entity"
	"secret-santa-api/modules/auth/repository"
	"secret-santa-api/modules/auth/router"
	"secret-santa-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the auth module and registers routes.
func Init(e *echo.Echo, db database.Database, cacheInst cache.Cache, mw *middleware.Middleware) service.AuthServiceInterface {
	repo := repository.NewAuthRepository(db)
	authService := service.NewAuthService(repo, cacheInst)
	ctrl := controller.NewAuthController(authService)

	seedAdminUser(repo)

	router.NewAuthRouter(ctrl).Setup(e, mw)
	return authService
}

// GetService creates an AuthService instance for use by other modules.
func GetService(db database.Database, cacheInst cache.Cache) service.AuthServiceInterface {
	repo := repository.NewAuthRepository(db)
	return service.NewAuthService(repo, cacheInst)
}

// seedAdminUser creates the configured admin account if it does not exist
// yet. Skipped when ADMIN_EMAIL/ADMIN_PASSWORD are unset.
func seedAdminUser(repo repository.AuthRepositoryInterface) {
	cfg, ok := config.GetSafe()
	if !ok {
		logger.Warn("Auth:SeedAdminUser:ConfigNotInitialized")
		return
	}

	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		logger.Info("Auth:SeedAdminUser:Skipped", "reason", "admin credentials not configured in env")
		return
	}

	ctx := context.Background()
	existing, err := repo.GetUserByEmail(ctx, cfg.Admin.Email)
	if err != nil {
		logger.Error("Auth:SeedAdminUser:GetUserByEmail", err)
		return
	}
	if existing != nil {
		return
	}

	hash, err := utils.HashPassword(cfg.Admin.Password)
	if err != nil {
		logger.Error("Auth:SeedAdminUser:HashPassword", err)
		return
	}

	_, err = repo.CreateUser(ctx, &entity.User{
		Email:        cfg.Admin.Email,
		Name:         cfg.Admin.Name,
		PasswordHash: hash,
		Role:         constants.RoleAdmin,
		MaxEvents:    100,
	})
	if err != nil {
		logger.Error("Auth:SeedAdminUser:CreateUser", err)
		return
	}

	logger.Info("Auth:SeedAdminUser:Created", "email", cfg.Admin.Email)
}
