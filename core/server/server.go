package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"secret-santa-api/core/cache"
	"secret-santa-api/core/config"
	"secret-santa-api/core/constants"
	"secret-santa-api/core/database"
	"secret-santa-api/core/logger"
	"secret-santa-api/core/middleware"
	"secret-santa-api/core/utils"
	"secret-santa-api/core/worker"
	"secret-santa-api/modules/assignment"
	"secret-santa-api/modules/audit"
	"secret-santa-api/modules/auth"
	"secret-santa-api/modules/event"
	"secret-santa-api/modules/participant"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Run boots the full service: config, logger, database, cache, HTTP
// routes, the background worker, and a graceful shutdown on SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Log.Level)
	defer logger.Sync()

	db, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return err
	}

	cacheInst, err := cache.NewCache(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	w := worker.New(cfg.Redis, cfg.Worker.Concurrency)

	// Module wiring. Auth comes first; its service backs the token
	// middleware and the permission checks of everything else.
	authService := auth.GetService(db, cacheInst)
	mw := middleware.NewMiddleware(authService)

	auth.Init(e, db, cacheInst, mw)
	auditService := audit.Init(e, db, mw)

	locks := utils.NewKeyedMutex()
	event.Init(e, db, mw, authService, auditService, w)
	participant.Init(e, db, mw, authService, auditService, locks)
	assignment.Init(e, db, mw, authService, auditService, locks)

	if err := w.Start(); err != nil {
		logger.Error("Server:WorkerStart", err)
	}

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	w.Shutdown()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
