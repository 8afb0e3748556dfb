package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"taskboard/docs"
	"taskboard/internal/auth"
	"taskboard/internal/cache"
	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/handler"
	"taskboard/internal/logging"
	"taskboard/internal/repository"
	"taskboard/internal/router"
	"taskboard/internal/service"
)

// @title Taskboard API
// @version 1.0
// @description Personal task lists with JWT authentication.
// @host localhost:3000
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	startedAt := time.Now()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "info").Error(ctx, "load config", "error", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.LogLevel)

	userRepo, taskRepo, err := newRepositories(cfg)
	if err != nil {
		log.Error(ctx, "repository init", "error", err, "driver", cfg.StoreDriver)
		os.Exit(1)
	}

	var limiterStore middleware.RateLimiterStore
	if cfg.RedisAddr != "" {
		cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer cacheClient.Close()
		if err := cacheClient.Ping(ctx); err != nil {
			log.Warn(ctx, "redis unreachable, rate limiting will fail open until it recovers", "addr", cfg.RedisAddr, "error", err)
		}
		limiterStore = router.NewRedisLimiterStore(cacheClient, log, cfg.RateLimitMax, cfg.RateLimitWindow)
	} else {
		limiterStore = router.NewMemoryLimiterStore(cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)

	authService := service.NewAuthService(userRepo, jwtService, cfg.BcryptCost)
	taskService := service.NewTaskService(taskRepo)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, router.Deps{
		Logger:        log,
		LimiterStore:  limiterStore,
		JWTService:    jwtService,
		AuthHandler:   handler.NewAuthHandler(authService),
		TaskHandler:   handler.NewTaskHandler(taskService),
		HealthHandler: handler.NewHealthHandler(startedAt),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.ServerPort
	go func() {
		log.Info(ctx, "server listening", "addr", addr, "store", cfg.StoreDriver, "docs", "/swagger/index.html")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server start", "error", err)
			stop()
		}
	}()

	<-sigCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown", "error", err)
	}
}

func newRepositories(cfg *config.Config) (repository.UserRepository, repository.TaskRepository, error) {
	if cfg.StoreDriver != config.StoreMySQL {
		return repository.NewMemoryUserRepository(), repository.NewMemoryTaskRepository(), nil
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewUserRepository(gormDB), repository.NewTaskRepository(gormDB), nil
}
