package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"

	"ritmo-backend/internal/config"
	"ritmo-backend/internal/handlers"
	"ritmo-backend/internal/logging"
	"ritmo-backend/internal/metrics"
	"ritmo-backend/internal/services"
	"ritmo-backend/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	provider, err := metrics.NewMeterProvider(cfg.MetricsExporter, os.Stdout, cfg.MetricsInterval)
	if err != nil {
		return err
	}
	otel.SetMeterProvider(provider)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(flushCtx); err != nil {
			logger.Warn(flushCtx, "failed to flush metrics", "error", err)
		}
	}()

	rec, err := metrics.New(provider.Meter(metrics.MeterName))
	if err != nil {
		return err
	}

	users, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := users.Close(closeCtx); err != nil {
			logger.Warn(closeCtx, "failed to close user store", "error", err)
		}
	}()

	var redisService *services.RedisService
	var sessionStore services.SessionStore
	if cfg.SessionMode == config.SessionModeStore {
		redisService, err = services.NewRedisService(ctx, cfg)
		if err != nil {
			return err
		}
		defer redisService.Close()
		sessionStore = redisService
	}

	sessions, err := services.NewSessionStrategy(cfg, sessionStore)
	if err != nil {
		return err
	}
	logger.Info(ctx, "sessions configured", "mode", cfg.SessionMode, "store_driver", cfg.StoreDriver)

	hasher := services.NewBcryptHasher(cfg.BcryptCost)
	jwtService := services.NewJWTService(cfg)

	hub := handlers.NewWebSocketHub(logger)
	go hub.Run(ctx)

	authService := services.NewAuthService(cfg, users, hasher, jwtService, sessions, logger, rec)
	userService := services.NewUserService(users, hasher, sessions, hub, logger, rec)
	economyService := services.NewEconomyService(users, hub, logger, rec)

	deps := map[string]handlers.Pinger{"users": users}
	if redisService != nil {
		deps["redis"] = redisService
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handlers.NewRouter(handlers.Routes{
		Auth:      handlers.NewAuthHandler(userService, authService),
		User:      handlers.NewUserHandler(userService, authService),
		Economy:   handlers.NewEconomyHandler(economyService),
		WebSocket: handlers.NewWebSocketHandler(hub, userService, logger),
		Health:    handlers.NewHealthHandler(deps),
	}, authService, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
