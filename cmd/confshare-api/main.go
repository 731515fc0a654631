package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"confshare/internal/api/handlers"
	"confshare/internal/api/middleware"
	"confshare/internal/api/router"
	"confshare/internal/config"
	"confshare/internal/core/services"
	"confshare/internal/db/postgres"
	"confshare/internal/infrastructure/crypto"
	"confshare/internal/telemetry"
)

func main() {
	// --- 1. Core Telemetry & Configuration ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("Booting ConfShare API...")

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using system environment")
	}
	cfg := config.Load()

	// --- 2. Outbound Infrastructure ---
	dbPool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("FATAL: DB failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// --- 3. Dependency Injection ---
	codec := crypto.New(cfg.Passphrase)
	configRepo := postgres.NewConfigurationRepository(dbPool)

	// Change-event fanout (Memory Bus)
	eventHub := telemetry.NewHub()

	configService := services.NewConfigurationService(configRepo, codec, eventHub, cfg.StorageSalt, logger)

	configHandler := handlers.NewConfigurationHandler(configService)
	eventsHandler := handlers.NewEventsHandler(eventHub, logger)
	healthHandler := handlers.NewHealthHandler(dbPool)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret, logger)

	// --- 4. HTTP Gateway ---
	mux := router.NewRouter(router.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		ConfigHandler:  configHandler,
		EventsHandler:  eventsHandler,
		HealthHandler:  healthHandler,
		AuthMiddleware: authMiddleware,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// --- 5. Graceful Exit ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("ConfShare API active", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("CRITICAL: Server crashed", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("ERROR: Forced shutdown", "error", err)
	}
	logger.Info("ConfShare API shutdown complete.")
}
