package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loan-engine/internal/api"
	"loan-engine/internal/config"
	"loan-engine/internal/domain/loan"
	"loan-engine/internal/infrastructure/cache"
	"loan-engine/internal/infrastructure/logging"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, logger := initializeApp(".")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient, err := initializeRedisClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err, "addr", cfg.Redis.Addr)
		os.Exit(1)
	}
	loanService := initializeService(cfg, redisClient, logger)
	router := api.SetupRouter(ctx, loanService, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, redisClient, shutdownChan, serverErrors, logger)
}

func initializeApp(configPath string) (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	logger.Info("Application starting...", "port", cfg.Server.Port, "redis_enabled", cfg.Redis.Enabled)

	return cfg, logger
}

// initializeRedisClient returns nil when redis is disabled.
func initializeRedisClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		logger.Info("Redis disabled, schedules will be cached in memory.")
		return nil, nil
	}
	if cfg.Redis.Addr == "" {
		return nil, errors.New("redis address (addr) is not configured")
	}

	logger.Info("Initializing Redis client...")
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("Redis client connected successfully.", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return rdb, nil
}

func initializeService(cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) loan.Service {
	logger.Info("Initializing application components...")
	if redisClient != nil {
		return loan.NewService(cache.NewRedisCache(redisClient, cfg.Cache.TTL, logger), logger)
	}
	return loan.NewService(cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.MaxEntries), logger)
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, redisClient *redis.Client,
	shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	triggerReason, serverDone := waitForShutdownTrigger(shutdownChan, serverErrors, logger)

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	if !serverDone {
		shutdownHTTPServer(srv, serverErrors, logger)
	}
	closeRedisClient(redisClient, logger)

	logger.Info("Application shutdown process complete.")
}

func waitForShutdownTrigger(shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) (string, bool) {
	select {
	case sig := <-shutdownChan:
		logger.Info("Shutdown signal received.", "signal", sig.String())
		return "signal: " + sig.String(), false
	case err := <-serverErrors:
		if err != nil {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			return "server error", true
		}
		logger.Info("Server goroutine finished before signal.")
		return "server exited", true
	}
}

func shutdownHTTPServer(srv *http.Server, serverErrors <-chan error, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}
}

func closeRedisClient(redisClient *redis.Client, logger *slog.Logger) {
	if redisClient == nil {
		logger.Info("Redis client was not initialized, skipping close.")
		return
	}
	logger.Info("Closing Redis client connection...")
	if err := redisClient.Close(); err != nil {
		logger.Error("Failed to close Redis client connection gracefully", "error", err)
	} else {
		logger.Info("Redis client connection closed.")
	}
}
