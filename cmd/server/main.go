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

	"github.com/SAP-F-2025/testtask-service/internal/cache"
	"github.com/SAP-F-2025/testtask-service/internal/config"
	"github.com/SAP-F-2025/testtask-service/internal/handlers"
	"github.com/SAP-F-2025/testtask-service/internal/services"
	"github.com/SAP-F-2025/testtask-service/internal/utils"
	"github.com/SAP-F-2025/testtask-service/internal/validator"
	"github.com/SAP-F-2025/testtask-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// ─── Initialize Logger ─────────────────────────────────────────────
	logger := utils.NewLogger(cfg.Environment, os.Stdout)
	slog.SetDefault(logger)
	logger.Info("Starting testtask service",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"source", cfg.QuizSource,
		"locale", cfg.Locale)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Redis (optional) ───────────────────────────────────
	var taskCache cache.CacheService
	rdb, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, task cache disabled", "error", err)
	} else if rdb != nil {
		defer rdb.Close()
		taskCache = cache.NewRedisCache(rdb, logger)
		logger.Info("Task cache enabled", "ttl", cfg.TaskCacheTTL.String())
	}

	// ─── Event Publisher ───────────────────────────────────────────────
	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	// ─── Initialize Services ──────────────────────────────────────────
	quizService := services.NewQuizService(services.QuizServiceConfig{
		Source:         services.NewTaskSource(cfg.QuizSource, cfg.FetchTimeout),
		Cache:          taskCache,
		CacheTTL:       cfg.TaskCacheTTL,
		Publisher:      publisher,
		Locale:         cfg.Locale,
		ResultFileName: cfg.ResultFileName,
		Logger:         logger,
		Debug:          !cfg.IsProduction(),
	})
	quizService.Start(ctx)

	// ─── Setup Router ──────────────────────────────────────────────────
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handlerManager := handlers.NewHandlerManager(quizService, validator.New(), utils.NewSlogLogger(logger))
	router := handlerManager.NewRouter(handlers.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		ImagesDir:      cfg.ImagesDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("Shutting down gracefully", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
