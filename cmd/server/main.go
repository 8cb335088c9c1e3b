package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gradeflow/gradeflow-backend/internal/config"
	"github.com/gradeflow/gradeflow-backend/internal/database"
	"github.com/gradeflow/gradeflow-backend/internal/handler"
	"github.com/gradeflow/gradeflow-backend/internal/logger"
	"github.com/gradeflow/gradeflow-backend/internal/repository"
	"github.com/gradeflow/gradeflow-backend/internal/router"
	"github.com/gradeflow/gradeflow-backend/internal/service"
	"github.com/gradeflow/gradeflow-backend/internal/validator"
	"github.com/gradeflow/gradeflow-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting GradeFlow Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	programmeRepo := repository.NewProgrammeRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	gradeRepo := repository.NewGradeRepository(pool)
	groupRepo := repository.NewGroupRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, userRepo)
	userService := service.NewUserService(userRepo, authService, log)
	programmeService := service.NewProgrammeService(programmeRepo, log)
	classService := service.NewClassService(classRepo, programmeRepo, userRepo, log)
	assignmentService := service.NewAssignmentService(assignmentRepo, classRepo, log)
	notificationService := service.NewNotificationService(notificationRepo, rdb, log)
	gradeService := service.NewGradeService(gradeRepo, assignmentRepo, classRepo, userRepo, notificationService, rdb, log)
	overviewService := service.NewOverviewService(gradeRepo, assignmentRepo, classRepo, userRepo, rdb, log)
	groupService := service.NewGroupService(groupRepo, classRepo, userRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService, userService),
		User:         handler.NewUserHandler(userService),
		Programme:    handler.NewProgrammeHandler(programmeService),
		Class:        handler.NewClassHandler(classService),
		Assignment:   handler.NewAssignmentHandler(assignmentService),
		Grade:        handler.NewGradeHandler(gradeService, overviewService),
		Group:        handler.NewGroupHandler(groupService),
		Notification: handler.NewNotificationHandler(notificationService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	notificationWorker := worker.NewNotificationWorker(notificationRepo, rdb, log)
	go notificationWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
