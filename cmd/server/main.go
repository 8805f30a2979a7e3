package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mycareerchoices/compass-backend/internal/config"
	"github.com/mycareerchoices/compass-backend/internal/database"
	"github.com/mycareerchoices/compass-backend/internal/events"
	"github.com/mycareerchoices/compass-backend/internal/handler"
	"github.com/mycareerchoices/compass-backend/internal/logger"
	"github.com/mycareerchoices/compass-backend/internal/refdata"
	"github.com/mycareerchoices/compass-backend/internal/report"
	"github.com/mycareerchoices/compass-backend/internal/repository"
	"github.com/mycareerchoices/compass-backend/internal/router"
	"github.com/mycareerchoices/compass-backend/internal/scoring"
	"github.com/mycareerchoices/compass-backend/internal/service"
	"github.com/mycareerchoices/compass-backend/internal/validator"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Compass Backend")

	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Static reference data is loaded once; a broken reference set is a
	// startup failure, not a per-request one.
	library, err := refdata.Load(cfg.RefDataDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.RefDataDir).Msg("Failed to load reference data")
	}

	studentRepo := repository.NewStudentRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	careerRepo := repository.NewCareerRepository(pool)
	aptitudeRepo := repository.NewAptitudeRepository(pool)
	mappingRepo := repository.NewMappingRepository(pool)

	publisher := events.NewPublisher(rdb)
	denylist := service.NewRedisDenylist(rdb)

	authService := service.NewAuthService(cfg, denylist)
	studentService := service.NewStudentService(studentRepo, authService)
	adminService := service.NewAdminService(adminRepo, studentRepo, authService, publisher)
	assessmentService := service.NewAssessmentService(careerRepo, aptitudeRepo)
	scoringService := scoring.NewService(mappingRepo, careerRepo, aptitudeRepo, log)
	reportBuilder := report.NewBuilder(library)
	pdfTokenService := service.NewPDFTokenService(cfg)

	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, authService, studentService, adminService),
		Assessment: handler.NewAssessmentHandler(assessmentService),
		Results:    handler.NewResultsHandler(scoringService, reportBuilder, studentRepo),
		Report:     handler.NewReportHandler(pdfTokenService),
		Admin:      handler.NewAdminHandler(adminService),
		WS:         handler.NewWSHandler(publisher, log, cfg.AllowedOrigins),
	}

	r := router.SetupRouter(authService, handlers, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
