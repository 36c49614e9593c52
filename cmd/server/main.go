// Command server runs the survey aggregation backend HTTP API.
//
// Startup order:
//  1. Load .env (optional) and environment configuration
//  2. Configure logging (level, optional pretty console output)
//  3. Initialize OpenTelemetry tracing (no-op when disabled)
//  4. Open SQLite, run migrations, attach the GORM tracing plugin
//  5. Seed the default survey on an empty database
//  6. Register routes and serve with graceful shutdown
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mempulse/go-survey-backend/internal/config"
	"github.com/mempulse/go-survey-backend/internal/domain"
	httpapi "github.com/mempulse/go-survey-backend/internal/http"
	"github.com/mempulse/go-survey-backend/internal/observability"
	"github.com/mempulse/go-survey-backend/internal/repo"
	"github.com/mempulse/go-survey-backend/internal/services"
	"github.com/mempulse/go-survey-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

// seedRepo adapts the repo free functions to the services.SurveyRepo
// interface for the startup seed path.
type seedRepo struct{}

func (seedRepo) CreateSurvey(ctx context.Context, db *gorm.DB, s *domain.Survey) error {
	return repo.CreateSurvey(ctx, db, s)
}

func (seedRepo) GetSurveyBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Survey, error) {
	return repo.GetSurveyBySlug(ctx, db, slug)
}

func (seedRepo) CountSurveys(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountSurveys(ctx, db)
}

// @title           Survey Aggregation API
// @version         1.0
// @description     Backend for collecting survey responses and serving windowed dashboard statistics.
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	// .env is optional; real deployments use process env.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx := context.Background()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.EnableTracing(db); err != nil {
		log.Warn().Err(err).Msg("gorm tracing plugin not attached")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// Seed so the public form works on a fresh database.
	surveySvc := services.NewSurveyService(db, seedRepo{})
	if err := surveySvc.EnsureDefault(ctx); err != nil {
		log.Fatal().Err(err).Msg("default survey seed failed")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
