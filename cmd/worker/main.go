package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/practice-api/internal/config"
	"github.com/jwalitptl/practice-api/internal/email"
	"github.com/jwalitptl/practice-api/internal/handler/health"
	promhandler "github.com/jwalitptl/practice-api/internal/handler/prometheus"
	"github.com/jwalitptl/practice-api/internal/middleware"
	"github.com/jwalitptl/practice-api/internal/repository/postgres"
	"github.com/jwalitptl/practice-api/internal/service"
	"github.com/jwalitptl/practice-api/internal/service/calendar"
	"github.com/jwalitptl/practice-api/internal/service/passwordreset"
	"github.com/jwalitptl/practice-api/internal/worker"
	"github.com/jwalitptl/practice-api/pkg/cache"
	"github.com/jwalitptl/practice-api/pkg/logger"
	"github.com/jwalitptl/practice-api/pkg/metrics"
	"github.com/jwalitptl/practice-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	workerID := uuid.NewString()
	logr := logger.NewLogger(cfg.Log.ToLoggerConfig()).WithFields(map[string]interface{}{
		"worker_id": workerID,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		logr.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	c, err := cache.New(ctx, cfg.Cache.Driver, cfg.Cache.ToRedisConfig(), cfg.Cache.TTL)
	if err != nil {
		logr.Fatal(err, "failed to open cache")
	}

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry, cfg.Metrics.Namespace)
	repos := postgres.NewRepositories(db, m)

	var encryptor security.Encryptor
	if cfg.Security.TokenKey != "" {
		if encryptor, err = security.NewEncryptorFromHex(cfg.Security.TokenKey); err != nil {
			logr.Fatal(err, "invalid security.token_key")
		}
	}

	resetSvc := passwordreset.NewService(
		repos,
		security.NewBcryptHasher(cfg.Security.BcryptCost),
		email.NewService(cfg.Mail, logr),
		passwordreset.Config{
			TokenTTL:          cfg.Reset.TokenTTL,
			AttemptsPerMinute: cfg.Reset.AttemptsPerMinute,
			Burst:             cfg.Reset.Burst,
		},
		m,
		service.SystemClock,
		logr,
	)
	calendarSvc := calendar.NewService(repos, encryptor, service.SystemClock, logr)

	cleanup := worker.NewTokenCleanupWorker(resetSvc, calendarSvc, worker.TokenCleanupConfig{
		Interval:      cfg.Worker.Interval,
		Retention:     cfg.Worker.Retention,
		StaleAfter:    cfg.Worker.StaleAfter,
		RefreshWindow: cfg.Worker.RefreshWindow,
	}, m, service.SystemClock, logr)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Recovery(logr), middleware.Logger(logr, "/health/live", "/health/ready", "/metrics"))
	health.NewHandler(map[string]health.Pinger{
		"database": health.PingFunc(func(ctx context.Context) error {
			m.DatabaseConnections.Set(float64(db.Stats().OpenConnections))
			return db.PingContext(ctx)
		}),
		"cache": health.PingFunc(c.Ping),
	}).RegisterRoutes(router)
	promhandler.New(registry).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Metrics.Addr,
		Handler: router,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error(err, "ops server failed")
			os.Exit(1)
		}
	}()
	logr.Info("worker started", "ops_addr", cfg.Metrics.Addr, "interval", cfg.Worker.Interval.String())
	cleanup.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error(err, "ops server forced to shutdown")
	}

	logr.Info("worker exited properly")
}
