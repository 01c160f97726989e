package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/practice-api/internal/config"
	"github.com/jwalitptl/practice-api/internal/repository/postgres"
	"github.com/jwalitptl/practice-api/internal/service"
	"github.com/jwalitptl/practice-api/internal/service/rbac"
	"github.com/jwalitptl/practice-api/pkg/cache"
	"github.com/jwalitptl/practice-api/pkg/logger"
	"github.com/jwalitptl/practice-api/pkg/metrics"
)

func main() {
	var (
		configDir string
		seed      bool
		list      bool
	)
	flag.StringVar(&configDir, "config", "", "Directory holding config.yaml")
	flag.BoolVar(&seed, "seed", true, "Seed default permissions after migrating")
	flag.BoolVar(&list, "list", false, "List embedded migrations and exit")
	flag.Parse()

	if list {
		migrations, err := postgres.Migrations()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read migrations")
		}
		for _, m := range migrations {
			fmt.Println(m.Version)
		}
		return
	}

	var paths []string
	if configDir != "" {
		paths = append(paths, configDir)
	}
	cfg, err := config.LoadConfig(paths...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logr := logger.NewLogger(cfg.Log.ToLoggerConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		logr.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	applied, err := postgres.Migrate(ctx, db)
	if err != nil {
		logr.Fatal(err, "migration failed")
	}
	if len(applied) == 0 {
		logr.Info("schema up to date")
	}
	for _, v := range applied {
		logr.Info("migration applied", "version", v)
	}

	if !seed {
		return
	}

	c, err := cache.New(ctx, cfg.Cache.Driver, cfg.Cache.ToRedisConfig(), cfg.Cache.TTL)
	if err != nil {
		logr.Fatal(err, "failed to open cache")
	}
	m := metrics.NewMetrics(prometheus.NewRegistry(), cfg.Metrics.Namespace)
	repos := postgres.NewRepositories(db, m)

	rbacSvc := rbac.NewService(repos.Permissions, c, cfg.Cache.TTL, m, service.SystemClock, logr)
	if err := rbacSvc.SeedDefaults(ctx); err != nil {
		logr.Fatal(err, "failed to seed default permissions")
	}
}
