// Package main is the entry point for the tiker analysis server. It wires
// the cache, data provider, scoring and reporting services, starts the
// background refresh scheduler, and serves the HTTP API until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/tiker/internal/cache"
	"github.com/aristath/tiker/internal/clients/yahoo"
	"github.com/aristath/tiker/internal/config"
	"github.com/aristath/tiker/internal/database"
	"github.com/aristath/tiker/internal/events"
	"github.com/aristath/tiker/internal/modules/analysis"
	"github.com/aristath/tiker/internal/modules/marketdata"
	"github.com/aristath/tiker/internal/modules/portfolio"
	"github.com/aristath/tiker/internal/modules/reports"
	"github.com/aristath/tiker/internal/modules/scoring"
	"github.com/aristath/tiker/internal/scheduler"
	"github.com/aristath/tiker/internal/server"
	"github.com/aristath/tiker/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.DevMode})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Str("reports_dir", cfg.ReportsDir).
		Int("port", cfg.Port).
		Msg("Starting tiker")

	db, err := database.New(cfg.DatabasePath())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	cacheManager, err := cache.NewManager(cfg.CacheDir(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cache")
	}

	p, err := portfolio.Load(cfg.PortfolioFile, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load portfolio")
	}

	bus := events.NewBus()
	provider := yahoo.NewClient(log)
	market := marketdata.NewService(provider, cacheManager, cfg.Analysis, log)
	history := scoring.NewHistoryRepository(db.Conn())
	scoringSvc := scoring.NewService(p.Weights, history, log)
	manifest := reports.NewManifestRepository(db.Conn())
	reportsSvc := reports.NewService(cfg.ReportsDir, manifest, log)
	analysisSvc := analysis.NewService(market, scoringSvc, reportsSvc, p, bus, log)

	sched := scheduler.New(log)
	refreshJob := scheduler.NewRefreshJob(analysisSvc, cfg.Analysis.DefaultPeriodDays, log)
	if err := sched.AddJob("@hourly", refreshJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register refresh job")
	}
	cleanupJob := cache.NewCleanupJob(cacheManager, log)
	if err := sched.AddJob("@daily", cleanupJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cache cleanup job")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:       log,
		AppConfig: cfg,
		Cache:     cacheManager,
		Analysis:  analysisSvc,
		History:   history,
		Manifest:  manifest,
		Portfolio: p,
		Bus:       bus,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Error().Err(err).Msg("Server stopped unexpectedly")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}
