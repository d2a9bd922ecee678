// Package main is the tiker command line interface. It drives the same
// analysis pipeline as the server, rendering results in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/aristath/tiker/internal/cache"
	"github.com/aristath/tiker/internal/clients/yahoo"
	"github.com/aristath/tiker/internal/config"
	"github.com/aristath/tiker/internal/database"
	"github.com/aristath/tiker/internal/modules/analysis"
	"github.com/aristath/tiker/internal/modules/marketdata"
	"github.com/aristath/tiker/internal/modules/portfolio"
	"github.com/aristath/tiker/internal/modules/reports"
	"github.com/aristath/tiker/internal/modules/scoring"
	"github.com/aristath/tiker/pkg/logger"
)

// app bundles the wired services for the CLI commands.
type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	db        *database.DB
	cache     *cache.Manager
	market    *marketdata.Service
	history   *scoring.HistoryRepository
	manifest  *reports.ManifestRepository
	portfolio *portfolio.Portfolio
	analysis  *analysis.Service
}

// newApp wires the full service stack. CLI runs log warnings and errors
// only, keeping stdout clean for rendered output.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(logger.Config{Level: "warn", Pretty: true})

	db, err := database.New(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	cacheManager, err := cache.NewManager(cfg.CacheDir(), log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	p, err := portfolio.Load(cfg.PortfolioFile, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	market := marketdata.NewService(yahoo.NewClient(log), cacheManager, cfg.Analysis, log)
	history := scoring.NewHistoryRepository(db.Conn())
	scoringSvc := scoring.NewService(p.Weights, history, log)
	manifest := reports.NewManifestRepository(db.Conn())
	reportsSvc := reports.NewService(cfg.ReportsDir, manifest, log)
	analysisSvc := analysis.NewService(market, scoringSvc, reportsSvc, p, nil, log)

	return &app{
		cfg:       cfg,
		log:       log,
		db:        db,
		cache:     cacheManager,
		market:    market,
		history:   history,
		manifest:  manifest,
		portfolio: p,
		analysis:  analysisSvc,
	}, nil
}

func (a *app) close() {
	a.db.Close()
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "error:", err)
	return subcommands.ExitFailure
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&analyzeCmd{}, "analysis")
	subcommands.Register(&reportCmd{}, "analysis")
	subcommands.Register(&exportCmd{}, "analysis")
	subcommands.Register(&portfolioCmd{}, "portfolio")
	subcommands.Register(&scoresCmd{}, "portfolio")
	subcommands.Register(&cacheCmd{}, "maintenance")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
