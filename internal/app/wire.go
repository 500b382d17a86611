package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alanyoungcy/relicbot/internal/config"
	"github.com/alanyoungcy/relicbot/internal/domain"
	"github.com/alanyoungcy/relicbot/internal/fetch"
	"github.com/alanyoungcy/relicbot/internal/pipeline"
	"github.com/alanyoungcy/relicbot/internal/platform/warframestat"
	"github.com/alanyoungcy/relicbot/internal/platform/wfmarket"
	"github.com/alanyoungcy/relicbot/internal/snapshot"
	"github.com/alanyoungcy/relicbot/internal/valuation"
)

// Dependencies bundles everything the application modes need to operate. It
// is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Store        domain.SnapshotStore
	Feed         *warframestat.Client
	Market       *wfmarket.Client
	Fetcher      *fetch.Fetcher
	Engine       *valuation.Engine
	Orchestrator *pipeline.Orchestrator
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown. The current dependency set is HTTP clients and a
// flat-file store, so there is nothing to release yet; cleanup is kept in the
// signature so closable resources can slot in without touching callers.
func Wire(_ context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	store := snapshot.New(cfg.Snapshot.Dir)

	feed := warframestat.New(cfg.Drops.BaseURL,
		warframestat.WithTimeout(cfg.Drops.Timeout.Duration),
	)

	market := wfmarket.New(cfg.Market.BaseURL,
		wfmarket.WithTimeout(cfg.Market.Timeout.Duration),
		wfmarket.WithRetry(cfg.Market.RetryMax, cfg.Market.RetryWait.Duration, cfg.Market.RetryMaxWait.Duration),
	)

	fetcher := fetch.New(market, cfg.Fetch.Concurrency, logger)

	engine := valuation.New(
		valuation.Mode(strings.ToLower(cfg.Valuation.Mode)),
		cfg.Valuation.Window,
		cfg.Valuation.WindowDays,
		valuation.WindowPolicy(strings.ToLower(cfg.Valuation.WindowPolicy)),
		logger,
	)

	orchestrator := pipeline.NewOrchestrator(
		store, feed, fetcher, engine,
		cfg.Snapshot.RelicMaxAge.Duration,
		logger,
	)

	deps := &Dependencies{
		Store:        store,
		Feed:         feed,
		Market:       market,
		Fetcher:      fetcher,
		Engine:       engine,
		Orchestrator: orchestrator,
	}

	return deps, func() {}, nil
}
