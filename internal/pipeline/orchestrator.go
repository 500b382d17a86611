// Package pipeline coordinates refresh cycles: catalog building, the bounded
// market fetch, valuation, and ranking persistence.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/relicbot/internal/catalog"
	"github.com/alanyoungcy/relicbot/internal/domain"
	"github.com/alanyoungcy/relicbot/internal/snapshot"
	"github.com/alanyoungcy/relicbot/internal/valuation"
)

// DropFeed supplies the upstream drop tables.
type DropFeed interface {
	Relics(ctx context.Context) ([]domain.DropRecord, error)
}

// MarketFetcher runs one bounded fetch over a target set.
type MarketFetcher interface {
	Fetch(ctx context.Context, kind domain.PayloadKind, targets []domain.FetchTarget) (domain.RawSnapshot, error)
}

// Result is what one cycle hands to the query and report surfaces.
type Result struct {
	RunID  string
	Relics map[string]*domain.Relic
	Value  domain.Ranking
	Profit domain.Ranking
}

// Orchestrator runs refresh cycles. Catalogs and raw market snapshots are
// reused from the store while they are usable; valuation and the rankings
// are recomputed on every cycle.
type Orchestrator struct {
	store       domain.SnapshotStore
	feed        DropFeed
	fetcher     MarketFetcher
	engine      *valuation.Engine
	relicMaxAge time.Duration
	logger      *slog.Logger
}

// NewOrchestrator creates an Orchestrator. relicMaxAge bounds how long the
// relic catalog is trusted before the feed is consulted again.
func NewOrchestrator(
	store domain.SnapshotStore,
	feed DropFeed,
	fetcher MarketFetcher,
	engine *valuation.Engine,
	relicMaxAge time.Duration,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:       store,
		feed:        feed,
		fetcher:     fetcher,
		engine:      engine,
		relicMaxAge: relicMaxAge,
		logger:      logger,
	}
}

// Run executes one cycle, regenerating only what is stale or missing.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	return o.run(ctx, false)
}

// RunLoop runs a cycle immediately and then on every tick until the context
// ends. Tick cycles refetch market data even when the raw snapshots are
// present, so prices keep moving; the relic catalog stays on its own
// staleness clock. A failed cycle is logged and the loop carries on.
func (o *Orchestrator) RunLoop(ctx context.Context, interval time.Duration) error {
	if _, err := o.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		o.logger.Error("refresh cycle failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("refresh loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := o.run(ctx, true); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				o.logger.Error("refresh cycle failed", slog.String("error", err.Error()))
			}
		}
	}
}

func (o *Orchestrator) run(ctx context.Context, refetch bool) (*Result, error) {
	runID := uuid.NewString()
	logger := o.logger.With(slog.String("run_id", runID))

	relics, refreshed, err := o.ensureRelics(ctx, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("relic catalog ready",
		slog.Int("relics", len(relics.Relics)),
		slog.Bool("refreshed", refreshed),
	)

	items, err := o.ensureItems(relics, refreshed)
	if err != nil {
		return nil, err
	}
	logger.Info("item catalog ready", slog.Int("items", len(items)))

	targets := catalog.Targets(relics.Relics, items)

	statistics, err := o.ensureRaw(ctx, logger, domain.PayloadStatistics, targets, refreshed || refetch)
	if err != nil {
		return nil, err
	}
	orders, err := o.ensureRaw(ctx, logger, domain.PayloadOrders, targets, refreshed || refetch)
	if err != nil {
		return nil, err
	}

	estimates := o.engine.Estimates(orders, statistics)
	o.engine.Valuate(relics.Relics, estimates)
	value, profit := o.engine.Rank(relics.Relics, estimates)

	if err := o.store.Save(snapshot.ValueRanking, value); err != nil {
		return nil, fmt.Errorf("pipeline: save value ranking: %w", err)
	}
	if err := o.store.Save(snapshot.ProfitRanking, profit); err != nil {
		return nil, fmt.Errorf("pipeline: save profit ranking: %w", err)
	}

	logger.Info("cycle complete",
		slog.Int("ranked", len(value)),
		slog.Int("estimates", len(estimates)),
	)
	return &Result{
		RunID:  runID,
		Relics: relics.Relics,
		Value:  value,
		Profit: profit,
	}, nil
}

// ensureRelics loads the relic catalog, refreshing it from the feed when it
// is stale, absent, or unreadable. A feed failure falls back to whatever
// catalog is still on disk; with nothing to fall back to it is fatal.
func (o *Orchestrator) ensureRelics(ctx context.Context, logger *slog.Logger) (domain.RelicsSnapshot, bool, error) {
	var snap domain.RelicsSnapshot
	if !o.store.IsStale(snapshot.Relics, o.relicMaxAge) {
		if err := o.store.Load(snapshot.Relics, &snap); err == nil && len(snap.Relics) > 0 {
			return snap, false, nil
		}
	}

	records, err := o.feed.Relics(ctx)
	if err != nil {
		var cached domain.RelicsSnapshot
		if loadErr := o.store.Load(snapshot.Relics, &cached); loadErr == nil && len(cached.Relics) > 0 {
			logger.Warn("drop feed unreachable, keeping stale relic catalog",
				slog.String("error", err.Error()),
				slog.Int("relics", len(cached.Relics)),
			)
			return cached, false, nil
		}
		return domain.RelicsSnapshot{}, false, fmt.Errorf("pipeline: refresh relic catalog: %w", err)
	}

	snap = catalog.BuildRelics(records, time.Now())
	if err := o.store.Save(snapshot.Relics, snap); err != nil {
		return domain.RelicsSnapshot{}, false, fmt.Errorf("pipeline: save relic catalog: %w", err)
	}
	return snap, true, nil
}

// ensureItems loads the item catalog, rederiving it when the relic catalog
// was refreshed or the stored copy is unusable.
func (o *Orchestrator) ensureItems(relics domain.RelicsSnapshot, refreshed bool) (map[string]domain.Item, error) {
	if !refreshed && !o.store.IsStale(snapshot.Items, 0) {
		var items map[string]domain.Item
		if err := o.store.Load(snapshot.Items, &items); err == nil && len(items) > 0 {
			return items, nil
		}
	}

	items := catalog.DeriveItems(relics)
	if err := o.store.Save(snapshot.Items, items); err != nil {
		return nil, fmt.Errorf("pipeline: save item catalog: %w", err)
	}
	return items, nil
}

// ensureRaw loads one raw market snapshot, fetching it when forced or when
// the stored copy is unusable.
func (o *Orchestrator) ensureRaw(ctx context.Context, logger *slog.Logger, kind domain.PayloadKind, targets []domain.FetchTarget, refetch bool) (domain.RawSnapshot, error) {
	name := string(kind)
	if !refetch && !o.store.IsStale(name, 0) {
		var cached domain.RawSnapshot
		if err := o.store.Load(name, &cached); err == nil && len(cached) > 0 {
			logger.Info("using cached market snapshot",
				slog.String("kind", name),
				slog.Int("entities", len(cached)),
			)
			return cached, nil
		}
	}

	logger.Info("fetching market data",
		slog.String("kind", name),
		slog.Int("targets", len(targets)),
	)
	snap, err := o.fetcher.Fetch(ctx, kind, targets)
	if err != nil {
		return nil, fmt.Errorf("pipeline: fetch %s: %w", name, err)
	}
	if err := o.store.Save(name, snap); err != nil {
		return nil, fmt.Errorf("pipeline: save %s: %w", name, err)
	}
	return snap, nil
}
