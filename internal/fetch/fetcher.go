// Package fetch runs the bounded-concurrency market fetch: one request per
// catalog target, at most N in flight, tolerant of individual failures.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/alanyoungcy/relicbot/internal/domain"
)

// PayloadFetcher is the market client surface the fetcher needs.
type PayloadFetcher interface {
	Payload(ctx context.Context, slug string, kind domain.PayloadKind) (json.RawMessage, error)
}

// Fetcher fans out market requests over a bounded pool.
type Fetcher struct {
	client      PayloadFetcher
	concurrency int64
	logger      *slog.Logger
}

// New creates a Fetcher that keeps at most concurrency requests in flight.
func New(client PayloadFetcher, concurrency int, logger *slog.Logger) *Fetcher {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Fetcher{
		client:      client,
		concurrency: int64(concurrency),
		logger:      logger,
	}
}

// Fetch retrieves the payload of every target and returns them as
// single-entry records in completion order. The admission semaphore is
// created here and dies with the call, so overlapping runs never share
// admission state.
//
// A target that fails stays out of the result and the run carries on; only
// context cancellation aborts the whole run. Fetch returns once every
// admitted request has resolved.
func (f *Fetcher) Fetch(ctx context.Context, kind domain.PayloadKind, targets []domain.FetchTarget) (domain.RawSnapshot, error) {
	sem := semaphore.NewWeighted(f.concurrency)
	results := make(chan domain.EntityPayload, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			raw, err := f.client.Payload(ctx, target.Slug, kind)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				f.logger.Warn("market fetch failed",
					"kind", string(kind),
					"entity", target.Name,
					"error", err,
				)
				return nil
			}
			results <- domain.EntityPayload{target.Name: raw}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch: %s run: %w", kind, err)
	}
	close(results)

	snapshot := make(domain.RawSnapshot, 0, len(results))
	for entry := range results {
		snapshot = append(snapshot, entry)
	}

	if missed := len(targets) - len(snapshot); missed > 0 {
		f.logger.Info("market fetch finished with gaps",
			"kind", string(kind),
			"fetched", len(snapshot),
			"missed", missed,
		)
	}
	return snapshot, nil
}
