package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alanyoungcy/relicbot/internal/query"
	"github.com/alanyoungcy/relicbot/internal/report"
)

// QueryMode runs one refresh cycle (reusing fresh snapshots where possible)
// and then serves the interactive lookup menu on stdin until the user quits
// or the context is cancelled.
func (a *App) QueryMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting query mode")

	res, err := deps.Orchestrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("query mode: %w", err)
	}

	menu := query.NewMenu(res.Value, res.Profit, a.cfg.Report.Top, os.Stdin, os.Stdout)

	// Stdin reads cannot be interrupted, so the menu runs in its own
	// goroutine and cancellation abandons it mid-read.
	errCh := make(chan error, 1)
	go func() {
		errCh <- menu.Run()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// RefreshMode runs one refresh cycle and prints the top-N tables to stdout.
func (a *App) RefreshMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting refresh mode")

	res, err := deps.Orchestrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("refresh mode: %w", err)
	}

	report.WriteRankings(os.Stdout, res.Value, res.Profit, a.cfg.Report.Top)

	a.logger.InfoContext(ctx, "refresh complete",
		slog.String("run_id", res.RunID),
		slog.Int("relics", len(res.Relics)),
	)
	return nil
}

// WatchMode keeps the rankings current on an interval until the context is
// cancelled. Output goes to the snapshot store, not stdout; pair it with
// query mode or the exported spreadsheet to read the results.
func (a *App) WatchMode(ctx context.Context, deps *Dependencies) error {
	interval := a.cfg.Watch.Interval.Duration
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	a.logger.InfoContext(ctx, "starting watch mode",
		slog.Duration("interval", interval),
	)

	return deps.Orchestrator.RunLoop(ctx, interval)
}

// ExportMode runs one refresh cycle and writes the full rankings to a
// spreadsheet at the configured path.
func (a *App) ExportMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting export mode")

	res, err := deps.Orchestrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("export mode: %w", err)
	}

	path := a.cfg.Report.ExportPath
	if err := report.ExportXLSX(path, res.Value, res.Profit); err != nil {
		return fmt.Errorf("export mode: %w", err)
	}

	a.logger.InfoContext(ctx, "rankings exported",
		slog.String("run_id", res.RunID),
		slog.String("path", path),
	)
	return nil
}
