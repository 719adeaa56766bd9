package ingest

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agroclim/cropgrid/internal/boundary"
	"github.com/agroclim/cropgrid/internal/model"
	"github.com/agroclim/cropgrid/internal/store"
)

// Options configures an ingest run.
type Options struct {
	FromYear    int
	ToYear      int
	Concurrency int // parallel year loads (default 3)
}

// Run ingests the configured year range: each year's grid is flattened,
// resolved, and upserted, with per-year work fanned out across goroutines.
// The run is recorded up front and completed with aggregate stats, so a crash
// mid-range leaves a visible 'running' row rather than nothing.
//
// Any single year failing fails the whole run; partial upserts from completed
// years remain (re-running the same range overwrites them cleanly).
func Run(ctx context.Context, st store.Store, source Source, resolver *boundary.Resolver, opts Options) (*model.IngestRun, error) {
	if opts.FromYear == 0 || opts.ToYear == 0 {
		return nil, eris.New("ingest: year range is required")
	}
	if opts.ToYear < opts.FromYear {
		return nil, eris.Errorf("ingest: invalid year range %d..%d", opts.FromYear, opts.ToYear)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 3
	}

	log := zap.L().With(
		zap.String("component", "ingest"),
		zap.Int("from_year", opts.FromYear),
		zap.Int("to_year", opts.ToYear),
	)

	run, err := st.CreateIngestRun(ctx, opts.FromYear, opts.ToYear)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: create run")
	}
	log.Info("ingest run started", zap.String("run_id", run.ID))

	var (
		mu    sync.Mutex
		total model.IngestStats
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for year := opts.FromYear; year <= opts.ToYear; year++ {
		g.Go(func() error {
			stats, err := ingestYear(gCtx, st, source, resolver, year)
			if err != nil {
				return err
			}
			mu.Lock()
			total.Add(stats)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		completeErr := st.CompleteIngestRun(ctx, run.ID, model.RunStatusFailed, total, err.Error())
		if completeErr != nil {
			log.Error("record failed run", zap.Error(completeErr))
		}
		return run, err
	}

	if err := st.CompleteIngestRun(ctx, run.ID, model.RunStatusComplete, total, ""); err != nil {
		return run, eris.Wrap(err, "ingest: complete run")
	}

	run.Status = model.RunStatusComplete
	run.Stats = total
	log.Info("ingest run complete",
		zap.String("run_id", run.ID),
		zap.Int64("points", total.Points),
		zap.Int64("unresolved", total.Unresolved),
		zap.Int64("missing_yield", total.MissingYield),
		zap.Int64("missing_area", total.MissingArea),
	)
	return run, nil
}

func ingestYear(ctx context.Context, st store.Store, source Source, resolver *boundary.Resolver, year int) (model.IngestStats, error) {
	g, err := source.Grid(ctx, year)
	if err != nil {
		return model.IngestStats{}, eris.Wrapf(err, "ingest: open grid for year %d", year)
	}

	points, stats := BuildYear(g, year, resolver)
	records := Records(points)

	n, err := st.UpsertYields(ctx, records)
	if err != nil {
		return model.IngestStats{}, eris.Wrapf(err, "ingest: upsert year %d", year)
	}

	zap.L().Debug("year ingested",
		zap.Int("year", year),
		zap.Int64("rows", n),
		zap.Int64("unresolved", stats.Unresolved),
	)
	return stats, nil
}
