// Package store persists the point-level yield dataset, the demographic
// tables, and ingest run diagnostics. Two backends exist: SQLite for local
// runs and Postgres for shared deployments.
package store

import (
	"context"

	"github.com/agroclim/cropgrid/internal/model"
)

// YieldFilter restricts a yield dataset query. Zero values mean "no bound".
type YieldFilter struct {
	FromYear int    `json:"from_year,omitempty"`
	ToYear   int    `json:"to_year,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Store defines the persistence interface for the pipeline.
type Store interface {
	// Yield dataset. Upsert is keyed by (lon_180, lat, year): re-ingesting a
	// cell-year overwrites, never duplicates.
	UpsertYields(ctx context.Context, records []model.YieldRecord) (int64, error)
	ListYields(ctx context.Context, filter YieldFilter) ([]model.YieldRecord, error)

	// Demographics, keyed by (country, year).
	UpsertDemographics(ctx context.Context, records []model.DemographicRecord) (int64, error)
	ListDemographics(ctx context.Context) ([]model.DemographicRecord, error)

	// Ingest run diagnostics.
	CreateIngestRun(ctx context.Context, fromYear, toYear int) (*model.IngestRun, error)
	CompleteIngestRun(ctx context.Context, runID string, status model.RunStatus, stats model.IngestStats, runErr string) error
	ListIngestRuns(ctx context.Context, limit int) ([]model.IngestRun, error)

	// Lifecycle.
	Migrate(ctx context.Context) error
	Close() error
}
