package model

import "time"

// RunStatus is the lifecycle state of an ingest run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// IngestStats counts the per-point outcomes of one ingest run. Recoverable
// failures never abort a run, but they must stay auditable.
type IngestStats struct {
	Points       int64 `json:"points"`        // total grid points processed
	Unresolved   int64 `json:"unresolved"`    // points outside every known polygon
	MissingYield int64 `json:"missing_yield"` // points whose measurement was absent
	MissingArea  int64 `json:"missing_area"`  // points on a degenerate axis, excluded
}

// Add accumulates another run's counters, used when merging per-year stats.
func (s *IngestStats) Add(o IngestStats) {
	s.Points += o.Points
	s.Unresolved += o.Unresolved
	s.MissingYield += o.MissingYield
	s.MissingArea += o.MissingArea
}

// IngestRun records one execution of the yield ingestion pipeline.
type IngestRun struct {
	ID          string      `json:"id"`
	Status      RunStatus   `json:"status"`
	FromYear    int         `json:"from_year"`
	ToYear      int         `json:"to_year"`
	Stats       IngestStats `json:"stats"`
	Error       string      `json:"error,omitempty"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}
