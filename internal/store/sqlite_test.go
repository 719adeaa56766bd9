package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroclim/cropgrid/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func fptr(v float64) *float64 { return &v }

// --- Yields ---

func TestSQLite_UpsertYields_InsertAndList(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	records := []model.YieldRecord{
		{Lon180: -0.25, Lat: 51.25, Yield: fptr(4.2), Year: 2000, Country: "United Kingdom", Continent: "Europe", AreaHa: 4311.5},
		{Lon180: 2.25, Lat: 48.75, Yield: nil, Year: 2000, Country: "France", Continent: "Europe", AreaHa: 5102.9},
	}
	n, err := st.UpsertYields(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := st.ListYields(ctx, YieldFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by (year, lon_180, lat).
	assert.Equal(t, "United Kingdom", got[0].Country)
	require.NotNil(t, got[0].Yield)
	assert.InDelta(t, 4.2, *got[0].Yield, 1e-9)
	assert.Equal(t, "France", got[1].Country)
	assert.Nil(t, got[1].Yield)
}

func TestSQLite_UpsertYields_ReingestOverwrites(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	first := []model.YieldRecord{
		{Lon180: 10.25, Lat: 45.25, Yield: fptr(1.0), Year: 1999, Country: "Italy", Continent: "Europe", AreaHa: 5500},
	}
	_, err := st.UpsertYields(ctx, first)
	require.NoError(t, err)

	// Same key, new attribute values. The row must be replaced, not duplicated.
	second := []model.YieldRecord{
		{Lon180: 10.25, Lat: 45.25, Yield: fptr(2.5), Year: 1999, Country: "Italy", Continent: "Europe", AreaHa: 5501},
	}
	_, err = st.UpsertYields(ctx, second)
	require.NoError(t, err)

	got, err := st.ListYields(ctx, YieldFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 2.5, *got[0].Yield, 1e-9)
	assert.InDelta(t, 5501, got[0].AreaHa, 1e-9)
}

func TestSQLite_UpsertYields_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	n, err := st.UpsertYields(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLite_ListYields_Filter(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	records := []model.YieldRecord{
		{Lon180: 1, Lat: 1, Yield: fptr(1), Year: 1998, Country: "Ghana", Continent: "Africa", AreaHa: 100},
		{Lon180: 1, Lat: 1, Yield: fptr(2), Year: 1999, Country: "Ghana", Continent: "Africa", AreaHa: 100},
		{Lon180: 2, Lat: 2, Yield: fptr(3), Year: 1999, Country: "Togo", Continent: "Africa", AreaHa: 100},
		{Lon180: 1, Lat: 1, Yield: fptr(4), Year: 2000, Country: "Ghana", Continent: "Africa", AreaHa: 100},
	}
	_, err := st.UpsertYields(ctx, records)
	require.NoError(t, err)

	got, err := st.ListYields(ctx, YieldFilter{FromYear: 1999, ToYear: 1999})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = st.ListYields(ctx, YieldFilter{Country: "Ghana"})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = st.ListYields(ctx, YieldFilter{FromYear: 2000, Country: "Togo"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

// --- Demographics ---

func TestSQLite_UpsertDemographics_InsertAndList(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	records := []model.DemographicRecord{
		{Country: "Kenya", Year: 2000, Population: fptr(31_064_000), GDP: fptr(12.7e9)},
		{Country: "Kenya", Year: 2001, Population: fptr(31_916_000)},
	}
	n, err := st.UpsertDemographics(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := st.ListDemographics(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2000, got[0].Year)
	require.NotNil(t, got[0].GDP)
	assert.InDelta(t, 12.7e9, *got[0].GDP, 1)
	assert.Nil(t, got[1].GDP)
	assert.Nil(t, got[0].Income)
}

func TestSQLite_UpsertDemographics_ReingestOverwrites(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.UpsertDemographics(ctx, []model.DemographicRecord{
		{Country: "Peru", Year: 2005, Population: fptr(1)},
	})
	require.NoError(t, err)

	_, err = st.UpsertDemographics(ctx, []model.DemographicRecord{
		{Country: "Peru", Year: 2005, Population: fptr(2), GDP: fptr(3)},
	})
	require.NoError(t, err)

	got, err := st.ListDemographics(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 2, *got[0].Population, 1e-9)
	require.NotNil(t, got[0].GDP)
}

// --- Ingest runs ---

func TestSQLite_IngestRun_Lifecycle(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateIngestRun(ctx, 1995, 2005)
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	stats := model.IngestStats{Points: 10368, Unresolved: 7200, MissingYield: 9000}
	err = st.CompleteIngestRun(ctx, run.ID, model.RunStatusComplete, stats, "")
	require.NoError(t, err)

	runs, err := st.ListIngestRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
	assert.Equal(t, int64(10368), runs[0].Stats.Points)
	assert.Equal(t, int64(7200), runs[0].Stats.Unresolved)
	require.NotNil(t, runs[0].CompletedAt)
	assert.Empty(t, runs[0].Error)
}

func TestSQLite_IngestRun_Failed(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateIngestRun(ctx, 2000, 2000)
	require.NoError(t, err)

	err = st.CompleteIngestRun(ctx, run.ID, model.RunStatusFailed, model.IngestStats{}, "open yield file: no such file")
	require.NoError(t, err)

	runs, err := st.ListIngestRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusFailed, runs[0].Status)
	assert.Contains(t, runs[0].Error, "no such file")
}

func TestSQLite_CompleteIngestRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.CompleteIngestRun(context.Background(), "missing-id", model.RunStatusComplete, model.IngestStats{}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
