package store

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/agroclim/cropgrid/internal/db"
	"github.com/agroclim/cropgrid/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: func() {}}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS maize_yield (
	lon_180   DOUBLE PRECISION NOT NULL,
	lat       DOUBLE PRECISION NOT NULL,
	yield     DOUBLE PRECISION,
	year      INTEGER NOT NULL,
	country   TEXT,
	continent TEXT,
	area_ha   DOUBLE PRECISION NOT NULL,
	location  BYTEA,
	PRIMARY KEY (lon_180, lat, year)
);

CREATE TABLE IF NOT EXISTS demographic_data (
	country    TEXT NOT NULL,
	population DOUBLE PRECISION,
	gdp        DOUBLE PRECISION,
	income     DOUBLE PRECISION,
	export     DOUBLE PRECISION,
	import     DOUBLE PRECISION,
	year       INTEGER NOT NULL,
	PRIMARY KEY (country, year)
);

CREATE TABLE IF NOT EXISTS ingest_runs (
	id            TEXT PRIMARY KEY,
	status        TEXT NOT NULL DEFAULT 'running',
	from_year     INTEGER NOT NULL,
	to_year       INTEGER NOT NULL,
	points        BIGINT NOT NULL DEFAULT 0,
	unresolved    BIGINT NOT NULL DEFAULT 0,
	missing_yield BIGINT NOT NULL DEFAULT 0,
	missing_area  BIGINT NOT NULL DEFAULT 0,
	error         TEXT,
	started_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at  TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_maize_yield_year_country ON maize_yield(year, country);
CREATE INDEX IF NOT EXISTS idx_demographic_data_year ON demographic_data(year);
CREATE INDEX IF NOT EXISTS idx_ingest_runs_started_at ON ingest_runs(started_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.closeFn()
	return nil
}

var yieldUpsert = db.UpsertConfig{
	Table:        "maize_yield",
	Columns:      []string{"lon_180", "lat", "yield", "year", "country", "continent", "area_ha", "location"},
	ConflictKeys: []string{"lon_180", "lat", "year"},
}

func (s *PostgresStore) UpsertYields(ctx context.Context, records []model.YieldRecord) (int64, error) {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		loc, err := pointEWKB(r.Lon180, r.Lat)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: encode point (%v, %v)", r.Lon180, r.Lat)
		}
		rows = append(rows, []any{
			r.Lon180, r.Lat, r.Yield, r.Year,
			textOrNil(r.Country), textOrNil(r.Continent), r.AreaHa, loc,
		})
	}
	n, err := db.BulkUpsert(ctx, s.pool, yieldUpsert, rows)
	return n, eris.Wrap(err, "postgres: upsert yields")
}

// pointEWKB encodes a grid point as an EWKB point with SRID 4326, so the
// column can be cast straight into a PostGIS geometry when the extension is
// available.
func pointEWKB(lon, lat float64) ([]byte, error) {
	p := geom.NewPointFlat(geom.XY, []float64{lon, lat}).SetSRID(4326)
	return ewkb.Marshal(p, ewkb.NDR)
}

func (s *PostgresStore) ListYields(ctx context.Context, filter YieldFilter) ([]model.YieldRecord, error) {
	query := `SELECT lon_180, lat, yield, year, country, continent, area_ha FROM maize_yield WHERE 1=1`
	var args []any

	if filter.FromYear != 0 {
		args = append(args, filter.FromYear)
		query += ` AND year >= $` + strconv.Itoa(len(args))
	}
	if filter.ToYear != 0 {
		args = append(args, filter.ToYear)
		query += ` AND year <= $` + strconv.Itoa(len(args))
	}
	if filter.Country != "" {
		args = append(args, filter.Country)
		query += ` AND country = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY year, lon_180, lat`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list yields")
	}
	defer rows.Close()

	var records []model.YieldRecord
	for rows.Next() {
		var r model.YieldRecord
		var country, continent *string
		if err := rows.Scan(&r.Lon180, &r.Lat, &r.Yield, &r.Year, &country, &continent, &r.AreaHa); err != nil {
			return nil, eris.Wrap(err, "postgres: scan yield row")
		}
		r.Country = deref(country)
		r.Continent = deref(continent)
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "postgres: iterate yield rows")
}

var demographicUpsert = db.UpsertConfig{
	Table:        "demographic_data",
	Columns:      []string{"country", "population", "gdp", "income", "export", "import", "year"},
	ConflictKeys: []string{"country", "year"},
}

func (s *PostgresStore) UpsertDemographics(ctx context.Context, records []model.DemographicRecord) (int64, error) {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{
			r.Country, r.Population, r.GDP, r.Income, r.Export, r.Import, r.Year,
		})
	}
	n, err := db.BulkUpsert(ctx, s.pool, demographicUpsert, rows)
	return n, eris.Wrap(err, "postgres: upsert demographics")
}

func (s *PostgresStore) ListDemographics(ctx context.Context) ([]model.DemographicRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT country, population, gdp, income, export, import, year
		FROM demographic_data ORDER BY country, year`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list demographics")
	}
	defer rows.Close()

	var records []model.DemographicRecord
	for rows.Next() {
		var r model.DemographicRecord
		if err := rows.Scan(&r.Country, &r.Population, &r.GDP, &r.Income,
			&r.Export, &r.Import, &r.Year); err != nil {
			return nil, eris.Wrap(err, "postgres: scan demographic row")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "postgres: iterate demographic rows")
}

func (s *PostgresStore) CreateIngestRun(ctx context.Context, fromYear, toYear int) (*model.IngestRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO ingest_runs (id, status, from_year, to_year, started_at) VALUES ($1, $2, $3, $4, $5)`,
		id, string(model.RunStatusRunning), fromYear, toYear, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert ingest run")
	}

	return &model.IngestRun{
		ID:        id,
		Status:    model.RunStatusRunning,
		FromYear:  fromYear,
		ToYear:    toYear,
		StartedAt: now,
	}, nil
}

func (s *PostgresStore) CompleteIngestRun(ctx context.Context, runID string, status model.RunStatus, stats model.IngestStats, runErr string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE ingest_runs SET
			status = $1, points = $2, unresolved = $3, missing_yield = $4,
			missing_area = $5, error = $6, completed_at = $7
		WHERE id = $8`,
		string(status), stats.Points, stats.Unresolved, stats.MissingYield,
		stats.MissingArea, textOrNil(runErr), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete ingest run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: ingest run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) ListIngestRuns(ctx context.Context, limit int) ([]model.IngestRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, status, from_year, to_year, points, unresolved, missing_yield,
		       missing_area, error, started_at, completed_at
		FROM ingest_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list ingest runs")
	}
	defer rows.Close()

	var runs []model.IngestRun
	for rows.Next() {
		var r model.IngestRun
		var errStr *string
		if err := rows.Scan(&r.ID, &r.Status, &r.FromYear, &r.ToYear,
			&r.Stats.Points, &r.Stats.Unresolved, &r.Stats.MissingYield,
			&r.Stats.MissingArea, &errStr, &r.StartedAt, &r.CompletedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan ingest run row")
		}
		r.Error = deref(errStr)
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate ingest run rows")
}

func textOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

