package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/agroclim/cropgrid/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS maize_yield (
	lon_180   REAL NOT NULL,
	lat       REAL NOT NULL,
	yield     REAL,
	year      INTEGER NOT NULL,
	country   TEXT,
	continent TEXT,
	area_ha   REAL NOT NULL,
	PRIMARY KEY (lon_180, lat, year)
);

CREATE TABLE IF NOT EXISTS demographic_data (
	country    TEXT NOT NULL,
	population REAL,
	gdp        REAL,
	income     REAL,
	export     REAL,
	import     REAL,
	year       INTEGER NOT NULL,
	PRIMARY KEY (country, year)
);

CREATE TABLE IF NOT EXISTS ingest_runs (
	id            TEXT PRIMARY KEY,
	status        TEXT NOT NULL DEFAULT 'running',
	from_year     INTEGER NOT NULL,
	to_year       INTEGER NOT NULL,
	points        INTEGER NOT NULL DEFAULT 0,
	unresolved    INTEGER NOT NULL DEFAULT 0,
	missing_yield INTEGER NOT NULL DEFAULT 0,
	missing_area  INTEGER NOT NULL DEFAULT 0,
	error         TEXT,
	started_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	completed_at  DATETIME
);

CREATE INDEX IF NOT EXISTS idx_maize_yield_year_country ON maize_yield(year, country);
CREATE INDEX IF NOT EXISTS idx_demographic_data_year ON demographic_data(year);
CREATE INDEX IF NOT EXISTS idx_ingest_runs_started_at ON ingest_runs(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertYields(ctx context.Context, records []model.YieldRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin upsert yields")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO maize_yield (lon_180, lat, yield, year, country, continent, area_ha)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (lon_180, lat, year) DO UPDATE SET
			yield = excluded.yield,
			country = excluded.country,
			continent = excluded.continent,
			area_ha = excluded.area_ha`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert yields")
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.Lon180, r.Lat, nullFloat(r.Yield), r.Year,
			nullString(r.Country), nullString(r.Continent), r.AreaHa,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert yield (%v, %v, %d)", r.Lon180, r.Lat, r.Year)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert yields")
	}
	return int64(len(records)), nil
}

func (s *SQLiteStore) ListYields(ctx context.Context, filter YieldFilter) ([]model.YieldRecord, error) {
	query := `SELECT lon_180, lat, yield, year, country, continent, area_ha FROM maize_yield WHERE 1=1`
	var args []any

	if filter.FromYear != 0 {
		query += ` AND year >= ?`
		args = append(args, filter.FromYear)
	}
	if filter.ToYear != 0 {
		query += ` AND year <= ?`
		args = append(args, filter.ToYear)
	}
	if filter.Country != "" {
		query += ` AND country = ?`
		args = append(args, filter.Country)
	}
	query += ` ORDER BY year, lon_180, lat`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list yields")
	}
	defer rows.Close()

	var records []model.YieldRecord
	for rows.Next() {
		var r model.YieldRecord
		var yield sql.NullFloat64
		var country, continent sql.NullString
		if err := rows.Scan(&r.Lon180, &r.Lat, &yield, &r.Year, &country, &continent, &r.AreaHa); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan yield row")
		}
		if yield.Valid {
			v := yield.Float64
			r.Yield = &v
		}
		r.Country = country.String
		r.Continent = continent.String
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: iterate yield rows")
}

func (s *SQLiteStore) UpsertDemographics(ctx context.Context, records []model.DemographicRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin upsert demographics")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO demographic_data (country, population, gdp, income, export, import, year)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (country, year) DO UPDATE SET
			population = excluded.population,
			gdp = excluded.gdp,
			income = excluded.income,
			export = excluded.export,
			import = excluded.import`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert demographics")
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.Country, nullFloat(r.Population), nullFloat(r.GDP),
			nullFloat(r.Income), nullFloat(r.Export), nullFloat(r.Import), r.Year,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert demographic (%s, %d)", r.Country, r.Year)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert demographics")
	}
	return int64(len(records)), nil
}

func (s *SQLiteStore) ListDemographics(ctx context.Context) ([]model.DemographicRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT country, population, gdp, income, export, import, year
		FROM demographic_data ORDER BY country, year`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list demographics")
	}
	defer rows.Close()

	var records []model.DemographicRecord
	for rows.Next() {
		var r model.DemographicRecord
		var pop, gdp, income, export, imp sql.NullFloat64
		if err := rows.Scan(&r.Country, &pop, &gdp, &income, &export, &imp, &r.Year); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan demographic row")
		}
		r.Population = floatPtr(pop)
		r.GDP = floatPtr(gdp)
		r.Income = floatPtr(income)
		r.Export = floatPtr(export)
		r.Import = floatPtr(imp)
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: iterate demographic rows")
}

func (s *SQLiteStore) CreateIngestRun(ctx context.Context, fromYear, toYear int) (*model.IngestRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ingest_runs (id, status, from_year, to_year, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, string(model.RunStatusRunning), fromYear, toYear, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert ingest run")
	}

	return &model.IngestRun{
		ID:        id,
		Status:    model.RunStatusRunning,
		FromYear:  fromYear,
		ToYear:    toYear,
		StartedAt: now,
	}, nil
}

func (s *SQLiteStore) CompleteIngestRun(ctx context.Context, runID string, status model.RunStatus, stats model.IngestStats, runErr string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE ingest_runs SET
			status = ?, points = ?, unresolved = ?, missing_yield = ?,
			missing_area = ?, error = ?, completed_at = ?
		WHERE id = ?`,
		string(status), stats.Points, stats.Unresolved, stats.MissingYield,
		stats.MissingArea, nullString(runErr), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete ingest run %s", runID)
	}
	return checkRowsAffected(res, "ingest run", runID)
}

func (s *SQLiteStore) ListIngestRuns(ctx context.Context, limit int) ([]model.IngestRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, from_year, to_year, points, unresolved, missing_yield,
		       missing_area, error, started_at, completed_at
		FROM ingest_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list ingest runs")
	}
	defer rows.Close()

	var runs []model.IngestRun
	for rows.Next() {
		var r model.IngestRun
		var errStr sql.NullString
		var completed sql.NullTime
		if err := rows.Scan(&r.ID, &r.Status, &r.FromYear, &r.ToYear,
			&r.Stats.Points, &r.Stats.Unresolved, &r.Stats.MissingYield,
			&r.Stats.MissingArea, &errStr, &r.StartedAt, &completed); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan ingest run row")
		}
		r.Error = errStr.String
		if completed.Valid {
			t := completed.Time
			r.CompletedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate ingest run rows")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
