package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/agroclim/cropgrid/internal/grid"
)

// Source yields one grid per year. Implementations must be safe for
// concurrent calls; the orchestrator fans out across years.
type Source interface {
	Grid(ctx context.Context, year int) (*grid.Grid, error)
}

// FileSource reads per-year NetCDF files from a directory. Pattern is a
// fmt-style template with one %d verb for the year, e.g. "maize_%d.nc".
type FileSource struct {
	Dir     string
	Pattern string
	Options grid.NetCDFOptions
}

// Grid opens the file for the given year. A missing file is an error: the
// requested range is a contract, and silently skipping a year would produce a
// dataset that looks complete but is not.
func (s FileSource) Grid(ctx context.Context, year int) (*grid.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.Dir, fmt.Sprintf(s.Pattern, year))
	if _, err := os.Stat(path); err != nil {
		return nil, eris.Wrapf(err, "ingest: yield file for year %d", year)
	}
	return grid.OpenNetCDF(path, s.Options)
}
