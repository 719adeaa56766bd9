// Package grid models regular 2-D longitude/latitude grids and turns them
// into flat point sequences for the ingestion pipeline.
package grid

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/agroclim/cropgrid/internal/model"
)

// Grid is a regular 2-D numeric grid with named coordinate axes. Values are
// stored lon-major: the cell at (Lon[i], Lat[j]) is values[i*len(Lat)+j].
// Cells equal to the declared missing marker (or NaN) are missing.
type Grid struct {
	Name string // source variable name

	Lon []float64
	Lat []float64

	values []float64

	missing    float64
	hasMissing bool
}

// New builds a Grid from lon-major values. The value count must match the
// axis lengths; a mismatch is a malformed-grid configuration error.
func New(name string, lon, lat, values []float64) (*Grid, error) {
	if len(lon) == 0 || len(lat) == 0 {
		return nil, eris.Errorf("grid: %s: empty axis (lon=%d lat=%d)", name, len(lon), len(lat))
	}
	if len(values) != len(lon)*len(lat) {
		return nil, eris.Errorf("grid: %s: %d values for %d×%d axes",
			name, len(values), len(lon), len(lat))
	}
	return &Grid{Name: name, Lon: lon, Lat: lat, values: values}, nil
}

// SetMissing declares the marker value used for missing cells.
func (g *Grid) SetMissing(marker float64) {
	g.missing = marker
	g.hasMissing = true
}

// At returns the value at lon index i, lat index j, and whether it is missing.
func (g *Grid) At(i, j int) (float64, bool) {
	v := g.values[i*len(g.Lat)+j]
	if math.IsNaN(v) || (g.hasMissing && v == g.missing) {
		return math.NaN(), true
	}
	return v, false
}

// Flatten converts the grid into one GridPoint per cell, labeled with the
// given year. Order is deterministic (lon-major, then lat), and missing cells
// are kept so that area computation still covers them.
func Flatten(g *Grid, year int) []model.GridPoint {
	points := make([]model.GridPoint, 0, len(g.Lon)*len(g.Lat))
	for i, lon := range g.Lon {
		for j, lat := range g.Lat {
			v, missing := g.At(i, j)
			points = append(points, model.GridPoint{
				Longitude: lon,
				Latitude:  lat,
				Value:     v,
				Missing:   missing,
				Year:      year,
			})
		}
	}
	return points
}
