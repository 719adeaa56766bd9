// Package ingest turns raw yield grids into resolved, persisted records.
package ingest

import (
	"github.com/agroclim/cropgrid/internal/boundary"
	"github.com/agroclim/cropgrid/internal/geodesy"
	"github.com/agroclim/cropgrid/internal/grid"
	"github.com/agroclim/cropgrid/internal/model"
)

// BuildYear runs the per-year transform: flatten the grid, normalize
// longitudes, compute cell ground areas, and resolve each point to a country
// and continent. The output order follows grid.Flatten (longitude-major), so
// repeated runs over the same input produce identical slices.
//
// Points that fail resolution or lack a measurement are kept (they still carry
// area and coordinates); only the stats record how many were degraded.
func BuildYear(g *grid.Grid, year int, resolver *boundary.Resolver) ([]model.ResolvedPoint, model.IngestStats) {
	points := grid.Flatten(g, year)
	nLat := len(g.Lat)

	resolved := make([]model.ResolvedPoint, 0, len(points))
	lons := make([]float64, len(points))
	lats := make([]float64, len(points))

	for idx, p := range points {
		lons[idx] = geodesy.NormalizeLongitude(p.Longitude)
		lats[idx] = p.Latitude
	}
	entities := resolver.ResolveBatch(lons, lats)

	var stats model.IngestStats
	for idx, p := range points {
		i := idx / nLat // longitude index
		j := idx % nLat // latitude index

		rp := model.ResolvedPoint{
			Lon180:   lons[idx],
			Latitude: p.Latitude,
			Value:    p.Value,
			Missing:  p.Missing,
			Year:     year,
		}

		lonStep, lonOK := grid.AxisSpacing(g.Lon, i)
		latStep, latOK := grid.AxisSpacing(g.Lat, j)
		if lonOK && latOK {
			rp.AreaHa = geodesy.CellAreaHa(p.Latitude, lonStep, latStep)
			rp.AreaKnown = true
		}

		ent := entities[idx]
		rp.Country = ent.Country
		rp.Continent = ent.Continent

		stats.Points++
		if !ent.Resolved() {
			stats.Unresolved++
		}
		if p.Missing {
			stats.MissingYield++
		}
		if !rp.AreaKnown {
			stats.MissingArea++
		}

		resolved = append(resolved, rp)
	}

	return resolved, stats
}

// Records converts resolved points to their persisted form, dropping points
// whose cell area could not be computed. A row without area would poison every
// downstream weighted aggregate, so a degenerate axis excludes its points from
// storage while the run stats still count them.
func Records(points []model.ResolvedPoint) []model.YieldRecord {
	records := make([]model.YieldRecord, 0, len(points))
	for _, p := range points {
		if !p.AreaKnown {
			continue
		}
		records = append(records, p.ToRecord())
	}
	return records
}
