// Package boundary loads the static administrative boundary dataset and
// resolves coordinates to their owning country and continent.
package boundary

import (
	"strings"

	"github.com/ctessum/geom"
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Options names the DBF attributes carrying the two resolvable properties of
// each polygon. Defaults match Natural Earth admin-0 layers.
type Options struct {
	CountryField   string // default "ADMIN"
	ContinentField string // default "CONTINENT"
}

// Region is one administrative polygon with its entity attributes.
type Region struct {
	Country   string
	Continent string
	Geom      geom.Polygonal
}

// LoadShapefile reads country polygons and their attributes from a shapefile.
// Records without usable geometry or a country name are skipped; an unreadable
// file or missing attribute column is a configuration error.
func LoadShapefile(path string, opts Options) ([]Region, error) {
	if opts.CountryField == "" {
		opts.CountryField = "ADMIN"
	}
	if opts.ContinentField == "" {
		opts.ContinentField = "CONTINENT"
	}

	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	// Build field name → index map.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	countryIdx, ok := fieldIdx[strings.ToLower(opts.CountryField)]
	if !ok {
		return nil, eris.Errorf("boundary: shapefile %s has no %q attribute", path, opts.CountryField)
	}
	continentIdx, ok := fieldIdx[strings.ToLower(opts.ContinentField)]
	if !ok {
		return nil, eris.Errorf("boundary: shapefile %s has no %q attribute", path, opts.ContinentField)
	}

	var regions []Region
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		poly, ok := shape.(*shp.Polygon)
		if !ok || poly == nil {
			skipped++
			continue
		}
		g := polygonGeom(poly)
		if g == nil {
			skipped++
			continue
		}

		country := cleanAttr(reader.Attribute(countryIdx))
		if country == "" {
			skipped++
			continue
		}

		regions = append(regions, Region{
			Country:   country,
			Continent: cleanAttr(reader.Attribute(continentIdx)),
			Geom:      g,
		})
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	if len(regions) == 0 {
		return nil, eris.Errorf("boundary: shapefile %s contains no usable polygons", path)
	}

	return regions, nil
}

// polygonGeom converts a shapefile polygon (with its ring parts) to a
// geom.Polygon. Returns nil for degenerate shapes.
func polygonGeom(p *shp.Polygon) geom.Polygonal {
	if p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	poly := make(geom.Polygon, 0, p.NumParts)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		path := make([]geom.Point, 0, end-start)
		for j := start; j < end; j++ {
			path = append(path, geom.Point{X: p.Points[j].X, Y: p.Points[j].Y})
		}
		if len(path) < 3 {
			continue
		}
		poly = append(poly, path)
	}

	if len(poly) == 0 {
		return nil
	}
	return poly
}

func cleanAttr(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}
