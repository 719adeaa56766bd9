package boundary

import (
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// Entity is the resolution result for one coordinate. Country and Continent
// are empty when the point falls in no known polygon (ocean, ice sheet,
// unmapped territory).
type Entity struct {
	Country   string
	Continent string
}

// Resolved reports whether the point fell inside a known polygon.
func (e Entity) Resolved() bool { return e.Country != "" }

// Resolver answers point-in-polygon lookups against a fixed polygon set.
// The spatial index is built once and is immutable afterwards, so a single
// Resolver is safe for concurrent use by any number of readers.
type Resolver struct {
	tree *rtree.Rtree
}

type indexedRegion struct {
	geom.Polygonal
	country   string
	continent string
}

// NewResolver builds an R-tree over the region polygons.
func NewResolver(regions []Region) *Resolver {
	tree := rtree.NewTree(25, 50)
	for _, r := range regions {
		tree.Insert(&indexedRegion{
			Polygonal: r.Geom,
			country:   r.Country,
			continent: r.Continent,
		})
	}
	return &Resolver{tree: tree}
}

// Resolve returns the owning country and continent for a signed-longitude
// coordinate. Deterministic: candidate polygons are tested in index order and
// the same coordinate always yields the same entity.
func (r *Resolver) Resolve(lon180, lat float64) Entity {
	p := geom.Point{X: lon180, Y: lat}
	bounds := &geom.Bounds{Min: p, Max: p}

	for _, candidate := range r.tree.SearchIntersect(bounds) {
		region := candidate.(*indexedRegion)
		if w := p.Within(region.Polygonal); w == geom.Inside || w == geom.OnEdge {
			return Entity{Country: region.country, Continent: region.continent}
		}
	}
	return Entity{}
}

// ResolveBatch resolves many coordinates in one call, amortizing index reuse
// across a whole year's grid. lons and lats must have equal length.
func (r *Resolver) ResolveBatch(lons, lats []float64) []Entity {
	out := make([]Entity, len(lons))
	for i := range lons {
		out[i] = r.Resolve(lons[i], lats[i])
	}
	return out
}
