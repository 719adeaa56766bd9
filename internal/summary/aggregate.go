// Package summary derives entity-and-year keyed statistics from the
// point-level yield dataset.
package summary

import (
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/agroclim/cropgrid/internal/demographics"
	"github.com/agroclim/cropgrid/internal/model"
)

// YearRange is an inclusive ingestion year span.
type YearRange struct {
	From int
	To   int
}

// Contains reports whether the year falls inside the range. A zero bound is
// open on that side, so {From: 1999} matches every year from 1999 on.
func (r YearRange) Contains(year int) bool {
	if r.From != 0 && year < r.From {
		return false
	}
	if r.To != 0 && year > r.To {
		return false
	}
	return true
}

type groupKey struct {
	year    int
	country string
}

// Summarize aggregates yield records into one SummaryRecord per
// (year, country). Points without a resolved country are excluded. Missing
// yields are substituted with zero — the stated domain assumption that an
// unmeasured cropped cell produced nothing — and the area-weighted mean uses
// the same zero-filled values as the production sum, so the two stay
// mutually consistent. Output is deterministic: groups are sorted by year
// then country, and each group's continent comes from its first member under
// a (lon_180, lat) ascending sort.
func Summarize(records []model.YieldRecord, years YearRange) []model.SummaryRecord {
	groups := make(map[groupKey][]model.YieldRecord)
	for _, rec := range records {
		if rec.Country == "" || !years.Contains(rec.Year) {
			continue
		}
		k := groupKey{rec.Year, rec.Country}
		groups[k] = append(groups[k], rec)
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].country < keys[j].country
	})

	out := make([]model.SummaryRecord, 0, len(keys))
	for _, k := range keys {
		out = append(out, summarizeGroup(k, groups[k]))
	}
	return out
}

func summarizeGroup(k groupKey, members []model.YieldRecord) model.SummaryRecord {
	sort.Slice(members, func(i, j int) bool {
		if members[i].Lon180 != members[j].Lon180 {
			return members[i].Lon180 < members[j].Lon180
		}
		return members[i].Lat < members[j].Lat
	})

	yields := make([]float64, len(members))
	areas := make([]float64, len(members))
	var sumYield, area float64
	for i, m := range members {
		y := m.YieldOrZero()
		yields[i] = y
		areas[i] = m.AreaHa
		sumYield += y * m.AreaHa
		area += m.AreaHa
	}

	var perArea float64
	if area > 0 {
		perArea = stat.Mean(yields, areas)
	}

	return model.SummaryRecord{
		Year:         k.year,
		Country:      k.country,
		Continent:    members[0].Continent,
		YieldPerArea: perArea,
		SumYield:     sumYield,
		CountryArea:  area,
	}
}

// Vocabulary returns the distinct resolved country names in the yield
// dataset, sorted. Used to diagnose demographic names that fail to join.
func Vocabulary(records []model.YieldRecord) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		if rec.Country != "" {
			seen[rec.Country] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Join matches summaries with demographic rows by (canonical country, year).
// Demographic rows whose canonical name matches no summary are excluded from
// the joined view; the pure yield summary is unaffected by join gaps. When two
// source spellings canonicalize to the same key, the lexicographically
// smallest raw spelling wins regardless of input order.
func Join(summaries []model.SummaryRecord, demo []model.DemographicRecord, rec *demographics.Reconciler) []model.JoinedRecord {
	type key struct {
		country string
		year    int
	}
	demoByKey := make(map[key]model.DemographicRecord, len(demo))
	for _, d := range demo {
		k := key{rec.Canonicalize(d.Country), d.Year}
		if prev, ok := demoByKey[k]; ok {
			kept, dropped := prev, d
			if d.Country < prev.Country {
				kept, dropped = d, prev
			}
			zap.L().Debug("demographic alias collision",
				zap.String("country", k.country),
				zap.Int("year", k.year),
				zap.String("kept", kept.Country),
				zap.String("dropped", dropped.Country),
			)
			demoByKey[k] = kept
			continue
		}
		demoByKey[k] = d
	}

	var out []model.JoinedRecord
	for _, s := range summaries {
		d, ok := demoByKey[key{s.Country, s.Year}]
		if !ok {
			continue
		}
		out = append(out, model.JoinedRecord{SummaryRecord: s, Demographics: d})
	}
	return out
}
