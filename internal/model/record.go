// Package model defines the core data types shared across the pipeline.
package model

import "math"

// GridPoint is one raw grid cell observation before entity resolution.
// Longitude uses the source's 0–360 convention; Value is NaN when Missing.
type GridPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Value     float64 `json:"value"`
	Missing   bool    `json:"missing"`
	Year      int     `json:"year"`
}

// ResolvedPoint is a GridPoint after longitude normalization, area
// computation, and country/continent resolution. Country and Continent are
// empty when the point falls outside every known administrative polygon.
// AreaHa is always computable for a regular grid; AreaKnown is false only
// when an axis of the grid is degenerate (no neighbor in either direction).
type ResolvedPoint struct {
	Lon180    float64 `json:"lon_180"`
	Latitude  float64 `json:"lat"`
	Value     float64 `json:"value"`
	Missing   bool    `json:"missing"`
	Year      int     `json:"year"`
	Country   string  `json:"country,omitempty"`
	Continent string  `json:"continent,omitempty"`
	AreaHa    float64 `json:"area_ha"`
	AreaKnown bool    `json:"area_known"`
}

// YieldRecord is the persisted form of a ResolvedPoint.
// Primary key: (Lon180, Lat, Year); re-ingestion upserts, never duplicates.
type YieldRecord struct {
	Lon180    float64  `json:"lon_180"`
	Lat       float64  `json:"lat"`
	Yield     *float64 `json:"yield"` // nil = missing measurement
	Year      int      `json:"year"`
	Country   string   `json:"country,omitempty"`
	Continent string   `json:"continent,omitempty"`
	AreaHa    float64  `json:"area_ha"`
}

// DemographicRecord holds one country-year of national indicators.
// Primary key: (Country, Year). Country is the raw source spelling; it must
// pass through the reconciler before joining against yield data.
type DemographicRecord struct {
	Country    string   `json:"country"`
	Year       int      `json:"year"`
	Population *float64 `json:"population"`
	GDP        *float64 `json:"gdp"`
	Income     *float64 `json:"income"`
	Export     *float64 `json:"export"`
	Import     *float64 `json:"import"`
}

// SummaryRecord is one (year, country) aggregate derived from YieldRecords.
// SumYield treats missing yield as zero production; YieldPerArea is the
// area-weighted mean over the same zero-filled values, so for groups with no
// missing yields it equals SumYield / CountryArea.
type SummaryRecord struct {
	Year         int     `json:"year"`
	Country      string  `json:"country"`
	Continent    string  `json:"continent"`
	YieldPerArea float64 `json:"yield_per_area"`
	SumYield     float64 `json:"sum_yield"`
	CountryArea  float64 `json:"country_area"`
}

// JoinedRecord is a SummaryRecord with its matching demographic row.
type JoinedRecord struct {
	SummaryRecord
	Demographics DemographicRecord `json:"demographics"`
}

// ToRecord converts a ResolvedPoint to its persisted form.
func (p ResolvedPoint) ToRecord() YieldRecord {
	r := YieldRecord{
		Lon180:    p.Lon180,
		Lat:       p.Latitude,
		Year:      p.Year,
		Country:   p.Country,
		Continent: p.Continent,
		AreaHa:    p.AreaHa,
	}
	if !p.Missing && !math.IsNaN(p.Value) {
		v := p.Value
		r.Yield = &v
	}
	return r
}

// YieldOrZero returns the measured yield, substituting zero for a missing
// measurement. The zero-fill is the stated domain assumption for
// aggregation: an unmeasured cell contributes no production.
func (r YieldRecord) YieldOrZero() float64 {
	if r.Yield == nil {
		return 0
	}
	return *r.Yield
}
