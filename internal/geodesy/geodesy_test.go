package geodesy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLongitude_Boundaries(t *testing.T) {
	// Literal boundary values derived from the floored-modulo formula
	// ((lon+180) mod 360) - 180.
	assert.Equal(t, 0.0, NormalizeLongitude(0))
	assert.Equal(t, -180.0, NormalizeLongitude(180))
	assert.Equal(t, -0.25, NormalizeLongitude(359.75))
	assert.Equal(t, -180.0, NormalizeLongitude(540))
	assert.Equal(t, 179.75, NormalizeLongitude(179.75))
}

func TestNormalizeLongitude_Range(t *testing.T) {
	for lon := 0.0; lon < 360; lon += 0.25 {
		got := NormalizeLongitude(lon)
		assert.GreaterOrEqual(t, got, -180.0, "input %v", lon)
		assert.Less(t, got, 180.0, "input %v", lon)
	}
}

func TestNormalizeLongitude_Periodic(t *testing.T) {
	for _, lon := range []float64{0, 12.5, 180, 200.25, 359.75} {
		assert.InDelta(t, NormalizeLongitude(lon), NormalizeLongitude(lon+360), 1e-12)
		assert.InDelta(t, NormalizeLongitude(lon), NormalizeLongitude(lon-360), 1e-12)
	}
}

func TestNormalizeLongitude_Bijection(t *testing.T) {
	// Distinct inputs in [0,360) must map to distinct outputs.
	seen := make(map[float64]float64)
	for lon := 0.0; lon < 360; lon += 0.5 {
		got := NormalizeLongitude(lon)
		prev, dup := seen[got]
		assert.False(t, dup, "inputs %v and %v collide at %v", prev, lon, got)
		seen[got] = lon
	}
}

func TestRadiusAt_EquatorAndPoles(t *testing.T) {
	assert.InDelta(t, SemiMajorM, RadiusAt(0), 1e-6)
	assert.InDelta(t, SemiMinorM, RadiusAt(90), 1e-3)
	assert.InDelta(t, SemiMinorM, RadiusAt(-90), 1e-3)
}

func TestRadiusAt_BoundedAndSymmetric(t *testing.T) {
	for lat := 0.0; lat <= 90; lat += 1.5 {
		r := RadiusAt(lat)
		assert.False(t, math.IsNaN(r), "lat %v", lat)
		assert.LessOrEqual(t, r, SemiMajorM+1e-9, "lat %v", lat)
		assert.GreaterOrEqual(t, r, SemiMinorM-1e-9, "lat %v", lat)
		assert.InDelta(t, r, RadiusAt(-lat), 1e-9, "lat %v", lat)
	}
}

func TestRadiusAt_Monotone(t *testing.T) {
	// Radius shrinks from equator to pole.
	prev := RadiusAt(0)
	for lat := 1.0; lat <= 90; lat++ {
		r := RadiusAt(lat)
		assert.Less(t, r, prev, "lat %v", lat)
		prev = r
	}
}

func TestCellAreaHa_KnownValue(t *testing.T) {
	// A 0.5°×0.5° cell at the equator: both spans are ~0.5° of the
	// equatorial circumference.
	span := 0.5 * math.Pi / 180 * SemiMajorM // meters
	want := span * span * 1e-4
	assert.InDelta(t, want, CellAreaHa(0, 0.5, 0.5), want*1e-9)
}

func TestCellAreaHa_NonNegative(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 7.5 {
		a := CellAreaHa(lat, 0.5, 0.5)
		assert.GreaterOrEqual(t, a, 0.0, "lat %v", lat)
	}
	// Zero only for degenerate spans.
	assert.Equal(t, 0.0, CellAreaHa(45, 0, 0.5))
	assert.Equal(t, 0.0, CellAreaHa(45, 0.5, 0))
}

func TestCellAreaHa_MonotoneInSpacing(t *testing.T) {
	base := CellAreaHa(30, 0.5, 0.5)
	assert.Greater(t, CellAreaHa(30, 1.0, 0.5), base)
	assert.Greater(t, CellAreaHa(30, 0.5, 1.0), base)
}

func TestCellAreaHa_ShrinksTowardPoles(t *testing.T) {
	assert.Greater(t, CellAreaHa(0, 0.5, 0.5), CellAreaHa(60, 0.5, 0.5))
	assert.Greater(t, CellAreaHa(60, 0.5, 0.5), CellAreaHa(89, 0.5, 0.5))
}
