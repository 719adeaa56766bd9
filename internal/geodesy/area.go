package geodesy

import "math"

const (
	degToRad = math.Pi / 180
	m2ToHa   = 1e-4
)

// CellAreaHa returns the ground area, in hectares, represented by a grid
// point at the given geodetic latitude (degrees) whose angular spacing to its
// neighbors is lonDiffDeg × latDiffDeg (degrees, sign-insensitive).
//
// The longitudinal span shrinks with meridian convergence (cos latitude);
// the latitudinal span does not. Both scale with the local ellipsoid radius.
func CellAreaHa(latDeg, lonDiffDeg, latDiffDeg float64) float64 {
	r := RadiusAt(latDeg)
	lonMeters := math.Abs(lonDiffDeg) * degToRad * r * math.Cos(latDeg*degToRad)
	latMeters := math.Abs(latDiffDeg) * degToRad * r
	return lonMeters * latMeters * m2ToHa
}
