package geodesy

import "math"

// WGS84 ellipsoid parameters.
const (
	SemiMajorM = 6378137.0    // equatorial radius, meters
	SemiMinorM = 6356752.3142 // polar radius, meters
)

// eccentricity2 is the squared first eccentricity, 1 - (b/a)².
var eccentricity2 = 1 - (SemiMinorM/SemiMajorM)*(SemiMinorM/SemiMajorM)

// RadiusAt returns the distance in meters from the WGS84 ellipsoid center to
// the surface at the given geodetic latitude (degrees). The geodetic latitude
// is first converted to geocentric latitude; the result is always within
// [SemiMinorM, SemiMajorM] and symmetric about the equator.
func RadiusAt(latDeg float64) float64 {
	latRad := latDeg * math.Pi / 180
	// Geocentric latitude. Tan(±90°) overflows to ±Inf; Atan maps it back to
	// ±90°, so the poles stay numerically stable.
	latGC := math.Atan((1 - eccentricity2) * math.Tan(latRad))
	cosGC := math.Cos(latGC)
	return SemiMajorM * math.Sqrt(1-eccentricity2) /
		math.Sqrt(1-eccentricity2*cosGC*cosGC)
}
