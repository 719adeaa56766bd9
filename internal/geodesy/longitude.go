// Package geodesy provides coordinate normalization and ellipsoidal earth
// geometry used to attribute ground area to grid cells.
package geodesy

import "math"

// NormalizeLongitude maps a longitude in any convention to the signed
// [-180, 180) convention using a floored modulo, so the result is total over
// all real inputs and periodic with period 360:
//
//	NormalizeLongitude(0)      == 0
//	NormalizeLongitude(180)    == -180
//	NormalizeLongitude(359.75) == -0.25
func NormalizeLongitude(lon float64) float64 {
	m := math.Mod(lon+180, 360)
	if m < 0 {
		m += 360
	}
	return m - 180
}
