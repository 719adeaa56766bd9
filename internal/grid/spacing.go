package grid

// AxisSpacing returns the angular distance from axis[i] to its neighbor,
// using the forward difference where one exists and falling back to the
// backward difference at the trailing edge of the axis. The second return is
// false only for a degenerate axis (fewer than two coordinates), where no
// neighbor exists in either direction and the spacing is undefined.
func AxisSpacing(axis []float64, i int) (float64, bool) {
	if len(axis) < 2 {
		return 0, false
	}
	if i+1 < len(axis) {
		return axis[i+1] - axis[i], true
	}
	return axis[i] - axis[i-1], true
}
