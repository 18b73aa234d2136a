package interpreter

import (
	"math"
	"strconv"
)

// intTolerance is how close a value must be to its nearest integer to print
// without a decimal point.
const intTolerance = 1e-9

// FormatNumber renders a value the way print does: near-integers print as
// integers, everything else with 12 significant digits. Non-finite values
// fall through to strconv's rendering (+Inf, -Inf, NaN).
func FormatNumber(v float64) string {
	r := math.Round(v)
	// The magnitude guard keeps the int64 conversion in range; beyond it
	// the general format is used.
	if math.Abs(v-r) < intTolerance && math.Abs(r) < 9.2e18 {
		return strconv.FormatInt(int64(r), 10)
	}
	return strconv.FormatFloat(v, 'g', 12, 64)
}
