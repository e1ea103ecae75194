package hcahps

import (
	"math"
	"strconv"
)

// FormatValue renders a score rounded to two decimals. Missing values render
// as an empty cell.
func FormatValue(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return ""
	}
	r := math.Round(*v*100) / 100
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// FormatSigned is FormatValue with an explicit "+" on positive values.
func FormatSigned(v *float64) string {
	s := FormatValue(v)
	if s != "" && Classify(v) == Positive && s != "0" {
		return "+" + s
	}
	return s
}

// Float returns a pointer to v. It is a convenience for building records.
func Float(v float64) *float64 { return &v }
