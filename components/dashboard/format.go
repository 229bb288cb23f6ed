package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

var millNames = []string{"", " K", " M", " B", " T"}

// Millify abbreviates n for display ("1500" -> "2 K", "2500000" -> "2 M").
// It only formats; callers keep the raw value.
func Millify(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "-"
	}
	idx := 0
	if n != 0 {
		idx = int(math.Floor(math.Log10(math.Abs(n)) / 3))
	}
	idx = max(0, min(len(millNames)-1, idx))
	return fmt.Sprintf("%.0f%s", n/math.Pow(10, float64(3*idx)), millNames[idx])
}

// MonthKey encodes t as the YYYYMM integer used by finance exports.
func MonthKey(t time.Time) int {
	return t.Year()*100 + int(t.Month())
}

// Percent formats a ratio in [0,1] as a whole percentage.
func Percent(ratio float64) string {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return "-"
	}
	return strconv.FormatFloat(ratio*100, 'f', 0, 64) + "%"
}

// formatCell renders a table cell; floats with a fractional part keep two decimals.
func formatCell(v any) string {
	switch val := v.(type) {
	case float64:
		if val == math.Trunc(val) {
			return strconv.FormatFloat(val, 'f', 0, 64)
		}
		return strconv.FormatFloat(val, 'f', 2, 64)
	default:
		return FormatValue(v)
	}
}
