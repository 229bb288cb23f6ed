package crm

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	dashboard "github.com/goliatone/go-crm-dashboard/components/dashboard"
)

// ParseCell converts exported text into the dynamic value stored in a record:
// numbers become float64, YYYY-MM-DD dates become time.Time, true/false become
// bool. Anything else stays a string.
func ParseCell(raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if f, ok := parseDecimal(s); ok {
		return f
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// parseDecimal accepts plain finite decimals only, so text such as "NaN",
// "Inf" or "0x1p4" stays a string.
func parseDecimal(s string) (float64, bool) {
	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// normalizeValue maps values decoded by drivers and codecs onto the record
// value set. Strings go through ParseCell.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return ParseCell(val)
	case []byte:
		return ParseCell(string(val))
	case int64:
		return float64(val)
	case int:
		return float64(val)
	default:
		return val
	}
}

func normalizeRecord(rec dashboard.Record) dashboard.Record {
	for k, v := range rec {
		rec[k] = normalizeValue(v)
	}
	return rec
}
