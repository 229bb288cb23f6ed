package dashboard

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Record is a single CRM row keyed by column name.
type Record map[string]any

// Table is an ordered sequence of records sharing a schema.
type Table []Record

// Len returns the number of records.
func (t Table) Len() int { return len(t) }

// Empty reports whether the table has no records.
func (t Table) Empty() bool { return len(t) == 0 }

// Column returns the raw values stored under field, one per record.
func (t Table) Column(field string) []any {
	out := make([]any, len(t))
	for i, rec := range t {
		out[i] = rec[field]
	}
	return out
}

// Floats returns field coerced to float64 for every record.
func (t Table) Floats(field string) []float64 {
	out := make([]float64, len(t))
	for i, rec := range t {
		out[i] = float64Value(rec[field])
	}
	return out
}

// Strings returns field formatted as text for every record.
func (t Table) Strings(field string) []string {
	out := make([]string, len(t))
	for i, rec := range t {
		out[i] = FormatValue(rec[field])
	}
	return out
}

// Distinct returns the distinct formatted values of field in first-seen order.
func (t Table) Distinct(field string) []string {
	seen := make(map[string]struct{}, len(t))
	var out []string
	for _, rec := range t {
		key := FormatValue(rec[field])
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

// String returns the formatted value stored under field.
func (r Record) String(field string) string {
	return FormatValue(r[field])
}

// Float returns the value stored under field as float64 (zero when not numeric).
func (r Record) Float(field string) float64 {
	return float64Value(r[field])
}

// Bool returns the value stored under field interpreted as a flag.
func (r Record) Bool(field string) bool {
	return boolValue(r[field])
}

// Time returns the value stored under field as a time, if it holds one.
func (r Record) Time(field string) (time.Time, bool) {
	return timeValue(r[field])
}

// FormatValue renders a scalar the way tables and filters compare it.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.DateOnly)
	case json.Number:
		return val.String()
	default:
		if s, ok := v.(interface{ String() string }); ok {
			return s.String()
		}
		return ""
	}
}

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func float64Value(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case bool:
		if val {
			return 1
		}
		return 0
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return f
		}
	}
	return 0
}

func boolValue(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.EqualFold(val, "true") || val == "1"
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return false
	}
}

func timeValue(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, !val.IsZero()
	case string:
		for _, layout := range []string{time.DateOnly, time.RFC3339, "2006-01-02T15:04:05.000-0700"} {
			if t, err := time.Parse(layout, val); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func isNumeric(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64, json.Number:
		return true
	default:
		return false
	}
}

// compareValues orders numbers numerically, times chronologically and
// everything else by its formatted text.
func compareValues(a, b any) int {
	if isNumeric(a) && isNumeric(b) {
		fa, fb := float64Value(a), float64Value(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(FormatValue(a), FormatValue(b))
}
