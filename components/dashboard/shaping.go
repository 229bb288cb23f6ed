package dashboard

import (
	"cmp"
	"math"
	"slices"
	"time"
	"unicode/utf8"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MaxProjectedTextLength bounds string cells produced by TopN.
const MaxProjectedTextLength = 30

// Period selects the resampling bucket used by Bucket.
type Period string

const (
	PeriodDay   Period = "D"
	PeriodWeek  Period = "W"
	PeriodMonth Period = "M"
)

// FilterByDimension keeps records whose field equals value. The wildcard value
// disables the filter and returns table unchanged.
func FilterByDimension(table Table, field, value, wildcard string) Table {
	if value == wildcard {
		return table
	}
	return FilterEquals(table, field, value)
}

// FilterEquals keeps records whose formatted field value equals value.
func FilterEquals(table Table, field, value string) Table {
	return Filter(table, func(rec Record) bool {
		return FormatValue(rec[field]) == value
	})
}

// Filter keeps records matching keep. The result never aliases table's backing array.
func Filter(table Table, keep func(Record) bool) Table {
	out := make(Table, 0, len(table))
	for _, rec := range table {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// AggregateByPeriod groups records by periodField and sums every value field
// per group. Groups are returned ascending by period.
func AggregateByPeriod(table Table, periodField string, valueFields ...string) Table {
	if len(table) == 0 {
		return Table{}
	}
	type group struct {
		period any
		values map[string][]float64
	}
	index := map[string]*group{}
	var order []*group
	for _, rec := range table {
		key := FormatValue(rec[periodField])
		g, ok := index[key]
		if !ok {
			g = &group{period: rec[periodField], values: make(map[string][]float64, len(valueFields))}
			index[key] = g
			order = append(order, g)
		}
		for _, field := range valueFields {
			g.values[field] = append(g.values[field], float64Value(rec[field]))
		}
	}
	slices.SortStableFunc(order, func(a, b *group) int {
		return compareValues(a.period, b.period)
	})
	out := make(Table, 0, len(order))
	for _, g := range order {
		rec := Record{periodField: g.period}
		for _, field := range valueFields {
			rec[field] = floats.Sum(g.values[field])
		}
		out = append(out, rec)
	}
	return out
}

// TopNOptions configures TopN.
type TopNOptions struct {
	SortField string
	N         int
	Ascending bool
	// Fields projects the result; empty keeps every column.
	Fields []string
	// Filter runs before sorting when set.
	Filter func(Record) bool
}

// TopN sorts table by SortField, keeps the first N records and projects them
// onto Fields. String cells are cut to MaxProjectedTextLength characters.
func TopN(table Table, opts TopNOptions) Table {
	if opts.N <= 0 || len(table) == 0 {
		return Table{}
	}
	rows := table
	if opts.Filter != nil {
		rows = Filter(rows, opts.Filter)
	} else {
		rows = slices.Clone(rows)
	}
	slices.SortStableFunc(rows, func(a, b Record) int {
		c := compareValues(a[opts.SortField], b[opts.SortField])
		if opts.Ascending {
			return c
		}
		return -c
	})
	if len(rows) > opts.N {
		rows = rows[:opts.N]
	}
	out := make(Table, len(rows))
	for i, rec := range rows {
		out[i] = project(rec, opts.Fields)
	}
	return out
}

func project(rec Record, fields []string) Record {
	out := make(Record, max(len(fields), len(rec)))
	if len(fields) == 0 {
		for k, v := range rec {
			out[k] = truncateValue(v)
		}
		return out
	}
	for _, field := range fields {
		out[field] = truncateValue(rec[field])
	}
	return out
}

func truncateValue(v any) any {
	s, ok := v.(string)
	if !ok || utf8.RuneCountInString(s) <= MaxProjectedTextLength {
		return v
	}
	return string([]rune(s)[:MaxProjectedTextLength])
}

// HeatMapOptions selects the axes and the averaged column of a heat map.
type HeatMapOptions struct {
	XField      string
	YField      string
	ValueField  string
	XCategories []string
	YCategories []string
}

// HeatMap is a row-major matrix: Z[y][x] holds the mean for (YCategories[y], XCategories[x]).
type HeatMap struct {
	X []string
	Y []string
	Z [][]float64
}

// HeatMapMatrix averages ValueField for every (y, x) category pair. Pairs
// without matching records hold NaN.
func HeatMapMatrix(table Table, opts HeatMapOptions) HeatMap {
	cells := make(map[[2]string][]float64)
	for _, rec := range table {
		key := [2]string{FormatValue(rec[opts.YField]), FormatValue(rec[opts.XField])}
		cells[key] = append(cells[key], float64Value(rec[opts.ValueField]))
	}
	z := make([][]float64, len(opts.YCategories))
	for yi, y := range opts.YCategories {
		row := make([]float64, len(opts.XCategories))
		for xi, x := range opts.XCategories {
			row[xi] = mean(cells[[2]string{y, x}])
		}
		z[yi] = row
	}
	return HeatMap{
		X: slices.Clone(opts.XCategories),
		Y: slices.Clone(opts.YCategories),
		Z: z,
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// Bucket derives a period key from dateField into outField so the result can
// be resampled with AggregateByPeriod. Records without a date are dropped.
func Bucket(table Table, dateField string, period Period, outField string) Table {
	out := make(Table, 0, len(table))
	for _, rec := range table {
		t, ok := rec.Time(dateField)
		if !ok {
			continue
		}
		next := make(Record, len(rec)+1)
		for k, v := range rec {
			next[k] = v
		}
		next[outField] = PeriodKey(t, period)
		out = append(out, next)
	}
	return out
}

// PeriodKey formats t into a lexically sortable bucket label.
func PeriodKey(t time.Time, period Period) string {
	switch period {
	case PeriodMonth:
		return t.Format("2006-01")
	case PeriodWeek:
		offset := (int(t.Weekday()) + 6) % 7
		return t.AddDate(0, 0, -offset).Format(time.DateOnly)
	default:
		return t.Format(time.DateOnly)
	}
}

// Columns produced by CountByPeriod.
const (
	PeriodField = "Period"
	CountField  = "Count"
)

// CountByPeriod counts records per period of dateField. The result holds one
// {Period, Count} record per bucket, ascending.
func CountByPeriod(table Table, dateField string, period Period) Table {
	bucketed := Bucket(table, dateField, period, PeriodField)
	for _, rec := range bucketed {
		// Bucket returns copies, so the source records stay untouched.
		rec[CountField] = 1.0
	}
	return AggregateByPeriod(bucketed, PeriodField, CountField)
}

// Group is a labelled record count.
type Group struct {
	Label string
	Count int
}

// CountBy counts records per distinct field value, largest groups first.
func CountBy(table Table, field string) []Group {
	counts := map[string]int{}
	for _, rec := range table {
		counts[FormatValue(rec[field])]++
	}
	out := make([]Group, 0, len(counts))
	for label, count := range counts {
		out = append(out, Group{Label: label, Count: count})
	}
	slices.SortFunc(out, func(a, b Group) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}

// Count returns how many records satisfy match.
func Count(table Table, match func(Record) bool) int {
	n := 0
	for _, rec := range table {
		if match(rec) {
			n++
		}
	}
	return n
}

// Sum adds field across all records.
func Sum(table Table, field string) float64 {
	return floats.Sum(table.Floats(field))
}
