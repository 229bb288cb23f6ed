package dashboard

import (
	"math"
	"strconv"
)

// NoResultsText is the annotation shown when a pipeline yields no records.
const NoResultsText = "No results found"

// Series types understood by the chart renderer.
const (
	SeriesBar     = "bar"
	SeriesLine    = "line"
	SeriesPie     = "pie"
	SeriesHeatMap = "heatmap"
)

// Number is a chart value. NaN and infinities encode as JSON null so the
// client draws a gap.
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'f', -1, 64), nil
}

// Valid reports whether n is a finite value.
func (n Number) Valid() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ChartSpec is a declarative chart: series plus layout metadata.
type ChartSpec struct {
	Data   []Series    `json:"data"`
	Layout ChartLayout `json:"layout"`
}

// Series describes one trace of a chart.
type Series struct {
	Type   string     `json:"type"`
	Name   string     `json:"name,omitempty"`
	X      []string   `json:"x,omitempty"`
	Y      []Number   `json:"y,omitempty"`
	Labels []string   `json:"labels,omitempty"`
	Values []Number   `json:"values,omitempty"`
	Z      [][]Number `json:"z,omitempty"`
	// Categories holds the heat map rows (the y axis of a heatmap trace).
	Categories []string `json:"categories,omitempty"`
	Color      string   `json:"color,omitempty"`
	Colorscale string   `json:"colorscale,omitempty"`
}

// ChartLayout carries layout hints shared by every renderer.
type ChartLayout struct {
	Autosize    bool         `json:"autosize"`
	Title       string       `json:"title,omitempty"`
	ShowLegend  bool         `json:"showlegend,omitempty"`
	Legend      *Legend      `json:"legend,omitempty"`
	Margin      *Margin      `json:"margin,omitempty"`
	XAxis       *Axis        `json:"xaxis,omitempty"`
	YAxis       *Axis        `json:"yaxis,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Legend positions the series legend.
type Legend struct {
	Orientation string  `json:"orientation,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	XAnchor     string  `json:"xanchor,omitempty"`
	YAnchor     string  `json:"yanchor,omitempty"`
}

// Margin is expressed in pixels.
type Margin struct {
	L   int `json:"l"`
	R   int `json:"r"`
	T   int `json:"t"`
	B   int `json:"b"`
	Pad int `json:"pad,omitempty"`
}

// Axis toggles axis decorations.
type Axis struct {
	ShowGrid bool   `json:"showgrid"`
	Title    string `json:"title,omitempty"`
}

// Annotation is free text placed on the chart canvas.
type Annotation struct {
	Text      string  `json:"text"`
	ShowArrow bool    `json:"showarrow"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XRef      string  `json:"xref,omitempty"`
	YRef      string  `json:"yref,omitempty"`
}

// NoResultsChart is the placeholder rendered for empty pipelines: no series
// and one annotation centered on the canvas.
func NoResultsChart() ChartSpec {
	return ChartSpec{
		Data: []Series{},
		Layout: ChartLayout{
			Autosize: true,
			Annotations: []Annotation{{
				Text:      NoResultsText,
				ShowArrow: false,
				X:         0.5,
				Y:         0.5,
				XRef:      "paper",
				YRef:      "paper",
			}},
		},
	}
}

// IsNoResults reports whether spec is the empty placeholder.
func (spec ChartSpec) IsNoResults() bool {
	return len(spec.Data) == 0 &&
		len(spec.Layout.Annotations) == 1 &&
		spec.Layout.Annotations[0].Text == NoResultsText
}

// TableSpec is a rendered table region.
type TableSpec struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// OutputKind names the payload carried by an Output.
type OutputKind string

const (
	OutputChart     OutputKind = "chart"
	OutputIndicator OutputKind = "indicator"
	OutputTable     OutputKind = "table"
)

// Output is the payload published to an output region.
type Output struct {
	Kind  OutputKind `json:"kind"`
	Chart *ChartSpec `json:"chart,omitempty"`
	Table *TableSpec `json:"table,omitempty"`
	Text  string     `json:"text,omitempty"`
}

// ChartOutput wraps a chart spec.
func ChartOutput(spec ChartSpec) Output {
	return Output{Kind: OutputChart, Chart: &spec}
}

// IndicatorOutput wraps a formatted scalar.
func IndicatorOutput(text string) Output {
	return Output{Kind: OutputIndicator, Text: text}
}

// TableOutput wraps a table.
func TableOutput(spec TableSpec) Output {
	return Output{Kind: OutputTable, Table: &spec}
}

func numbers(values []float64) []Number {
	out := make([]Number, len(values))
	for i, v := range values {
		out[i] = Number(v)
	}
	return out
}

func matrix(values [][]float64) [][]Number {
	out := make([][]Number, len(values))
	for i, row := range values {
		out[i] = numbers(row)
	}
	return out
}
