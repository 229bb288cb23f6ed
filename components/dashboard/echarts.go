package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

// gapValue is how echarts marks a missing data point.
const gapValue = "-"

var errUnsupportedSeries = errors.New("dashboard: unsupported series type")

var sharedChartCache = NewChartCache(5 * time.Minute)

// ChartRenderer turns a declarative chart spec into embeddable HTML.
type ChartRenderer interface {
	RenderChart(id string, spec ChartSpec, theme string) (string, error)
}

// EChartsRenderer renders chart specs server side with go-echarts.
type EChartsRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
	height     string
}

// EChartsOption customizes renderer behavior.
type EChartsOption func(*EChartsRenderer)

// WithChartCache injects a render cache. A nil cache disables memoization.
func WithChartCache(cache RenderCache) EChartsOption {
	return func(r *EChartsRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the default theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsOption {
	return func(r *EChartsRenderer) {
		if theme != "" {
			r.theme = theme
		}
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsOption {
	return func(r *EChartsRenderer) {
		r.assetsHost = host
	}
}

// WithChartHeight overrides the canvas height.
func WithChartHeight(height string) EChartsOption {
	return func(r *EChartsRenderer) {
		if height != "" {
			r.height = height
		}
	}
}

// NewEChartsRenderer builds a renderer with a shared five minute cache.
func NewEChartsRenderer(options ...EChartsOption) *EChartsRenderer {
	r := &EChartsRenderer{
		cache:  sharedChartCache,
		theme:  types.ThemeWesteros,
		height: defaultChartHeight,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Theme returns the default theme.
func (r *EChartsRenderer) Theme() string { return r.theme }

// RenderChart renders spec as a standalone echarts document. An empty theme
// uses the renderer default.
func (r *EChartsRenderer) RenderChart(id string, spec ChartSpec, theme string) (string, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		theme = r.theme
	}
	renderFn := func() (string, error) {
		return r.render(id, spec, theme)
	}
	if r.cache == nil {
		return renderFn()
	}
	key := fmt.Sprintf("%s:%s:%s", id, theme, specHash(spec))
	return r.cache.GetOrRender(key, renderFn)
}

func (r *EChartsRenderer) render(id string, spec ChartSpec, theme string) (string, error) {
	if spec.IsNoResults() || len(spec.Data) == 0 {
		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithInitializationOpts(r.initialization(id, theme)),
			charts.WithTitleOpts(opts.Title{Title: NoResultsText, Left: "center", Top: "middle"}),
		)
		return renderChart(bar)
	}
	switch spec.Data[0].Type {
	case SeriesPie:
		return r.renderPie(id, spec, theme)
	case SeriesHeatMap:
		return r.renderHeatMap(id, spec, theme)
	case SeriesBar, SeriesLine:
		return r.renderCartesian(id, spec, theme)
	default:
		return "", fmt.Errorf("%w: %s", errUnsupportedSeries, spec.Data[0].Type)
	}
}

// renderCartesian draws bar and line traces on a shared category axis. Line
// traces following a bar trace are overlapped onto the bar chart.
func (r *EChartsRenderer) renderCartesian(id string, spec ChartSpec, theme string) (string, error) {
	x := spec.Data[0].X
	global := r.globalOptions(id, spec.Layout, theme)
	if spec.Data[0].Type == SeriesLine {
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(x)
		for _, s := range spec.Data {
			if s.Type != SeriesLine {
				return "", fmt.Errorf("%w: %s after line", errUnsupportedSeries, s.Type)
			}
			line.AddSeries(s.Name, toLineData(s.Y))
		}
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return renderChart(line)
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(global...)
	bar.SetXAxis(x)
	for _, s := range spec.Data {
		switch s.Type {
		case SeriesBar:
			bar.AddSeries(s.Name, toBarData(s.Y))
		case SeriesLine:
			line := charts.NewLine()
			line.SetXAxis(x)
			line.AddSeries(s.Name, toLineData(s.Y))
			bar.Overlap(line)
		default:
			return "", fmt.Errorf("%w: %s", errUnsupportedSeries, s.Type)
		}
	}
	return renderChart(bar)
}

func (r *EChartsRenderer) renderPie(id string, spec ChartSpec, theme string) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalOptions(id, spec.Layout, theme)...)
	for _, s := range spec.Data {
		pie.AddSeries(s.Name, toPieData(s.Labels, s.Values))
	}
	return renderChart(pie)
}

func (r *EChartsRenderer) renderHeatMap(id string, spec ChartSpec, theme string) (string, error) {
	s := spec.Data[0]
	hm := charts.NewHeatMap()
	global := append(r.globalOptions(id, spec.Layout, theme),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: s.Categories}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        heatMapMax(s.Z),
			InRange:    &opts.VisualMapInRange{Color: []string{"#f7fbff", "#6baed6", "#08306b"}},
		}),
	)
	hm.SetGlobalOptions(global...)
	hm.SetXAxis(s.X)
	hm.AddSeries(s.Name, toHeatMapData(s.Z))
	return renderChart(hm)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *EChartsRenderer) initialization(id, theme string) opts.Initialization {
	init := opts.Initialization{
		ChartID: id,
		Theme:   theme,
		Width:   "100%",
		Height:  r.height,
	}
	if r.assetsHost != "" {
		init.AssetsHost = r.assetsHost
	}
	return init
}

func (r *EChartsRenderer) globalOptions(id string, layout ChartLayout, theme string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(r.initialization(id, theme)),
		charts.WithTitleOpts(opts.Title{Title: layout.Title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(layout.ShowLegend)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func chartValue(n Number) any {
	if !n.Valid() {
		return gapValue
	}
	return float64(n)
}

func toBarData(values []Number) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: chartValue(v)}
	}
	return data
}

func toLineData(values []Number) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: chartValue(v)}
	}
	return data
}

func toPieData(labels []string, values []Number) []opts.PieData {
	data := make([]opts.PieData, len(values))
	for i, v := range values {
		name := fmt.Sprintf("Slice %d", i+1)
		if i < len(labels) && labels[i] != "" {
			name = labels[i]
		}
		data[i] = opts.PieData{Name: name, Value: chartValue(v)}
	}
	return data
}

// toHeatMapData flattens z into [x, y, value] triples; empty cells become gaps.
func toHeatMapData(z [][]Number) []opts.HeatMapData {
	var data []opts.HeatMapData
	for y, row := range z {
		for x, v := range row {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{x, y, chartValue(v)}})
		}
	}
	return data
}

func heatMapMax(z [][]Number) float32 {
	peak := 0.0
	for _, row := range z {
		for _, v := range row {
			if v.Valid() && float64(v) > peak {
				peak = float64(v)
			}
		}
	}
	if peak == 0 {
		peak = 100
	}
	return float32(peak)
}
