package dashboard

// SeriesField maps a table column onto a chart trace.
type SeriesField struct {
	Field string
	Name  string
	Type  string
	Color string
}

var defaultChartMargin = Margin{L: 35, R: 5, B: 80, T: 5, Pad: 4}

// TimeSeriesChart plots every field against xField. Rows are expected to be
// ordered already (see AggregateByPeriod).
func TimeSeriesChart(table Table, xField string, fields ...SeriesField) ChartSpec {
	if table.Empty() || len(fields) == 0 {
		return NoResultsChart()
	}
	x := table.Strings(xField)
	series := make([]Series, 0, len(fields))
	for _, f := range fields {
		kind := f.Type
		if kind == "" {
			kind = SeriesLine
		}
		series = append(series, Series{
			Type:  kind,
			Name:  stringValue(f.Name, f.Field),
			X:     x,
			Y:     numbers(table.Floats(f.Field)),
			Color: f.Color,
		})
	}
	margin := defaultChartMargin
	return ChartSpec{
		Data: series,
		Layout: ChartLayout{
			Autosize:   true,
			ShowLegend: len(series) > 1,
			XAxis:      &Axis{ShowGrid: false},
			Margin:     &margin,
			Legend: &Legend{
				Orientation: "h",
				YAnchor:     "bottom",
				Y:           1.02,
				XAnchor:     "right",
				X:           1,
			},
		},
	}
}

// CategoryChart renders grouped counts as a pie or bar chart.
func CategoryChart(groups []Group, seriesType, name string) ChartSpec {
	if len(groups) == 0 {
		return NoResultsChart()
	}
	labels := make([]string, len(groups))
	values := make([]float64, len(groups))
	for i, g := range groups {
		labels[i] = g.Label
		values[i] = float64(g.Count)
	}
	margin := defaultChartMargin
	spec := ChartSpec{Layout: ChartLayout{Autosize: true, Margin: &margin}}
	if seriesType == SeriesPie {
		spec.Data = []Series{{Type: SeriesPie, Name: name, Labels: labels, Values: numbers(values)}}
		spec.Layout.ShowLegend = true
		return spec
	}
	spec.Data = []Series{{Type: SeriesBar, Name: name, X: labels, Y: numbers(values)}}
	spec.Layout.XAxis = &Axis{ShowGrid: false}
	return spec
}

// HeatMapChart averages opts.ValueField over the category grid. Cells without
// records stay NaN and are drawn as gaps.
func HeatMapChart(table Table, opts HeatMapOptions, name string) ChartSpec {
	if table.Empty() || len(opts.XCategories) == 0 || len(opts.YCategories) == 0 {
		return NoResultsChart()
	}
	hm := HeatMapMatrix(table, opts)
	return ChartSpec{
		Data: []Series{{
			Type:       SeriesHeatMap,
			Name:       name,
			X:          hm.X,
			Categories: hm.Y,
			Z:          matrix(hm.Z),
			Colorscale: "Blues",
		}},
		Layout: ChartLayout{
			Autosize: true,
			Margin:   &Margin{T: 25, L: 210, B: 85, Pad: 4},
		},
	}
}

// RecordsTable lays out table as rows of formatted cells.
func RecordsTable(table Table, columns []string) TableSpec {
	rows := make([][]string, len(table))
	for i, rec := range table {
		row := make([]string, len(columns))
		for j, col := range columns {
			row[j] = formatCell(rec[col])
		}
		rows[i] = row
	}
	return TableSpec{Columns: append([]string(nil), columns...), Rows: rows}
}
