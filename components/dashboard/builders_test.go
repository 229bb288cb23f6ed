package dashboard

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildersReturnNoResultsForEmptyTables(t *testing.T) {
	specs := map[string]ChartSpec{
		"time series":   TimeSeriesChart(Table{}, "Quarter", SeriesField{Field: "Amount"}),
		"no fields":     TimeSeriesChart(Table{{"Quarter": "2020Q1"}}, "Quarter"),
		"category":      CategoryChart(nil, SeriesPie, "empty"),
		"heatmap":       OpportunityHeatMap(nil),
		"actual/budget": ActualVsBudgetChart(nil),
		"opportunities": ConvertedOpportunitiesChart(Table{{"IsWon": false, "CloseDate": "2020-01-01"}}, PeriodDay),
		"leads":         ConvertedLeadsChart(nil, PeriodMonth),
	}
	for name, spec := range specs {
		assert.True(t, spec.IsNoResults(), name)
		assert.NotNil(t, spec.Data, name)
	}
}

func TestTimeSeriesChartTraces(t *testing.T) {
	finance := Table{
		{"Quarter": "2020Q2", "Account": "Revenue", "Amount": 10.0, "Forecast": 12.0},
		{"Quarter": "2020Q1", "Account": "Revenue", "Amount": 100.0, "Forecast": 90.0},
		{"Quarter": "2020Q1", "Account": "Revenue", "Amount": 50.0, "Forecast": 10.0},
	}
	spec := ActualVsBudgetChart(finance)
	require.Len(t, spec.Data, 2)
	bars, line := spec.Data[0], spec.Data[1]
	assert.Equal(t, SeriesBar, bars.Type)
	assert.Equal(t, "Actual", bars.Name)
	assert.Equal(t, []string{"2020Q1", "2020Q2"}, bars.X)
	assert.Equal(t, []Number{150, 10}, bars.Y)
	assert.Equal(t, SeriesLine, line.Type)
	assert.Equal(t, []Number{100, 12}, line.Y)
	assert.True(t, spec.Layout.ShowLegend)
}

func TestCategoryChartKinds(t *testing.T) {
	groups := []Group{{Label: "Web", Count: 2}, {Label: "Phone", Count: 1}}
	pie := CategoryChart(groups, SeriesPie, "source")
	require.Len(t, pie.Data, 1)
	assert.Equal(t, []string{"Web", "Phone"}, pie.Data[0].Labels)
	assert.Equal(t, []Number{2, 1}, pie.Data[0].Values)

	bar := CategoryChart(groups, SeriesBar, "source")
	require.Len(t, bar.Data, 1)
	assert.Equal(t, SeriesBar, bar.Data[0].Type)
	assert.Equal(t, []string{"Web", "Phone"}, bar.Data[0].X)
}

func TestOpportunityHeatMapKeepsGaps(t *testing.T) {
	spec := OpportunityHeatMap(Table{
		{"StageName": "Prospecting", "Type": "New Customer", "Probability": 10.0},
	})
	require.Len(t, spec.Data, 1)
	series := spec.Data[0]
	assert.Equal(t, OpportunityStages, series.X)
	assert.Equal(t, OpportunityTypes, series.Categories)
	require.Len(t, series.Z, len(OpportunityTypes))
	var valid int
	for _, row := range series.Z {
		for _, cell := range row {
			if cell.Valid() {
				valid++
			}
		}
	}
	assert.Equal(t, 1, valid)
}

func TestTopOpportunityTables(t *testing.T) {
	opportunities := Table{
		{"Name": "small", "Amount": 1.0, "StageName": "Prospecting", "IsClosed": false},
		{"Name": "big", "Amount": 900.0, "StageName": "Qualification", "IsClosed": false},
		{"Name": "won", "Amount": 500.0, "StageName": "Closed Won", "IsClosed": true},
		{"Name": "lost small", "Amount": 20.0, "StageName": "Closed Lost", "IsClosed": true},
		{"Name": "lost big", "Amount": 700.0, "StageName": "Closed Lost", "IsClosed": true},
	}
	open := TopOpenOpportunities(opportunities)
	assert.Equal(t, opportunityColumns, open.Columns)
	require.Len(t, open.Rows, 5)
	assert.Equal(t, "small", open.Rows[0][1])
	assert.Equal(t, "lost small", open.Rows[1][1], "closed records are not filtered out")
	assert.Equal(t, "big", open.Rows[4][1])

	lost := TopLostOpportunities(opportunities)
	require.Len(t, lost.Rows, 2)
	assert.Equal(t, "lost big", lost.Rows[0][1])
	assert.Equal(t, "lost small", lost.Rows[1][1])
}

func TestRecordsTableFormatsCells(t *testing.T) {
	spec := RecordsTable(Table{{"Name": "Acme", "Amount": 12.5}}, []string{"Name", "Amount", "Missing"})
	assert.Equal(t, [][]string{{"Acme", "12.50", ""}}, spec.Rows)
}

func TestFinanceIndicatorUsesCurrentMonth(t *testing.T) {
	finance := Table{
		{"Month": 202003, "Amount": 1500.0},
		{"Month": 202003, "Amount": 500.0},
		{"Month": 202002, "Amount": 9000.0},
	}
	now := time.Date(2020, time.March, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2 K", FinanceIndicator(finance, now))
	assert.Equal(t, "0", FinanceIndicator(finance, now.AddDate(1, 0, 0)))
}

func TestConversionRate(t *testing.T) {
	leads := Table{
		{"Status": "Closed - Converted"},
		{"Status": "Closed - Not Converted"},
		{"Status": "Closed - Not Converted"},
		{"Status": "Closed - Not Converted"},
		{"Status": "Open - Not Contacted"},
	}
	assert.Equal(t, "25%", ConversionRate(leads))
	assert.Equal(t, "0%", ConversionRate(Table{{"Status": "Working - Contacted"}}))
}

func TestNumberMarshalsNaNAsNull(t *testing.T) {
	data, err := Number(math.NaN()).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
	data, err = Number(1.5).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "1.5", string(data))
}
