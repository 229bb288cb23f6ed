package dashboard

import "time"

// Overview control values that disable filtering.
const (
	AllMarketUnits = "ALL"
	AllProducts    = "all_s"
)

// OverviewPanel shows finance results against forecast.
func OverviewPanel() Panel {
	return Panel{
		Name:  PanelOverview,
		Title: "Overview",
		Controls: []ControlDefinition{
			{
				ID:   "market_unit_dropdown",
				Kind: ControlDropdown,
				Options: []Option{
					{Label: "All Market Units", Value: AllMarketUnits},
					{Label: "US", Value: "US"},
					{Label: "Canada", Value: "CANADA"},
					{Label: "UK and Ireland", Value: "UKI"},
					{Label: "Germany", Value: "GERMANY"},
					{Label: "France", Value: "FRANCE"},
					{Label: "Japan", Value: "JAPAN"},
					{Label: "Singapore", Value: "SINGAPORE"},
					{Label: "Hong Kong", Value: "HONGKONG"},
				},
				Default: AllMarketUnits,
			},
			{
				ID:   "product_dropdown",
				Kind: ControlDropdown,
				Options: []Option{
					{Label: "All Products", Value: AllProducts},
					{Label: "Enterprise Suite", Value: "suite"},
					{Label: "Services", Value: "services"},
					{Label: "Other", Value: "other"},
				},
				Default: AllProducts,
			},
		},
		Layout: column("overview_grid",
			controlNode("market_unit_dropdown"),
			controlNode("product_dropdown"),
			LayoutNode{Kind: NodeRow, Class: "row indicators", Children: []LayoutNode{
				indicatorNode("left_finance_indicator", "Forecasted Revenue this Month"),
				indicatorNode("middle_finance_indicator", "Net Income this Month"),
				indicatorNode("right_overview_indicator", "New Customer this Month"),
			}},
			row(heading("Actual vs Forecast"), chartNode("actual_vs_budget", "Actual vs Forecast")),
		),
		Bindings: overviewBindings,
	}
}

func overviewBindings(pc PanelContext) []Binding {
	now := nowFunc(pc)
	financeInputs := sources(Control("market_unit_dropdown"), Control("product_dropdown"), Dataset(DatasetFinance))
	return []Binding{
		chartBinding("actual_vs_budget", financeInputs, func(in Inputs) ChartSpec {
			return ActualVsBudgetChart(filterFinance(in, "Revenue"))
		}),
		indicatorBinding("left_finance_indicator", financeInputs, func(in Inputs) string {
			return FinanceIndicator(filterFinance(in, "Revenue"), now())
		}),
		indicatorBinding("middle_finance_indicator", financeInputs, func(in Inputs) string {
			return FinanceIndicator(filterFinance(in, "Net Income"), now())
		}),
		indicatorBinding("right_overview_indicator", sources(Dataset(DatasetOpportunities)), func(in Inputs) string {
			return countIndicator(in.Dataset(DatasetOpportunities), func(r Record) bool { return r.Bool("IsWon") })
		}),
	}
}

func filterFinance(in Inputs, account string) Table {
	df := FilterByDimension(in.Dataset(DatasetFinance), "Product", in.Control("product_dropdown"), AllProducts)
	df = FilterByDimension(df, "Market Unit", in.Control("market_unit_dropdown"), AllMarketUnits)
	return FilterEquals(df, "Account", account)
}

// ActualVsBudgetChart sums Amount and Forecast per Quarter: actuals as bars,
// forecast as a line.
func ActualVsBudgetChart(finance Table) ChartSpec {
	return TimeSeriesChart(
		AggregateByPeriod(finance, "Quarter", "Amount", "Forecast"),
		"Quarter",
		SeriesField{Field: "Amount", Name: "Actual", Type: SeriesBar},
		SeriesField{Field: "Forecast", Name: "Forecast", Type: SeriesLine},
	)
}

// FinanceIndicator sums Amount for the month containing now.
func FinanceIndicator(finance Table, now time.Time) string {
	month := float64(MonthKey(now))
	current := Filter(finance, func(r Record) bool { return r.Float("Month") == month })
	return Millify(Sum(current, "Amount"))
}
