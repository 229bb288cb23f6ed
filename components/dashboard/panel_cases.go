package dashboard

// Wildcards of the cases filters.
const (
	AllPriorities = "all_p"
	AllOrigins    = "all"
)

// CasesPanel shows support cases by type, reason and account.
func CasesPanel() Panel {
	return Panel{
		Name:  PanelCases,
		Title: "Cases",
		Controls: []ControlDefinition{
			periodDropdown("cases_period_dropdown"),
			{
				ID:   "priority_dropdown",
				Kind: ControlDropdown,
				Options: []Option{
					{Label: "All priority", Value: AllPriorities},
					{Label: "High priority", Value: "High"},
					{Label: "Medium priority", Value: "Medium"},
					{Label: "Low priority", Value: "Low"},
				},
				Default: AllPriorities,
			},
			{
				ID:   "origin_dropdown",
				Kind: ControlDropdown,
				Options: []Option{
					{Label: "All origins", Value: AllOrigins},
					{Label: "Phone", Value: "Phone"},
					{Label: "Web", Value: "Web"},
					{Label: "Email", Value: "Email"},
				},
				Default: AllOrigins,
			},
		},
		Layout: column("cases_grid",
			controlNode("cases_period_dropdown"),
			controlNode("priority_dropdown"),
			controlNode("origin_dropdown"),
			LayoutNode{Kind: NodeRow, Class: "row indicators", Children: []LayoutNode{
				indicatorNode("left_cases_indicator", "Low priority cases"),
				indicatorNode("middle_cases_indicator", "Medium priority cases"),
				indicatorNode("right_cases_indicator", "High priority cases"),
			}},
			row(
				chartNode("cases_types", "Cases Type"),
				chartNode("cases_reasons", "Cases Reasons"),
			),
			row(
				chartNode("cases_by_period", "Cases over Time"),
				chartNode("cases_by_account", "Cases by Company"),
			),
		),
		Bindings: caseBindings,
	}
}

func caseBindings(PanelContext) []Binding {
	filtered := sources(Control("priority_dropdown"), Control("origin_dropdown"), Dataset(DatasetCases))
	byOrigin := sources(Control("origin_dropdown"), Dataset(DatasetCases))
	return []Binding{
		chartBinding("cases_types", filtered, func(in Inputs) ChartSpec {
			return CategoryChart(CountBy(filterCases(in), "Type"), SeriesPie, "cases type")
		}),
		chartBinding("cases_reasons", filtered, func(in Inputs) ChartSpec {
			return CategoryChart(CountBy(filterCases(in), "Reason"), SeriesPie, "cases reasons")
		}),
		chartBinding("cases_by_account", filtered, func(in Inputs) ChartSpec {
			return CategoryChart(CountBy(filterCases(in), "AccountName"), SeriesBar, "cases")
		}),
		chartBinding("cases_by_period",
			sources(Control("cases_period_dropdown"), Control("priority_dropdown"), Control("origin_dropdown"), Dataset(DatasetCases)),
			func(in Inputs) ChartSpec {
				return TimeSeriesChart(
					CountByPeriod(filterCases(in), "CreatedDate", Period(in.Control("cases_period_dropdown"))),
					PeriodField,
					SeriesField{Field: CountField, Name: "cases", Type: SeriesLine},
				)
			}),
		indicatorBinding("left_cases_indicator", byOrigin, priorityIndicator("Low")),
		indicatorBinding("middle_cases_indicator", byOrigin, priorityIndicator("Medium")),
		indicatorBinding("right_cases_indicator", byOrigin, priorityIndicator("High")),
	}
}

func filterCases(in Inputs) Table {
	df := FilterByDimension(in.Dataset(DatasetCases), "Priority", in.Control("priority_dropdown"), AllPriorities)
	return FilterByDimension(df, "Origin", in.Control("origin_dropdown"), AllOrigins)
}

func priorityIndicator(priority string) func(Inputs) string {
	return func(in Inputs) string {
		df := FilterByDimension(in.Dataset(DatasetCases), "Origin", in.Control("origin_dropdown"), AllOrigins)
		return countIndicator(df, func(r Record) bool { return r.String("Priority") == priority })
	}
}
