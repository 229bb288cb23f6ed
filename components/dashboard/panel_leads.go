package dashboard

import "slices"

// Lead status groups selectable in lead_source_dropdown.
const (
	LeadsAll       = "all"
	LeadsOpen      = "open"
	LeadsConverted = "converted"
	LeadsLost      = "lost"
)

var leadStatuses = map[string][]string{
	LeadsOpen:      {"Open - Not Contacted", "Working - Contacted"},
	LeadsConverted: {"Closed - Converted"},
	LeadsLost:      {"Closed - Not Converted"},
}

// LeadsPanel shows lead sources and conversions.
func LeadsPanel() Panel {
	return Panel{
		Name:  PanelLeads,
		Title: "Leads",
		Controls: []ControlDefinition{
			{
				ID:   "lead_source_dropdown",
				Kind: ControlDropdown,
				Options: []Option{
					{Label: "All status", Value: LeadsAll},
					{Label: "Open leads", Value: LeadsOpen},
					{Label: "Converted leads", Value: LeadsConverted},
					{Label: "Lost leads", Value: LeadsLost},
				},
				Default: LeadsAll,
			},
			periodDropdown("converted_leads_dropdown"),
		},
		Layout: column("leads_grid",
			controlNode("lead_source_dropdown"),
			controlNode("converted_leads_dropdown"),
			LayoutNode{Kind: NodeRow, Class: "row indicators", Children: []LayoutNode{
				indicatorNode("left_leads_indicator", "Converted Leads"),
				indicatorNode("middle_leads_indicator", "Open Leads"),
				indicatorNode("right_leads_indicator", "Conversion Rates"),
			}},
			row(
				chartNode("lead_source", "Leads by source"),
				chartNode("leads_by_state", "Leads by state"),
			),
			row(chartNode("converted_leads", "Converted Leads count")),
		),
		Bindings: leadBindings,
	}
}

func leadBindings(PanelContext) []Binding {
	data := Dataset(DatasetLeads)
	byStatus := sources(Control("lead_source_dropdown"), data)
	return []Binding{
		chartBinding("lead_source", byStatus, func(in Inputs) ChartSpec {
			return CategoryChart(CountBy(filterLeads(in), "LeadSource"), SeriesPie, "lead source")
		}),
		chartBinding("leads_by_state", byStatus, func(in Inputs) ChartSpec {
			return CategoryChart(CountBy(filterLeads(in), "State"), SeriesBar, "leads")
		}),
		chartBinding("converted_leads", sources(Control("converted_leads_dropdown"), data), func(in Inputs) ChartSpec {
			return ConvertedLeadsChart(in.Dataset(DatasetLeads), Period(in.Control("converted_leads_dropdown")))
		}),
		indicatorBinding("left_leads_indicator", sources(data), func(in Inputs) string {
			return countIndicator(in.Dataset(DatasetLeads), leadIn(LeadsConverted))
		}),
		indicatorBinding("middle_leads_indicator", sources(data), func(in Inputs) string {
			return countIndicator(in.Dataset(DatasetLeads), leadIn(LeadsOpen))
		}),
		indicatorBinding("right_leads_indicator", sources(data), func(in Inputs) string {
			return ConversionRate(in.Dataset(DatasetLeads))
		}),
	}
}

func filterLeads(in Inputs) Table {
	leads := in.Dataset(DatasetLeads)
	group := in.Control("lead_source_dropdown")
	if group == LeadsAll || group == "" {
		return leads
	}
	return Filter(leads, leadIn(group))
}

func leadIn(group string) func(Record) bool {
	statuses := leadStatuses[group]
	return func(r Record) bool {
		return slices.Contains(statuses, r.String("Status"))
	}
}

// ConvertedLeadsChart counts converted leads per creation period.
func ConvertedLeadsChart(leads Table, period Period) ChartSpec {
	converted := Filter(leads, leadIn(LeadsConverted))
	return TimeSeriesChart(
		CountByPeriod(converted, "CreatedDate", period),
		PeriodField,
		SeriesField{Field: CountField, Name: "converted leads", Type: SeriesLine},
	)
}

// ConversionRate is converted over closed leads, as a percentage.
func ConversionRate(leads Table) string {
	converted := Count(leads, leadIn(LeadsConverted))
	lost := Count(leads, leadIn(LeadsLost))
	if converted+lost == 0 {
		return Percent(0)
	}
	return Percent(float64(converted) / float64(converted+lost))
}
