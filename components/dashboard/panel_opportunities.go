package dashboard

// AllLeadSources disables the heat map lead source filter.
const AllLeadSources = "all_s"

// TopRecords is the length of the top open and top lost tables.
const TopRecords = 5

// Heat map axes of the opportunities panel.
var (
	OpportunityStages = []string{
		"Prospecting",
		"Qualification",
		"Needs Analysis",
		"Value Proposition",
		"Id. Decision Makers",
		"Perception Analysis",
		"Proposal/Price Quote",
		"Negotiation/Review",
		"Closed Won",
		"Closed Lost",
	}
	OpportunityTypes = []string{
		"Existing Customer - Replacement",
		"New Customer",
		"Existing Customer - Upgrade",
		"Existing Customer - Downgrade",
	}
	opportunityColumns = []string{"CreatedDate", "Name", "Amount", "StageName"}
)

// OpportunitiesPanel shows the sales pipeline.
func OpportunitiesPanel() Panel {
	return Panel{
		Name:  PanelOpportunities,
		Title: "Opportunities",
		Controls: []ControlDefinition{
			periodDropdown("converted_opportunities_dropdown"),
			{
				ID:   "heatmap_dropdown",
				Kind: ControlDropdown,
				Options: []Option{
					{Label: "All sources", Value: AllLeadSources},
					{Label: "Web", Value: "Web"},
					{Label: "Phone Inquiry", Value: "Phone Inquiry"},
					{Label: "Partner Referral", Value: "Partner Referral"},
					{Label: "Purchased List", Value: "Purchased List"},
					{Label: "Other", Value: "Other"},
				},
				Default: AllLeadSources,
			},
		},
		Layout: column("opportunity_grid",
			LayoutNode{Kind: NodeRow, Class: "row indicators", Children: []LayoutNode{
				indicatorNode("left_opportunities_indicator", "Won opportunities"),
				indicatorNode("middle_opportunities_indicator", "Open opportunities"),
				indicatorNode("right_opportunities_indicator", "Lost opportunities"),
			}},
			row(
				heading("Converted Opportunities count"),
				controlNode("converted_opportunities_dropdown"),
				chartNode("converted_opportunities", "Converted Opportunities count"),
			),
			row(
				heading("Probabilty heatmap per Stage and Type"),
				controlNode("heatmap_dropdown"),
				chartNode("opportunities_heatmap", "Probability heatmap"),
			),
			row(
				tableNode("top_open_opportunities", "Top Open opportunities"),
				tableNode("top_lost_opportunities", "Top Lost opportunities"),
			),
		),
		Bindings: opportunityBindings,
	}
}

func opportunityBindings(PanelContext) []Binding {
	data := Dataset(DatasetOpportunities)
	return []Binding{
		chartBinding("converted_opportunities", sources(Control("converted_opportunities_dropdown"), data), func(in Inputs) ChartSpec {
			return ConvertedOpportunitiesChart(in.Dataset(DatasetOpportunities), Period(in.Control("converted_opportunities_dropdown")))
		}),
		chartBinding("opportunities_heatmap", sources(Control("heatmap_dropdown"), data), func(in Inputs) ChartSpec {
			df := FilterByDimension(in.Dataset(DatasetOpportunities), "LeadSource", in.Control("heatmap_dropdown"), AllLeadSources)
			return OpportunityHeatMap(df)
		}),
		tableBinding("top_open_opportunities", sources(data), func(in Inputs) TableSpec {
			return TopOpenOpportunities(in.Dataset(DatasetOpportunities))
		}),
		tableBinding("top_lost_opportunities", sources(data), func(in Inputs) TableSpec {
			return TopLostOpportunities(in.Dataset(DatasetOpportunities))
		}),
		indicatorBinding("left_opportunities_indicator", sources(data), func(in Inputs) string {
			return countIndicator(in.Dataset(DatasetOpportunities), isWon)
		}),
		indicatorBinding("middle_opportunities_indicator", sources(data), func(in Inputs) string {
			return countIndicator(in.Dataset(DatasetOpportunities), isOpen)
		}),
		indicatorBinding("right_opportunities_indicator", sources(data), func(in Inputs) string {
			return countIndicator(in.Dataset(DatasetOpportunities), isLost)
		}),
	}
}

func isWon(r Record) bool  { return r.Bool("IsWon") }
func isOpen(r Record) bool { return !r.Bool("IsClosed") }
func isLost(r Record) bool { return r.String("StageName") == "Closed Lost" }

// ConvertedOpportunitiesChart counts won opportunities per close period.
func ConvertedOpportunitiesChart(opportunities Table, period Period) ChartSpec {
	won := Filter(opportunities, isWon)
	return TimeSeriesChart(
		CountByPeriod(won, "CloseDate", period),
		PeriodField,
		SeriesField{Field: CountField, Name: "converted", Type: SeriesLine},
	)
}

// OpportunityHeatMap averages Probability per StageName and Type.
func OpportunityHeatMap(opportunities Table) ChartSpec {
	return HeatMapChart(opportunities, HeatMapOptions{
		XField:      "StageName",
		YField:      "Type",
		ValueField:  "Probability",
		XCategories: OpportunityStages,
		YCategories: OpportunityTypes,
	}, "mean probability")
}

// TopOpenOpportunities lists the smallest opportunities by amount, whatever their stage.
func TopOpenOpportunities(opportunities Table) TableSpec {
	top := TopN(opportunities, TopNOptions{
		SortField: "Amount",
		N:         TopRecords,
		Ascending: true,
		Fields:    opportunityColumns,
	})
	return RecordsTable(top, opportunityColumns)
}

// TopLostOpportunities lists the largest lost opportunities.
func TopLostOpportunities(opportunities Table) TableSpec {
	top := TopN(opportunities, TopNOptions{
		SortField: "Amount",
		N:         TopRecords,
		Fields:    opportunityColumns,
		Filter:    isLost,
	})
	return RecordsTable(top, opportunityColumns)
}
