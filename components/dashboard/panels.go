package dashboard

import (
	"context"
	"time"
)

// Built-in panel names.
const (
	PanelOverview      = "overview"
	PanelOpportunities = "opportunities"
	PanelLeads         = "leads"
	PanelCases         = "cases"
)

// DefaultPanels returns the four built-in panels in tab order.
func DefaultPanels() []Panel {
	return []Panel{
		OverviewPanel(),
		OpportunitiesPanel(),
		LeadsPanel(),
		CasesPanel(),
	}
}

func chartBinding(region string, inputs []Source, build func(Inputs) ChartSpec) Binding {
	return Binding{
		Output: region,
		Inputs: inputs,
		Produce: func(_ context.Context, in Inputs) (Output, error) {
			return ChartOutput(build(in)), nil
		},
	}
}

func indicatorBinding(region string, inputs []Source, build func(Inputs) string) Binding {
	return Binding{
		Output: region,
		Inputs: inputs,
		Produce: func(_ context.Context, in Inputs) (Output, error) {
			return IndicatorOutput(build(in)), nil
		},
	}
}

func tableBinding(region string, inputs []Source, build func(Inputs) TableSpec) Binding {
	return Binding{
		Output: region,
		Inputs: inputs,
		Produce: func(_ context.Context, in Inputs) (Output, error) {
			return TableOutput(build(in)), nil
		},
	}
}

func sources(list ...Source) []Source { return list }

func countIndicator(table Table, match func(Record) bool) string {
	return Millify(float64(Count(table, match)))
}

func nowFunc(pc PanelContext) func() time.Time {
	if pc.Now != nil {
		return pc.Now
	}
	return time.Now
}
