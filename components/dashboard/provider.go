package dashboard

import "context"

// Entity dataset names.
const (
	DatasetFinance       = "finance"
	DatasetOpportunities = "opportunities"
	DatasetLeads         = "leads"
	DatasetCases         = "cases"
)

// DataProvider fetches the CRM entities backing the dashboard.
// Implementations live in pkg/crm.
type DataProvider interface {
	Opportunities(ctx context.Context) (Table, error)
	Leads(ctx context.Context) (Table, error)
	Cases(ctx context.Context) (Table, error)
	Finance(ctx context.Context) (Table, error)
}
