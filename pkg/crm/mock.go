package crm

import (
	"context"
	"fmt"
	"time"

	dashboard "github.com/goliatone/go-crm-dashboard/components/dashboard"
)

var (
	marketUnits      = []string{"US", "CANADA", "UKI", "GERMANY", "FRANCE", "JAPAN", "SINGAPORE", "HONGKONG"}
	products         = []string{"suite", "services", "other"}
	leadSources      = []string{"Web", "Phone Inquiry", "Partner Referral", "Purchased List", "Other"}
	leadStatuses     = []string{"Open - Not Contacted", "Working - Contacted", "Closed - Converted", "Closed - Not Converted"}
	states           = []string{"CA", "NY", "TX", "WA", "IL", "FL"}
	caseTypes        = []string{"Problem", "Question", "Feature Request"}
	caseReasons      = []string{"Installation", "Performance", "Breakdown", "Equipment Design", "Feedback"}
	priorities       = []string{"Low", "Medium", "High"}
	origins          = []string{"Phone", "Web", "Email"}
	accounts         = []string{"Acme", "Globex", "Initech", "Umbrella", "Hooli", "Stark"}
)

// MockProvider serves deterministic CRM fixtures spread over the twelve months
// ending at Now.
type MockProvider struct {
	Now func() time.Time
	// Size is the number of opportunity, lead and case rows. Defaults to 60.
	Size int
}

var _ dashboard.DataProvider = (*MockProvider)(nil)

func (p *MockProvider) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *MockProvider) size() int {
	if p.Size > 0 {
		return p.Size
	}
	return 60
}

// day returns a date i days before the reference, wrapping within a year.
func (p *MockProvider) day(i int) time.Time {
	y, m, d := p.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -((i * 7) % 365))
}

func (p *MockProvider) Opportunities(ctx context.Context) (dashboard.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table := make(dashboard.Table, 0, p.size())
	for i := range p.size() {
		stage := dashboard.OpportunityStages[i%len(dashboard.OpportunityStages)]
		won := stage == "Closed Won"
		closed := won || stage == "Closed Lost"
		created := p.day(i)
		probability := float64(10 + (i%len(dashboard.OpportunityStages))*10)
		switch {
		case won:
			probability = 100
		case closed:
			probability = 0
		}
		table = append(table, dashboard.Record{
			"Name":        fmt.Sprintf("%s opportunity %d", accounts[i%len(accounts)], i+1),
			"Amount":      float64(500 + (i*373)%9500),
			"StageName":   stage,
			"Type":        dashboard.OpportunityTypes[i%len(dashboard.OpportunityTypes)],
			"Probability": probability,
			"IsWon":       won,
			"IsClosed":    closed,
			"LeadSource":  leadSources[i%len(leadSources)],
			"CreatedDate": created,
			"CloseDate":   created.AddDate(0, 1, 0),
		})
	}
	return table, nil
}

func (p *MockProvider) Leads(ctx context.Context) (dashboard.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table := make(dashboard.Table, 0, p.size())
	for i := range p.size() {
		table = append(table, dashboard.Record{
			"Status":      leadStatuses[i%len(leadStatuses)],
			"LeadSource":  leadSources[(i+1)%len(leadSources)],
			"State":       states[i%len(states)],
			"CreatedDate": p.day(i),
		})
	}
	return table, nil
}

func (p *MockProvider) Cases(ctx context.Context) (dashboard.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table := make(dashboard.Table, 0, p.size())
	for i := range p.size() {
		table = append(table, dashboard.Record{
			"Type":        caseTypes[i%len(caseTypes)],
			"Reason":      caseReasons[i%len(caseReasons)],
			"Priority":    priorities[i%len(priorities)],
			"Origin":      origins[(i/2)%len(origins)],
			"AccountName": accounts[i%len(accounts)],
			"CreatedDate": p.day(i),
		})
	}
	return table, nil
}

// Finance emits one Revenue and one Net Income row per market unit, product
// and month.
func (p *MockProvider) Finance(ctx context.Context) (dashboard.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	y, m, _ := p.now().Date()
	current := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	var table dashboard.Table
	for back := 11; back >= 0; back-- {
		month := current.AddDate(0, -back, 0)
		quarter := fmt.Sprintf("%dQ%d", month.Year(), (int(month.Month())-1)/3+1)
		for u, unit := range marketUnits {
			for pi, product := range products {
				revenue := float64(1000 + u*250 + pi*400 + (11-back)*50)
				table = append(table,
					financeRow(quarter, month, "Revenue", unit, product, revenue, revenue*0.95),
					financeRow(quarter, month, "Net Income", unit, product, revenue*0.2, revenue*0.18),
				)
			}
		}
	}
	return table, nil
}

func financeRow(quarter string, month time.Time, account, unit, product string, amount, forecast float64) dashboard.Record {
	return dashboard.Record{
		"Quarter":     quarter,
		"Month":       float64(dashboard.MonthKey(month)),
		"Account":     account,
		"Market Unit": unit,
		"Product":     product,
		"Amount":      amount,
		"Forecast":    forecast,
	}
}
