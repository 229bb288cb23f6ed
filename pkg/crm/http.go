package crm

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	dashboard "github.com/goliatone/go-crm-dashboard/components/dashboard"
)

// HTTPConfig configures the REST CRM provider.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPProvider fetches entity exports from a REST CRM (GET {base}/opportunities, ...).
// Responses are JSON arrays of objects.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider builds a provider for the CRM at cfg.BaseURL.
func NewHTTPProvider(cfg HTTPConfig) (*HTTPProvider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("crm: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

var _ dashboard.DataProvider = (*HTTPProvider)(nil)

func (p *HTTPProvider) Opportunities(ctx context.Context) (dashboard.Table, error) {
	return p.fetch(ctx, dashboard.DatasetOpportunities)
}

func (p *HTTPProvider) Leads(ctx context.Context) (dashboard.Table, error) {
	return p.fetch(ctx, dashboard.DatasetLeads)
}

func (p *HTTPProvider) Cases(ctx context.Context) (dashboard.Table, error) {
	return p.fetch(ctx, dashboard.DatasetCases)
}

func (p *HTTPProvider) Finance(ctx context.Context) (dashboard.Table, error) {
	return p.fetch(ctx, dashboard.DatasetFinance)
}

func (p *HTTPProvider) fetch(ctx context.Context, entity string) (dashboard.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/"+entity, nil)
	if err != nil {
		return nil, fmt.Errorf("crm: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crm: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return nil, fmt.Errorf("crm: remote error %d: %s", resp.StatusCode, strings.TrimSpace(buf.String()))
	}
	var records []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("crm: decode %s: %w", entity, err)
	}
	table := make(dashboard.Table, len(records))
	for i, rec := range records {
		table[i] = normalizeRecord(dashboard.Record(rec))
	}
	return table, nil
}
