package crm

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	dashboard "github.com/goliatone/go-crm-dashboard/components/dashboard"
)

// CSVProvider reads one CSV export per entity from Dir
// (opportunities.csv, leads.csv, cases.csv, finance.csv).
type CSVProvider struct {
	Dir string
}

// NewCSVProvider validates dir and builds the provider.
func NewCSVProvider(dir string) (*CSVProvider, error) {
	if dir == "" {
		return nil, errors.New("crm: csv directory is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("crm: csv directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("crm: %s is not a directory", dir)
	}
	return &CSVProvider{Dir: dir}, nil
}

var _ dashboard.DataProvider = (*CSVProvider)(nil)

func (p *CSVProvider) Opportunities(ctx context.Context) (dashboard.Table, error) {
	return p.load(ctx, dashboard.DatasetOpportunities)
}

func (p *CSVProvider) Leads(ctx context.Context) (dashboard.Table, error) {
	return p.load(ctx, dashboard.DatasetLeads)
}

func (p *CSVProvider) Cases(ctx context.Context) (dashboard.Table, error) {
	return p.load(ctx, dashboard.DatasetCases)
}

func (p *CSVProvider) Finance(ctx context.Context) (dashboard.Table, error) {
	return p.load(ctx, dashboard.DatasetFinance)
}

func (p *CSVProvider) load(ctx context.Context, entity string) (dashboard.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(p.Dir, entity+".csv")
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("crm: open %s: %w", path, err)
	}
	defer f.Close()
	table, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("crm: read %s: %w", path, err)
	}
	return table, nil
}

// ReadCSV decodes a CSV document whose first row holds the column names.
func ReadCSV(r io.Reader) (dashboard.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return dashboard.Table{}, nil
	}
	if err != nil {
		return nil, err
	}
	table := dashboard.Table{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return table, nil
		}
		if err != nil {
			return nil, err
		}
		rec := make(dashboard.Record, len(header))
		for i, name := range header {
			rec[name] = ParseCell(row[i])
		}
		table = append(table, rec)
	}
}
