package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

var errNilProvider = errors.New("dashboard: data provider is required")

// Datasets holds the read-only entity tables fetched once at startup.
type Datasets struct {
	mu       sync.RWMutex
	tables   map[string]Table
	provider DataProvider
	closed   bool
}

// NewDatasets wraps already loaded tables. Useful for tests and fixtures.
func NewDatasets(tables map[string]Table) *Datasets {
	copied := make(map[string]Table, len(tables))
	for name, table := range tables {
		copied[name] = table
	}
	return &Datasets{tables: copied}
}

// LoadDatasets fetches every entity concurrently. Any failure aborts the load.
func LoadDatasets(ctx context.Context, provider DataProvider) (*Datasets, error) {
	if provider == nil {
		return nil, errNilProvider
	}
	fetchers := map[string]func(context.Context) (Table, error){
		DatasetFinance:       provider.Finance,
		DatasetOpportunities: provider.Opportunities,
		DatasetLeads:         provider.Leads,
		DatasetCases:         provider.Cases,
	}
	var mu sync.Mutex
	tables := make(map[string]Table, len(fetchers))
	g, gctx := errgroup.WithContext(ctx)
	for name, fetch := range fetchers {
		g.Go(func() error {
			table, err := fetch(gctx)
			if err != nil {
				return fmt.Errorf("dashboard: load %s: %w", name, err)
			}
			if table == nil {
				table = Table{}
			}
			mu.Lock()
			tables[name] = table
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Datasets{tables: tables, provider: provider}, nil
}

// Table returns the dataset stored under name.
func (d *Datasets) Table(name string) (Table, bool) {
	if d == nil {
		return nil, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil, false
	}
	table, ok := d.tables[name]
	return table, ok
}

// Names lists the stored datasets alphabetically.
func (d *Datasets) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.tables))
	for name := range d.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close releases the tables and the provider when it holds resources.
func (d *Datasets) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.tables = nil
	if closer, ok := d.provider.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
