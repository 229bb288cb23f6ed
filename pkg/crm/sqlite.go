package crm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dashboard "github.com/goliatone/go-crm-dashboard/components/dashboard"
	_ "modernc.org/sqlite"
)

// SQLiteProvider reads every entity from a table of the same name.
type SQLiteProvider struct {
	db *sql.DB
}

// OpenSQLite opens the database file at path.
func OpenSQLite(path string) (*SQLiteProvider, error) {
	if path == "" {
		return nil, errors.New("crm: sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("crm: open sqlite %s: %w", path, err)
	}
	return NewSQLiteProvider(db), nil
}

// NewSQLiteProvider wraps an open database handle.
func NewSQLiteProvider(db *sql.DB) *SQLiteProvider {
	return &SQLiteProvider{db: db}
}

var _ dashboard.DataProvider = (*SQLiteProvider)(nil)

func (p *SQLiteProvider) Opportunities(ctx context.Context) (dashboard.Table, error) {
	return p.load(ctx, dashboard.DatasetOpportunities)
}

func (p *SQLiteProvider) Leads(ctx context.Context) (dashboard.Table, error) {
	return p.load(ctx, dashboard.DatasetLeads)
}

func (p *SQLiteProvider) Cases(ctx context.Context) (dashboard.Table, error) {
	return p.load(ctx, dashboard.DatasetCases)
}

func (p *SQLiteProvider) Finance(ctx context.Context) (dashboard.Table, error) {
	return p.load(ctx, dashboard.DatasetFinance)
}

// Close releases the database handle.
func (p *SQLiteProvider) Close() error {
	return p.db.Close()
}

func (p *SQLiteProvider) load(ctx context.Context, entity string) (dashboard.Table, error) {
	// entity is one of the fixed dataset names, never user input.
	rows, err := p.db.QueryContext(ctx, `SELECT * FROM "`+entity+`"`)
	if err != nil {
		return nil, fmt.Errorf("crm: query %s: %w", entity, err)
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("crm: columns %s: %w", entity, err)
	}
	table := dashboard.Table{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("crm: scan %s: %w", entity, err)
		}
		rec := make(dashboard.Record, len(columns))
		for i, name := range columns {
			rec[name] = normalizeValue(values[i])
		}
		table = append(table, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("crm: read %s: %w", entity, err)
	}
	return table, nil
}
