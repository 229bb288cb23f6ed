// Package crm provides the DataProvider implementations that feed the
// dashboard: in-memory fixtures, CSV exports, a SQLite snapshot and a REST CRM.
package crm

import (
	"errors"
	"fmt"
	"strings"

	dashboard "github.com/goliatone/go-crm-dashboard/components/dashboard"
)

// Provider sources accepted by Open.
const (
	SourceMock   = "mock"
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
	SourceHTTP   = "http"
)

// ErrUnknownSource is returned by Open for an unsupported Config.Source.
var ErrUnknownSource = errors.New("crm: unknown data source")

// Config selects and configures a provider.
type Config struct {
	Source     string
	CSVDir     string
	SQLitePath string
	HTTP       HTTPConfig
}

// Open builds the provider named by cfg.Source. An empty source means mock.
func Open(cfg Config) (dashboard.DataProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Source)) {
	case "", SourceMock:
		return &MockProvider{}, nil
	case SourceCSV:
		return NewCSVProvider(cfg.CSVDir)
	case SourceSQLite:
		return OpenSQLite(cfg.SQLitePath)
	case SourceHTTP:
		return NewHTTPProvider(cfg.HTTP)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, cfg.Source)
	}
}
