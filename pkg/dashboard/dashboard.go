// Package dashboard is the public entry point for embedding the CRM dashboard.
package dashboard

import (
	"context"

	core "github.com/goliatone/go-crm-dashboard/components/dashboard"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// DataProvider is the source of the CRM entities.
type DataProvider = core.DataProvider

// ManifestDocument re-export.
type ManifestDocument = core.ManifestDocument

// NewService proxies to the internal constructor.
func NewService(opts Options) (*Service, error) {
	return core.NewService(opts)
}

// Load fetches every dataset from provider and builds a Service over them.
// opts.Datasets is replaced by the loaded snapshot.
func Load(ctx context.Context, provider DataProvider, opts Options) (*Service, *core.Datasets, error) {
	datasets, err := core.LoadDatasets(ctx, provider)
	if err != nil {
		return nil, nil, err
	}
	opts.Datasets = datasets
	service, err := core.NewService(opts)
	if err != nil {
		_ = datasets.Close()
		return nil, nil, err
	}
	return service, datasets, nil
}
