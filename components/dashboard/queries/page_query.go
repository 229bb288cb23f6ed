package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-crm-dashboard/components/dashboard"
)

// PageInput selects the page to read. An empty Path reads the mounted panel.
type PageInput struct {
	Path string `json:"path"`
}

type pageService interface {
	Page(ctx context.Context, path string) (dashboard.PageState, error)
	Current(ctx context.Context) (dashboard.PageState, error)
}

// PageQuery returns the page state of the session.
type PageQuery struct {
	service pageService
}

// NewPageQuery builds the query.
func NewPageQuery(service pageService) *PageQuery {
	return &PageQuery{service: service}
}

var _ gocommand.Querier[PageInput, dashboard.PageState] = (*PageQuery)(nil)

// Query resolves the page for input.
func (q *PageQuery) Query(ctx context.Context, input PageInput) (dashboard.PageState, error) {
	if input.Path == "" {
		return q.service.Current(ctx)
	}
	return q.service.Page(ctx, input.Path)
}
