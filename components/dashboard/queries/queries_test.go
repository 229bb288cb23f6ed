package queries

import (
	"context"
	"testing"

	dashboard "github.com/goliatone/go-crm-dashboard/components/dashboard"
)

type stubPageService struct {
	pageCalls    int
	currentCalls int
	lastPath     string
}

func (s *stubPageService) Page(_ context.Context, path string) (dashboard.PageState, error) {
	s.pageCalls++
	s.lastPath = path
	return dashboard.PageState{Panel: dashboard.PanelCases}, nil
}

func (s *stubPageService) Current(context.Context) (dashboard.PageState, error) {
	s.currentCalls++
	return dashboard.PageState{Panel: dashboard.PanelOverview}, nil
}

func TestPageQueryNavigatesWithPath(t *testing.T) {
	service := &stubPageService{}
	query := NewPageQuery(service)
	page, err := query.Query(context.Background(), PageInput{Path: "/panel/cases"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.pageCalls != 1 || service.lastPath != "/panel/cases" || page.Panel != dashboard.PanelCases {
		t.Fatalf("expected navigation to cases, got %+v", page)
	}
}

func TestPageQueryReadsCurrentWithoutPath(t *testing.T) {
	service := &stubPageService{}
	query := NewPageQuery(service)
	page, err := query.Query(context.Background(), PageInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.currentCalls != 1 || service.pageCalls != 0 || page.Panel != dashboard.PanelOverview {
		t.Fatalf("expected current page, got %+v", page)
	}
}
