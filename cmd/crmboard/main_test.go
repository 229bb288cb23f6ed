package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-crm-dashboard/components/dashboard"
	"github.com/goliatone/go-crm-dashboard/internal/config"
	"github.com/goliatone/go-crm-dashboard/pkg/crm"
)

func newTestController(t *testing.T) *dashboard.Controller {
	t.Helper()
	now := time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC)
	datasets, err := dashboard.LoadDatasets(context.Background(), &crm.MockProvider{Now: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("LoadDatasets returned error: %v", err)
	}
	service, err := dashboard.NewService(dashboard.Options{Datasets: datasets, Clock: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return dashboard.NewController(dashboard.ControllerOptions{Sessions: service})
}

func TestRenderJSONAppliesControls(t *testing.T) {
	cmd := renderCmd{Path: "/panel/cases", Set: []string{"priority_dropdown=High"}, Format: "json"}
	var buf bytes.Buffer
	if err := cmd.render(context.Background(), newTestController(t), &buf); err != nil {
		t.Fatalf("render returned error: %v", err)
	}
	var page dashboard.PageState
	if err := json.Unmarshal(buf.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Panel != dashboard.PanelCases {
		t.Fatalf("expected cases panel, got %s", page.Panel)
	}
	for _, ctl := range page.Controls {
		if ctl.Definition.ID == "priority_dropdown" && ctl.Value != "High" {
			t.Fatalf("expected High priority, got %q", ctl.Value)
		}
	}
}

func TestRenderRejectsMalformedAssignments(t *testing.T) {
	cmd := renderCmd{Path: "/", Set: []string{"missing-equals"}, Format: "json"}
	err := cmd.render(context.Background(), newTestController(t), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "id=value") {
		t.Fatalf("expected assignment error, got %v", err)
	}
}

func TestManifestInitAndCheck(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dashboard.yaml")
	if err := (&manifestInitCmd{Out: out}).Run(); err != nil {
		t.Fatalf("init returned error: %v", err)
	}
	if err := (&manifestInitCmd{Out: out}).Run(); err == nil {
		t.Fatalf("expected refusal to overwrite %s", out)
	}
	if err := (&manifestCheckCmd{File: out}).Run(); err != nil {
		t.Fatalf("check returned error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if !bytes.Contains(data, []byte("/panel/overview")) {
		t.Fatalf("expected overview tab in manifest:\n%s", data)
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := newLogger(config.LogConfig{Level: "debug", Format: "console"}); err != nil {
		t.Fatalf("newLogger returned error: %v", err)
	}
	if _, err := newLogger(config.LogConfig{Level: "shout", Format: "json"}); err == nil {
		t.Fatalf("expected invalid level error")
	}
}
