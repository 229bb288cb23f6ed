package commands

import (
	"context"
	"errors"
	"testing"

	dashboard "github.com/goliatone/go-crm-dashboard/components/dashboard"
)

type stubSession struct {
	navigateCalls int
	changeCalls   int
	toggleCalls   int
	lastPath      string
	lastControl   string
	lastValue     string
	err           error
	visible       bool
}

func (s *stubSession) Page(_ context.Context, path string) (dashboard.PageState, error) {
	s.navigateCalls++
	s.lastPath = path
	if s.err != nil {
		return dashboard.PageState{}, s.err
	}
	return dashboard.PageState{Panel: dashboard.PanelLeads}, nil
}

func (s *stubSession) ChangeControl(_ context.Context, id, value string) (dashboard.ControlChange, error) {
	s.changeCalls++
	s.lastControl, s.lastValue = id, value
	if s.err != nil {
		return dashboard.ControlChange{}, s.err
	}
	return dashboard.ControlChange{
		Panel:   dashboard.PanelLeads,
		Control: id,
		Value:   value,
		Updates: []dashboard.RegionState{{Region: "lead_source", Version: 2}},
	}, nil
}

func (s *stubSession) ToggleMenu(context.Context) dashboard.MenuState {
	s.toggleCalls++
	s.visible = !s.visible
	return dashboard.MenuState{Visible: s.visible}
}

type stubTelemetry struct {
	calls  int
	events []string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.calls++
	s.events = append(s.events, event)
}

func TestNavigateCommand(t *testing.T) {
	session := &stubSession{}
	telemetry := &stubTelemetry{}
	cmd := NewNavigateCommand(session, telemetry)
	var page dashboard.PageState
	if err := cmd.Execute(context.Background(), NavigateInput{Path: "/panel/leads", Result: &page}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if session.lastPath != "/panel/leads" || page.Panel != dashboard.PanelLeads {
		t.Fatalf("unexpected navigation %q -> %q", session.lastPath, page.Panel)
	}
	if telemetry.calls != 1 {
		t.Fatalf("expected telemetry event")
	}
}

func TestNavigateCommandPropagatesErrors(t *testing.T) {
	session := &stubSession{err: errors.New("unknown panel")}
	cmd := NewNavigateCommand(session, nil)
	if err := cmd.Execute(context.Background(), NavigateInput{Path: "/x"}); err == nil {
		t.Fatalf("expected error")
	}
	if err := NewNavigateCommand(nil, nil).Execute(context.Background(), NavigateInput{}); err == nil {
		t.Fatalf("expected error without navigator")
	}
}

func TestChangeControlCommand(t *testing.T) {
	session := &stubSession{}
	cmd := NewChangeControlCommand(session, nil)
	var change dashboard.ControlChange
	err := cmd.Execute(context.Background(), ChangeControlInput{Control: "lead_source_dropdown", Value: "open", Result: &change})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if session.lastControl != "lead_source_dropdown" || session.lastValue != "open" {
		t.Fatalf("expected control forwarding, got %s=%s", session.lastControl, session.lastValue)
	}
	if len(change.Updates) != 1 {
		t.Fatalf("expected updates in result, got %+v", change)
	}
}

func TestChangeControlCommandValidatesInput(t *testing.T) {
	session := &stubSession{}
	cmd := NewChangeControlCommand(session, nil)
	if err := cmd.Execute(context.Background(), ChangeControlInput{Value: "open"}); err == nil {
		t.Fatalf("expected validation error")
	}
	if session.changeCalls != 0 {
		t.Fatalf("invalid input must not reach the session")
	}
}

func TestToggleMenuCommand(t *testing.T) {
	session := &stubSession{}
	telemetry := &stubTelemetry{}
	cmd := NewToggleMenuCommand(session, telemetry)
	var state dashboard.MenuState
	for i := 0; i < 2; i++ {
		if err := cmd.Execute(context.Background(), ToggleMenuInput{Result: &state}); err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}
	}
	if state.Visible {
		t.Fatalf("expected hidden menu after two toggles")
	}
	if telemetry.calls != 2 {
		t.Fatalf("expected two telemetry events, got %d", telemetry.calls)
	}
}
