package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/goliatone/go-crm-dashboard/components/dashboard"
	"github.com/goliatone/go-crm-dashboard/components/dashboard/commands"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
	run   func(T)
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	if s.run != nil {
		s.run(msg)
	}
	return s.err
}

func TestHandleChangeControl(t *testing.T) {
	control := &stubCommander[commands.ChangeControlInput]{
		run: func(in commands.ChangeControlInput) {
			*in.Result = dashboard.ControlChange{Control: in.Control, Value: in.Value}
		},
	}
	api := &Handlers{API: &CommandExecutor{ControlCommander: control}}
	req := httptest.NewRequest(http.MethodPost, "/controls", strings.NewReader(`{"control":"origin_dropdown","value":"Web"}`))
	rec := httptest.NewRecorder()
	api.HandleChangeControl(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if control.last.Control != "origin_dropdown" || control.last.Value != "Web" {
		t.Fatalf("expected payload propagation, got %+v", control.last)
	}
	var change dashboard.ControlChange
	if err := json.Unmarshal(rec.Body.Bytes(), &change); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if change.Value != "Web" {
		t.Fatalf("expected change in response, got %+v", change)
	}
}

func TestHandleChangeControlRejectsBadPayload(t *testing.T) {
	control := &stubCommander[commands.ChangeControlInput]{}
	api := &Handlers{API: &CommandExecutor{ControlCommander: control}}
	req := httptest.NewRequest(http.MethodPost, "/controls", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	api.HandleChangeControl(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if control.calls != 0 {
		t.Fatalf("command must not run on bad payload")
	}
}

func TestHandleToggleMenuWithoutCommander(t *testing.T) {
	api := &Handlers{API: &CommandExecutor{}}
	rec := httptest.NewRecorder()
	api.HandleToggleMenu(rec, httptest.NewRequest(http.MethodPost, "/menu", nil))
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		dashboard.ErrInvalidControlValue:                        http.StatusBadRequest,
		errors.Join(errors.New("x"), dashboard.ErrUnknownControl): http.StatusBadRequest,
		errCommandNotConfigured:                                  http.StatusNotImplemented,
		errors.New("boom"):                                       http.StatusInternalServerError,
	}
	for err, want := range cases {
		if got := StatusFor(err); got != want {
			t.Fatalf("StatusFor(%v) = %d, want %d", err, got, want)
		}
	}
}

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	datasets := dashboard.NewDatasets(map[string]dashboard.Table{
		dashboard.DatasetFinance:       {},
		dashboard.DatasetOpportunities: {},
		dashboard.DatasetLeads:         {{"Status": "Closed - Converted", "LeadSource": "Web", "CreatedDate": "2020-03-01"}},
		dashboard.DatasetCases:         {},
	})
	service, err := dashboard.NewService(dashboard.Options{Datasets: datasets})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	controller := dashboard.NewController(dashboard.ControllerOptions{Sessions: service})
	return &Handlers{API: &CommandExecutor{
		NavigateCommander: commands.NewNavigateCommand(controller, nil),
		ControlCommander:  commands.NewChangeControlCommand(controller, nil),
		MenuCommander:     commands.NewToggleMenuCommand(controller, nil),
	}}
}

func TestMuxEndToEnd(t *testing.T) {
	mux := newTestHandlers(t).Mux("/dashboard")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/_page?path=/panel/leads", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var page dashboard.PageState
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Panel != dashboard.PanelLeads {
		t.Fatalf("expected leads panel, got %s", page.Panel)
	}

	rec = httptest.NewRecorder()
	body := strings.NewReader(`{"control":"lead_source_dropdown","value":"nope"}`)
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dashboard/controls", body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid value, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	body = strings.NewReader(`{"control":"lead_source_dropdown","value":"converted"}`)
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dashboard/controls", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dashboard/menu", nil))
	var menu dashboard.MenuState
	if err := json.Unmarshal(rec.Body.Bytes(), &menu); err != nil {
		t.Fatalf("decode menu: %v", err)
	}
	if !menu.Visible || menu.Display != "flex" {
		t.Fatalf("expected visible menu, got %+v", menu)
	}
}

func TestMuxStreamsPublicationsOverWebSocket(t *testing.T) {
	hook := dashboard.NewBroadcastHook()
	handlers := &Handlers{API: &CommandExecutor{}, Broadcast: hook}
	server := httptest.NewServer(handlers.Mux("/dashboard"))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/dashboard/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hook.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("websocket never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	sent := dashboard.Publication{Panel: dashboard.PanelCases, Region: "cases_types", Version: 3}
	if err := hook.OutputPublished(context.Background(), sent); err != nil {
		t.Fatalf("OutputPublished returned error: %v", err)
	}
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	var got dashboard.Publication
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Region != sent.Region || got.Version != sent.Version || got.Panel != sent.Panel {
		t.Fatalf("expected %+v, got %+v", sent, got)
	}
}

func TestHandleWebSocketWithoutBroadcast(t *testing.T) {
	rec := httptest.NewRecorder()
	(&Handlers{}).HandleWebSocket(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
