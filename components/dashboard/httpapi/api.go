package httpapi

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-crm-dashboard/components/dashboard"
	"github.com/goliatone/go-crm-dashboard/components/dashboard/commands"
)

// Handlers exposes HTTP endpoints backed by shared commands.
type Handlers struct {
	API       Executor
	Broadcast *dashboard.BroadcastHook
}

// HandlePage navigates to the path query parameter and returns the page as JSON.
func (h *Handlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	var page dashboard.PageState
	input := commands.NavigateInput{Path: r.URL.Query().Get("path"), Result: &page}
	if err := h.API.Navigate(r.Context(), input); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleChangeControl applies {"control","value"} and returns the recomputed regions.
func (h *Handlers) HandleChangeControl(w http.ResponseWriter, r *http.Request) {
	var payload commands.ChangeControlInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var change dashboard.ControlChange
	payload.Result = &change
	if err := h.API.ChangeControl(r.Context(), payload); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, change)
}

// HandleToggleMenu flips the mobile tab strip.
func (h *Handlers) HandleToggleMenu(w http.ResponseWriter, r *http.Request) {
	var state dashboard.MenuState
	if err := h.API.ToggleMenu(r.Context(), commands.ToggleMenuInput{Result: &state}); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleEvents streams publications as server-sent events.
func (h *Handlers) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if h.Broadcast == nil {
		http.Error(w, "broadcast not configured", http.StatusNotFound)
		return
	}
	h.Broadcast.ServeSSE(w, r)
}

// HandleWebSocket streams publications over a WebSocket.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.Broadcast == nil {
		http.Error(w, "broadcast not configured", http.StatusNotFound)
		return
	}
	h.Broadcast.ServeWebSocket(w, r)
}

// Mux registers the handlers on a ServeMux under base, for hosts that embed the
// dashboard on net/http instead of go-router.
func (h *Handlers) Mux(base string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+base+"/_page", h.HandlePage)
	mux.HandleFunc("POST "+base+"/controls", h.HandleChangeControl)
	mux.HandleFunc("POST "+base+"/menu", h.HandleToggleMenu)
	mux.HandleFunc("GET "+base+"/events", h.HandleEvents)
	mux.HandleFunc("GET "+base+"/ws", h.HandleWebSocket)
	return mux
}

// StatusFor maps interaction errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrInvalidControlValue), errors.Is(err, dashboard.ErrUnknownControl):
		return http.StatusBadRequest
	case errors.Is(err, errCommandNotConfigured):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
