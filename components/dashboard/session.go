package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ControlState is the current value of one mounted control.
type ControlState struct {
	Definition ControlDefinition `json:"definition"`
	Value      string            `json:"value"`
}

// RegionState is the last published payload of one output region.
type RegionState struct {
	Region  string  `json:"region"`
	Output  *Output `json:"output,omitempty"`
	Version int     `json:"version"`
	Stale   bool    `json:"stale,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// MenuState is the visibility of the collapsible tab strip.
type MenuState struct {
	Visible bool   `json:"visible"`
	Display string `json:"display"`
}

// PageState is a full snapshot of the mounted panel.
type PageState struct {
	SessionID  string                 `json:"session_id"`
	Navigation Navigation             `json:"navigation"`
	Panel      string                 `json:"panel"`
	Title      string                 `json:"title"`
	Layout     LayoutNode             `json:"layout"`
	Controls   []ControlState         `json:"controls"`
	Regions    map[string]RegionState `json:"regions"`
	Menu       MenuState              `json:"menu"`
}

// ControlChange is the outcome of a control interaction.
type ControlChange struct {
	Panel   string        `json:"panel"`
	Control string        `json:"control"`
	Value   string        `json:"value"`
	Updates []RegionState `json:"updates"`
}

// Session is the interaction state of the single active user: the mounted
// panel, its Control State and engine, plus the menu toggle. Interactions are
// serialized so each one runs a single synchronous pass.
type Session struct {
	id      string
	service *Service
	logger  *zap.Logger

	mu     sync.Mutex
	menu   MenuToggle
	nav    Navigation
	panel  Panel
	engine *Engine
}

func newSession(service *Service) *Session {
	id := uuid.NewString()
	return &Session{
		id:      id,
		service: service,
		logger:  service.opts.Logger.With(zap.String("session", id)),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Navigate resolves path, unmounts the current panel and mounts the target
// one with fresh Control State. Unknown paths mount the default panel.
// Navigating to the route already mounted keeps its state.
func (s *Session) Navigate(ctx context.Context, path string) (PageState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nav := s.service.router.Navigate(path)
	if nav.Fallback {
		s.logger.Debug("unknown path, using default panel", zap.String("path", path), zap.String("panel", nav.Route.Panel))
	}
	if s.engine != nil && s.nav.Route.Path == nav.Route.Path {
		// Same panel: a reload keeps the current Control State.
		s.nav = nav
		return s.snapshot(), nil
	}
	if err := s.mount(ctx, nav); err != nil {
		return PageState{}, err
	}
	s.service.opts.Telemetry.Record(ctx, "dashboard.panel.mount", map[string]any{
		"session":  s.id,
		"panel":    nav.Route.Panel,
		"path":     path,
		"fallback": nav.Fallback,
	})
	return s.snapshot(), nil
}

// Page returns the mounted panel, mounting the default one first if needed.
func (s *Session) Page(ctx context.Context) (PageState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureMounted(ctx); err != nil {
		return PageState{}, err
	}
	return s.snapshot(), nil
}

// ChangeControl validates value, stores it and runs one recomputation pass.
// Rejected values leave Control State untouched.
func (s *Session) ChangeControl(ctx context.Context, id, value string) (ControlChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureMounted(ctx); err != nil {
		return ControlChange{}, err
	}
	def, ok := s.panel.Control(id)
	if !ok {
		return ControlChange{}, fmt.Errorf("%w: %s on panel %s", ErrUnknownControl, id, s.panel.Name)
	}
	if err := s.service.opts.Validator.Validate(s.panel.Name, def, value); err != nil {
		return ControlChange{}, err
	}
	s.engine.SetControl(id, value)
	updates := s.engine.Flush(ctx)
	change := ControlChange{
		Panel:   s.panel.Name,
		Control: id,
		Value:   value,
		Updates: make([]RegionState, 0, len(updates)),
	}
	for _, u := range updates {
		change.Updates = append(change.Updates, s.regionState(u.Region))
	}
	s.service.opts.Telemetry.Record(ctx, "dashboard.control.change", map[string]any{
		"session": s.id,
		"panel":   s.panel.Name,
		"control": id,
		"updates": len(updates),
	})
	return change, nil
}

// ToggleMenu flips the tab strip visibility.
func (s *Session) ToggleMenu() MenuState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menu.Click()
	return s.menuState()
}

// Menu returns the tab strip visibility.
func (s *Session) Menu() MenuState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menuState()
}

func (s *Session) menuState() MenuState {
	return MenuState{Visible: s.menu.Visible(), Display: s.menu.Display()}
}

func (s *Session) ensureMounted(ctx context.Context) error {
	if s.engine != nil {
		return nil
	}
	return s.mount(ctx, s.service.router.Navigate(""))
}

func (s *Session) mount(ctx context.Context, nav Navigation) error {
	panel, err := s.service.panel(nav.Route.Panel)
	if err != nil {
		return err
	}
	engine := NewEngine(EngineOptions{
		Panel:     panel.Name,
		Datasets:  s.service.opts.Datasets,
		Logger:    s.logger,
		Hook:      s.service.opts.Hook,
		Telemetry: s.service.opts.Telemetry,
	})
	for _, def := range panel.Controls {
		engine.SetControl(def.ID, s.service.controlDefault(def))
	}
	for _, b := range panel.Bindings(PanelContext{Now: s.service.opts.Clock}) {
		if err := engine.Register(b); err != nil {
			return fmt.Errorf("dashboard: mount panel %s: %w", panel.Name, err)
		}
	}
	engine.RefreshAll(ctx)
	// The previous engine and its Control State are dropped here.
	s.nav = nav
	s.panel = panel
	s.engine = engine
	return nil
}

func (s *Session) snapshot() PageState {
	page := PageState{
		SessionID:  s.id,
		Navigation: s.nav,
		Panel:      s.panel.Name,
		Title:      s.panel.Title,
		Layout:     s.panel.Layout,
		Controls:   make([]ControlState, 0, len(s.panel.Controls)),
		Regions:    map[string]RegionState{},
		Menu:       s.menuState(),
	}
	for _, def := range s.panel.Controls {
		value, _ := s.engine.ControlValue(def.ID)
		page.Controls = append(page.Controls, ControlState{Definition: def, Value: value})
	}
	for _, region := range s.engine.Regions() {
		page.Regions[region] = s.regionState(region)
	}
	return page
}

func (s *Session) regionState(region string) RegionState {
	status, ok := s.engine.Status(region)
	if !ok {
		return RegionState{Region: region}
	}
	state := RegionState{Region: region, Version: status.Version}
	if status.HasOutput {
		out := status.Output
		state.Output = &out
	}
	if status.LastError != nil {
		state.Stale = true
		state.Error = status.LastError.Error()
	}
	return state
}
