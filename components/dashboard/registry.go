package dashboard

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// PanelContext carries process-wide collaborators handed to binding builders.
type PanelContext struct {
	Now func() time.Time
}

// Panel is a named view: static layout, input controls and output bindings.
type Panel struct {
	Name     string
	Title    string
	Layout   LayoutNode
	Controls []ControlDefinition
	// Bindings builds the panel bindings. It runs on every mount.
	Bindings func(PanelContext) []Binding
}

// Control returns the definition of control id.
func (p Panel) Control(id string) (ControlDefinition, bool) {
	for _, def := range p.Controls {
		if def.ID == id {
			return def, true
		}
	}
	return ControlDefinition{}, false
}

// Validate checks that the layout and the bindings agree on control and region ids.
func (p Panel) Validate() error {
	if p.Name == "" {
		return errors.New("dashboard: panel name is required")
	}
	if p.Bindings == nil {
		return fmt.Errorf("dashboard: panel %s has no bindings", p.Name)
	}
	var errs []error
	placed := p.Layout.ControlIDs()
	for _, def := range p.Controls {
		if !slices.Contains(placed, def.ID) {
			errs = append(errs, fmt.Errorf("dashboard: panel %s control %s is not placed in the layout", p.Name, def.ID))
		}
	}
	regions := p.Layout.Regions()
	for _, b := range p.Bindings(PanelContext{Now: time.Now}) {
		if !slices.Contains(regions, b.Output) {
			errs = append(errs, fmt.Errorf("dashboard: panel %s binding %s has no layout region", p.Name, b.Output))
		}
		for _, src := range b.Inputs {
			if src.Kind != SourceControl {
				continue
			}
			if _, ok := p.Control(src.Name); !ok {
				errs = append(errs, fmt.Errorf("dashboard: panel %s binding %s reads undefined control %s", p.Name, b.Output, src.Name))
			}
		}
	}
	return errors.Join(errs...)
}

// PanelHook lets packages register panels during init().
type PanelHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []PanelHook
)

// RegisterPanelHook registers a hook executed against new registries.
func RegisterPanelHook(h PanelHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry stores panels by name, preserving registration order.
type Registry struct {
	mu     sync.RWMutex
	panels map[string]Panel
	order  []string
}

// NewRegistry builds a registry with the default panels and applies global hooks.
func NewRegistry() (*Registry, error) {
	reg := NewEmptyRegistry()
	for _, panel := range DefaultPanels() {
		if err := reg.RegisterPanel(panel); err != nil {
			return nil, err
		}
	}
	if err := reg.ApplyHooks(); err != nil {
		return nil, err
	}
	return reg, nil
}

// NewEmptyRegistry builds a registry without any panel.
func NewEmptyRegistry() *Registry {
	return &Registry{panels: map[string]Panel{}}
}

// ApplyHooks executes registered panel hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterPanel validates and stores a panel. Re-registering a name replaces it.
func (r *Registry) RegisterPanel(panel Panel) error {
	if err := panel.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.panels[panel.Name]; !exists {
		r.order = append(r.order, panel.Name)
	}
	r.panels[panel.Name] = panel
	return nil
}

// Panel fetches a panel by name.
func (r *Registry) Panel(name string) (Panel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	panel, ok := r.panels[name]
	return panel, ok
}

// Panels returns every panel in registration order.
func (r *Registry) Panels() []Panel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Panel, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.panels[name])
	}
	return out
}
