package dashboard

import (
	"errors"
	"fmt"
	"strings"
)

var errNoRoutes = errors.New("dashboard: router requires at least one route")

// Route maps a URL path onto a panel and the label of its tab.
type Route struct {
	Label string `json:"label" yaml:"label"`
	Path  string `json:"path" yaml:"path"`
	Panel string `json:"panel" yaml:"panel"`
}

// Tab is one entry of the rendered tab strip.
type Tab struct {
	Label    string `json:"label"`
	Path     string `json:"path"`
	Selected bool   `json:"selected"`
}

// Navigation is the outcome of resolving a path.
type Navigation struct {
	Route Route `json:"route"`
	Tabs  []Tab `json:"tabs"`
	// Fallback is set when the path was unknown and the default route was used.
	Fallback bool `json:"fallback,omitempty"`
}

// Router resolves paths against a fixed route table. The first route is the default.
type Router struct {
	routes []Route
	byPath map[string]int
}

// NewRouter validates routes and builds the lookup table.
func NewRouter(routes []Route) (*Router, error) {
	if len(routes) == 0 {
		return nil, errNoRoutes
	}
	r := &Router{
		routes: make([]Route, 0, len(routes)),
		byPath: make(map[string]int, len(routes)),
	}
	for _, route := range routes {
		route.Path = normalizePath(route.Path)
		if route.Path == "" || route.Panel == "" {
			return nil, fmt.Errorf("dashboard: route %q requires a path and a panel", route.Label)
		}
		if _, dup := r.byPath[route.Path]; dup {
			return nil, fmt.Errorf("dashboard: duplicate route path %s", route.Path)
		}
		r.byPath[route.Path] = len(r.routes)
		r.routes = append(r.routes, route)
	}
	return r, nil
}

// Default returns the route used for unknown paths.
func (r *Router) Default() Route {
	return r.routes[0]
}

// Routes returns the route table in tab order.
func (r *Router) Routes() []Route {
	return append([]Route(nil), r.routes...)
}

// Lookup returns the route registered for path.
func (r *Router) Lookup(path string) (Route, bool) {
	idx, ok := r.byPath[normalizePath(path)]
	if !ok {
		return Route{}, false
	}
	return r.routes[idx], true
}

// Navigate resolves path. Unknown paths, the root included, fall back to the
// default route without an error.
func (r *Router) Navigate(path string) Navigation {
	idx, ok := r.byPath[normalizePath(path)]
	nav := Navigation{Fallback: !ok}
	if !ok {
		idx = 0
	}
	nav.Route = r.routes[idx]
	nav.Tabs = make([]Tab, len(r.routes))
	for i, route := range r.routes {
		nav.Tabs[i] = Tab{Label: route.Label, Path: route.Path, Selected: i == idx}
	}
	return nav
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// MenuToggle tracks the collapsible tab strip on narrow screens.
// It starts hidden and is independent from routing.
type MenuToggle struct {
	visible bool
}

// Click flips the visibility and returns the new state.
func (m *MenuToggle) Click() bool {
	m.visible = !m.visible
	return m.visible
}

// Visible reports whether the strip is shown.
func (m *MenuToggle) Visible() bool { return m.visible }

// Display returns the CSS display value for the strip.
func (m *MenuToggle) Display() string {
	if m.visible {
		return "flex"
	}
	return "none"
}
