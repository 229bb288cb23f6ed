package dashboard

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	errMissingDatasets = errors.New("dashboard: datasets not configured")
	errUnknownPanel    = errors.New("dashboard: unknown panel")
	// ErrUnknownControl is returned for controls not defined by the mounted panel.
	ErrUnknownControl = errors.New("dashboard: unknown control")
)

// Options configures the dashboard Service. Collaborators are provided via
// interfaces so applications can swap implementations.
type Options struct {
	Datasets  DatasetReader
	Registry  *Registry
	Manifest  *ManifestDocument
	Validator ControlValidator
	Hook      PublishHook
	Telemetry Telemetry
	Logger    *zap.Logger
	// Clock drives the "this month" indicators. Defaults to time.Now.
	Clock func() time.Time
}

// Service owns the read-only datasets, the panel registry and the router.
type Service struct {
	opts   Options
	router *Router

	mu      sync.Mutex
	session *Session
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) (*Service, error) {
	if opts.Datasets == nil {
		return nil, errMissingDatasets
	}
	if opts.Registry == nil {
		reg, err := NewRegistry()
		if err != nil {
			return nil, err
		}
		opts.Registry = reg
	}
	if opts.Manifest == nil {
		opts.Manifest = DefaultManifest()
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Hook == nil {
		opts.Hook = noopPublishHook{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if err := opts.Manifest.CheckPanels(opts.Registry); err != nil {
		return nil, err
	}
	router, err := NewRouter(opts.Manifest.Tabs)
	if err != nil {
		return nil, fmt.Errorf("dashboard: build router: %w", err)
	}
	return &Service{opts: opts, router: router}, nil
}

// Router returns the navigation table built from the manifest tabs.
func (s *Service) Router() *Router { return s.router }

// Registry returns the panel registry.
func (s *Service) Registry() *Registry { return s.opts.Registry }

// Manifest returns the active manifest.
func (s *Service) Manifest() *ManifestDocument { return s.opts.Manifest }

// Session returns the process-wide session, creating it on first use.
// Every caller shares it: state is not isolated between users.
func (s *Service) Session() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		s.session = newSession(s)
	}
	return s.session
}

// ResetSession discards the shared session and returns a fresh one.
func (s *Service) ResetSession() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = newSession(s)
	return s.session
}

func (s *Service) panel(name string) (Panel, error) {
	panel, ok := s.opts.Registry.Panel(name)
	if !ok {
		return Panel{}, fmt.Errorf("%w: %s", errUnknownPanel, name)
	}
	return panel, nil
}

// controlDefault resolves the mount value of a control.
func (s *Service) controlDefault(def ControlDefinition) string {
	if override, ok := s.opts.Manifest.Controls[def.ID]; ok && override.Default != "" {
		return override.Default
	}
	return def.Default
}
