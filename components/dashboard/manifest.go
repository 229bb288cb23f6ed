package dashboard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ManifestDocument configures the tab strip and control defaults.
type ManifestDocument struct {
	Version  string                     `json:"version" yaml:"version"`
	Name     string                     `json:"name,omitempty" yaml:"name,omitempty"`
	Tabs     []Route                    `json:"tabs" yaml:"tabs"`
	Controls map[string]ControlOverride `json:"controls,omitempty" yaml:"controls,omitempty"`
	Source   string                     `json:"-" yaml:"-"`
}

// ControlOverride replaces the default value of a control on mount.
type ControlOverride struct {
	Default string `json:"default" yaml:"default"`
}

// DefaultManifest returns the built-in tab layout.
func DefaultManifest() *ManifestDocument {
	return &ManifestDocument{
		Version: manifestVersionV1,
		Name:    "crm-dashboard",
		Tabs: []Route{
			{Label: "Overview", Path: "/panel/overview", Panel: PanelOverview},
			{Label: "Opportunities", Path: "/panel/opportunities", Panel: PanelOpportunities},
			{Label: "Leads", Path: "/panel/leads", Panel: PanelLeads},
			{Label: "Cases", Path: "/panel/cases", Panel: PanelCases},
		},
	}
}

// ReadManifest loads a manifest file from disk.
func ReadManifest(path string) (*ManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*ManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// WriteManifest encodes doc as YAML.
func WriteManifest(w io.Writer, doc *ManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("dashboard: manifest document is nil")
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("dashboard: encode manifest: %w", err)
	}
	return encoder.Close()
}

// Validate ensures the manifest satisfies required fields.
func (doc *ManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	if len(doc.Tabs) == 0 {
		return fmt.Errorf("dashboard: manifest declares no tabs")
	}
	seen := make(map[string]struct{}, len(doc.Tabs))
	for idx, tab := range doc.Tabs {
		if tab.Panel == "" {
			return fmt.Errorf("dashboard: manifest tab at index %d is missing panel", idx)
		}
		if tab.Path == "" {
			return fmt.Errorf("dashboard: manifest tab %s is missing path", tab.Panel)
		}
		path := normalizePath(tab.Path)
		if _, exists := seen[path]; exists {
			return fmt.Errorf("dashboard: manifest duplicates tab path %s", path)
		}
		seen[path] = struct{}{}
	}
	return nil
}

// CheckPanels reports tabs and control overrides that do not resolve against reg.
func (doc *ManifestDocument) CheckPanels(reg *Registry) error {
	var errs []error
	for _, tab := range doc.Tabs {
		if _, ok := reg.Panel(tab.Panel); !ok {
			errs = append(errs, fmt.Errorf("dashboard: manifest tab %s references unknown panel %s", tab.Path, tab.Panel))
		}
	}
	for id, override := range doc.Controls {
		def, panel, ok := findControl(reg, id)
		if !ok {
			errs = append(errs, fmt.Errorf("dashboard: manifest overrides unknown control %s", id))
			continue
		}
		if len(def.Options) > 0 && !containsValue(def.Values(), override.Default) {
			errs = append(errs, fmt.Errorf("dashboard: manifest default %q for %s.%s is not an option", override.Default, panel, id))
		}
	}
	return errors.Join(errs...)
}

// applyDefaults fills the version and derives missing tab labels and paths
// from the panel name ("sales_pipeline" -> "SalesPipeline", "/panel/sales-pipeline").
func (doc *ManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	for i := range doc.Tabs {
		tab := &doc.Tabs[i]
		if tab.Panel == "" {
			continue
		}
		if tab.Label == "" {
			tab.Label = strcase.ToPascal(tab.Panel)
		}
		if tab.Path == "" {
			tab.Path = "/panel/" + strcase.ToKebab(tab.Panel)
		}
	}
}

func findControl(reg *Registry, id string) (ControlDefinition, string, bool) {
	for _, panel := range reg.Panels() {
		if def, ok := panel.Control(id); ok {
			return def, panel.Name, true
		}
	}
	return ControlDefinition{}, "", false
}

func containsValue(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
