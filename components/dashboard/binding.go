package dashboard

import (
	"context"
	"fmt"
)

// SourceKind distinguishes the inputs a binding can depend on.
type SourceKind string

const (
	SourceControl SourceKind = "control"
	SourceDataset SourceKind = "dataset"
	SourceOutput  SourceKind = "output"
)

// Source names one input of a binding.
type Source struct {
	Kind SourceKind
	Name string
}

// Control references a named input control.
func Control(name string) Source { return Source{Kind: SourceControl, Name: name} }

// Dataset references a stored dataset.
func Dataset(name string) Source { return Source{Kind: SourceDataset, Name: name} }

// OutputOf references the last published payload of another region.
func OutputOf(region string) Source { return Source{Kind: SourceOutput, Name: region} }

func (s Source) String() string { return fmt.Sprintf("%s:%s", s.Kind, s.Name) }

// ProduceFunc computes a region payload from a consistent input snapshot.
type ProduceFunc func(ctx context.Context, in Inputs) (Output, error)

// Binding links ordered input sources to an output region.
type Binding struct {
	Output  string
	Inputs  []Source
	Produce ProduceFunc
}

// Inputs is the snapshot handed to a ProduceFunc. Only declared sources are present.
type Inputs struct {
	values map[Source]any
}

// Control returns the current value of a declared control.
func (in Inputs) Control(name string) string {
	v, _ := in.values[Control(name)].(string)
	return v
}

// Dataset returns a declared stored dataset. The table is shared and must not be mutated.
func (in Inputs) Dataset(name string) Table {
	v, _ := in.values[Dataset(name)].(Table)
	return v
}

// Output returns the last published payload of a declared upstream region.
func (in Inputs) Output(region string) (Output, bool) {
	v, ok := in.values[OutputOf(region)].(Output)
	return v, ok
}

// Has reports whether src was declared and resolved.
func (in Inputs) Has(src Source) bool {
	_, ok := in.values[src]
	return ok
}

// Phase is the lifecycle state of a binding.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseComputing Phase = "computing"
	PhasePublished Phase = "published"
)

// BindingStatus reports the state kept for one binding.
type BindingStatus struct {
	Region    string
	Phase     Phase
	Version   int
	Runs      int
	Failures  int
	LastError error
	HasOutput bool
	Output    Output
}

// Update is the result of recomputing one region during a pass.
type Update struct {
	Region  string `json:"region"`
	Output  Output `json:"output"`
	Version int    `json:"version"`
	// Stale is set when the producer failed and Output is the last good payload.
	Stale bool  `json:"stale,omitempty"`
	Err   error `json:"-"`
}

// Publication is delivered to PublishHook after a payload is stored.
type Publication struct {
	Panel   string `json:"panel"`
	Region  string `json:"region"`
	Version int    `json:"version"`
	Output  Output `json:"output"`
}

// PublishHook notifies transports about freshly published payloads.
type PublishHook interface {
	OutputPublished(ctx context.Context, pub Publication) error
}

type noopPublishHook struct{}

func (noopPublishHook) OutputPublished(context.Context, Publication) error { return nil }
