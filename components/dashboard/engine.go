package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

var (
	errBindingRegion   = errors.New("dashboard: binding output region is required")
	errBindingProducer = errors.New("dashboard: binding producer is required")
	errBindingInputs   = errors.New("dashboard: binding requires at least one input")
)

// DatasetReader resolves stored datasets by name.
type DatasetReader interface {
	Table(name string) (Table, bool)
}

// EngineOptions configures an Engine.
type EngineOptions struct {
	Panel     string
	Datasets  DatasetReader
	Logger    *zap.Logger
	Hook      PublishHook
	Telemetry Telemetry
}

type bindingState struct {
	binding   Binding
	node      int64
	phase     Phase
	version   int
	runs      int
	failures  int
	lastErr   error
	hasOutput bool
	output    Output
}

// Engine keeps the dependency graph between controls, datasets and output
// regions, and recomputes regions when their inputs change. An Engine is
// owned by one mounted panel and is not safe for concurrent use.
type Engine struct {
	opts     EngineOptions
	logger   *zap.Logger
	controls map[string]string
	states   map[string]*bindingState
	readers  map[Source][]string
	graph    *simple.DirectedGraph
	nodes    map[Source]int64
	order    []string
	dirty    map[string]struct{}
}

// NewEngine builds an empty engine.
func NewEngine(opts EngineOptions) *Engine {
	if opts.Hook == nil {
		opts.Hook = noopPublishHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Panel != "" {
		logger = logger.With(zap.String("panel", opts.Panel))
	}
	return &Engine{
		opts:     opts,
		logger:   logger,
		controls: map[string]string{},
		states:   map[string]*bindingState{},
		readers:  map[Source][]string{},
		graph:    simple.NewDirectedGraph(),
		nodes:    map[Source]int64{},
		dirty:    map[string]struct{}{},
	}
}

// Register adds a binding. Its input list is copied and fixed from here on.
// Upstream regions referenced with OutputOf must already be registered.
func (e *Engine) Register(b Binding) error {
	if b.Output == "" {
		return errBindingRegion
	}
	if b.Produce == nil {
		return errBindingProducer
	}
	if len(b.Inputs) == 0 {
		return errBindingInputs
	}
	if _, exists := e.states[b.Output]; exists {
		return fmt.Errorf("dashboard: output region %s already bound", b.Output)
	}
	inputs := slices.Clone(b.Inputs)
	for _, src := range inputs {
		switch src.Kind {
		case SourceControl:
		case SourceDataset:
			if e.opts.Datasets == nil {
				return fmt.Errorf("dashboard: binding %s reads %s but no datasets are configured", b.Output, src)
			}
			if _, ok := e.opts.Datasets.Table(src.Name); !ok {
				return fmt.Errorf("dashboard: binding %s reads unknown dataset %s", b.Output, src.Name)
			}
		case SourceOutput:
			if src.Name == b.Output {
				return fmt.Errorf("dashboard: binding %s cannot read its own output", b.Output)
			}
			if _, ok := e.states[src.Name]; !ok {
				return fmt.Errorf("dashboard: binding %s reads unregistered region %s", b.Output, src.Name)
			}
		default:
			return fmt.Errorf("dashboard: binding %s has unsupported source %s", b.Output, src)
		}
	}

	self := e.node(OutputOf(b.Output))
	for _, src := range inputs {
		from := e.node(src)
		if !e.graph.HasEdgeFromTo(from, self) {
			e.graph.SetEdge(e.graph.NewEdge(e.graph.Node(from), e.graph.Node(self)))
		}
	}
	order, err := e.sortRegions(b.Output)
	if err != nil {
		e.graph.RemoveNode(self)
		delete(e.nodes, OutputOf(b.Output))
		return err
	}

	b.Inputs = inputs
	e.states[b.Output] = &bindingState{binding: b, node: self, phase: PhaseIdle}
	e.order = order
	for _, src := range inputs {
		e.readers[src] = appendUnique(e.readers[src], b.Output)
	}
	e.dirty[b.Output] = struct{}{}
	return nil
}

func (e *Engine) node(src Source) int64 {
	if id, ok := e.nodes[src]; ok {
		return id
	}
	n := e.graph.NewNode()
	e.graph.AddNode(n)
	e.nodes[src] = n.ID()
	return n.ID()
}

// sortRegions returns the bound regions (plus pending) in dependency order.
// Ties keep registration order because node ids grow monotonically.
func (e *Engine) sortRegions(pending string) ([]string, error) {
	sorted, err := topo.SortStabilized(e.graph, func(nodes []graph.Node) {
		slices.SortFunc(nodes, func(a, b graph.Node) int {
			switch {
			case a.ID() < b.ID():
				return -1
			case a.ID() > b.ID():
				return 1
			default:
				return 0
			}
		})
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard: binding %s introduces a dependency cycle: %w", pending, err)
	}
	regionByNode := make(map[int64]string, len(e.states)+1)
	for region, st := range e.states {
		regionByNode[st.node] = region
	}
	regionByNode[e.nodes[OutputOf(pending)]] = pending
	order := make([]string, 0, len(regionByNode))
	for _, n := range sorted {
		if region, ok := regionByNode[n.ID()]; ok {
			order = append(order, region)
		}
	}
	return order, nil
}

// SetControl stores a control value and schedules every binding reading it.
// Several calls before Flush collapse into one recomputation that sees the
// latest value. It returns the number of scheduled bindings.
func (e *Engine) SetControl(name, value string) int {
	e.controls[name] = value
	readers := e.readers[Control(name)]
	for _, region := range readers {
		e.dirty[region] = struct{}{}
	}
	return len(readers)
}

// ControlValue returns the current value of a control.
func (e *Engine) ControlValue(name string) (string, bool) {
	v, ok := e.controls[name]
	return v, ok
}

// Pending returns the regions scheduled for the next pass, in pass order.
func (e *Engine) Pending() []string {
	var out []string
	for _, region := range e.order {
		if _, ok := e.dirty[region]; ok {
			out = append(out, region)
		}
	}
	return out
}

// RefreshAll schedules every binding and runs a pass.
func (e *Engine) RefreshAll(ctx context.Context) []Update {
	for region := range e.states {
		e.dirty[region] = struct{}{}
	}
	return e.Flush(ctx)
}

// Flush runs one synchronous recomputation pass over the scheduled bindings
// in dependency order. Regions downstream of a successful publication are
// recomputed in the same pass; regions downstream of a failure are not.
func (e *Engine) Flush(ctx context.Context) []Update {
	if len(e.dirty) == 0 {
		return nil
	}
	updates := make([]Update, 0, len(e.dirty))
	for _, region := range e.order {
		if _, ok := e.dirty[region]; !ok {
			continue
		}
		delete(e.dirty, region)
		update, published := e.recompute(ctx, e.states[region])
		updates = append(updates, update)
		if !published {
			continue
		}
		for _, dep := range e.readers[OutputOf(region)] {
			e.dirty[dep] = struct{}{}
		}
	}
	clear(e.dirty)
	return updates
}

func (e *Engine) recompute(ctx context.Context, st *bindingState) (Update, bool) {
	region := st.binding.Output
	in := e.snapshot(st.binding.Inputs)

	st.phase = PhaseComputing
	st.runs++
	out, err := invoke(ctx, st.binding.Produce, in)
	if err != nil {
		st.phase = PhaseIdle
		st.failures++
		st.lastErr = err
		e.logger.Error("output recomputation failed; keeping last published payload",
			zap.String("region", region),
			zap.Bool("has_previous", st.hasOutput),
			zap.Error(err),
		)
		e.opts.Telemetry.Record(ctx, "dashboard.binding.failure", map[string]any{
			"panel":  e.opts.Panel,
			"region": region,
			"error":  err.Error(),
		})
		return Update{Region: region, Output: st.output, Version: st.version, Stale: true, Err: err}, false
	}

	st.output = out
	st.hasOutput = true
	st.lastErr = nil
	st.version++
	st.phase = PhasePublished
	if hookErr := e.opts.Hook.OutputPublished(ctx, Publication{
		Panel:   e.opts.Panel,
		Region:  region,
		Version: st.version,
		Output:  out,
	}); hookErr != nil {
		e.logger.Warn("publish hook failed", zap.String("region", region), zap.Error(hookErr))
	}
	e.opts.Telemetry.Record(ctx, "dashboard.binding.publish", map[string]any{
		"panel":   e.opts.Panel,
		"region":  region,
		"version": st.version,
	})
	st.phase = PhaseIdle
	return Update{Region: region, Output: out, Version: st.version}, true
}

func (e *Engine) snapshot(inputs []Source) Inputs {
	values := make(map[Source]any, len(inputs))
	for _, src := range inputs {
		switch src.Kind {
		case SourceControl:
			values[src] = e.controls[src.Name]
		case SourceDataset:
			if table, ok := e.opts.Datasets.Table(src.Name); ok {
				values[src] = table
			}
		case SourceOutput:
			if up := e.states[src.Name]; up != nil && up.hasOutput {
				values[src] = up.output
			}
		}
	}
	return Inputs{values: values}
}

func invoke(ctx context.Context, fn ProduceFunc, in Inputs) (out Output, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dashboard: producer panicked: %v", r)
		}
	}()
	return fn(ctx, in)
}

// Status returns the state kept for region.
func (e *Engine) Status(region string) (BindingStatus, bool) {
	st, ok := e.states[region]
	if !ok {
		return BindingStatus{}, false
	}
	return BindingStatus{
		Region:    region,
		Phase:     st.phase,
		Version:   st.version,
		Runs:      st.runs,
		Failures:  st.failures,
		LastError: st.lastErr,
		HasOutput: st.hasOutput,
		Output:    st.output,
	}, true
}

// Outputs returns the last published payload of every region that has one.
func (e *Engine) Outputs() map[string]Output {
	out := make(map[string]Output, len(e.states))
	for region, st := range e.states {
		if st.hasOutput {
			out[region] = st.output
		}
	}
	return out
}

// Regions returns the bound regions in pass order.
func (e *Engine) Regions() []string {
	return slices.Clone(e.order)
}

func appendUnique(list []string, value string) []string {
	if slices.Contains(list, value) {
		return list
	}
	return append(list, value)
}
