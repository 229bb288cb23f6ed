package dashboard

// ControlKind names the input widget rendering a control.
type ControlKind string

const (
	ControlDropdown ControlKind = "dropdown"
	ControlText     ControlKind = "text"
)

// Option is one selectable value of a dropdown.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// ControlDefinition describes an input control of a panel.
type ControlDefinition struct {
	ID      string      `json:"id"`
	Label   string      `json:"label,omitempty"`
	Kind    ControlKind `json:"kind"`
	Options []Option    `json:"options,omitempty"`
	Default string      `json:"default"`
}

// Values returns the option values in display order.
func (c ControlDefinition) Values() []string {
	out := make([]string, len(c.Options))
	for i, opt := range c.Options {
		out[i] = opt.Value
	}
	return out
}

// Schema returns the JSON schema accepted values must satisfy.
func (c ControlDefinition) Schema() map[string]any {
	if len(c.Options) == 0 {
		return map[string]any{"type": "string"}
	}
	enum := make([]any, len(c.Options))
	for i, opt := range c.Options {
		enum[i] = opt.Value
	}
	return map[string]any{"type": "string", "enum": enum}
}

// dropdown builds a dropdown whose labels equal their values.
func dropdown(id, label, def string, values ...string) ControlDefinition {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Label: v, Value: v}
	}
	return ControlDefinition{ID: id, Label: label, Kind: ControlDropdown, Options: opts, Default: def}
}

// periodDropdown is the Day/Week/Month resampling selector.
func periodDropdown(id string) ControlDefinition {
	return ControlDefinition{
		ID:   id,
		Kind: ControlDropdown,
		Options: []Option{
			{Label: "By day", Value: string(PeriodDay)},
			{Label: "By week", Value: string(PeriodWeek)},
			{Label: "By month", Value: string(PeriodMonth)},
		},
		Default: string(PeriodDay),
	}
}
