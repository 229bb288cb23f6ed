package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidControlValue wraps values rejected by a control schema.
var ErrInvalidControlValue = errors.New("dashboard: invalid control value")

// ControlValidator checks a value before it reaches Control State.
type ControlValidator interface {
	Validate(panel string, def ControlDefinition, value string) error
}

// JSONSchemaValidator compiles control schemas and validates submitted values.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures value is accepted by the control schema.
func (v *JSONSchemaValidator) Validate(panel string, def ControlDefinition, value string) error {
	schema, err := v.schemaFor(panel, def)
	if err != nil {
		return err
	}
	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("%w %q for %s: %w", ErrInvalidControlValue, value, def.ID, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(panel string, def ControlDefinition) (*jsonschema.Schema, error) {
	key := panel + "." + def.ID
	v.mu.RLock()
	schema, ok := v.compiled[key]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(def.Schema())
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal schema %s: %w", key, err)
	}
	compiler := jsonschema.NewCompiler()
	name := key + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", key, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", key, err)
	}
	v.mu.Lock()
	v.compiled[key] = compiled
	v.mu.Unlock()
	return compiled, nil
}
