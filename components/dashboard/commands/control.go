package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-crm-dashboard/components/dashboard"
)

// ChangeControlInput sets a control of the mounted panel.
type ChangeControlInput struct {
	Control string `json:"control"`
	Value   string `json:"value"`
	// Result receives the recomputed regions when set.
	Result *dashboard.ControlChange `json:"-"`
}

// Validate ensures the control id is present.
func (in ChangeControlInput) Validate() error {
	if in.Control == "" {
		return errors.New("control id is required")
	}
	return nil
}

type controlChanger interface {
	ChangeControl(ctx context.Context, id, value string) (dashboard.ControlChange, error)
}

// ChangeControlCommand applies a control value and runs one update pass.
type ChangeControlCommand struct {
	changer   controlChanger
	telemetry Telemetry
}

// NewChangeControlCommand creates the command.
func NewChangeControlCommand(changer controlChanger, telemetry Telemetry) *ChangeControlCommand {
	return &ChangeControlCommand{changer: changer, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ChangeControlInput] = (*ChangeControlCommand)(nil)

// Execute validates the input and forwards it to the session.
func (c *ChangeControlCommand) Execute(ctx context.Context, msg ChangeControlInput) error {
	if c.changer == nil {
		return errors.New("change control command requires changer")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	change, err := c.changer.ChangeControl(ctx, msg.Control, msg.Value)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = change
	}
	c.telemetry.Record(ctx, "dashboard.command.control", map[string]any{
		"panel":   change.Panel,
		"control": msg.Control,
		"updates": len(change.Updates),
	})
	return nil
}
