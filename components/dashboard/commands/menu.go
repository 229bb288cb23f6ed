package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-crm-dashboard/components/dashboard"
)

// ToggleMenuInput flips the mobile tab strip.
type ToggleMenuInput struct {
	Result *dashboard.MenuState `json:"-"`
}

type menuToggler interface {
	ToggleMenu(ctx context.Context) dashboard.MenuState
}

// ToggleMenuCommand flips the menu visibility.
type ToggleMenuCommand struct {
	toggler   menuToggler
	telemetry Telemetry
}

// NewToggleMenuCommand creates the command.
func NewToggleMenuCommand(toggler menuToggler, telemetry Telemetry) *ToggleMenuCommand {
	return &ToggleMenuCommand{toggler: toggler, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleMenuInput] = (*ToggleMenuCommand)(nil)

// Execute toggles the menu.
func (c *ToggleMenuCommand) Execute(ctx context.Context, msg ToggleMenuInput) error {
	if c.toggler == nil {
		return errors.New("toggle menu command requires toggler")
	}
	state := c.toggler.ToggleMenu(ctx)
	if msg.Result != nil {
		*msg.Result = state
	}
	c.telemetry.Record(ctx, "dashboard.command.menu", map[string]any{"visible": state.Visible})
	return nil
}
