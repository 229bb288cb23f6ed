package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-crm-dashboard/components/dashboard"
)

// NavigateInput mounts the panel registered for Path.
type NavigateInput struct {
	Path string `json:"path"`
	// Result receives the mounted page when set.
	Result *dashboard.PageState `json:"-"`
}

type pageNavigator interface {
	Page(ctx context.Context, path string) (dashboard.PageState, error)
}

// NavigateCommand resolves a path and mounts its panel.
type NavigateCommand struct {
	navigator pageNavigator
	telemetry Telemetry
}

// NewNavigateCommand creates the command.
func NewNavigateCommand(navigator pageNavigator, telemetry Telemetry) *NavigateCommand {
	return &NavigateCommand{navigator: navigator, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[NavigateInput] = (*NavigateCommand)(nil)

// Execute navigates and stores the page in msg.Result.
func (c *NavigateCommand) Execute(ctx context.Context, msg NavigateInput) error {
	if c.navigator == nil {
		return errors.New("navigate command requires navigator")
	}
	page, err := c.navigator.Page(ctx, msg.Path)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = page
	}
	c.telemetry.Record(ctx, "dashboard.command.navigate", map[string]any{
		"path":     msg.Path,
		"panel":    page.Panel,
		"fallback": page.Navigation.Fallback,
	})
	return nil
}
