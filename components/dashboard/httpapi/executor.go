package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm-dashboard/components/dashboard/commands"
)

// Executor runs dashboard interactions for transports.
type Executor interface {
	Navigate(ctx context.Context, input commands.NavigateInput) error
	ChangeControl(ctx context.Context, input commands.ChangeControlInput) error
	ToggleMenu(ctx context.Context, input commands.ToggleMenuInput) error
}

var errCommandNotConfigured = errors.New("httpapi: command not configured")

// CommandExecutor adapts go-command Commanders to Executor.
type CommandExecutor struct {
	NavigateCommander gocommand.Commander[commands.NavigateInput]
	ControlCommander  gocommand.Commander[commands.ChangeControlInput]
	MenuCommander     gocommand.Commander[commands.ToggleMenuInput]
}

var _ Executor = (*CommandExecutor)(nil)

// Navigate executes the navigate command.
func (e *CommandExecutor) Navigate(ctx context.Context, input commands.NavigateInput) error {
	if e.NavigateCommander == nil {
		return errCommandNotConfigured
	}
	return e.NavigateCommander.Execute(ctx, input)
}

// ChangeControl executes the change control command.
func (e *CommandExecutor) ChangeControl(ctx context.Context, input commands.ChangeControlInput) error {
	if e.ControlCommander == nil {
		return errCommandNotConfigured
	}
	return e.ControlCommander.Execute(ctx, input)
}

// ToggleMenu executes the toggle menu command.
func (e *CommandExecutor) ToggleMenu(ctx context.Context, input commands.ToggleMenuInput) error {
	if e.MenuCommander == nil {
		return errCommandNotConfigured
	}
	return e.MenuCommander.Execute(ctx, input)
}
