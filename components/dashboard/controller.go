package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

const defaultPageTemplate = "page"

var errMissingRenderer = errors.New("dashboard: template renderer not configured")

// SessionSource hands out the session a request operates on.
type SessionSource interface {
	Session() *Session
}

// ControllerOptions configures the controller.
type ControllerOptions struct {
	Sessions SessionSource
	Renderer Renderer
	Charts   ChartRenderer
	Template string
	// BasePath prefixes every tab link in rendered pages.
	BasePath string
	Theme    string
	Logger   *zap.Logger
}

// Controller exposes session operations to transports and renders pages.
type Controller struct {
	opts ControllerOptions
}

// NewController wires the session source and renderers into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = defaultPageTemplate
	}
	if opts.Charts == nil {
		opts.Charts = NewEChartsRenderer()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Controller{opts: opts}
}

// Page navigates to path and returns the mounted panel.
func (c *Controller) Page(ctx context.Context, path string) (PageState, error) {
	return c.opts.Sessions.Session().Navigate(ctx, path)
}

// Current returns the mounted panel without navigating.
func (c *Controller) Current(ctx context.Context) (PageState, error) {
	return c.opts.Sessions.Session().Page(ctx)
}

// ChangeControl applies a control value to the mounted panel.
func (c *Controller) ChangeControl(ctx context.Context, id, value string) (ControlChange, error) {
	return c.opts.Sessions.Session().ChangeControl(ctx, id, value)
}

// ToggleMenu flips the tab strip visibility.
func (c *Controller) ToggleMenu(context.Context) MenuState {
	return c.opts.Sessions.Session().ToggleMenu()
}

// RenderPage navigates to path and writes the page HTML to out.
func (c *Controller) RenderPage(ctx context.Context, path string, out io.Writer) error {
	if c.opts.Renderer == nil {
		return errMissingRenderer
	}
	page, err := c.Page(ctx, path)
	if err != nil {
		return err
	}
	data, err := c.pageData(page)
	if err != nil {
		return err
	}
	if _, err := c.opts.Renderer.Render(c.opts.Template, data, out); err != nil {
		return fmt.Errorf("dashboard: render %s: %w", c.opts.Template, err)
	}
	return nil
}

// pageData flattens the page into plain maps for the template engine.
func (c *Controller) pageData(page PageState) (map[string]any, error) {
	tabs := make([]map[string]any, len(page.Navigation.Tabs))
	for i, tab := range page.Navigation.Tabs {
		tabs[i] = map[string]any{
			"label":    tab.Label,
			"href":     c.opts.BasePath + tab.Path,
			"selected": tab.Selected,
		}
	}
	controls := make(map[string]ControlState, len(page.Controls))
	for _, ctl := range page.Controls {
		controls[ctl.Definition.ID] = ctl
	}
	rows := make([]map[string]any, 0, len(page.Layout.Children))
	for _, child := range page.Layout.Children {
		leaves := child.leaves()
		items := make([]map[string]any, 0, len(leaves))
		for _, leaf := range leaves {
			item, err := c.itemData(leaf, page, controls)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		rows = append(rows, map[string]any{"class": child.Class, "items": items})
	}
	return map[string]any{
		"session_id": page.SessionID,
		"title":      page.Title,
		"panel":      page.Panel,
		"grid":       page.Layout.Class,
		"base_path":  c.opts.BasePath,
		"tabs":       tabs,
		"rows":       rows,
		"menu":       map[string]any{"visible": page.Menu.Visible, "display": page.Menu.Display},
	}, nil
}

func (c *Controller) itemData(node LayoutNode, page PageState, controls map[string]ControlState) (map[string]any, error) {
	item := map[string]any{
		"kind":  string(node.Kind),
		"id":    node.ID,
		"title": node.Title,
	}
	switch node.Kind {
	case NodeControl:
		ctl := controls[node.ID]
		options := make([]map[string]any, len(ctl.Definition.Options))
		for i, opt := range ctl.Definition.Options {
			options[i] = map[string]any{
				"label":    opt.Label,
				"value":    opt.Value,
				"selected": opt.Value == ctl.Value,
			}
		}
		item["options"] = options
		item["value"] = ctl.Value
		return item, nil
	case NodeHeading:
		return item, nil
	}
	region := page.Regions[node.ID]
	item["stale"] = region.Stale
	if region.Output == nil {
		return item, nil
	}
	out := region.Output
	switch out.Kind {
	case OutputChart:
		html, err := c.opts.Charts.RenderChart(node.ID, *out.Chart, c.opts.Theme)
		if err != nil {
			c.opts.Logger.Error("chart render failed", zap.String("region", node.ID), zap.Error(err))
			return nil, fmt.Errorf("dashboard: render chart %s: %w", node.ID, err)
		}
		item["html"] = html
	case OutputIndicator:
		item["text"] = out.Text
	case OutputTable:
		item["columns"] = out.Table.Columns
		item["rows"] = out.Table.Rows
	}
	return item, nil
}

// leaves returns the control, heading and region nodes under n.
func (n LayoutNode) leaves() []LayoutNode {
	var out []LayoutNode
	n.Walk(func(node LayoutNode) {
		if node.Kind != NodeRow && node.Kind != NodeColumn {
			out = append(out, node)
		}
	})
	return out
}
