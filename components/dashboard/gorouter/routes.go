package gorouter

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-crm-dashboard/components/dashboard"
	"github.com/goliatone/go-crm-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-crm-dashboard/components/dashboard/httpapi"
)

// Config wires go-router with the dashboard controller, API and broadcast hook.
type Config[T any] struct {
	Router     router.Router[T]
	Controller *dashboard.Controller
	API        httpapi.Executor
	Broadcast  *dashboard.BroadcastHook
	BasePath   string
	Routes     RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	Home      string
	Panel     string
	Page      string
	Controls  string
	Menu      string
	WebSocket string
}

// Register mounts the dashboard routes (HTML, JSON, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := cfg.routes()
	group := cfg.Router.Group(cfg.BasePath)

	renderPath := func(ctx router.Context, path string) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderPage(ctx.Context(), path, &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}

	group.Get(routes.Home, router.WrapHandler(func(ctx router.Context) error {
		return renderPath(ctx, "/")
	}))

	group.Get(routes.Panel, router.WrapHandler(func(ctx router.Context) error {
		return renderPath(ctx, PanelPath(ctx.Param("name")))
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

// PanelPath is the router path of the panel tab named name.
func PanelPath(name string) string {
	return "/panel/" + name
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, routes RouteConfig) {
	r.Get(routes.Page, router.WrapHandler(func(ctx router.Context) error {
		var page dashboard.PageState
		if err := api.Navigate(ctx.Context(), commands.NavigateInput{Path: ctx.Query("path"), Result: &page}); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, page)
	}))

	r.Post(routes.Controls, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ChangeControlInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		var change dashboard.ControlChange
		payload.Result = &change
		if err := api.ChangeControl(ctx.Context(), payload); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, change)
	}))

	r.Post(routes.Menu, router.WrapHandler(func(ctx router.Context) error {
		var state dashboard.MenuState
		if err := api.ToggleMenu(ctx.Context(), commands.ToggleMenuInput{Result: &state}); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, state)
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func (cfg Config[T]) routes() RouteConfig {
	return defaultRouteConfig(cfg.Routes)
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Home == "" {
		routes.Home = "/"
	}
	if routes.Panel == "" {
		routes.Panel = "/panel/:name"
	}
	if routes.Page == "" {
		routes.Page = "/_page"
	}
	if routes.Controls == "" {
		routes.Controls = "/controls"
	}
	if routes.Menu == "" {
		routes.Menu = "/menu"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
