package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-crm-dashboard/components/dashboard"
	"github.com/goliatone/go-crm-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-crm-dashboard/components/dashboard/gorouter"
	"github.com/goliatone/go-crm-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-crm-dashboard/internal/config"
	"github.com/goliatone/go-crm-dashboard/pkg/crm"
	dashboardpkg "github.com/goliatone/go-crm-dashboard/pkg/dashboard"
)

type cli struct {
	Config string `short:"c" type:"path" help:"Path to a crmboard YAML config file."`

	Serve    serveCmd    `cmd:"" default:"1" help:"Serve the dashboard over HTTP."`
	Render   renderCmd   `cmd:"" help:"Render one panel to stdout."`
	Manifest manifestCmd `cmd:"" help:"Manage layout manifests."`
}

type serveCmd struct {
	Addr string `help:"Listen address (overrides server.addr)."`
}

type renderCmd struct {
	Path   string   `default:"/" help:"Route path of the panel to render."`
	Set    []string `help:"Control value as id=value (repeatable)."`
	Format string   `default:"json" enum:"json,html" help:"Output format (json, html)."`
}

type manifestCmd struct {
	Init  manifestInitCmd  `cmd:"" help:"Write the default manifest."`
	Check manifestCheckCmd `cmd:"" help:"Validate a manifest against the panel registry."`
}

type manifestInitCmd struct {
	Out string `type:"path" help:"Destination file (defaults to stdout)."`
}

type manifestCheckCmd struct {
	File string `arg:"" type:"existingfile" help:"Manifest to validate."`
}

func main() {
	var app cli
	ctx := kong.Parse(&app,
		kong.Name("crmboard"),
		kong.Description("CRM business intelligence dashboard."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&app)
	ctx.FatalIfErrorf(err)
}

// stack bundles the objects shared by serve and render.
type stack struct {
	cfg        config.Config
	logger     *zap.Logger
	datasets   *dashboard.Datasets
	service    *dashboard.Service
	hook       *dashboard.BroadcastHook
	controller *dashboard.Controller
}

func (s *stack) Close() {
	if s.datasets != nil {
		if err := s.datasets.Close(); err != nil {
			s.logger.Warn("close datasets", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}

func build(ctx context.Context, configPath string) (*stack, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	var manifest *dashboard.ManifestDocument
	if cfg.Dashboard.Manifest != "" {
		if manifest, err = dashboard.ReadManifest(cfg.Dashboard.Manifest); err != nil {
			return nil, err
		}
	}

	provider, err := crm.Open(cfg.Provider())
	if err != nil {
		return nil, err
	}
	hook := dashboard.NewBroadcastHook()
	service, datasets, err := dashboardpkg.Load(ctx, provider, dashboard.Options{
		Manifest:  manifest,
		Hook:      hook,
		Telemetry: dashboard.NewLoggerTelemetry(logger),
		Logger:    logger,
	})
	if err != nil {
		if closer, ok := provider.(io.Closer); ok {
			_ = closer.Close()
		}
		return nil, fmt.Errorf("crmboard: load %s data: %w", cfg.Data.Source, err)
	}
	logger.Info("datasets loaded", zap.String("source", cfg.Data.Source), zap.Strings("tables", datasets.Names()))

	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		_ = datasets.Close()
		return nil, err
	}
	charts := dashboard.NewEChartsRenderer(
		dashboard.WithChartTheme(cfg.Charts.Theme),
		dashboard.WithChartCache(dashboard.NewChartCache(cfg.Charts.CacheTTL)),
	)
	controller := dashboard.NewController(dashboard.ControllerOptions{
		Sessions: service,
		Renderer: renderer,
		Charts:   charts,
		BasePath: strings.TrimRight(cfg.Server.BasePath, "/"),
		Theme:    cfg.Charts.Theme,
		Logger:   logger,
	})
	return &stack{
		cfg:        cfg,
		logger:     logger,
		datasets:   datasets,
		service:    service,
		hook:       hook,
		controller: controller,
	}, nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("crmboard: log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func (cmd *serveCmd) Run(app *cli) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := build(ctx, app.Config)
	if err != nil {
		return err
	}
	defer s.Close()

	telemetry := dashboard.NewLoggerTelemetry(s.logger)
	executor := &httpapi.CommandExecutor{
		NavigateCommander: commands.NewNavigateCommand(s.controller, telemetry),
		ControlCommander:  commands.NewChangeControlCommand(s.controller, telemetry),
		MenuCommander:     commands.NewToggleMenuCommand(s.controller, telemetry),
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: s.controller,
		API:        executor,
		Broadcast:  s.hook,
		BasePath:   s.cfg.Server.BasePath,
	}); err != nil {
		return fmt.Errorf("crmboard: register routes: %w", err)
	}

	addr := s.cfg.Server.Addr
	if cmd.Addr != "" {
		addr = cmd.Addr
	}
	errs := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", zap.String("addr", addr), zap.String("base_path", s.cfg.Server.BasePath))
		errs <- server.Serve(addr)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return server.Shutdown(shutdown)
}

func (cmd *renderCmd) Run(app *cli) error {
	ctx := context.Background()
	s, err := build(ctx, app.Config)
	if err != nil {
		return err
	}
	defer s.Close()
	return cmd.render(ctx, s.controller, os.Stdout)
}

func (cmd *renderCmd) render(ctx context.Context, controller *dashboard.Controller, out io.Writer) error {
	page, err := controller.Page(ctx, cmd.Path)
	if err != nil {
		return err
	}
	for _, assignment := range cmd.Set {
		id, value, ok := strings.Cut(assignment, "=")
		if !ok || id == "" {
			return fmt.Errorf("crmboard: --set expects id=value, got %q", assignment)
		}
		if _, err := controller.ChangeControl(ctx, id, value); err != nil {
			return err
		}
	}
	if cmd.Format == "html" {
		return controller.RenderPage(ctx, page.Navigation.Route.Path, out)
	}
	if page, err = controller.Current(ctx); err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(page)
}

func (cmd *manifestInitCmd) Run() error {
	if cmd.Out == "" {
		return dashboard.WriteManifest(os.Stdout, dashboard.DefaultManifest())
	}
	if _, err := os.Stat(cmd.Out); err == nil {
		return fmt.Errorf("crmboard: %s already exists", cmd.Out)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	f, err := os.Create(cmd.Out)
	if err != nil {
		return err
	}
	if err := dashboard.WriteManifest(f, dashboard.DefaultManifest()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (cmd *manifestCheckCmd) Run() error {
	doc, err := dashboard.ReadManifest(cmd.File)
	if err != nil {
		return err
	}
	registry, err := dashboard.NewRegistry()
	if err != nil {
		return err
	}
	if err := doc.CheckPanels(registry); err != nil {
		return err
	}
	fmt.Printf("%s: %d tabs ok\n", cmd.File, len(doc.Tabs))
	return nil
}
