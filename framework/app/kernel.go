package app

import (
	"fmt"
	"net/http"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/logging"
	"github.com/km-arc/go-container/framework/providers"
	"github.com/km-arc/go-container/framework/routing"
)

// Application is the top-level application container.
// It embeds the Container and ProviderRegistry so user code can call
// app.Set(), app.Share(), app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New loads configuration, builds the logger and registers the framework
// providers.
func New(envFiles ...string) *Application {
	cfg := config.Load(envFiles...)
	logger := logging.MustNew(cfg.Log)

	c := container.New(container.WithLogger(logger))
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
	}

	registry.Register(&providers.ConfigServiceProvider{Config: cfg})
	registry.Register(&providers.LoggingServiceProvider{Logger: logger})
	registry.Register(&providers.MetricsServiceProvider{})
	registry.Register(&providers.RoutingServiceProvider{})

	return app
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() {
	a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, "config")
}

// Logger resolves *zap.Logger from the container.
func (a *Application) Logger() *zap.Logger {
	return container.MustResolve[*zap.Logger](a.Container, "logger")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, "router")
}

// Run boots the application (if needed) and starts the HTTP server.
func (a *Application) Run() error {
	if !a.Providers.Booted() {
		a.Boot()
	}
	cfg := a.Config()
	logger := a.Logger()
	defer func() { _ = logger.Sync() }()

	addr := ":" + cfg.App.Port
	banner := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Printf("%s  %s running on http://localhost%s  [%s]\n",
		banner("▶"), cfg.App.Name, addr, color.CyanString(cfg.App.Env))
	if cfg.Inspector.Enabled {
		fmt.Printf("   inspector: http://localhost%s%s\n", addr, cfg.Inspector.Prefix)
	}

	logger.Info("server starting", zap.String("addr", addr), zap.Int("bindings", len(a.Bindings())))
	if err := http.ListenAndServe(addr, a.Router()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
