package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/inspector"
	"github.com/km-arc/go-container/framework/metrics"
	"github.com/km-arc/go-container/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the loaded configuration.
//
// Bound ids:
//   - "config"  → *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	cfg := p.Config
	app.Share("config", func(c *container.Container) any {
		if cfg == nil {
			return config.Load()
		}
		return cfg
	})
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the application logger.
//
// Bound ids:
//   - "logger"  → *zap.Logger
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) {
	l := p.Logger
	if l == nil {
		l = zap.NewNop()
	}
	app.Share("logger", func(c *container.Container) any { return l })
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider binds the Prometheus collector and, when metrics are
// enabled, attaches it to the container during Boot.
//
// Bound ids:
//   - "metrics"  → *metrics.Collector
type MetricsServiceProvider struct {
	container.BaseProvider
}

func (p *MetricsServiceProvider) Register(app *container.Container) {
	app.Share("metrics", func(c *container.Container) any {
		return metrics.NewCollector()
	})
}

func (p *MetricsServiceProvider) Boot(app *container.Container) {
	cfg := container.MustResolve[*config.Config](app, "config")
	if !cfg.Metrics.Enabled {
		return
	}
	container.MustResolve[*metrics.Collector](app, "metrics").Attach(app)
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router with the inspector and
// metrics endpoints mounted according to configuration.
//
// Bound ids:
//   - "inspector"  → *inspector.Inspector
//   - "router"     → *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	app.Share("inspector", func(c *container.Container) any {
		return inspector.New(c, container.MustResolve[*zap.Logger](c, "logger"))
	})

	app.Share("router", func(c *container.Container) any {
		cfg := container.MustResolve[*config.Config](c, "config")
		r := routing.New(container.MustResolve[*zap.Logger](c, "logger"))

		if cfg.Inspector.Enabled {
			container.MustResolve[*inspector.Inspector](c, "inspector").Mount(r, cfg.Inspector.Prefix)
		}
		if cfg.Metrics.Enabled {
			r.Handle(cfg.Metrics.Path, container.MustResolve[*metrics.Collector](c, "metrics").Handler())
		}
		return r
	})
}
