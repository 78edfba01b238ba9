package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/dico/framework/config"
	"github.com/km-arc/dico/framework/container"
	"github.com/km-arc/dico/framework/metrics"
	"github.com/km-arc/dico/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the loaded configuration into the container.
//
// Parameters set:
//   - "config"     → *config.Config
//   - "app.name"   → string
//   - "app.env"    → string
//   - "app.debug"  → bool
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Registry) {
	cfg := p.Config
	if cfg == nil {
		cfg = config.Load()
	}
	app.Set("config", cfg)
	app.Set("app.name", cfg.App.Name)
	app.Set("app.env", cfg.App.Env)
	app.Set("app.debug", cfg.App.Debug)
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the application logger.
//
// Parameters set:
//   - "logger"  → *zap.Logger
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Registry) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	app.Set("logger", log)
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider binds the Prometheus metrics and, on boot, starts
// counting the container's instantiations.
//
// Parameters set:
//   - "metrics"  → *metrics.Metrics
type MetricsServiceProvider struct {
	container.BaseProvider
	Runtime bool // add Go runtime and process collectors
	m       *metrics.Metrics
}

func (p *MetricsServiceProvider) Register(app *container.Registry) {
	var opts []metrics.Option
	if p.Runtime {
		opts = append(opts, metrics.WithRuntimeCollectors())
	}
	p.m = metrics.New(opts...)
	app.Set("metrics", p.m)
}

func (p *MetricsServiceProvider) Boot(app *container.Registry) {
	p.m.Observe(app)
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router. It is deferred: nothing
// is built until "router" is first requested as a service.
//
// Services:
//   - "router"  → *routing.Router (logs through "logger" when set)
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Registry) {
	app.Set("router", container.Sync(func(s *container.Scope) (any, error) {
		log, _ := container.ParamAs[*zap.Logger](s, "logger")
		return routing.New(log), nil
	}))
}

func (p *RoutingServiceProvider) IsDeferred() bool   { return true }
func (p *RoutingServiceProvider) Provides() []string { return []string{"router"} }
