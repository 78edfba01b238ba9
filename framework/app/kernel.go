package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/dico/framework/config"
	"github.com/km-arc/dico/framework/container"
	gohttp "github.com/km-arc/dico/framework/http"
	"github.com/km-arc/dico/framework/loader"
	"github.com/km-arc/dico/framework/logging"
	"github.com/km-arc/dico/framework/metrics"
	"github.com/km-arc/dico/framework/providers"
	"github.com/km-arc/dico/framework/routing"
)

// Application wires one named container together with its providers, the
// module table used by the bulk loader and the inspector server.
// It embeds the Registry so user code can call app.Set(), app.Service()
// and app.Resolve() directly.
type Application struct {
	*container.Registry
	Providers *container.ProviderRegistry
	Modules   *loader.Modules

	cfg     *config.Config
	log     *zap.Logger
	baseDir string
}

var (
	appsMu sync.Mutex
	apps   = make(map[*container.Registry]*Application)
)

// New loads configuration, builds the logger and registers the framework
// providers against the container named by DICO_CONTAINER.
//
// There is one Application per container: when one was already built for
// that container it is returned as-is and envFiles only select the name.
func New(envFiles ...string) *Application {
	cfg := config.Load(envFiles...)
	log := logging.New(cfg.Log).With(zap.String("app", cfg.App.Name))

	c := container.Named(cfg.Container.Name, container.WithLogger(log))

	appsMu.Lock()
	defer appsMu.Unlock()
	if existing, ok := apps[c]; ok {
		return existing
	}

	registry := container.NewProviderRegistry(c)

	app := &Application{
		Registry:  c,
		Providers: registry,
		Modules:   loader.NewModules(),
		cfg:       cfg,
		log:       log,
	}
	if wd, err := os.Getwd(); err == nil {
		app.baseDir = wd
	}

	registry.Register(&providers.ConfigServiceProvider{Config: cfg})
	registry.Register(&providers.LoggingServiceProvider{Logger: log})
	registry.Register(&providers.MetricsServiceProvider{Runtime: true})
	registry.Register(&providers.RoutingServiceProvider{})

	apps[c] = app
	return app
}

// Register adds a Provider to the application.
func (a *Application) Register(provider container.Provider) {
	a.Providers.Register(provider)
}

// Module makes a factory loadable by the bulk loader under id. Relative ids
// resolve against the working directory.
//
//	app.Module("./services/mailer", mailer.Factory)
func (a *Application) Module(id string, f container.Factory) *Application {
	a.Modules.Register(loader.ResolveID(id, a.baseDir), f)
	return a
}

// Boot runs the providers' Boot phase, then loads the declaration file named
// by DICO_CONFIG (if any) and mounts the inspector routes. Later calls are
// no-ops.
func (a *Application) Boot() error {
	if a.Providers.Booted() {
		return nil
	}
	a.Providers.Boot()

	if file := a.cfg.Container.File; file != "" {
		if err := a.LoadFile(file); err != nil {
			return err
		}
	}

	router, err := a.Router()
	if err != nil {
		return err
	}
	router.Prefix("/inspect", gohttp.NewInspector(a.Registry, a.log).Routes)
	if m, ok := container.ParamAs[*metrics.Metrics](a.Root(), "metrics"); ok {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			m.Snapshot(a.Registry)
			m.Handler().ServeHTTP(w, r)
		})
	}
	return nil
}

// LoadFile bulk-loads a declaration file into the application container.
// Relative module ids resolve against the file's directory.
func (a *Application) LoadFile(path string) error {
	ld := loader.New(a.Modules, loader.WithLogger(a.log))
	if err := ld.LoadFile(a.Registry, path); err != nil {
		return fmt.Errorf("app: load %s: %w", path, err)
	}
	return nil
}

// Config returns the configuration the application was built with.
func (a *Application) Config() *config.Config { return a.cfg }

// Logger returns the application logger.
func (a *Application) Logger() *zap.Logger { return a.log }

// Router resolves *routing.Router from the container.
func (a *Application) Router() (*routing.Router, error) {
	return container.ResolveAs[*routing.Router](a.Root(), "router")
}

// Run boots the application (if needed) and serves the inspector until ctx
// ends. With HTTP_ENABLED=false it returns right after booting.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Boot(); err != nil {
		return err
	}
	if !a.cfg.HTTP.Enabled {
		a.log.Info("http disabled, not serving")
		return nil
	}

	router, err := a.Router()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              ":" + a.cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("serving inspector",
			zap.String("addr", srv.Addr),
			zap.String("env", a.cfg.App.Env),
			zap.String("container", a.Name()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.cfg.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.cfg.App.Debug }
