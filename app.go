package nab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type Startable interface {
	Start(context.Context) error
}

type Stoppable interface {
	Stop(context.Context) error
}

// HTTPModule exposes a route registration entrypoint for HTTP transports.
type HTTPModule interface {
	RegisterRoutes(router chi.Router)
}

// Runner is a long-lived component managed by the App lifecycle.
type Runner interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// ShutdownFunc is executed when Run exits, giving modules a chance to release resources.
type ShutdownFunc func(context.Context) error

// App wires dependencies, runners, and shutdown hooks for a single service
// binary.
type App struct {
	cfg *Config
	log Logger

	httpConfigured  bool
	httpMiddlewares []func(http.Handler) http.Handler
	healthNames     []string
	debugRoutes     bool

	runners    []Runner
	startFuncs []func(context.Context) error
	stopFuncs  []func(context.Context) error
	shutdown   []ShutdownFunc
}

// Option mutates the App instance during construction.
type Option func(*App) error

// NewApp builds an App, applying the provided options sequentially. It panics
// when an option returns an error or mandatory dependencies are missing.
func NewApp(opts ...Option) *App {
	app := &App{}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			panic(fmt.Errorf("applying option: %w", err))
		}
	}
	if app.log == nil {
		panic("logger dependency must be configured")
	}
	if app.cfg == nil {
		panic("config dependency must be configured")
	}
	return app
}

// WithConfig installs the shared configuration store.
func WithConfig(cfg *Config) Option {
	return func(app *App) error {
		if cfg == nil {
			return errors.New("nil config provided")
		}
		app.cfg = cfg
		return nil
	}
}

// WithLogger installs the shared logger instance.
func WithLogger(logger Logger) Option {
	return func(app *App) error {
		if logger == nil {
			return errors.New("nil logger provided")
		}
		app.log = logger
		return nil
	}
}

// WithHTTPMiddleware appends middleware applied to every HTTP route.
func WithHTTPMiddleware(mws ...func(http.Handler) http.Handler) Option {
	return func(app *App) error {
		app.httpMiddlewares = append(app.httpMiddlewares, mws...)
		return nil
	}
}

// WithHealthChecks registers always-healthy liveness and readiness probes
// under the provided component names.
func WithHealthChecks(names ...string) Option {
	return func(app *App) error {
		app.healthNames = append(app.healthNames, names...)
		return nil
	}
}

// WithDebugRoutes exposes GET /debug/routes on the HTTP server.
func WithDebugRoutes() Option {
	return func(app *App) error {
		app.debugRoutes = true
		return nil
	}
}

// WithLifecycle registers components implementing Startable and/or Stoppable
// so their hooks run with the app lifecycle.
func WithLifecycle(comps ...any) Option {
	return func(app *App) error {
		for _, c := range comps {
			if s, ok := c.(Startable); ok {
				app.startFuncs = append(app.startFuncs, s.Start)
			}
			if s, ok := c.(Stoppable); ok {
				app.stopFuncs = append(app.stopFuncs, s.Stop)
			}
		}
		return nil
	}
}

// WithShutdown registers a hook executed after all runners stop.
func WithShutdown(fn ShutdownFunc) Option {
	return func(app *App) error {
		if fn == nil {
			return errors.New("nil shutdown hook provided")
		}
		app.shutdown = append(app.shutdown, fn)
		return nil
	}
}

// WithHTTPServer wires a chi-based HTTP server runner. It registers the
// modules' routes, mounts health and debug endpoints, and manages the server
// as part of the app lifecycle. The listen address is read from the config
// property named by addrKey.
func WithHTTPServer(addrKey string, modules ...HTTPModule) Option {
	return func(app *App) error {
		if addrKey == "" {
			return errors.New("http addr property key required")
		}
		if app.httpConfigured {
			return errors.New("http server already configured")
		}
		if app.cfg == nil {
			return errors.New("config must be set before the http server")
		}
		app.httpConfigured = true

		router := chi.NewRouter()
		for _, mw := range app.httpMiddlewares {
			if mw == nil {
				continue
			}
			router.Use(mw)
		}

		registry := NewHealthRegistry()
		RegisterHealthEndpoints(router, registry)
		registry.RegisterLiveness("core", HealthStatusOK)
		registry.RegisterReadiness("core", HealthStatusOK)
		for _, name := range app.healthNames {
			registry.RegisterLiveness(name, HealthStatusOK)
			registry.RegisterReadiness(name, HealthStatusOK)
		}
		RegisterDebugRoutes(router, app.debugRoutes)

		for _, module := range modules {
			if module == nil {
				return errors.New("nil http module provided")
			}
			module.RegisterRoutes(router)
			if reporter, ok := module.(HealthReporter); ok {
				registry.RegisterChecks(reporter.HealthChecks())
			}
			if startable, ok := module.(Startable); ok {
				app.startFuncs = append(app.startFuncs, startable.Start)
			}
			if stoppable, ok := module.(Stoppable); ok {
				app.stopFuncs = append(app.stopFuncs, stoppable.Stop)
			}
		}

		addr := app.cfg.GetPort(addrKey, ":8080")
		server := &http.Server{
			Addr:    addr,
			Handler: router,
		}
		app.runners = append(app.runners, newHTTPServerRunner(server))
		return nil
	}
}

// Run starts lifecycle hooks and runners, blocks until the context is
// cancelled, then stops everything in reverse order. Errors emitted while
// stopping or during shutdown are aggregated.
func (app *App) Run(ctx context.Context) error {
	for i, start := range app.startFuncs {
		if err := start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				if stopErr := app.stopFuncs[j](context.Background()); stopErr != nil {
					err = errors.Join(err, fmt.Errorf("lifecycle rollback: %w", stopErr))
				}
			}
			return fmt.Errorf("lifecycle start: %w", err)
		}
	}

	for _, runner := range app.runners {
		if err := runner.Start(ctx); err != nil {
			return fmt.Errorf("runner start: %w", err)
		}
	}

	<-ctx.Done()

	var aggErr error
	for i := len(app.runners) - 1; i >= 0; i-- {
		if err := app.runners[i].Stop(ctx); err != nil {
			aggErr = errors.Join(aggErr, fmt.Errorf("runner stop: %w", err))
		}
	}
	for i := len(app.stopFuncs) - 1; i >= 0; i-- {
		if err := app.stopFuncs[i](ctx); err != nil {
			aggErr = errors.Join(aggErr, fmt.Errorf("lifecycle stop: %w", err))
		}
	}
	for _, hook := range app.shutdown {
		if err := hook(ctx); err != nil {
			aggErr = errors.Join(aggErr, fmt.Errorf("shutdown hook: %w", err))
		}
	}
	return aggErr
}

type httpServerRunner struct {
	server *http.Server
	errCh  chan error
}

func newHTTPServerRunner(server *http.Server) Runner {
	return &httpServerRunner{server: server, errCh: make(chan error, 1)}
}

func (r *httpServerRunner) Start(_ context.Context) error {
	go func() {
		if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.errCh <- err
		}
		close(r.errCh)
	}()
	return nil
}

func (r *httpServerRunner) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := r.server.Shutdown(shutdownCtx)
	select {
	case srvErr, ok := <-r.errCh:
		if ok && srvErr != nil {
			err = errors.Join(err, srvErr)
		}
	default:
	}
	return err
}

// NormalizePort ensures ports always include the leading colon and fall back
// to a sensible default when unset.
func NormalizePort(port, fallback string) string {
	p := port
	if p == "" {
		p = fallback
	}
	if p == "" {
		return ":8080"
	}
	if p[0] == ':' {
		return p
	}
	for i := 0; i < len(p); i++ {
		if p[i] == ':' {
			return p
		}
	}
	return ":" + p
}
