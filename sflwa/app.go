package sflwa

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/advdv/bhttp"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// options collects the app configuration applied through Option values.
type options struct {
	health    func(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error
	fxOptions []fx.Option
}

// Option configures the App.
type Option func(*options)

// WithAWSClient registers an AWS SDK v2 client. The client is instrumented
// with OpenTelemetry, injectable into fx constructors by its type, and
// retrievable in handlers via [AWS]. Pass [ForPrimaryRegion] or [ForRegion]
// for clients that must target another region.
func WithAWSClient[T any](factory func(aws.Config) T, opts ...ClientOption) Option {
	return func(o *options) {
		o.fxOptions = append(o.fxOptions, AWSClientProvider(RegisterAWSClient(factory, opts...)))
	}
}

// WithFx adds custom fx options, typically fx.Provide for handler
// constructors and repositories.
func WithFx(opts ...fx.Option) Option {
	return func(o *options) {
		o.fxOptions = append(o.fxOptions, opts...)
	}
}

// WithHealthHandler replaces the default readiness handler registered at
// AWS_LWA_READINESS_CHECK_PATH.
func WithHealthHandler(h func(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error) Option {
	return func(o *options) {
		o.health = h
	}
}

// App is a fully wired LWA service. Create one with [NewApp] and start it
// with [App.Run].
type App struct {
	fxApp *fx.App
}

// NewApp builds an LWA service from a route registration function and
// options. The routes function is invoked through fx, so it can take any
// provided dependency alongside the mux:
//
//	sflwa.NewApp[Env](func(m *sflwa.Mux, h *Handlers) {
//	    m.HandleFunc("GET /items", h.ListItems)
//	},
//	    sflwa.WithAWSClient(dynamodb.NewFromConfig),
//	    sflwa.WithFx(fx.Provide(NewHandlers)),
//	).Run()
func NewApp[E Environment](routes any, opts ...Option) *App {
	o := &options{
		health: func(_ context.Context, w bhttp.ResponseWriter, _ *http.Request) error {
			w.WriteHeader(http.StatusOK)
			return nil
		},
	}
	for _, opt := range opts {
		opt(o)
	}

	fxOpts := []fx.Option{
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Provide(
			ParseEnv[E](),
			func(env E) Environment { return env },
			NewLogger,
			NewTracerProvider,
			NewPropagator,
			provideAWSConfig,
			newDeps,
			newAppMux,
			NewRuntime[E],
		),
	}
	fxOpts = append(fxOpts, o.fxOptions...)
	fxOpts = append(fxOpts,
		fx.Invoke(func(m *Mux, env Environment) {
			m.HandleFunc("GET "+env.readinessCheckPath(), o.health)
		}),
		fx.Invoke(routes),
		fx.Invoke(startServer),
	)

	return &App{fxApp: fx.New(fxOpts...)}
}

// Run starts the service and blocks until SIGTERM or SIGINT arrives, then
// shuts down gracefully. Lambda sends SIGTERM before reclaiming the
// execution environment.
func (a *App) Run() {
	a.fxApp.Run()
}

// Start starts the service without blocking. Prefer [App.Run] outside of
// tests.
func (a *App) Start(ctx context.Context) error {
	return a.fxApp.Start(ctx)
}

// Stop stops the service.
func (a *App) Stop(ctx context.Context) error {
	return a.fxApp.Stop(ctx)
}

// NewLogger builds the service logger from the environment: JSON output at
// the configured level with the service name attached to every entry.
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}
	return logger.With(zap.String("service", env.serviceName())), nil
}

// newDeps creates the dependency holder the context accessors read from.
// It is populated in startServer, after every provider has run.
func newDeps() *deps {
	return &deps{}
}

// newAppMux builds the service mux with the context middleware installed.
// The deps pointer is shared with startServer, which fills it before the
// server accepts traffic.
func newAppMux(d *deps) *Mux {
	m := NewMux()
	m.Use(withDeps(d), withLWAContext())
	return m
}

// serverParams collects everything the HTTP server needs from the fx graph.
type serverParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Deps       *deps
	Env        Environment
	Logger     *zap.Logger
	Mux        *Mux
	Tracer     trace.TracerProvider
	Propagator propagation.TextMapPropagator
	Clients    []awsClient `group:"awsclients"`
}

// startServer registers the HTTP server with the fx lifecycle. The listener
// is opened during OnStart so bind errors fail startup instead of
// surfacing later.
func startServer(p serverParams) {
	p.Deps.logger = p.Logger
	p.Deps.env = p.Env
	p.Deps.environment = p.Env
	p.Deps.mux = p.Mux
	p.Deps.awsClients = make(map[string]any, len(p.Clients))
	for _, c := range p.Clients {
		p.Deps.awsClients[clientKey(c.client, c.region, p.Env)] = c.client
	}

	handler := withTracing(p.Tracer, p.Propagator, p.Env.serviceName(), p.Env.readinessCheckPath())(p.Mux)
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", ":"+strconv.Itoa(p.Env.port()))
			if err != nil {
				return errors.Wrap(err, "listening")
			}
			p.Logger.Info("listening", zap.Int("port", p.Env.port()))
			go func() {
				if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("serving", zap.Error(err))
					_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return errors.Wrap(err, "shutting down")
			}
			p.Logger.Info("shut down cleanly")
			return nil
		},
	})
}
