package sflwa

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"time"

	"github.com/advdv/bhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	ctxKeyDeps ctxKey = iota
	ctxKeyLWAContext
)

// deps holds the app-scoped dependencies handlers reach through the request
// context. The struct is created empty when the mux is built and populated
// before the server starts, so the middleware can close over it.
type deps struct {
	logger      *zap.Logger
	env         any
	environment Environment
	mux         *Mux
	awsClients  map[string]any
}

// LWAContext carries the Lambda execution context that the Lambda Web
// Adapter forwards in the x-amzn-lambda-context header.
type LWAContext struct {
	RequestID          string       `json:"request_id"`
	Deadline           int64        `json:"deadline"`
	InvokedFunctionARN string       `json:"invoked_function_arn"`
	XRayTraceID        string       `json:"xray_trace_id"`
	EnvConfig          LWAEnvConfig `json:"env_config"`
}

// LWAEnvConfig describes the Lambda function's environment.
type LWAEnvConfig struct {
	FunctionName string `json:"function_name"`
	Memory       int    `json:"memory"`
	Version      string `json:"version"`
	LogGroup     string `json:"log_group"`
	LogStream    string `json:"log_stream"`
}

// DeadlineTime returns the invocation deadline as a time.Time, or the zero
// time when no deadline is set.
func (lc *LWAContext) DeadlineTime() time.Time {
	if lc.Deadline == 0 {
		return time.Time{}
	}
	return time.UnixMilli(lc.Deadline)
}

// RemainingTime returns the duration until the invocation deadline, never
// negative.
func (lc *LWAContext) RemainingTime() time.Duration {
	if lc.Deadline == 0 {
		return 0
	}
	remaining := time.Until(lc.DeadlineTime())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// withDeps injects the app-scoped dependencies into every request context.
func withDeps(d *deps) bhttp.Middleware {
	return func(next bhttp.BareHandler) bhttp.BareHandler {
		return bhttp.BareHandlerFunc(func(w bhttp.ResponseWriter, r *http.Request) error {
			ctx := context.WithValue(r.Context(), ctxKeyDeps, d)
			return next.ServeBareBHTTP(w, r.WithContext(ctx))
		})
	}
}

// withLWAContext parses the x-amzn-lambda-context header when present.
func withLWAContext() bhttp.Middleware {
	return func(next bhttp.BareHandler) bhttp.BareHandler {
		return bhttp.BareHandlerFunc(func(w bhttp.ResponseWriter, r *http.Request) error {
			ctx := r.Context()
			if header := r.Header.Get("x-amzn-lambda-context"); header != "" {
				var lc LWAContext
				if err := json.Unmarshal([]byte(header), &lc); err == nil {
					ctx = context.WithValue(ctx, ctxKeyLWAContext, &lc)
				}
			}
			return next.ServeBareBHTTP(w, r.WithContext(ctx))
		})
	}
}

func depsFromContext(ctx context.Context) *deps {
	d, ok := ctx.Value(ctxKeyDeps).(*deps)
	if !ok {
		panic("sflwa: deps not found in context; is the request served through App?")
	}
	return d
}

// LWA retrieves the Lambda execution context from the request context.
// Returns nil outside a Lambda environment.
func LWA(ctx context.Context) *LWAContext {
	lc, _ := ctx.Value(ctxKeyLWAContext).(*LWAContext)
	return lc
}

// Log returns a trace-correlated zap logger from the context. The Lambda
// request id is attached when available.
func Log(ctx context.Context) *zap.Logger {
	d := depsFromContext(ctx)
	log := d.logger.With(traceFields(ctx)...)
	if lc := LWA(ctx); lc != nil && lc.RequestID != "" {
		log = log.With(zap.String("request_id", lc.RequestID))
	}
	return log
}

// Span returns the current trace span from the context.
func Span(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// traceFields extracts trace_id and span_id from the context for log
// correlation.
func traceFields(ctx context.Context) []zap.Field {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	sc := span.SpanContext()
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}

// Env retrieves the typed environment configuration from the context.
func Env[E Environment](ctx context.Context) E {
	d := depsFromContext(ctx)
	env, ok := d.env.(E)
	if !ok {
		panic("sflwa: environment type mismatch")
	}
	return env
}

// AWS retrieves a registered AWS client by type from the context. Pass a
// Region to retrieve a client registered for another region:
//
//	dynamo := sflwa.AWS[dynamodb.Client](ctx)                // local region
//	primary := sflwa.AWS[s3.Client](ctx, sflwa.PrimaryRegion())
func AWS[T any](ctx context.Context, region ...Region) *T {
	d := depsFromContext(ctx)
	r := Region(localRegion{})
	if len(region) > 0 {
		r = region[0]
	}
	key := typeName[T]() + "@" + r.resolve(d.environment)
	client, ok := d.awsClients[key]
	if !ok {
		panic("sflwa: AWS client " + key + " not found; use WithAWSClient()")
	}
	return client.(*T)
}

// Reverse returns the URL for a named route with the given parameters. The
// route must have been registered with a name using Handle/HandleFunc.
func Reverse(ctx context.Context, name string, params ...string) (string, error) {
	d := depsFromContext(ctx)
	return d.mux.Reverse(name, params...)
}

// typeName returns a unique string key for a type.
func typeName[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		var ptr *T
		t = reflect.TypeOf(ptr).Elem()
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}

// clientKey computes the lookup key for a registered client value.
func clientKey(client any, region Region, env Environment) string {
	t := reflect.TypeOf(client)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name() + "@" + region.resolve(env)
}
