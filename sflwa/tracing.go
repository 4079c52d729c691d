package sflwa

import (
	"context"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/aws-observability/aws-otel-go/exporters/xrayudp"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/detectors/aws/lambda"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"
)

const tracingSetupTimeout = 10 * time.Second

// newExporter creates a span exporter for the given exporter type.
//
//   - "stdout" (default): pretty-printed spans for local development
//   - "xrayudp": Lambda's built-in X-Ray daemon over UDP, no collector
//     layer needed
func newExporter(ctx context.Context, exporterType string) (sdktrace.SpanExporter, error) {
	switch exporterType {
	case "stdout", "":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "xrayudp":
		return xrayudp.NewSpanExporter(ctx)
	default:
		return nil, errors.Newf("unsupported OTEL_EXPORTER: %q (supported: stdout, xrayudp)", exporterType)
	}
}

// newResource builds the trace resource. On Lambda (xrayudp) the resource
// detector adds function name, version and other runtime attributes.
func newResource(ctx context.Context, exporterType, serviceName string) (*resource.Resource, error) {
	svc := resource.NewSchemaless(attribute.String("service.name", serviceName))
	if exporterType != "xrayudp" {
		return svc, nil
	}

	detected, err := lambda.NewResourceDetector().Detect(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "detecting Lambda resource")
	}
	merged, err := resource.Merge(detected, svc)
	if err != nil {
		return nil, errors.Wrap(err, "merging trace resource")
	}
	return merged, nil
}

// NewTracerProvider is an fx provider for the tracer provider. It uses a
// synchronous span processor: with LWA the HTTP server stays running but
// Lambda may freeze the container between invocations, so spans must be
// exported before the response is returned. The provider is shut down
// through the fx lifecycle to flush pending spans.
//
// OTEL_SDK_DISABLED=true swaps in a no-op provider, matching the standard
// OpenTelemetry environment convention.
func NewTracerProvider(lc fx.Lifecycle, env Environment) (trace.TracerProvider, error) {
	if os.Getenv("OTEL_SDK_DISABLED") == "true" {
		return noop.NewTracerProvider(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), tracingSetupTimeout)
	defer cancel()

	exporter, err := newExporter(ctx, env.otelExporter())
	if err != nil {
		return nil, err
	}
	res, err := newResource(ctx, env.otelExporter(), env.serviceName())
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
		sdktrace.WithIDGenerator(xray.NewIDGenerator()),
	)
	lc.Append(fx.Hook{
		OnStop: tp.Shutdown,
	})
	return tp, nil
}

// NewPropagator returns the text map propagator matching the exporter: the
// X-Ray propagator when exporting to X-Ray, otherwise the W3C trace context
// and baggage composite.
func NewPropagator(env Environment) propagation.TextMapPropagator {
	if env.otelExporter() == "xrayudp" {
		return xray.Propagator{}
	}
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// withTracing wraps an HTTP handler with OpenTelemetry server spans.
// Requests to excluded paths, such as the LWA readiness check, are not
// traced.
func withTracing(tp trace.TracerProvider, prop propagation.TextMapPropagator, serviceName string, excludePaths ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serviceName,
			otelhttp.WithTracerProvider(tp),
			otelhttp.WithPropagators(prop),
			otelhttp.WithFilter(func(r *http.Request) bool {
				return !slices.Contains(excludePaths, r.URL.Path)
			}),
		)
	}
}
