// Package sflwa provides a batteries-included framework for HTTP services
// that run on AWS Lambda behind the Lambda Web Adapter (LWA).
//
// # Overview
//
// sflwa handles the boilerplate of setting up an HTTP server optimized for
// Lambda: environment parsing, structured logging, OpenTelemetry tracing,
// AWS SDK clients, and graceful shutdown. A complete service is a single
// call:
//
//	sflwa.NewApp[Env](func(m *sflwa.Mux, h *Handlers) {
//	    m.HandleFunc("GET /api/rules", h.List)
//	    m.HandleFunc("PUT /api/rules", h.Put)
//	},
//	    sflwa.WithAWSClient(dynamodb.NewFromConfig),
//	    sflwa.WithFx(fx.Provide(NewHandlers)),
//	).Run()
//
// # Environment Configuration
//
// Define your environment by embedding [BaseEnvironment]:
//
//	type Env struct {
//	    sflwa.BaseEnvironment
//	    RulesTable string `env:"SF_RULES_TABLE,required"`
//	}
//
// BaseEnvironment provides the following environment variables:
//
//	| Variable                      | Required | Default | Description                                      |
//	|-------------------------------|----------|---------|--------------------------------------------------|
//	| AWS_LWA_PORT                  | Yes      | -       | Port the HTTP server listens on                  |
//	| AWS_LWA_READINESS_CHECK_PATH  | Yes      | -       | Health check endpoint path for LWA readiness     |
//	| AWS_REGION                    | Yes      | -       | AWS region (set automatically by Lambda runtime) |
//	| SF_SERVICE_NAME               | Yes      | -       | Service name for logging and tracing             |
//	| SF_PRIMARY_REGION             | Yes      | -       | Primary deployment region (injected by CDK)      |
//	| SF_LOG_LEVEL                  | No       | info    | Log level (debug, info, warn, error)             |
//	| SF_OTEL_EXPORTER              | No       | stdout  | Trace exporter: "stdout" or "xrayudp"            |
//
// The AWS_LWA_* variables match the official Lambda Web Adapter
// configuration. AWS_REGION is set by the Lambda runtime; the SF_* variables
// are injected by the sfcdklwalambda construct.
//
// # Context Functions
//
// All request context is accessed through typed functions:
//
//   - [Log] returns a trace-correlated zap logger
//   - [Span] returns the current OpenTelemetry span for custom instrumentation
//   - [Env] retrieves the typed environment configuration
//   - [AWS] retrieves a registered AWS SDK client by type
//   - [LWA] retrieves Lambda execution context (request ID, deadline, etc.)
//   - [Reverse] generates URLs for named routes
//
// # Tracing
//
// OpenTelemetry tracing is configured automatically based on
// SF_OTEL_EXPORTER:
//
//   - "stdout" (default): pretty-printed spans for local development
//   - "xrayudp": X-Ray UDP exporter for Lambda with proper trace ID format
//
// The tracer provider and propagator are injected explicitly (no globals).
// Registered AWS clients are instrumented so SDK calls show up as child
// spans of the request.
//
// # Cross-Region AWS Clients
//
// By default, AWS clients target the local region (AWS_REGION). For
// cross-region operations, register clients for specific regions:
//
//	// Local region (default)
//	sflwa.WithAWSClient(dynamodb.NewFromConfig)
//
//	// Primary deployment region (uses SF_PRIMARY_REGION)
//	sflwa.WithAWSClient(func(cfg aws.Config) *sflwa.Primary[dynamodb.Client] {
//	    return sflwa.NewPrimary(dynamodb.NewFromConfig(cfg))
//	}, sflwa.ForPrimaryRegion())
//
//	// Fixed region
//	sflwa.WithAWSClient(ssm.NewFromConfig, sflwa.ForRegion("us-east-1"))
//
// # Dependency Injection
//
// sflwa uses [go.uber.org/fx] for dependency injection. Add custom
// providers with [WithFx]:
//
//	sflwa.WithFx(
//	    fx.Provide(NewHandlers),
//	    fx.Provide(NewRepository),
//	)
package sflwa
