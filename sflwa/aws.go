package sflwa

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

// Primary wraps an AWS client for the primary deployment region.
// Use this when registering and injecting clients that must target
// SF_PRIMARY_REGION.
//
// Registration:
//
//	sflwa.WithAWSClient(func(cfg aws.Config) *sflwa.Primary[dynamodb.Client] {
//	    return sflwa.NewPrimary(dynamodb.NewFromConfig(cfg))
//	}, sflwa.ForPrimaryRegion())
//
// Injection:
//
//	func NewHandlers(dynamo *sflwa.Primary[dynamodb.Client]) *Handlers
//
// Usage:
//
//	h.dynamo.Client.GetItem(ctx, ...)
type Primary[T any] struct {
	Client *T
}

// NewPrimary creates a Primary wrapper for an AWS client configured for the
// primary region. Use this in your client factory when registering with
// ForPrimaryRegion().
func NewPrimary[T any](client *T) *Primary[T] {
	return &Primary[T]{Client: client}
}

// InRegion wraps an AWS client configured for a specific fixed region.
//
// Registration:
//
//	sflwa.WithAWSClient(func(cfg aws.Config) *sflwa.InRegion[ssm.Client] {
//	    return sflwa.NewInRegion(ssm.NewFromConfig(cfg), "us-east-1")
//	}, sflwa.ForRegion("us-east-1"))
type InRegion[T any] struct {
	Client *T
	Region string
}

// NewInRegion creates an InRegion wrapper for an AWS client configured for a
// fixed region. Use this in your client factory when registering with
// ForRegion().
func NewInRegion[T any](client *T, region string) *InRegion[T] {
	return &InRegion[T]{Client: client, Region: region}
}

// clientOptions holds configuration for AWS client registration.
type clientOptions struct {
	region Region
}

// ClientOption configures AWS client registration.
type ClientOption func(*clientOptions)

// ForPrimaryRegion configures the client to target SF_PRIMARY_REGION. Use
// this for operations that must go through the primary deployment region.
func ForPrimaryRegion() ClientOption {
	return func(o *clientOptions) {
		o.region = PrimaryRegion()
	}
}

// ForRegion configures the client to target a specific fixed region.
func ForRegion(region string) ClientOption {
	return func(o *clientOptions) {
		o.region = FixedRegion(region)
	}
}

const awsConfigTimeout = 10 * time.Second

// NewAWSConfig loads the default AWS SDK v2 configuration.
func NewAWSConfig(ctx context.Context) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return cfg, errors.Wrap(err, "loading AWS config")
	}
	return cfg, nil
}

// provideAWSConfig is an fx provider that loads AWS config with a timeout.
// It instruments the config with OpenTelemetry so every AWS SDK call becomes
// a child span of the request. The TracerProvider and Propagator are
// explicitly injected to avoid global state.
func provideAWSConfig(tp trace.TracerProvider, prop propagation.TextMapPropagator) (aws.Config, error) {
	ctx, cancel := context.WithTimeout(context.Background(), awsConfigTimeout)
	defer cancel()

	cfg, err := NewAWSConfig(ctx)
	if err != nil {
		return cfg, err
	}
	otelaws.AppendMiddlewares(&cfg.APIOptions,
		otelaws.WithTracerProvider(tp),
		otelaws.WithTextMapPropagator(prop),
	)
	return cfg, nil
}

// AWSClientFactory describes a registered AWS client: how to build it and
// which region it targets.
type AWSClientFactory[T any] struct {
	// Region the client targets. LocalRegion by default.
	Region Region
	// New builds the client from a region-adjusted config.
	New func(aws.Config) T
}

// RegisterAWSClient creates an AWSClientFactory from a factory function and
// options. Most services use [WithAWSClient] instead, which wires the
// factory into the app.
func RegisterAWSClient[T any](factory func(aws.Config) T, opts ...ClientOption) *AWSClientFactory[T] {
	options := &clientOptions{
		region: LocalRegion(),
	}
	for _, opt := range opts {
		opt(options)
	}
	return &AWSClientFactory[T]{Region: options.region, New: factory}
}

// awsClient is the value group entry that makes registered clients
// retrievable through [AWS].
type awsClient struct {
	region Region
	client any
}

type awsClientResult struct {
	fx.Out

	Client awsClient `group:"awsclients"`
}

// AWSClientProvider creates an fx.Option that provides an AWS client for
// injection and for retrieval via [AWS]. The factory receives an aws.Config
// with the region already configured.
func AWSClientProvider[T any](factory *AWSClientFactory[T]) fx.Option {
	return fx.Options(
		fx.Provide(func(cfg aws.Config, env Environment) T {
			awsCfg := cfg.Copy()
			if r := factory.Region.resolve(env); r != "" {
				awsCfg.Region = r
			}
			return factory.New(awsCfg)
		}),
		fx.Provide(func(client T) awsClientResult {
			return awsClientResult{Client: awsClient{region: factory.Region, client: client}}
		}),
	)
}
