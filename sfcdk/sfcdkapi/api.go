// Package sfcdkapi provides the regional REST API construct: an API
// Gateway fronting a Go Lambda that runs behind the Lambda Web Adapter.
//
// Only the routes listed as public are reachable from the internet;
// internal Lambda paths (like /l/*) stay private.
package sfcdkapi

import (
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53targets"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/iancoleman/strcase"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkloggroup"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdklwalambda"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkutil"
)

// API provides access to a REST API backed by a Go Lambda function.
type API interface {
	// Lambda returns the underlying LWA Lambda construct. Use this for
	// internal integrations.
	Lambda() sfcdklwalambda.Lambda
	// AuthorizerLambda returns the authorizer Lambda, if configured.
	AuthorizerLambda() sfcdklwalambda.Lambda
	// RestApi returns the API Gateway REST API.
	RestApi() awsapigateway.RestApi
	// AccessLogGroup returns the log group for API Gateway access logs.
	AccessLogGroup() awslogs.ILogGroup
	// DomainName returns the regional custom domain name
	// (e.g., "dev-euw1-api.skyfront.app").
	DomainName() string
	// GlobalDomainName returns the latency-routed domain name
	// (e.g., "dev-api.skyfront.app").
	GlobalDomainName() string
}

// Props configures the API construct.
type Props struct {
	// Entry is the path to the Go command directory, passed to the
	// underlying LWA Lambda construct. Required.
	Entry *string
	// PublicRoutes are the paths exposed via API Gateway. Use {proxy+} for
	// greedy matching (e.g., "/api/{proxy+}"). Required.
	PublicRoutes *[]*string
	// Environment variables for the Lambda function.
	Environment *map[string]*string

	// HostedZone is the Route53 zone for DNS records. Required.
	HostedZone awsroute53.IHostedZone
	// Certificate is the ACM certificate for the custom domain. Required.
	Certificate awscertificatemanager.ICertificate
	// Subdomain is the subdomain prefix (e.g., "api"), combined with the
	// deployment and region to form the full name. Required.
	Subdomain *string
	// Authorizer enables a Lambda TOKEN authorizer on all public routes.
	// The authorizer runs a second instance of the same Entry with LWA
	// pass-through at /l/authorize.
	//
	// Only TOKEN authorizers work with LWA: REQUEST authorizer events share
	// HTTP-like fields with proxy events, so LWA misroutes them as regular
	// HTTP requests instead of using pass-through mode.
	Authorizer *AuthorizerProps
}

// AuthorizerProps configures the Lambda TOKEN authorizer.
type AuthorizerProps struct{}

type api struct {
	lambda           sfcdklwalambda.Lambda
	authorizerLambda sfcdklwalambda.Lambda
	restApi          awsapigateway.RestApi
	accessLogGroup   awslogs.ILogGroup
	domainName       string
	globalDomainName string
}

// New creates an API construct with a Lambda-backed REST API.
//
// The custom domain follows "{deployment}-{region}-{subdomain}.{zone}"
// with an additional latency-routed "{deployment}-{subdomain}.{zone}"
// record per region; the execute-api endpoint is disabled.
func New(scope constructs.Construct, props Props) API {
	scope = constructs.NewConstruct(scope, jsii.String(strcase.ToCamel(*props.Subdomain)+"Api"))
	con := &api{}

	con.lambda = sfcdklwalambda.New(scope, sfcdklwalambda.Props{
		Entry:       props.Entry,
		Environment: props.Environment,
	})

	if props.Authorizer != nil {
		con.authorizerLambda = sfcdklwalambda.New(scope, sfcdklwalambda.Props{
			Entry:           props.Entry,
			Environment:     props.Environment,
			PassThroughPath: jsii.String("/l/authorize"),
		})
	}

	deploymentIdent := sfcdkutil.DeploymentIdent(scope)
	apiName := con.lambda.Name() + strcase.ToCamel(deploymentIdent) + "Api"

	con.accessLogGroup = sfcdkloggroup.New(scope, "AccessLogs", sfcdkloggroup.Props{
		Purpose: jsii.String("API Gateway access logs for " + apiName),
	}).LogGroup()

	stack := awscdk.Stack_Of(scope)
	region := *stack.Region()
	zoneName := *props.HostedZone.ZoneName()

	con.domainName = sfcdkutil.RegionalSubdomain(deploymentIdent, region, *props.Subdomain) +
		"." + zoneName
	con.globalDomainName = sfcdkutil.GlobalSubdomain(deploymentIdent, *props.Subdomain) +
		"." + zoneName

	// REGIONAL endpoints are required for latency-based routing; the edge
	// network allows only one target per domain name.
	con.restApi = awsapigateway.NewRestApi(scope, jsii.String("Api"), &awsapigateway.RestApiProps{
		RestApiName: jsii.String(apiName),
		EndpointConfiguration: &awsapigateway.EndpointConfiguration{
			Types: &[]awsapigateway.EndpointType{awsapigateway.EndpointType_REGIONAL},
		},
		DomainName: &awsapigateway.DomainNameOptions{
			DomainName:   jsii.String(con.domainName),
			Certificate:  props.Certificate,
			EndpointType: awsapigateway.EndpointType_REGIONAL,
		},
		DisableExecuteApiEndpoint: jsii.Bool(true),
		DeployOptions: &awsapigateway.StageOptions{
			StageName:            jsii.String("prod"),
			AccessLogDestination: awsapigateway.NewLogGroupLogDestination(con.accessLogGroup),
			AccessLogFormat: awsapigateway.AccessLogFormat_JsonWithStandardFields(
				&awsapigateway.JsonWithStandardFieldProps{
					Caller:         jsii.Bool(true),
					HttpMethod:     jsii.Bool(true),
					Ip:             jsii.Bool(true),
					Protocol:       jsii.Bool(true),
					RequestTime:    jsii.Bool(true),
					ResourcePath:   jsii.Bool(true),
					ResponseLength: jsii.Bool(true),
					Status:         jsii.Bool(true),
					User:           jsii.Bool(true),
				}),
		},
	})

	integration := awsapigateway.NewLambdaIntegration(con.lambda.Function(),
		&awsapigateway.LambdaIntegrationOptions{
			Proxy: jsii.Bool(true),
		})

	var authorizer awsapigateway.IAuthorizer
	if props.Authorizer != nil {
		authorizer = awsapigateway.NewTokenAuthorizer(scope, jsii.String("Authorizer"),
			&awsapigateway.TokenAuthorizerProps{
				Handler:         con.authorizerLambda.Function(),
				ResultsCacheTtl: awscdk.Duration_Minutes(jsii.Number(5)),
			})
	}

	for _, route := range *props.PublicRoutes {
		addRoute(con.restApi.Root(), *route, integration, authorizer)
	}

	awsroute53.NewARecord(scope, jsii.String("DnsRecord"), &awsroute53.ARecordProps{
		Zone:       props.HostedZone,
		RecordName: jsii.String(con.domainName),
		Target:     awsroute53.RecordTarget_FromAlias(awsroute53targets.NewApiGateway(con.restApi)),
	})

	globalDomain := awsapigateway.NewDomainName(scope, jsii.String("GlobalDomain"),
		&awsapigateway.DomainNameProps{
			DomainName:   jsii.String(con.globalDomainName),
			Certificate:  props.Certificate,
			EndpointType: awsapigateway.EndpointType_REGIONAL,
			Mapping:      con.restApi,
		})

	awsroute53.NewARecord(scope, jsii.String("LatencyRecord"), &awsroute53.ARecordProps{
		Zone:          props.HostedZone,
		RecordName:    jsii.String(con.globalDomainName),
		Target:        awsroute53.RecordTarget_FromAlias(awsroute53targets.NewApiGatewayDomain(globalDomain)),
		Region:        stack.Region(),
		SetIdentifier: jsii.Sprintf("%s-%s", con.globalDomainName, region),
	})

	outputPrefix := con.lambda.Name() + strcase.ToCamel(*props.Subdomain)
	awscdk.NewCfnOutput(scope, jsii.String("ApiURLRegional"), &awscdk.CfnOutputProps{
		Key:         jsii.String(outputPrefix + "ApiURLRegional"),
		Description: jsii.String("Regional API endpoint URL"),
		Value:       jsii.String("https://" + con.domainName),
	})
	awscdk.NewCfnOutput(scope, jsii.String("ApiURLGlobal"), &awscdk.CfnOutputProps{
		Key:         jsii.String(outputPrefix + "ApiURLGlobal"),
		Description: jsii.String("Global API endpoint URL (latency-based routing)"),
		Value:       jsii.String("https://" + con.globalDomainName),
	})

	return con
}

// addRoute adds a route to the REST API, creating intermediate resources
// for nested paths like "/api/{proxy+}".
func addRoute(root awsapigateway.IResource, path string, integration awsapigateway.LambdaIntegration, authorizer awsapigateway.IAuthorizer) {
	path = strings.TrimPrefix(path, "/")
	parts := strings.Split(path, "/")

	resource := root
	for _, part := range parts {
		resource = resource.AddResource(jsii.String(part), nil)
	}

	var methodOpts *awsapigateway.MethodOptions
	if authorizer != nil {
		methodOpts = &awsapigateway.MethodOptions{
			Authorizer: authorizer,
		}
	}
	resource.AddMethod(jsii.String("ANY"), integration, methodOpts)
}

func (a *api) Lambda() sfcdklwalambda.Lambda {
	return a.lambda
}

func (a *api) AuthorizerLambda() sfcdklwalambda.Lambda {
	return a.authorizerLambda
}

func (a *api) RestApi() awsapigateway.RestApi {
	return a.restApi
}

func (a *api) AccessLogGroup() awslogs.ILogGroup {
	return a.accessLogGroup
}

func (a *api) DomainName() string {
	return a.domainName
}

func (a *api) GlobalDomainName() string {
	return a.globalDomainName
}
