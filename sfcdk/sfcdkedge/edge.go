package sfcdkedge

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/cockroachdb/errors"
)

// EdgeFunction provides access to a lambda function that is usable at the
// edge, regardless of which region the defining stack is in. Every method
// forwards to the real underlying function; consumers cannot tell an
// in-region function from a cross-region one.
type EdgeFunction interface {
	// Function returns the real underlying lambda function. For a
	// cross-region facade it is a child of the us-east-1 support stack.
	Function() awslambda.IFunction
	// CurrentVersion returns the published version the edge serves.
	CurrentVersion() awslambda.IVersion
	// FunctionArn returns the version-qualified ARN the edge service
	// requires. For a cross-region facade this is an attribute resolved at
	// deployment time; treat it as opaque.
	FunctionArn() *string
	// EdgeArn is an alias for FunctionArn.
	EdgeArn() *string
	// FunctionName returns the underlying function's name.
	FunctionName() *string
	// Version returns the version qualifier extracted from the ARN.
	Version() *string
	// Role returns the function's execution role.
	Role() awsiam.IRole
	// GrantPrincipal returns the principal to grant permissions to.
	GrantPrincipal() awsiam.IPrincipal
	// PermissionsNode returns the node where permissions are attached.
	PermissionsNode() constructs.Node
	// OwningStack returns the stack the underlying function lives in: the
	// defining stack for in-region placement, the support stack otherwise.
	OwningStack() awscdk.Stack

	// AddAlias creates an alias pointing at the current version. The alias
	// is created in the owning stack, next to the version it points at.
	AddAlias(aliasName string, options *awslambda.AliasOptions) awslambda.Alias
	// AddPermission grants an invoke permission on the underlying function.
	AddPermission(id string, permission *awslambda.Permission)
	// AddToRolePolicy adds a statement to the execution role's policy.
	AddToRolePolicy(statement awsiam.PolicyStatement)
	// AddEventSource registers an event source on the underlying function.
	AddEventSource(source awslambda.IEventSource)
	// ConfigureAsyncInvoke configures async invocation on the underlying
	// function.
	ConfigureAsyncInvoke(options *awslambda.EventInvokeConfigOptions)
	// GrantInvoke grants invoke rights on the underlying function.
	GrantInvoke(grantee awsiam.IGrantable) awsiam.Grant

	// MetricInvocations returns the invocation count metric, scoped to the
	// edge region where the edge service reports it.
	MetricInvocations(options *awscloudwatch.MetricOptions) awscloudwatch.Metric
	// MetricDuration returns the duration metric, scoped to the edge region.
	MetricDuration(options *awscloudwatch.MetricOptions) awscloudwatch.Metric
	// MetricErrors returns the error count metric, scoped to the edge region.
	MetricErrors(options *awscloudwatch.MetricOptions) awscloudwatch.Metric
	// MetricThrottles returns the throttle count metric, scoped to the edge
	// region.
	MetricThrottles(options *awscloudwatch.MetricOptions) awscloudwatch.Metric

	// Connections always panics: edge functions cannot be placed in a VPC.
	Connections() awsec2.Connections
	// LatestVersion always panics: the unqualified $LATEST version cannot
	// be used at the edge; use CurrentVersion instead.
	LatestVersion() awslambda.IVersion
}

// Props configures the EdgeFunction construct. Environment variables are
// deliberately absent: the edge service does not support them.
type Props struct {
	// Code is the function's source. Required.
	Code awslambda.Code
	// Handler is the function entrypoint (e.g., "index.handler"). Required.
	Handler *string
	// Runtime must be one the edge service supports (Node.js or Python).
	// Required.
	Runtime awslambda.Runtime
	// Role is assumed by the function. When nil, a role trusted by both the
	// lambda and edgelambda service principals is created, with the basic
	// execution managed policy attached. A supplied role is used as-is.
	Role awsiam.IRole
	// Description of the function.
	Description *string
	// MemorySize in MiB.
	MemorySize *float64
	// Timeout for a single invocation. Edge limits apply (5s for viewer
	// triggers, 30s for origin triggers).
	Timeout awscdk.Duration
}

type edgeFunction struct {
	fn      awslambda.IFunction
	version awslambda.IVersion
	edgeArn *string
	owner   awscdk.Stack
}

// New creates an EdgeFunction.
//
// When the surrounding stack's region is concretely us-east-1 the function
// is created as a child of this construct. Otherwise the stack must be part
// of an app (or stage) and must have an explicitly set region; the function
// is then created in the shared us-east-1 support stack and its ARN read
// back at deployment time. Configuration mistakes panic immediately, before
// any resource is created.
func New(scope constructs.Construct, id string, props Props) EdgeFunction {
	if props.Code == nil || props.Handler == nil || props.Runtime == nil {
		panic(errors.New("sfcdkedge: Code, Handler and Runtime are required"))
	}

	scope = constructs.NewConstruct(scope, jsii.String(id))
	p := resolvePlacement(scope, id, props)

	return &edgeFunction{
		fn:      p.function,
		version: p.version,
		edgeArn: p.edgeArn,
		owner:   p.owner,
	}
}

func (e *edgeFunction) Function() awslambda.IFunction {
	return e.fn
}

func (e *edgeFunction) CurrentVersion() awslambda.IVersion {
	return e.version
}

func (e *edgeFunction) FunctionArn() *string {
	return e.edgeArn
}

func (e *edgeFunction) EdgeArn() *string {
	return e.edgeArn
}

func (e *edgeFunction) FunctionName() *string {
	return e.fn.FunctionName()
}

// Version extracts the qualifier from the version-qualified ARN
// (arn:aws:lambda:region:account:function:name:qualifier).
func (e *edgeFunction) Version() *string {
	return awscdk.Fn_Select(jsii.Number(7), awscdk.Fn_Split(jsii.String(":"), e.edgeArn, nil))
}

func (e *edgeFunction) Role() awsiam.IRole {
	return e.fn.Role()
}

func (e *edgeFunction) GrantPrincipal() awsiam.IPrincipal {
	return e.fn.GrantPrincipal()
}

func (e *edgeFunction) PermissionsNode() constructs.Node {
	return e.fn.PermissionsNode()
}

func (e *edgeFunction) OwningStack() awscdk.Stack {
	return e.owner
}

func (e *edgeFunction) AddAlias(aliasName string, options *awslambda.AliasOptions) awslambda.Alias {
	props := &awslambda.AliasProps{
		AliasName: jsii.String(aliasName),
		Version:   e.version,
	}
	if options != nil {
		props.AdditionalVersions = options.AdditionalVersions
		props.Description = options.Description
		props.ProvisionedConcurrentExecutions = options.ProvisionedConcurrentExecutions
		props.MaxEventAge = options.MaxEventAge
		props.OnFailure = options.OnFailure
		props.OnSuccess = options.OnSuccess
		props.RetryAttempts = options.RetryAttempts
	}

	// Aliases must colocate with the version they point at, so the alias
	// goes into the owning stack rather than this construct.
	return awslambda.NewAlias(e.owner, jsii.String("Alias"+aliasName), props)
}

func (e *edgeFunction) AddPermission(id string, permission *awslambda.Permission) {
	e.fn.AddPermission(jsii.String(id), permission)
}

func (e *edgeFunction) AddToRolePolicy(statement awsiam.PolicyStatement) {
	e.fn.AddToRolePolicy(statement)
}

func (e *edgeFunction) AddEventSource(source awslambda.IEventSource) {
	e.fn.AddEventSource(source)
}

func (e *edgeFunction) ConfigureAsyncInvoke(options *awslambda.EventInvokeConfigOptions) {
	e.fn.ConfigureAsyncInvoke(options)
}

func (e *edgeFunction) GrantInvoke(grantee awsiam.IGrantable) awsiam.Grant {
	return e.fn.GrantInvoke(grantee)
}

func (e *edgeFunction) MetricInvocations(options *awscloudwatch.MetricOptions) awscloudwatch.Metric {
	return edgeScoped(e.fn.MetricInvocations(options))
}

func (e *edgeFunction) MetricDuration(options *awscloudwatch.MetricOptions) awscloudwatch.Metric {
	return edgeScoped(e.fn.MetricDuration(options))
}

func (e *edgeFunction) MetricErrors(options *awscloudwatch.MetricOptions) awscloudwatch.Metric {
	return edgeScoped(e.fn.MetricErrors(options))
}

func (e *edgeFunction) MetricThrottles(options *awscloudwatch.MetricOptions) awscloudwatch.Metric {
	return edgeScoped(e.fn.MetricThrottles(options))
}

func (e *edgeFunction) Connections() awsec2.Connections {
	panic(errors.New("edge functions do not have connections; they cannot be placed in a VPC"))
}

func (e *edgeFunction) LatestVersion() awslambda.IVersion {
	panic(errors.New("$LATEST function version cannot be used at the edge; use CurrentVersion() instead"))
}

// edgeScoped rewrites a metric to the edge region, where the edge service
// reports metrics for replicated functions.
func edgeScoped(m awscloudwatch.Metric) awscloudwatch.Metric {
	return m.With(&awscloudwatch.MetricOptions{Region: jsii.String(EdgeRegion)})
}
