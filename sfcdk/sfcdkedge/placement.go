package sfcdkedge

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsssm"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/cockroachdb/errors"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkutil"
)

// EdgeRegion is the region edge functions must be provisioned in. The edge
// service only replicates functions that live there.
const EdgeRegion = "us-east-1"

// parameterPrefix namespaces the SSM parameters that carry edge function
// ARNs from the support stack to their consumers.
const parameterPrefix = "edge-lambda"

// placement carries the outcome of region placement resolution to the
// facade constructor. Its fields are copied into the facade; the value
// itself is not retained.
type placement struct {
	function awslambda.IFunction
	version  awslambda.IVersion
	edgeArn  *string
	owner    awscdk.Stack
}

// resolvePlacement decides where the underlying function lives. A stack
// whose region is concretely EdgeRegion gets the function in place; every
// other stack (including ones with an unresolved region token) goes through
// the cross-region path.
func resolvePlacement(scope constructs.Construct, id string, props Props) placement {
	stack := awscdk.Stack_Of(scope)
	region := stack.Region()

	if !*awscdk.Token_IsUnresolved(region) && *region == EdgeRegion {
		return placeInRegion(scope, props)
	}
	return placeCrossRegion(scope, id, props)
}

func placeInRegion(scope constructs.Construct, props Props) placement {
	fn := newFunction(scope, "Fn", props)
	version := fn.CurrentVersion()

	return placement{
		function: fn,
		version:  version,
		edgeArn:  version.EdgeArn(),
		owner:    awscdk.Stack_Of(scope),
	}
}

func placeCrossRegion(scope constructs.Construct, id string, props Props) placement {
	stack := awscdk.Stack_Of(scope)
	region := stack.Region()

	// Both checks guard unrecoverable configuration mistakes and must fire
	// before any resource is attached anywhere.
	if *awscdk.Token_IsUnresolved(region) {
		panic(errors.Newf(
			"stacks that host edge functions must have an explicitly set region, stack %q does not",
			*stack.StackName()))
	}
	stage := awscdk.Stage_Of(stack)
	if stage == nil {
		panic(errors.Newf(
			"stacks that host edge functions must be created in the scope of an app or stage, stack %q is not",
			*stack.StackName()))
	}

	support := supportStack(stage, stack)
	stack.AddDependency(support, jsii.String(
		"Edge function must exist in "+EdgeRegion+" before its ARN can be read"))

	parameterName := edgeParameterName(*region, id)

	fn := newFunction(support, id, props)
	version := fn.CurrentVersion()

	awsssm.NewStringParameter(support, jsii.String(id+"Parameter"), &awsssm.StringParameterProps{
		ParameterName: jsii.String(parameterName),
		StringValue:   version.EdgeArn(),
	})

	return placement{
		function: fn,
		version:  version,
		edgeArn:  readEdgeArn(scope, parameterName),
		owner:    support,
	}
}

// supportStack finds or creates the us-east-1 stack that hosts the app's
// edge functions. The construct id is a pure function of the target region,
// so every caller in the app resolves to the same stack instance. The
// lookup and creation happen in one step with no observation point in
// between, so two stacks can never come into existence for one region.
func supportStack(stage awscdk.Stage, caller awscdk.Stack) awscdk.Stack {
	id := "EdgeSupport" + sfcdkutil.RegionIdentFor(EdgeRegion)

	if child := stage.Node().TryFindChild(jsii.String(id)); child != nil {
		support, ok := child.(awscdk.Stack)
		if !ok {
			panic(errors.Newf("construct %q already exists and is not a stack", id))
		}
		return support
	}

	return awscdk.NewStack(stage, jsii.String(id), &awscdk.StackProps{
		Env: &awscdk.Environment{
			Region:  jsii.String(EdgeRegion),
			Account: caller.Account(),
		},
		Description: jsii.String("Hosts lambda functions that must live in " + EdgeRegion + " for use at the edge"),
	})
}

// edgeParameterName derives the SSM parameter name that carries an edge
// function's version ARN. It depends only on the defining stack's region
// and the function's logical id, so distinct ids never collide and repeated
// synthesis yields the same name.
func edgeParameterName(region, id string) string {
	return fmt.Sprintf("/%s/%s/%s", parameterPrefix, region, id)
}

func newFunction(scope constructs.Construct, id string, props Props) awslambda.Function {
	return awslambda.NewFunction(scope, jsii.String(id), &awslambda.FunctionProps{
		Code:        props.Code,
		Handler:     props.Handler,
		Runtime:     props.Runtime,
		Role:        functionRole(scope, id, props.Role),
		Description: props.Description,
		MemorySize:  props.MemorySize,
		Timeout:     props.Timeout,
	})
}
