// Package sfcdkparams provides utilities for storing and retrieving CDK
// construct values across AWS regions using AWS Systems Manager Parameter
// Store.
//
// This package enables cross-region resource sharing in multi-region CDK
// deployments:
//   - Primary region: Creates resources and stores identifiers in SSM
//     Parameter Store
//   - Secondary regions: Retrieves stored values to reference existing
//     resources
package sfcdkparams

import (
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsssm"
	"github.com/aws/aws-cdk-go/awscdk/v2/customresources"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkutil"
)

// LookupLocal retrieves a parameter from SSM Parameter Store within the same
// region. Use this for same-region cross-stack references. For cross-region
// lookups, use Lookup.
func LookupLocal(scope constructs.Construct, namespace string, name string) *string {
	return awsssm.StringParameter_ValueForStringParameter(scope,
		ParameterName(scope, namespace, name), nil)
}

// ParameterName generates a hierarchical SSM parameter path.
// Returns a path like /{qualifier}/{namespace}/{name}.
func ParameterName(scope constructs.Construct, namespace string, name string) *string {
	qual := sfcdkutil.Qualifier(scope)
	return jsii.Sprintf("/%s/%s/%s", qual, namespace, name)
}

// Store creates and stores a parameter in AWS SSM Parameter Store.
// Use this in the primary region to persist values for cross-region access.
func Store(scope constructs.Construct, id string, namespace string, name string, value *string) {
	awsssm.NewStringParameter(scope, jsii.String(id),
		&awsssm.StringParameterProps{
			ParameterName: ParameterName(scope, namespace, name),
			StringValue:   value,
		})
}

// Lookup retrieves a parameter stored in the primary region using a custom
// resource. Use this in secondary regions to access values created in the
// primary region. The physicalID should be a stable identifier for the
// custom resource (e.g., "user-pool-id-lookup").
//
// The custom resource's execution role is only allowed to read the addressed
// parameter, nothing else.
func Lookup(scope constructs.Construct, id string, namespace string, name string, physicalID string) *string {
	return LookupInRegion(scope, id, namespace, name, physicalID, sfcdkutil.PrimaryRegion(scope))
}

// LookupInRegion retrieves a parameter stored in an arbitrary region. Use
// this for values that must live in a fixed region regardless of the
// primary, like the us-east-1 certificates CloudFront requires.
func LookupInRegion(scope constructs.Construct, id string, namespace string, name string, physicalID string, region string) *string {
	parameterName := ParameterName(scope, namespace, name)

	sdkCall := &customresources.AwsSdkCall{
		Service: jsii.String("SSM"),
		Action:  jsii.String("getParameter"),
		Parameters: map[string]any{
			"Name": parameterName,
		},
		Region:             jsii.String(region),
		PhysicalResourceId: customresources.PhysicalResourceId_Of(jsii.String(physicalID)),
	}

	parameterArn := awscdk.Stack_Of(scope).FormatArn(&awscdk.ArnComponents{
		Service:      jsii.String("ssm"),
		Region:       jsii.String(region),
		Resource:     jsii.String("parameter"),
		ResourceName: jsii.String(strings.TrimPrefix(*parameterName, "/")),
	})

	// OnUpdate is required so that changes to the parameter path (e.g., when
	// scoping parameters per deployment) trigger a new SSM GetParameter call.
	// Without it, CloudFormation skips the SDK call on update and the response
	// is empty, causing "doesn't contain Parameter.Value" errors.
	lookup := customresources.NewAwsCustomResource(scope, jsii.String(id),
		&customresources.AwsCustomResourceProps{
			OnCreate: sdkCall,
			OnUpdate: sdkCall,
			Policy: customresources.AwsCustomResourcePolicy_FromStatements(&[]awsiam.PolicyStatement{
				awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
					Actions:   jsii.Strings("ssm:GetParameter"),
					Resources: &[]*string{parameterArn},
				}),
			}),
		})
	return lookup.GetResponseField(jsii.String("Parameter.Value"))
}
