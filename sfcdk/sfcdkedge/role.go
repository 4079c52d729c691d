package sfcdkedge

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// functionRole returns the role the underlying function assumes. A
// caller-supplied role is passed through as-is; otherwise a role trusted by
// both the lambda and edgelambda service principals is created next to the
// function. Both placement paths go through here so the default cannot
// diverge between them.
func functionRole(scope constructs.Construct, id string, supplied awsiam.IRole) awsiam.IRole {
	if supplied != nil {
		return supplied
	}

	return awsiam.NewRole(scope, jsii.String(id+"ServiceRole"), &awsiam.RoleProps{
		AssumedBy: awsiam.NewCompositePrincipal(
			awsiam.NewServicePrincipal(jsii.String("lambda.amazonaws.com"), nil),
			awsiam.NewServicePrincipal(jsii.String("edgelambda.amazonaws.com"), nil),
		),
		ManagedPolicies: &[]awsiam.IManagedPolicy{
			awsiam.ManagedPolicy_FromAwsManagedPolicyName(
				jsii.String("service-role/AWSLambdaBasicExecutionRole")),
		},
	})
}
