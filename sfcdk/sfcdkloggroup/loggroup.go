// Package sfcdkloggroup provides the CloudWatch Log Group construct used by
// every lambda in the repo. Defaults follow the deployment the log group
// belongs to: restricted deployments keep their logs when the stack goes,
// everything else is ephemeral. Each log group exports its name as a stack
// output so it can be found with AWS CLI queries.
package sfcdkloggroup

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkutil"
)

// LogGroup provides access to a CloudWatch Log Group with standardized
// configuration.
type LogGroup interface {
	// LogGroup returns the underlying CDK log group.
	LogGroup() awslogs.ILogGroup
}

// Props configures the LogGroup construct.
type Props struct {
	// Purpose describes what this log group is for (e.g., "Lambda function
	// logs"). Used in the CfnOutput description.
	// Required.
	Purpose *string
	// Retention overrides the deployment-derived retention period.
	// Optional.
	Retention awslogs.RetentionDays
}

type logGroup struct {
	lg awslogs.ILogGroup
}

// New creates a LogGroup construct.
//
// Defaults depend on the stack's deployment:
//   - restricted deployments: THREE_MONTHS retention, RETAIN removal policy
//   - everything else (dev deployments, shared stacks, tests): ONE_WEEK
//     retention, DESTROY removal policy
//
// A CfnOutput is created with:
//   - Key: "{id}LogGroup" where id is derived from the construct path
//   - Value: The log group name (for CLI queries)
//   - Description: "CloudWatch Log Group for {Purpose}"
func New(scope constructs.Construct, id string, props Props) LogGroup {
	scope = constructs.NewConstruct(scope, jsii.String(id))
	con := &logGroup{}

	retention := awslogs.RetentionDays_ONE_WEEK
	removal := awscdk.RemovalPolicy_DESTROY
	if sfcdkutil.IsRestrictedDeployment(scope) {
		retention = awslogs.RetentionDays_THREE_MONTHS
		removal = awscdk.RemovalPolicy_RETAIN
	}
	if props.Retention != "" {
		retention = props.Retention
	}

	con.lg = awslogs.NewLogGroup(scope, jsii.String("LogGroup"), &awslogs.LogGroupProps{
		Retention:     retention,
		RemovalPolicy: removal,
	})

	awscdk.NewCfnOutput(scope, jsii.String("LogGroupOutput"), &awscdk.CfnOutputProps{
		Key:         jsii.String(id + "LogGroup"),
		Description: jsii.String("CloudWatch Log Group for " + *props.Purpose),
		Value:       con.lg.LogGroupName(),
	})

	return con
}

func (l *logGroup) LogGroup() awslogs.ILogGroup {
	return l.lg
}
