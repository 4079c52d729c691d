//nolint:paralleltest // jsii runtime doesn't support parallel tests
package sfcdkloggroup_test

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/jsii-runtime-go"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkloggroup"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkutil"
)

func newTestStack() awscdk.Stack {
	app := awscdk.NewApp(nil)
	return awscdk.NewStack(app, jsii.String("TestStack"), &awscdk.StackProps{
		Env: &awscdk.Environment{Region: jsii.String("eu-west-1")},
	})
}

func TestNew(t *testing.T) {
	defer jsii.Close()

	stack := newTestStack()

	lg := sfcdkloggroup.New(stack, "EdgeFnLogs", sfcdkloggroup.Props{
		Purpose: jsii.String("Edge function logs"),
	})

	if lg.LogGroup() == nil {
		t.Fatal("LogGroup() should not be nil")
	}

	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("AWS::Logs::LogGroup"), jsii.Number(1))
	template.HasResourceProperties(jsii.String("AWS::Logs::LogGroup"), map[string]any{
		"RetentionInDays": 7,
	})
}

func newRestrictedStack() awscdk.Stack {
	app := awscdk.NewApp(nil)
	sfcdkutil.StoreConfig(app, &sfcdkutil.Config{
		Prefix:                "skyfront/",
		Qualifier:             "testqual",
		PrimaryRegion:         "us-east-1",
		Deployments:           []string{"Dev", "Prod"},
		BaseDomainName:        "example.com",
		DeployersGroup:        "deployers",
		RestrictedDeployments: []string{"Prod"},
	})
	stack := awscdk.NewStack(app, jsii.String("TestStack"), &awscdk.StackProps{
		Env: &awscdk.Environment{Region: jsii.String("eu-west-1")},
	})
	sfcdkutil.StoreDeploymentIdent(stack, "Prod")
	return stack
}

func TestNew_RestrictedDeploymentRetainsLogs(t *testing.T) {
	defer jsii.Close()

	stack := newRestrictedStack()

	sfcdkloggroup.New(stack, "EdgeFnLogs", sfcdkloggroup.Props{
		Purpose: jsii.String("Edge function logs"),
	})

	template := assertions.Template_FromStack(stack, nil)
	template.HasResourceProperties(jsii.String("AWS::Logs::LogGroup"), map[string]any{
		"RetentionInDays": 90,
	})
	template.HasResource(jsii.String("AWS::Logs::LogGroup"), map[string]any{
		"DeletionPolicy": "Retain",
	})
}

func TestNew_RetentionOverride(t *testing.T) {
	defer jsii.Close()

	stack := newTestStack()

	sfcdkloggroup.New(stack, "EdgeFnLogs", sfcdkloggroup.Props{
		Purpose:   jsii.String("Edge function logs"),
		Retention: awslogs.RetentionDays_ONE_MONTH,
	})

	template := assertions.Template_FromStack(stack, nil)
	template.HasResourceProperties(jsii.String("AWS::Logs::LogGroup"), map[string]any{
		"RetentionInDays": 30,
	})
}

func TestNew_MultipleGroupsInSameStack(t *testing.T) {
	defer jsii.Close()

	stack := newTestStack()

	sfcdkloggroup.New(stack, "FirstLogs", sfcdkloggroup.Props{
		Purpose: jsii.String("first"),
	})
	sfcdkloggroup.New(stack, "SecondLogs", sfcdkloggroup.Props{
		Purpose: jsii.String("second"),
	})

	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("AWS::Logs::LogGroup"), jsii.Number(2))
}
