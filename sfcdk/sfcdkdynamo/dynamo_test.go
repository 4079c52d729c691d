//nolint:paralleltest // jsii runtime doesn't support parallel tests
package sfcdkdynamo_test

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/jsii-runtime-go"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkdynamo"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkutil"
)

func testConfig() *sfcdkutil.Config {
	return &sfcdkutil.Config{
		Prefix:           "skyfront/",
		Qualifier:        "testqual",
		PrimaryRegion:    "us-east-1",
		SecondaryRegions: []string{"eu-west-1"},
		Deployments:      []string{"dev", "Prod"},
		BaseDomainName:   "example.com",
		DeployersGroup:   "deployers",
	}
}

func newStack(region, deploymentIdent string) awscdk.Stack {
	app := awscdk.NewApp(nil)
	sfcdkutil.StoreConfig(app, testConfig())
	stack := awscdk.NewStack(app, jsii.String("TestStack"), &awscdk.StackProps{
		Env: &awscdk.Environment{
			Region: jsii.String(region),
		},
	})
	sfcdkutil.StoreDeploymentIdent(stack, deploymentIdent)
	return stack
}

func TestNew_PrimaryRegion(t *testing.T) {
	defer jsii.Close()

	stack := newStack("us-east-1", "dev")

	dynamo := sfcdkdynamo.New(stack, sfcdkdynamo.Props{})

	if dynamo.Table() == nil {
		t.Fatal("Table() should not be nil")
	}
	if *dynamo.Table().TableName() != "testqual-dev-rules-table" {
		t.Errorf("TableName() = %q, want testqual-dev-rules-table", *dynamo.Table().TableName())
	}

	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("AWS::DynamoDB::GlobalTable"), jsii.Number(1))
	template.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]any{
		"Name": "/testqual/dynamo/dev/rules/table-name",
	})
}

func TestNew_SecondaryRegion(t *testing.T) {
	defer jsii.Close()

	stack := newStack("eu-west-1", "dev")

	dynamo := sfcdkdynamo.New(stack, sfcdkdynamo.Props{})

	if dynamo.Table() == nil {
		t.Fatal("Table() should not be nil")
	}

	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("AWS::DynamoDB::GlobalTable"), jsii.Number(0))
	template.ResourceCountIs(jsii.String("Custom::AWS"), jsii.Number(1))
}

func TestNew_CustomIdentifier(t *testing.T) {
	defer jsii.Close()

	stack := newStack("us-east-1", "dev")

	dynamo := sfcdkdynamo.New(stack, sfcdkdynamo.Props{
		Identifier: jsii.String("sessions"),
	})

	if *dynamo.Table().TableName() != "testqual-dev-sessions-table" {
		t.Errorf("TableName() = %q, want testqual-dev-sessions-table", *dynamo.Table().TableName())
	}
}

func TestNew_MultipleTablesInSameStack(t *testing.T) {
	defer jsii.Close()

	stack := newStack("us-east-1", "dev")

	first := sfcdkdynamo.New(stack, sfcdkdynamo.Props{})
	second := sfcdkdynamo.New(stack, sfcdkdynamo.Props{
		Identifier: jsii.String("sessions"),
	})

	if *first.Table().TableName() == *second.Table().TableName() {
		t.Error("tables should have different names")
	}
}

func TestGrants(t *testing.T) {
	defer jsii.Close()

	stack := newStack("us-east-1", "dev")

	dynamo := sfcdkdynamo.New(stack, sfcdkdynamo.Props{})

	fn := awslambda.NewFunction(stack, jsii.String("TestFn"), &awslambda.FunctionProps{
		Runtime: awslambda.Runtime_NODEJS_22_X(),
		Handler: jsii.String("index.handler"),
		Code:    awslambda.Code_FromInline(jsii.String("exports.handler = async () => {}")),
	})

	// Should not panic.
	dynamo.GrantReadData(fn)
	dynamo.GrantReadWriteData(fn)
}
