//nolint:paralleltest // jsii runtime doesn't support parallel tests
package cdk_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"
	"github.com/skyfronthq/sfapp/infra/cdk"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkutil"
)

func init() {
	// Change to the module root so CDK can resolve the backend entry paths.
	dir, _ := os.Getwd()
	for dir != "/" {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			_ = os.Chdir(dir)
			break
		}
		dir = filepath.Dir(dir)
	}
}

func newTestApp() awscdk.App {
	app := awscdk.NewApp(&awscdk.AppProps{
		Context: &map[string]interface{}{
			"skyfront-qualifier":         "skyfront",
			"skyfront-primary-region":    "us-east-1",
			"skyfront-secondary-regions": []interface{}{"eu-west-1"},
			"skyfront-deployments":       []interface{}{"Dev"},
			"skyfront-base-domain-name":  "skyfront.app",
			"skyfront-dns-delegated":     true,
			"skyfront-deployer-groups":   "skyfront-deployers",
			"skyfront-api-token":         "test-token",
		},
	})

	sfcdkutil.SetupApp(app, sfcdkutil.AppConfig{
		Prefix:                "skyfront-",
		DeployersGroup:        "skyfront-deployers",
		RestrictedDeployments: []string{"Prod"},
	},
		cdk.NewShared,
		cdk.NewDeployment,
	)

	return app
}

func stackTemplate(t *testing.T, app awscdk.App, name string) assertions.Template {
	t.Helper()

	child := app.Node().TryFindChild(jsii.String(name))
	if child == nil {
		t.Fatalf("stack %q not found in app", name)
	}
	stack, ok := child.(awscdk.Stack)
	if !ok {
		t.Fatalf("child %q is not a stack", name)
	}
	return assertions.Template_FromStack(stack, nil)
}

func TestSharedStacks(t *testing.T) {
	defer jsii.Close()

	app := newTestApp()

	primary := stackTemplate(t, app, "skyfrontUse1Shared")
	primary.ResourceCountIs(jsii.String("AWS::Route53::HostedZone"), jsii.Number(1))
	primary.ResourceCountIs(jsii.String("AWS::CertificateManager::Certificate"), jsii.Number(1))

	// The secondary region references the primary's zone instead of
	// creating its own.
	secondary := stackTemplate(t, app, "skyfrontEuw1Shared")
	secondary.ResourceCountIs(jsii.String("AWS::Route53::HostedZone"), jsii.Number(0))
	secondary.ResourceCountIs(jsii.String("AWS::CertificateManager::Certificate"), jsii.Number(1))
}

func TestPrimaryDeploymentStack(t *testing.T) {
	defer jsii.Close()

	app := newTestApp()
	template := stackTemplate(t, app, "skyfrontUse1Dev")

	template.ResourceCountIs(jsii.String("AWS::DynamoDB::GlobalTable"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::ApiGateway::RestApi"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::CloudFront::Distribution"), jsii.Number(1))

	template.HasResourceProperties(jsii.String("AWS::DynamoDB::GlobalTable"), map[string]any{
		"TableName": "skyfront-dev-rules-table",
	})
}

func TestSecondaryDeploymentStack(t *testing.T) {
	defer jsii.Close()

	app := newTestApp()
	template := stackTemplate(t, app, "skyfrontEuw1Dev")

	// Regional API and a table replica reference only; the distribution
	// and edge function are global and owned by the primary stack.
	template.ResourceCountIs(jsii.String("AWS::DynamoDB::GlobalTable"), jsii.Number(0))
	template.ResourceCountIs(jsii.String("AWS::ApiGateway::RestApi"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::CloudFront::Distribution"), jsii.Number(0))
}
