//nolint:paralleltest // jsii runtime doesn't support parallel tests
package sfcdkapi_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/jsii-runtime-go"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkapi"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkutil"
)

// testEntry points at an actual Go command in the repo; tests requiring CDK
// runtime must run from the module root.
var testEntry = "backend/cmd/edgeapi"

func testConfig() *sfcdkutil.Config {
	return &sfcdkutil.Config{
		Prefix:         "skyfront/",
		Qualifier:      "testqual",
		PrimaryRegion:  "us-east-1",
		Deployments:    []string{"dev", "Prod"},
		BaseDomainName: "example.com",
		DeployersGroup: "deployers",
	}
}

func init() {
	// Change to the module root so CDK can resolve the entry path.
	dir, _ := os.Getwd()
	for dir != "/" {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			_ = os.Chdir(dir)
			break
		}
		dir = filepath.Dir(dir)
	}
}

type fixture struct {
	stack       awscdk.Stack
	hostedZone  awsroute53.IHostedZone
	certificate awscertificatemanager.ICertificate
}

func newFixture(region, deploymentIdent string) fixture {
	app := awscdk.NewApp(nil)
	sfcdkutil.StoreConfig(app, testConfig())
	stack := awscdk.NewStack(app, jsii.String("TestStack"), &awscdk.StackProps{
		Env: &awscdk.Environment{
			Region: jsii.String(region),
		},
	})
	sfcdkutil.StoreDeploymentIdent(stack, deploymentIdent)

	hostedZone := awsroute53.NewHostedZone(stack, jsii.String("Zone"), &awsroute53.HostedZoneProps{
		ZoneName: jsii.String("example.com"),
	})
	certificate := awscertificatemanager.NewCertificate(stack, jsii.String("Cert"),
		&awscertificatemanager.CertificateProps{
			DomainName: jsii.String("*.example.com"),
		})

	return fixture{stack: stack, hostedZone: hostedZone, certificate: certificate}
}

func TestNew_WithoutAuthorizer(t *testing.T) {
	defer jsii.Close()

	f := newFixture("eu-west-1", "dev")

	api := sfcdkapi.New(f.stack, sfcdkapi.Props{
		Entry:        jsii.String(testEntry),
		PublicRoutes: &[]*string{jsii.String("/api/{proxy+}")},
		HostedZone:   f.hostedZone,
		Certificate:  f.certificate,
		Subdomain:    jsii.String("api"),
	})

	if api.Lambda() == nil {
		t.Error("Lambda() should not be nil")
	}
	if api.AuthorizerLambda() != nil {
		t.Error("AuthorizerLambda() should be nil when no authorizer configured")
	}
	if api.RestApi() == nil {
		t.Error("RestApi() should not be nil")
	}
	if api.AccessLogGroup() == nil {
		t.Error("AccessLogGroup() should not be nil")
	}

	if api.DomainName() != "dev-euw1-api.example.com" {
		t.Errorf("DomainName() = %q, want %q", api.DomainName(), "dev-euw1-api.example.com")
	}
	if api.GlobalDomainName() != "dev-api.example.com" {
		t.Errorf("GlobalDomainName() = %q, want %q", api.GlobalDomainName(), "dev-api.example.com")
	}
}

func TestNew_WithAuthorizer(t *testing.T) {
	defer jsii.Close()

	f := newFixture("us-east-1", "Prod")

	api := sfcdkapi.New(f.stack, sfcdkapi.Props{
		Entry:        jsii.String(testEntry),
		PublicRoutes: &[]*string{jsii.String("/api/{proxy+}")},
		HostedZone:   f.hostedZone,
		Certificate:  f.certificate,
		Subdomain:    jsii.String("api"),
		Authorizer:   &sfcdkapi.AuthorizerProps{},
	})

	if api.AuthorizerLambda() == nil {
		t.Fatal("AuthorizerLambda() should not be nil when authorizer is configured")
	}
	if api.Lambda().Name() == api.AuthorizerLambda().Name() {
		t.Errorf("Lambda and AuthorizerLambda should have different names, both are %q", api.Lambda().Name())
	}
	if api.AuthorizerLambda().Name() != "BackendEdgeapiAuthorize" {
		t.Errorf("AuthorizerLambda().Name() = %q, want %q",
			api.AuthorizerLambda().Name(), "BackendEdgeapiAuthorize")
	}

	if api.DomainName() != "prod-use1-api.example.com" {
		t.Errorf("DomainName() = %q, want %q", api.DomainName(), "prod-use1-api.example.com")
	}
}

func TestNew_MultipleRoutes(t *testing.T) {
	defer jsii.Close()

	f := newFixture("eu-west-1", "dev")

	api := sfcdkapi.New(f.stack, sfcdkapi.Props{
		Entry: jsii.String(testEntry),
		PublicRoutes: &[]*string{
			jsii.String("/api/{proxy+}"),
			jsii.String("/health"),
		},
		HostedZone:  f.hostedZone,
		Certificate: f.certificate,
		Subdomain:   jsii.String("api"),
	})

	if api.RestApi() == nil {
		t.Error("RestApi() should not be nil")
	}
}

func TestNew_WithEnvironment(t *testing.T) {
	defer jsii.Close()

	f := newFixture("eu-west-1", "dev")

	env := map[string]*string{
		"SF_RULES_TABLE": jsii.String("testqual-dev-rules-table"),
	}

	api := sfcdkapi.New(f.stack, sfcdkapi.Props{
		Entry:        jsii.String(testEntry),
		PublicRoutes: &[]*string{jsii.String("/api/{proxy+}")},
		Environment:  &env,
		HostedZone:   f.hostedZone,
		Certificate:  f.certificate,
		Subdomain:    jsii.String("api"),
	})

	if api.Lambda() == nil {
		t.Error("Lambda() should not be nil")
	}
}
