package cdk

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/jsii-runtime-go"
	"github.com/cockroachdb/errors"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkapi"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkcerts"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkdynamo"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkedge"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkutil"
	"github.com/skyfronthq/sfapp/sfcdk/sfcdkweb"
)

//go:embed redirects/index.js
var redirectsHandlerJS string

// NewDeployment creates one deployment's resources in one region's stack.
//
// Every region gets the rules table (replica) and a regional API. The web
// distribution and its edge function are global, so only the primary
// region's stack creates them.
func NewDeployment(stack awscdk.Stack, shared *Shared, deploymentIdent string) {
	rulesTable := sfcdkdynamo.New(stack, sfcdkdynamo.Props{})

	if !sfcdkutil.DNSDelegated(stack) {
		// Custom domains need working DNS; until delegation is done the
		// deployment only carries the rules table.
		return
	}

	tableName := sfcdkutil.ResourceName(stack, "rules-table", sfcdkutil.CasingKebab)

	env := map[string]*string{
		"SF_RULES_TABLE": jsii.String(tableName),
		"SF_API_TOKEN":   apiToken(stack),
	}
	api := sfcdkapi.New(stack, sfcdkapi.Props{
		Entry:        jsii.String("backend/cmd/edgeapi"),
		PublicRoutes: jsii.Strings("/api/{proxy+}"),
		Environment:  &env,
		HostedZone:   shared.DNS.HostedZone(),
		Certificate:  sfcdkcerts.LookupCertificate(stack),
		Subdomain:    jsii.String("api"),
		Authorizer:   &sfcdkapi.AuthorizerProps{},
	})
	rulesTable.GrantReadWriteData(api.Lambda().Function())

	if !sfcdkutil.IsPrimaryRegionStack(stack, stack) {
		return
	}

	edge := sfcdkedge.New(stack, "Redirects", sfcdkedge.Props{
		Code:    awslambda.Code_FromInline(jsii.String(redirectsHandler(stack, tableName))),
		Handler: jsii.String("index.handler"),
		Runtime: awslambda.Runtime_NODEJS_22_X(),
	})
	edge.AddToRolePolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Actions: jsii.Strings("dynamodb:GetItem"),
		// Region wildcard: the global table replicas share the name, and
		// the statement must not reference this stack's resources since the
		// role can live in the us-east-1 support stack.
		Resources: jsii.Strings("arn:aws:dynamodb:*:" + *awscdk.Aws_ACCOUNT_ID() + ":table/" + tableName),
	}))

	sfcdkweb.New(stack, sfcdkweb.Props{
		HostedZone:           shared.DNS.HostedZone(),
		Certificate:          sfcdkcerts.LookupEdgeCertificate(stack),
		Subdomain:            jsii.String("web"),
		APIDomainName:        jsii.String(api.GlobalDomainName()),
		ViewerRequestHandler: edge,
	})
}

// redirectsHandler renders the viewer-request handler source with the
// deployment's configuration substituted. Lambda@Edge has no environment
// variables, so the configuration is part of the code.
func redirectsHandler(stack awscdk.Stack, tableName string) string {
	cfg, err := json.Marshal(map[string]string{
		"tableName": tableName,
		"region":    sfcdkutil.PrimaryRegion(stack),
	})
	if err != nil {
		panic(errors.Wrap(err, "marshaling redirects handler config"))
	}
	return strings.Replace(redirectsHandlerJS, "__CONFIG__", string(cfg), 1)
}

// apiToken reads the deployment API token from CDK context.
//
// TODO: move the token into Secrets Manager once the CLI can sync it there.
func apiToken(stack awscdk.Stack) *string {
	key := sfcdkutil.ConfigFromScope(stack).Prefix + "api-token"
	val := stack.Node().TryGetContext(jsii.String(key))
	token, ok := val.(string)
	if !ok || token == "" {
		panic(errors.Newf("context key %q must be set to the API caller token", key))
	}
	return jsii.String(token)
}
