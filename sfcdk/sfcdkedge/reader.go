package sfcdkedge

import (
	_ "embed"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/cockroachdb/errors"
)

// readerResourceType tags the custom resource that performs the
// cross-region parameter read. It doubles as the provider's dedup key: one
// provider is shared by all edge functions in a stack.
const readerResourceType = "Custom::CrossRegionStringParameterReader"

//go:embed resolver/index.js
var resolverHandlerJS []byte

// resolverCodeDir materializes the embedded reader handler on disk once per
// process; the provider framework stages the directory into the cloud
// assembly by content hash, so the temporary location does not leak into
// the template.
var resolverCodeDir = sync.OnceValues(func() (string, error) {
	dir, err := os.MkdirTemp("", "sfcdkedge-resolver-*")
	if err != nil {
		return "", errors.Wrap(err, "creating resolver staging directory")
	}
	if err := os.WriteFile(filepath.Join(dir, "index.js"), resolverHandlerJS, 0o644); err != nil {
		return "", errors.Wrap(err, "writing resolver handler")
	}
	return dir, nil
})

// readEdgeArn wires the deploy-time read of the support stack's parameter.
// It returns the function ARN as a deferred attribute that resolves when
// the custom resource runs.
//
// The provider is created at most once per stack; each read extends its
// role with a statement scoped to exactly the addressed parameter.
func readEdgeArn(scope constructs.Construct, parameterName string) *string {
	stack := awscdk.Stack_Of(scope)

	codeDir, err := resolverCodeDir()
	if err != nil {
		panic(err)
	}

	provider := awscdk.CustomResourceProvider_GetOrCreateProvider(scope,
		jsii.String(readerResourceType), &awscdk.CustomResourceProviderProps{
			CodeDirectory: jsii.String(codeDir),
			Runtime:       awscdk.CustomResourceProviderRuntime_NODEJS_18_X,
		})

	provider.AddToRolePolicy(map[string]any{
		"Effect": "Allow",
		"Action": []string{"ssm:GetParameter"},
		"Resource": *stack.FormatArn(&awscdk.ArnComponents{
			Service:      jsii.String("ssm"),
			Region:       jsii.String(EdgeRegion),
			Resource:     jsii.String("parameter"),
			ResourceName: jsii.String(strings.TrimPrefix(parameterName, "/")),
		}),
	})

	resource := awscdk.NewCustomResource(scope, jsii.String("ArnReader"), &awscdk.CustomResourceProps{
		ResourceType: jsii.String(readerResourceType),
		ServiceToken: provider.ServiceToken(),
		Properties: &map[string]any{
			"Region":        EdgeRegion,
			"ParameterName": parameterName,
			// A fresh token per synthesis forces the read to re-run on every
			// deployment instead of reusing the previously resolved value.
			"RefreshToken": strconv.FormatInt(time.Now().UnixMilli(), 10),
		},
	})

	return resource.GetAttString(jsii.String("FunctionArn"))
}
