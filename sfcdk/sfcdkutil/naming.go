package sfcdkutil

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/iancoleman/strcase"
)

// Casing specifies how to format the identifier string.
type Casing int

const (
	// CasingCamel formats as CamelCase (e.g., "SkyfrontStagWebDist").
	CasingCamel Casing = iota
	// CasingLowerCamel formats as lowerCamelCase (e.g., "skyfrontStagWebDist").
	CasingLowerCamel
	// CasingSnake formats as snake_case (e.g., "skyfront_stag_web_dist").
	CasingSnake
	// CasingScreamingSnake formats as SCREAMING_SNAKE_CASE (e.g., "SKYFRONT_STAG_WEB_DIST").
	CasingScreamingSnake
	// CasingKebab formats as kebab-case (e.g., "skyfront-stag-web-dist").
	CasingKebab
	// CasingScreamingKebab formats as SCREAMING-KEBAB-CASE (e.g., "SKYFRONT-STAG-WEB-DIST").
	CasingScreamingKebab
)

// ResourceName generates a resource identifier prefixed with the stack's
// qualifier and deployment identifier. The label is a free-form string that
// the caller provides.
//
// The format is: "{qualifier}-{deploymentIdent}-{label}" converted to the
// specified casing. For shared stacks (no deployment identifier), the
// format is: "{qualifier}-{label}".
func ResourceName(scope constructs.Construct, label string, casing Casing) string {
	qualifier := Qualifier(scope)
	deploymentIdent := DeploymentIdent(scope)

	var base string
	if deploymentIdent != "" {
		base = fmt.Sprintf("%s-%s-%s", qualifier, deploymentIdent, label)
	} else {
		base = fmt.Sprintf("%s-%s", qualifier, label)
	}

	return applyCasing(base, casing)
}

// deploymentIdentContextKey stores the deployment identifier in the stack's
// context so constructs deep in the tree can retrieve it.
const deploymentIdentContextKey = "__sfcdkutil_deployment-ident"

// StoreDeploymentIdent stores the deployment identifier in the stack's context.
// NewStackFromConfig calls this automatically; tests can call it directly.
func StoreDeploymentIdent(stack awscdk.Stack, deploymentIdent string) {
	stack.Node().SetContext(jsii.String(deploymentIdentContextKey), deploymentIdent)
}

// DeploymentIdent returns the deployment identifier for the scope's stack,
// or "" for shared stacks.
func DeploymentIdent(scope constructs.Construct) string {
	val := scope.Node().TryGetContext(jsii.String(deploymentIdentContextKey))
	if val == nil {
		return ""
	}
	ident, ok := val.(string)
	if !ok {
		return ""
	}
	return ident
}

func applyCasing(s string, casing Casing) string {
	switch casing {
	case CasingCamel:
		return strcase.ToCamel(s)
	case CasingLowerCamel:
		return strcase.ToLowerCamel(s)
	case CasingSnake:
		return strcase.ToSnake(s)
	case CasingScreamingSnake:
		return strcase.ToScreamingSnake(s)
	case CasingKebab:
		return strcase.ToKebab(s)
	case CasingScreamingKebab:
		return strcase.ToScreamingKebab(s)
	default:
		return strcase.ToCamel(s)
	}
}
