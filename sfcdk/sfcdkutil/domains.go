package sfcdkutil

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// RegionalSubdomain builds the subdomain for a region-pinned endpoint:
// "{deployment}-{regionIdent}-{sub}", all kebab-case. Example:
// ("Stag", "eu-west-1", "api") -> "stag-euw1-api".
func RegionalSubdomain(deploymentIdent, region, sub string) string {
	return strings.Join([]string{
		strcase.ToKebab(deploymentIdent),
		RegionIdentLower(region),
		strcase.ToKebab(sub),
	}, "-")
}

// GlobalSubdomain builds the subdomain for a latency-routed endpoint that
// resolves to the nearest regional one: "{deployment}-{sub}". Example:
// ("Stag", "api") -> "stag-api".
func GlobalSubdomain(deploymentIdent, sub string) string {
	return strcase.ToKebab(deploymentIdent) + "-" + strcase.ToKebab(sub)
}
