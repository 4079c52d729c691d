package main

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/skyfronthq/sfapp/cmd/internal/cdkctx"
)

// resolveDeployment validates the deployment name against the configured
// deployments.
func resolveDeployment(cctx *cdkctx.CDKContext, name string) (string, error) {
	if name == "" {
		return "", errors.Newf("deployment is required (one of: %s)",
			strings.Join(cctx.Deployments, ", "))
	}
	if !cctx.IsValidDeployment(name) {
		return "", errors.Newf("unknown deployment %q (one of: %s)",
			name, strings.Join(cctx.Deployments, ", "))
	}
	return name, nil
}

// stackPatterns selects the shared stacks of every region plus the
// deployment's stacks.
func stackPatterns(cctx *cdkctx.CDKContext, deployment string) []string {
	return []string{
		cctx.Qualifier + "*Shared",
		cctx.Qualifier + "*" + deployment,
	}
}
