package main

import (
	"context"

	"github.com/skyfronthq/sfapp/cmd/internal/cdkctx"
	"github.com/skyfronthq/sfapp/cmd/internal/cmdexec"
	"github.com/skyfronthq/sfapp/cmd/internal/projcfg"
)

type BootstrapCmd struct {
	ExecutionPolicies   string `name:"execution-policies" help:"IAM policy ARNs for CFN execution role."`
	PermissionsBoundary string `name:"permissions-boundary" help:"IAM permissions boundary for bootstrap roles."`
}

func (c *BootstrapCmd) Run(cfg *projcfg.Config) error {
	cctx, err := cdkctx.Load(cfg.CdkDir())
	if err != nil {
		return err
	}

	args := []string{"bootstrap", "--qualifier", cctx.Qualifier}
	args = append(args, cfg.Cdk.CdkArgs(cctx.Prefix)...)
	if c.ExecutionPolicies != "" {
		args = append(args, "--cloudformation-execution-policies", c.ExecutionPolicies)
	}
	if c.PermissionsBoundary != "" {
		args = append(args, "--custom-permissions-boundary", c.PermissionsBoundary)
	}
	return cmdexec.Run(context.Background(), cfg.CdkDir(), "cdk", args...)
}
