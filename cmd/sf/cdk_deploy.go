package main

import (
	"context"

	"github.com/skyfronthq/sfapp/cmd/internal/cdkctx"
	"github.com/skyfronthq/sfapp/cmd/internal/cmdexec"
	"github.com/skyfronthq/sfapp/cmd/internal/projcfg"
)

type DeployCmd struct {
	Deployment string `arg:"" help:"Deployment name (e.g., Dev, Prod)."`
	Hotswap    bool   `help:"Enable CDK hotswap deployment for faster iterations."`
}

func (c *DeployCmd) Run(cfg *projcfg.Config) error {
	ctx := context.Background()

	cctx, err := cdkctx.Load(cfg.CdkDir())
	if err != nil {
		return err
	}

	deployment, err := resolveDeployment(cctx, c.Deployment)
	if err != nil {
		return err
	}

	args := []string{"deploy", "--require-approval", "never"}
	if c.Hotswap {
		args = append(args, "--hotswap")
	}
	args = append(args, cfg.Cdk.CdkArgs(cctx.Prefix)...)
	args = append(args, stackPatterns(cctx, deployment)...)
	return cmdexec.Run(ctx, cfg.CdkDir(), "cdk", args...)
}
