package main

import (
	"context"

	"github.com/skyfronthq/sfapp/cmd/internal/cdkctx"
	"github.com/skyfronthq/sfapp/cmd/internal/cmdexec"
	"github.com/skyfronthq/sfapp/cmd/internal/projcfg"
)

type DiffCmd struct {
	Deployment string `arg:"" help:"Deployment name (e.g., Dev, Prod)."`
}

func (c *DiffCmd) Run(cfg *projcfg.Config) error {
	cctx, err := cdkctx.Load(cfg.CdkDir())
	if err != nil {
		return err
	}

	deployment, err := resolveDeployment(cctx, c.Deployment)
	if err != nil {
		return err
	}

	args := []string{"diff"}
	args = append(args, cfg.Cdk.CdkArgs(cctx.Prefix)...)
	args = append(args, stackPatterns(cctx, deployment)...)
	return cmdexec.Run(context.Background(), cfg.CdkDir(), "cdk", args...)
}
