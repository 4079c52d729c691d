package main

import (
	"context"

	"github.com/skyfronthq/sfapp/cmd/internal/cdkctx"
	"github.com/skyfronthq/sfapp/cmd/internal/cmdexec"
	"github.com/skyfronthq/sfapp/cmd/internal/projcfg"
)

type SynthCmd struct {
	Deployment string `arg:"" optional:"" help:"Deployment name (e.g., Dev, Prod). Synthesizes all stacks when omitted."`
}

func (c *SynthCmd) Run(cfg *projcfg.Config) error {
	cctx, err := cdkctx.Load(cfg.CdkDir())
	if err != nil {
		return err
	}

	args := []string{"synth"}
	args = append(args, cfg.Cdk.CdkArgs(cctx.Prefix)...)
	if c.Deployment != "" {
		deployment, err := resolveDeployment(cctx, c.Deployment)
		if err != nil {
			return err
		}
		args = append(args, stackPatterns(cctx, deployment)...)
	}
	return cmdexec.Run(context.Background(), cfg.CdkDir(), "cdk", args...)
}
