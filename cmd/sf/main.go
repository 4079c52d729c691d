// Command sf is the workspace CLI: environment checks and wrappers around
// the CDK toolkit that fill in the stack patterns and context values the
// app expects.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/skyfronthq/sfapp/cmd/internal/projcfg"
)

// version is set at release time via -ldflags.
var version = "dev"

type App struct {
	Version kong.VersionFlag `help:"Show version."`

	Doctor DoctorCmd `cmd:"" help:"Check that all required tools and files are present."`
	Cdk    struct {
		Bootstrap BootstrapCmd `cmd:"" help:"Bootstrap CDK in the current AWS account/region."`
		Synth     SynthCmd     `cmd:"" help:"Synthesize the CDK app."`
		Diff      DiffCmd      `cmd:"" help:"Show CDK diff for a deployment."`
		Deploy    DeployCmd    `cmd:"" help:"Deploy CDK stacks for a deployment."`
	} `cmd:"" help:"CDK commands."`
}

func main() {
	cfg, err := projcfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var app App
	ctx := kong.Parse(&app,
		kong.Name("sf"),
		kong.Description("Skyfront workspace CLI."),
		kong.Vars{"version": version},
		kong.Bind(cfg),
	)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
