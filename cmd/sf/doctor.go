package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/skyfronthq/sfapp/cmd/internal/projcfg"
)

type DoctorCmd struct{}

var requiredBinaries = []struct {
	Name   string
	Reason string
}{
	{"node", "runs the CDK toolkit and the jsii runtime"},
	{"cdk", "synthesizes and deploys the stacks"},
	{"go", "builds the Lambda functions during bundling"},
}

var requiredFiles = []string{"cdk.json", "cdk.context.json"}

func (c *DoctorCmd) Run(cfg *projcfg.Config) error {
	var failed bool

	for _, bin := range requiredBinaries {
		if _, err := exec.LookPath(bin.Name); err != nil {
			fmt.Fprintf(os.Stdout, "  ✗ %s not found (%s)\n", bin.Name, bin.Reason)
			failed = true
			continue
		}
		fmt.Fprintf(os.Stdout, "  ✓ %s\n", bin.Name)
	}

	for _, file := range requiredFiles {
		path := filepath.Join(cfg.CdkDir(), file)
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(os.Stdout, "  ✗ %s missing\n", path)
			failed = true
			continue
		}
		fmt.Fprintf(os.Stdout, "  ✓ %s\n", file)
	}

	if cfg.Cdk.APIToken == "" {
		fmt.Fprintln(os.Stdout, "  ✗ SF_API_TOKEN not set (synth and deploy pass it to the app as the api-token context value)")
		failed = true
	} else {
		fmt.Fprintln(os.Stdout, "  ✓ SF_API_TOKEN")
	}

	if failed {
		return errors.New("doctor found problems; see above")
	}

	fmt.Fprintln(os.Stdout, "All checks passed.")
	return nil
}
