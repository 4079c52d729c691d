package cdkctx_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skyfronthq/sfapp/cmd/internal/cdkctx"
)

func writeCdkFiles(t *testing.T, cdkJSON, contextJSON string) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cdk.json"), []byte(cdkJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "cdk.context.json"), []byte(contextJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeCdkFiles(t,
		`{"app": "go run ./infra/cdk/cdk", "context": {"@aws-cdk/core:bootstrapQualifier": "skyfront"}}`,
		`{
			"skyfront-primary-region": "us-east-1",
			"skyfront-secondary-regions": ["eu-west-1"],
			"skyfront-deployments": ["Dev", "Prod"]
		}`)

	cctx, err := cdkctx.Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	if cctx.Qualifier != "skyfront" {
		t.Errorf("Qualifier = %q, want %q", cctx.Qualifier, "skyfront")
	}
	if cctx.Prefix != "skyfront-" {
		t.Errorf("Prefix = %q, want %q", cctx.Prefix, "skyfront-")
	}
	if cctx.PrimaryRegion != "us-east-1" {
		t.Errorf("PrimaryRegion = %q, want %q", cctx.PrimaryRegion, "us-east-1")
	}

	regions := cctx.AllRegions()
	if len(regions) != 2 || regions[0] != "us-east-1" || regions[1] != "eu-west-1" {
		t.Errorf("AllRegions() = %v, want [us-east-1 eu-west-1]", regions)
	}

	if !cctx.IsValidDeployment("Prod") {
		t.Error("Prod should be a valid deployment")
	}
	if cctx.IsValidDeployment("Staging") {
		t.Error("Staging should not be a valid deployment")
	}
}

func TestLoad_MissingQualifier(t *testing.T) {
	dir := writeCdkFiles(t, `{"context": {}}`, `{}`)

	if _, err := cdkctx.Load(dir); err == nil {
		t.Error("Load should fail without a bootstrap qualifier")
	}
}

func TestLoad_MissingContextKey(t *testing.T) {
	dir := writeCdkFiles(t,
		`{"context": {"@aws-cdk/core:bootstrapQualifier": "skyfront"}}`,
		`{"skyfront-primary-region": "us-east-1"}`)

	if _, err := cdkctx.Load(dir); err == nil {
		t.Error("Load should fail when deployments are not configured")
	}
}
