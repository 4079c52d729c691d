// Package cdkctx reads the CDK app's configuration files (cdk.json and
// cdk.context.json) so CLI commands can target the right stacks without
// synthesizing the app.
package cdkctx

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"
)

// CDKContext is the subset of the app's context the CLI needs.
type CDKContext struct {
	Qualifier        string
	Prefix           string
	PrimaryRegion    string
	SecondaryRegions []string
	Deployments      []string
}

// Load reads cdk.json and cdk.context.json from cdkDir.
func Load(cdkDir string) (*CDKContext, error) {
	qualifier, err := readQualifier(cdkDir)
	if err != nil {
		return nil, err
	}

	prefix := qualifier + "-"

	ctxFile := filepath.Join(cdkDir, "cdk.context.json")
	ctxData, err := os.ReadFile(ctxFile)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", ctxFile)
	}

	var ctxMap map[string]json.RawMessage
	if err := json.Unmarshal(ctxData, &ctxMap); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", ctxFile)
	}

	cctx := &CDKContext{Qualifier: qualifier, Prefix: prefix}

	cctx.PrimaryRegion, err = getString(ctxMap, prefix+"primary-region")
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", ctxFile)
	}
	cctx.SecondaryRegions, err = getStringSlice(ctxMap, prefix+"secondary-regions")
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", ctxFile)
	}
	cctx.Deployments, err = getStringSlice(ctxMap, prefix+"deployments")
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", ctxFile)
	}

	return cctx, nil
}

// IsValidDeployment reports whether name is one of the configured
// deployments.
func (c *CDKContext) IsValidDeployment(name string) bool {
	return slices.Contains(c.Deployments, name)
}

// AllRegions returns the primary region plus all secondary regions.
func (c *CDKContext) AllRegions() []string {
	return append([]string{c.PrimaryRegion}, c.SecondaryRegions...)
}

func readQualifier(cdkDir string) (string, error) {
	cdkJSON := filepath.Join(cdkDir, "cdk.json")
	data, err := os.ReadFile(cdkJSON)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", cdkJSON)
	}

	var cfg struct {
		Context map[string]json.RawMessage `json:"context"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return "", errors.Wrapf(err, "parsing %s", cdkJSON)
	}

	raw, ok := cfg.Context["@aws-cdk/core:bootstrapQualifier"]
	if !ok {
		return "", errors.Newf("missing @aws-cdk/core:bootstrapQualifier in %s", cdkJSON)
	}

	var qualifier string
	if err := json.Unmarshal(raw, &qualifier); err != nil {
		return "", errors.Newf("@aws-cdk/core:bootstrapQualifier must be a string in %s", cdkJSON)
	}
	return qualifier, nil
}

func getString(m map[string]json.RawMessage, key string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", errors.Newf("context key %q is not set", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.Newf("context key %q must be a string", key)
	}
	return s, nil
}

func getStringSlice(m map[string]json.RawMessage, key string) ([]string, error) {
	raw, ok := m[key]
	if !ok {
		return nil, errors.Newf("context key %q is not set", key)
	}
	var ss []string
	if err := json.Unmarshal(raw, &ss); err != nil {
		return nil, errors.Newf("context key %q must be an array of strings", key)
	}
	return ss, nil
}
