// Package projcfg loads the workspace configuration from sf.toml at the
// repository root, with environment variable overrides for values that
// differ per developer or must stay out of version control.
package projcfg

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
)

const configFile = "sf.toml"

// Config is the parsed workspace configuration.
type Config struct {
	Root string    `toml:"-"`
	Cdk  CdkConfig `toml:"cdk"`
}

// CdkConfig configures how the CLI invokes the CDK toolkit.
type CdkConfig struct {
	// Dir is the directory holding cdk.json, relative to the root.
	Dir string `toml:"dir"`
	// Profile is the AWS profile passed to cdk. Overridable via
	// SF_AWS_PROFILE.
	Profile string `toml:"profile"`

	// APIToken is passed to the app as the api-token context value. It
	// never comes from sf.toml; set SF_API_TOKEN instead.
	APIToken string `toml:"-"`
}

// overrides are the environment variables layered over sf.toml.
type overrides struct {
	Profile  string `env:"SF_AWS_PROFILE"`
	APIToken string `env:"SF_API_TOKEN"`
}

// CdkDir returns the absolute directory to run cdk from.
func (c *Config) CdkDir() string {
	return filepath.Join(c.Root, c.Cdk.Dir)
}

// CdkArgs returns the arguments shared by every cdk invocation.
func (c *CdkConfig) CdkArgs(prefix string) []string {
	var args []string
	if c.Profile != "" {
		args = append(args, "--profile", c.Profile)
	}
	if c.APIToken != "" {
		args = append(args, "--context", prefix+"api-token="+c.APIToken)
	}
	return args
}

// Load finds sf.toml in the current directory or any parent, parses it and
// applies environment overrides.
func Load() (*Config, error) {
	root, err := findRoot()
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.DecodeFile(filepath.Join(root, configFile), &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", configFile)
	}
	cfg.Root = root

	var ovr overrides
	if err := env.Parse(&ovr); err != nil {
		return nil, errors.Wrap(err, "reading environment overrides")
	}
	if ovr.Profile != "" {
		cfg.Cdk.Profile = ovr.Profile
	}
	cfg.Cdk.APIToken = ovr.APIToken

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", configFile)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Cdk.Dir == "" {
		return errors.New("cdk.dir is required")
	}
	if filepath.IsAbs(c.Cdk.Dir) {
		return errors.Newf("cdk.dir must be relative, got %q", c.Cdk.Dir)
	}
	return nil
}

func findRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, configFile)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Newf("could not find %s in any parent directory", configFile)
		}
		dir = parent
	}
}
