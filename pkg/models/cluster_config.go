// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/dcos/dcos-launch/pkg/constants"
	"gopkg.in/yaml.v3"
)

type Platform string

const (
	PlatformAWS   Platform = "aws"
	PlatformGCP   Platform = "gcp"
	PlatformAzure Platform = "azure"
)

var ErrUnsupportedPlatform = errors.New("unsupported platform")

func (p Platform) Validate() error {
	switch p {
	case PlatformAWS, PlatformGCP, PlatformAzure:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedPlatform, string(p))
}

// ClusterConfig is the declarative description of one terraform backed cluster.
// The launcher mutates it during create as keys, credentials and region defaults are resolved.
type ClusterConfig struct {
	LaunchConfigVersion            int            `yaml:"launch_config_version,omitempty" json:"launch_config_version,omitempty"`
	DeploymentName                 string         `yaml:"deployment_name,omitempty" json:"deployment_name,omitempty"`
	Provider                       string         `yaml:"provider" json:"provider"`
	Platform                       Platform       `yaml:"platform" json:"platform"`
	InitDir                        string         `yaml:"init_dir" json:"init_dir"`
	Enterprise                     bool           `yaml:"dcos-enterprise" json:"dcos-enterprise"`
	TerraformDCOSVersion           string         `yaml:"terraform_dcos_version" json:"terraform_dcos_version"`
	TerraformDCOSEnterpriseVersion string         `yaml:"terraform_dcos_enterprise_version" json:"terraform_dcos_enterprise_version"`
	TerraformTarballURL            string         `yaml:"terraform_tarball_url" json:"terraform_tarball_url"`
	KeyHelper                      bool           `yaml:"key_helper" json:"key_helper"`
	SSHPrivateKeyFilename          string         `yaml:"ssh_private_key_filename,omitempty" json:"ssh_private_key_filename,omitempty"`
	SSHPrivateKey                  string         `yaml:"ssh_private_key,omitempty" json:"ssh_private_key,omitempty"`
	SSHUser                        string         `yaml:"ssh_user,omitempty" json:"ssh_user,omitempty"`
	AWSRegion                      string         `yaml:"aws_region,omitempty" json:"aws_region,omitempty"`
	AWSKeyPairName                 string         `yaml:"aws_key_pair_name,omitempty" json:"aws_key_pair_name,omitempty"`
	TerraformConfig                map[string]any `yaml:"terraform_config" json:"terraform_config"`
}

// LoadClusterConfig reads a YAML cluster config and fills in defaults relative to its directory.
func LoadClusterConfig(path string) (*ClusterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed reading cluster config %s: %w", path, err)
	}
	cfg := &ClusterConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed parsing cluster config %s: %w", path, err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.SetDefaults(filepath.Dir(absPath)); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// SetDefaults fills unset options. Relative paths are resolved against baseDir.
func (c *ClusterConfig) SetDefaults(baseDir string) error {
	if c.Provider == "" {
		c.Provider = constants.TerraformProvider
	}
	if c.InitDir == "" {
		c.InitDir = ".deploy"
	}
	if !filepath.IsAbs(c.InitDir) {
		c.InitDir = filepath.Join(baseDir, c.InitDir)
	}
	c.InitDir = filepath.Clean(c.InitDir)
	if c.TerraformDCOSVersion == "" {
		c.TerraformDCOSVersion = "master"
	}
	if c.TerraformDCOSEnterpriseVersion == "" {
		c.TerraformDCOSEnterpriseVersion = "master"
	}
	if c.TerraformTarballURL == "" {
		c.TerraformTarballURL = DefaultTerraformURL()
	}
	if c.TerraformConfig == nil {
		c.TerraformConfig = map[string]any{}
	}
	if c.SSHPrivateKeyFilename != "" && !filepath.IsAbs(c.SSHPrivateKeyFilename) {
		c.SSHPrivateKeyFilename = filepath.Join(baseDir, c.SSHPrivateKeyFilename)
	}
	if c.SSHPrivateKey == "" && c.SSHPrivateKeyFilename != "" && !c.KeyHelper {
		key, err := os.ReadFile(c.SSHPrivateKeyFilename)
		if err != nil {
			return fmt.Errorf("failed reading ssh_private_key_filename: %w", err)
		}
		c.SSHPrivateKey = string(key)
	}
	if c.SSHPrivateKey == "" && !c.KeyHelper {
		c.SSHPrivateKey = constants.NoTestFlag
	}
	return nil
}

func (c *ClusterConfig) Validate() error {
	if c.Provider != constants.TerraformProvider {
		return fmt.Errorf("unsupported provider %q, only %q is handled", c.Provider, constants.TerraformProvider)
	}
	return c.Platform.Validate()
}

// DefaultTerraformURL is the release archive matching the running OS and architecture.
func DefaultTerraformURL() string {
	return fmt.Sprintf(constants.TerraformReleaseURLFormat, constants.DefaultTerraformVersion, runtime.GOOS, runtime.GOARCH)
}

// ModuleVersion returns the terraform-dcos git ref for the configured flavor.
func (c *ClusterConfig) ModuleVersion() string {
	if c.Enterprise {
		return c.TerraformDCOSEnterpriseVersion
	}
	return c.TerraformDCOSVersion
}

func (c *ClusterConfig) HasTFVar(key string) bool {
	_, ok := c.TerraformConfig[key]
	return ok
}

// TFVar returns the variable as a string, or "" when unset.
func (c *ClusterConfig) TFVar(key string) string {
	v, ok := c.TerraformConfig[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func (c *ClusterConfig) SetTFVar(key string, value any) {
	if c.TerraformConfig == nil {
		c.TerraformConfig = map[string]any{}
	}
	c.TerraformConfig[key] = value
}

// CanTest reports whether the config carries enough SSH information to reach the cluster.
func (c *ClusterConfig) CanTest() bool {
	return c.SSHUser != "" && c.CanTestKey()
}

// CanTestKey reports whether a usable private key is present, ignoring the SSH user
// which describe can still discover.
func (c *ClusterConfig) CanTestKey() bool {
	return c.SSHPrivateKey != "" && c.SSHPrivateKey != constants.NoTestFlag
}

// WriteClusterInfo persists the config so later commands can find the cluster.
func WriteClusterInfo(path string, c *ClusterConfig) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, constants.UserOnlyWritePerms)
}

func LoadClusterInfo(path string) (*ClusterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed reading cluster info %s: %w", path, err)
	}
	c := &ClusterConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed parsing cluster info %s: %w", path, err)
	}
	if c.TerraformConfig == nil {
		c.TerraformConfig = map[string]any{}
	}
	return c, c.Validate()
}
