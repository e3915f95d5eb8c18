// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"path/filepath"
	"strings"

	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/utils"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct{}

func New() *Config {
	return &Config{}
}

// SetConfig reads the settings file at s. Settings can also be given as DCOS_LAUNCH_* environment
// variables, dashes in keys becoming underscores.
func (*Config) SetConfig(log *zap.Logger, s string) {
	viper.SetConfigType("json")
	d := filepath.Dir(s)
	viper.AddConfigPath(d)
	viper.SetConfigFile(s)
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
	viper.SetDefault(constants.ConfigLogLevelKey, "info")
	viper.SetDefault(constants.ConfigInfoPathKey, constants.DefaultClusterInfoPath)
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Info("Using config file", zap.String("config-file", s))
	} else {
		log.Info("No config file found", zap.String("config-file", s))
	}
}

func (*Config) GetConfigPath() string {
	return viper.ConfigFileUsed()
}

func (c *Config) ConfigFileExists() bool {
	return utils.FileExists(c.GetConfigPath())
}

// SetConfigValue sets the value of a configuration key and persists the settings file.
func (c *Config) SetConfigValue(key string, value interface{}) error {
	viper.Set(key, value)
	if !c.ConfigFileExists() {
		return viper.SafeWriteConfigAs(c.GetConfigPath())
	}
	return viper.WriteConfig()
}

func (*Config) ConfigValueIsSet(key string) bool {
	return viper.IsSet(key)
}

func (*Config) GetConfigBoolValue(key string) bool {
	return viper.GetBool(key)
}

func (*Config) GetConfigStringValue(key string) string {
	return viper.GetString(key)
}

func (c *Config) LogLevel() string {
	return c.GetConfigStringValue(constants.ConfigLogLevelKey)
}

// TerraformTarballURL overrides the terraform download location of every cluster config when set.
func (c *Config) TerraformTarballURL() string {
	return c.GetConfigStringValue(constants.ConfigTerraformTarballURLKey)
}

func (c *Config) InfoPath() string {
	return c.GetConfigStringValue(constants.ConfigInfoPathKey)
}
