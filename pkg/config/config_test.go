// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func useConfig(t *testing.T, content string) (*Config, string) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	path := filepath.Join(t.TempDir(), constants.ConfigFileName)
	if content != "" {
		assert.NoError(t, os.WriteFile(path, []byte(content), constants.WriteReadReadPerms))
	}
	cf := New()
	cf.SetConfig(zaptest.NewLogger(t), path)
	return cf, path
}

func Test_Defaults(t *testing.T) {
	assert := assert.New(t)
	cf, _ := useConfig(t, "")

	assert.False(cf.ConfigFileExists())
	assert.Equal("info", cf.LogLevel())
	assert.Equal(constants.DefaultClusterInfoPath, cf.InfoPath())
	assert.Empty(cf.TerraformTarballURL())
}

func Test_FileValues(t *testing.T) {
	assert := assert.New(t)
	cf, path := useConfig(t, `{"log-level": "debug", "terraform-tarball-url": "https://mirror/terraform.zip"}`)

	assert.True(cf.ConfigFileExists())
	assert.Equal(path, cf.GetConfigPath())
	assert.Equal("debug", cf.LogLevel())
	assert.Equal("https://mirror/terraform.zip", cf.TerraformTarballURL())
}

func Test_EnvOverride(t *testing.T) {
	assert := assert.New(t)
	t.Setenv("DCOS_LAUNCH_INFO_PATH", "/tmp/info.json")
	cf, _ := useConfig(t, `{"info-path": "from-file.json"}`)

	assert.Equal("/tmp/info.json", cf.InfoPath())
}

func Test_SetConfigValue(t *testing.T) {
	assert := assert.New(t)
	cf, path := useConfig(t, "")

	assert.NoError(cf.SetConfigValue(constants.ConfigLogLevelKey, "warn"))
	assert.FileExists(path)
	assert.NoError(cf.SetConfigValue(constants.ConfigInfoPathKey, "info.json"))

	data, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Contains(string(data), `"log-level": "warn"`)
	assert.Contains(string(data), `"info-path": "info.json"`)
	assert.True(cf.ConfigValueIsSet(constants.ConfigLogLevelKey))
}
