// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package configcmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dcos/dcos-launch/pkg/application"
	"github.com/dcos/dcos-launch/pkg/cobrautils"
	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/spf13/cobra"
)

var app *application.App

// settingKeys are the keys accepted by config get and config set.
var settingKeys = []string{
	constants.ConfigLogLevelKey,
	constants.ConfigTerraformTarballURLKey,
	constants.ConfigInfoPathKey,
}

func NewCmd(injectedApp *application.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Modify dcos-launch settings",
		Long: `Read and change the settings stored in ~/.dcos-launch/config.json.
Every setting can also be given as a DCOS_LAUNCH_<KEY> environment variable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cobrautils.CommandSuiteUsage(cmd, args)
		},
	}
	app = injectedApp
	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	return cmd
}

func validateKey(key string) error {
	if !slices.Contains(settingKeys, key) {
		return fmt.Errorf("unknown setting %q, valid settings are: %s", key, strings.Join(settingKeys, ", "))
	}
	return nil
}
