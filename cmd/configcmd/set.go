// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package configcmd

import (
	"github.com/dcos/dcos-launch/pkg/cobrautils"
	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/ux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// dcos-launch config set
func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Change a setting",
		Long:  "Persist a setting value to the settings file.",
		RunE:  setSetting,
		Args:  cobrautils.ExactArgs(2),
	}
}

func setSetting(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if err := validateKey(key); err != nil {
		return err
	}
	if key == constants.ConfigLogLevelKey {
		if _, err := zap.ParseAtomicLevel(value); err != nil {
			return err
		}
	}
	if err := app.Conf.SetConfigValue(key, value); err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("%s set to %s", key, value)
	return nil
}
