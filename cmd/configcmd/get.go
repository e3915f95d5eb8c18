// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package configcmd

import (
	"github.com/dcos/dcos-launch/pkg/cobrautils"
	"github.com/dcos/dcos-launch/pkg/ux"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// dcos-launch config get
func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print settings",
		Long:  "Print one setting, or every setting when no key is given.",
		RunE:  getSetting,
		Args:  cobrautils.MaximumNArgs(1),
	}
}

func getSetting(_ *cobra.Command, args []string) error {
	keys := settingKeys
	if len(args) == 1 {
		if err := validateKey(args[0]); err != nil {
			return err
		}
		keys = args
	}
	rows := make([]table.Row, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, table.Row{key, app.Conf.GetConfigStringValue(key)})
	}
	ux.PrintTable("Settings", table.Row{"Key", "Value"}, rows)
	return nil
}
