// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package clustercmd

import (
	"fmt"

	"github.com/dcos/dcos-launch/pkg/cobrautils"
	"github.com/dcos/dcos-launch/pkg/ux"
	"github.com/spf13/cobra"
)

var skipPrompt bool

// dcos-launch delete
func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Destroy the cluster",
		Long: `The delete command runs terraform destroy for the cluster, then removes its
init_dir and the cluster info file. If destroy fails nothing is removed.`,
		RunE: deleteCluster,
		Args: cobrautils.ExactArgs(0),
	}
	cmd.Flags().BoolVarP(&skipPrompt, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func deleteCluster(cmd *cobra.Command, _ []string) error {
	l, err := loadLauncher()
	if err != nil {
		return err
	}
	if !skipPrompt {
		yes, err := app.Prompt.CaptureNoYes(fmt.Sprintf("Destroy the %s cluster in %s?", l.Config.Platform, l.Config.InitDir))
		if err != nil {
			return err
		}
		if !yes {
			ux.Logger.PrintToUser("Aborted")
			return nil
		}
	}
	if err := l.Delete(cmd.Context()); err != nil {
		return err
	}
	if err := app.RemoveClusterInfo(); err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Cluster deleted")
	return nil
}
