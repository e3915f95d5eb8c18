// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package clustercmd

import (
	"fmt"

	"github.com/dcos/dcos-launch/pkg/cobrautils"
	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/utils"
	"github.com/dcos/dcos-launch/pkg/ux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

// dcos-launch create
func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a cluster from a config file",
		Long: `The create command provisions a DC/OS cluster with terraform, following the
cluster config given with --config. Once terraform apply finishes the resolved
config is written to the cluster info file, which every other command reads.`,
		RunE: createCluster,
		Args: cobrautils.ExactArgs(0),
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", constants.DefaultClusterConfig, "cluster config file")
	return cmd
}

func createCluster(cmd *cobra.Command, _ []string) error {
	if app.ClusterInfoExists() {
		return fmt.Errorf("cluster info %s already exists, delete that cluster or pass another --info-path", app.GetInfoPath())
	}
	if !utils.FileExists(utils.ExpandHome(configPath)) && !cmd.Flags().Changed("config") {
		path, err := app.Prompt.CaptureExistingFilepath("No config.yaml here, enter the path to the cluster config")
		if err != nil {
			return err
		}
		configPath = path
	}
	cfg, err := app.LoadClusterConfig(configPath)
	if err != nil {
		return err
	}
	l, err := newLauncher(cfg)
	if err != nil {
		return err
	}
	ux.Logger.PrintToUser("Creating %s cluster in %s", cfg.Platform, cfg.InitDir)
	_, createErr := l.Create(cmd.Context())
	// a workspace left behind by a failed create can only be deleted through the info file
	if exists, _ := l.Workspace.Exists(); exists {
		if err := app.WriteClusterInfo(cfg); err != nil {
			app.Log.Error("failed writing cluster info", zap.Error(err))
			if createErr == nil {
				return err
			}
		}
	}
	if createErr != nil {
		return createErr
	}
	ux.Logger.GreenCheckmarkToUser("Cluster created, info written to %s", app.GetInfoPath())
	return nil
}
