// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package clustercmd

import (
	"github.com/dcos/dcos-launch/pkg/application"
	"github.com/dcos/dcos-launch/pkg/launcher"
	"github.com/dcos/dcos-launch/pkg/models"
	"github.com/spf13/cobra"
)

var app *application.App

// newLauncher is replaced in tests.
var newLauncher = func(cfg *models.ClusterConfig) (*launcher.Launcher, error) {
	return launcher.New(cfg, app.Env, app.Log)
}

// NewCmds returns the cluster lifecycle commands, added directly under the root command.
func NewCmds(injectedApp *application.App) []*cobra.Command {
	app = injectedApp
	return []*cobra.Command{
		newCreateCmd(),
		newWaitCmd(),
		newDescribeCmd(),
		newDeleteCmd(),
		newTestCmd(),
	}
}

// loadLauncher builds a launcher for the cluster recorded in the info file.
func loadLauncher() (*launcher.Launcher, error) {
	cfg, err := app.LoadClusterInfo()
	if err != nil {
		return nil, err
	}
	return newLauncher(cfg)
}
