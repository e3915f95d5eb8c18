// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package clustercmd

import (
	"github.com/dcos/dcos-launch/pkg/cobrautils"
	"github.com/dcos/dcos-launch/pkg/ux"
	"github.com/spf13/cobra"
)

// dcos-launch wait
func newWaitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wait",
		Short: "Wait for the cluster to be ready",
		Long:  "Terraform only returns from create once the cluster is up, so wait returns right away.",
		RunE:  waitCluster,
		Args:  cobrautils.ExactArgs(0),
	}
}

func waitCluster(cmd *cobra.Command, _ []string) error {
	l, err := loadLauncher()
	if err != nil {
		return err
	}
	if err := l.Wait(cmd.Context()); err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Cluster is ready")
	return nil
}
