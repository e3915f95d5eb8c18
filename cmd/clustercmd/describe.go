// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package clustercmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dcos/dcos-launch/pkg/cobrautils"
	"github.com/dcos/dcos-launch/pkg/models"
	"github.com/dcos/dcos-launch/pkg/ux"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var jsonOutput bool

// dcos-launch describe
func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the cluster hosts",
		Long: `The describe command reads terraform output for the cluster and prints its
hosts by role. With --json the topology is printed as JSON instead.`,
		RunE: describeCluster,
		Args: cobrautils.ExactArgs(0),
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the topology as JSON")
	return cmd
}

func describeCluster(cmd *cobra.Command, _ []string) error {
	l, err := loadLauncher()
	if err != nil {
		return err
	}
	var topology *models.ClusterTopology
	if jsonOutput {
		topology, err = l.Describe(cmd.Context())
	} else {
		spinSession := ux.NewUserSpinner(os.Stdout)
		spinner := spinSession.SpinToUser("Reading terraform output")
		topology, err = l.Describe(cmd.Context())
		if err != nil {
			ux.SpinFailWithError(spinner, "", err)
		} else {
			ux.SpinComplete(spinner)
		}
		spinSession.Stop()
	}
	if err != nil {
		return err
	}
	// describe discovers ssh_user, which test needs
	if err := app.WriteClusterInfo(l.Config); err != nil {
		app.Log.Warn("failed updating cluster info", zap.Error(err))
	}
	if jsonOutput {
		out, err := json.MarshalIndent(topology, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	}
	ux.PrintTable("Cluster", table.Row{"Role", "Public IP", "Private IP", "GPU Public IP"}, topologyRows(topology))
	ux.Logger.PrintLineSeparator()
	if topology.MasterELBPublicIP != "" {
		ux.Logger.PrintToUser("Master ELB: %s", topology.MasterELBPublicIP)
	}
	if topology.PublicAgentELBPublicIP != "" {
		ux.Logger.PrintToUser("Public agent ELB: %s", topology.PublicAgentELBPublicIP)
	}
	ux.Logger.PrintToUser("SSH user: %s", topology.SSHUser)
	return nil
}

func topologyRows(topology *models.ClusterTopology) []table.Row {
	rows := []table.Row{}
	for _, group := range topology.Roles() {
		for _, host := range group.Hosts {
			privateIP := ""
			if host.PrivateIP != nil {
				privateIP = *host.PrivateIP
			}
			rows = append(rows, table.Row{group.Role, host.PublicIP, privateIP, host.GPUPublicIP})
		}
	}
	return rows
}
