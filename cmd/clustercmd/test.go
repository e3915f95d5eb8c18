// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package clustercmd

import (
	"github.com/dcos/dcos-launch/pkg/cobrautils"
	"github.com/spf13/cobra"
)

var (
	testHost string
	testEnv  map[string]string
)

// dcos-launch test
func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [-- pytest args]",
		Short: "Run the DC/OS integration tests on the cluster",
		Long: `The test command runs py.test inside the newest dcos-integration-test
directory of a master over SSH, streaming its output. Arguments after "--" are
passed to py.test. The command exits with the remote exit code.`,
		RunE: testCluster,
	}
	cmd.Flags().StringVar(&testHost, "host", "", "host[:port] to run on (default first master)")
	cmd.Flags().StringToStringVarP(&testEnv, "env", "e", nil, "environment for the test run, as KEY=VALUE")
	return cmd
}

func testCluster(cmd *cobra.Command, args []string) error {
	l, err := loadLauncher()
	if err != nil {
		return err
	}
	l.Stdout = cmd.OutOrStdout()
	l.Stderr = cmd.ErrOrStderr()
	code, err := l.Test(cmd.Context(), args, testEnv, testHost)
	if err != nil {
		return err
	}
	if code != 0 {
		return cobrautils.ExitCodeError{Code: code}
	}
	return nil
}
