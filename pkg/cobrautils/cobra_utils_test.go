// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cobrautils

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	require.Equal(t, 0, ExitCode(nil))
	require.Equal(t, 1, ExitCode(errors.New("boom")))
	require.Equal(t, 7, ExitCode(ExitCodeError{Code: 7}))
	require.Equal(t, 3, ExitCode(fmt.Errorf("wrapped: %w", ExitCodeError{Code: 3})))
}

func TestExactArgs(t *testing.T) {
	cmd := &cobra.Command{Use: "describe"}
	cmd.SetOut(io.Discard)
	require.NoError(t, ExactArgs(1)(cmd, []string{"a"}))

	err := ExactArgs(1)(cmd, nil)
	var usageErr UsageError
	require.True(t, errors.As(err, &usageErr))
	require.Contains(t, err.Error(), "Usage error")
}

func TestCommandSuiteUsage(t *testing.T) {
	cmd := &cobra.Command{Use: "config"}
	cmd.SetOut(io.Discard)
	require.NoError(t, CommandSuiteUsage(cmd, nil))
	require.Error(t, CommandSuiteUsage(cmd, []string{"bogus"}))
}
