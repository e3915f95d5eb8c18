// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import (
	"bytes"
	"io"
	"os/exec"
)

// SetupRealtimeCLIOutput tees the command output into buffers, optionally also
// writing it to the given writers as it is produced.
func SetupRealtimeCLIOutput(
	cmd *exec.Cmd,
	stdout io.Writer,
	stderr io.Writer,
) (*bytes.Buffer, *bytes.Buffer) {
	var stdoutBuffer bytes.Buffer
	var stderrBuffer bytes.Buffer
	if stdout != nil {
		cmd.Stdout = io.MultiWriter(stdout, &stdoutBuffer)
	} else {
		cmd.Stdout = &stdoutBuffer
	}
	if stderr != nil {
		cmd.Stderr = io.MultiWriter(stderr, &stderrBuffer)
	} else {
		cmd.Stderr = &stderrBuffer
	}
	return &stdoutBuffer, &stderrBuffer
}

func Filter[T any](input []T, f func(T) bool) []T {
	output := make([]T, 0, len(input))
	for _, e := range input {
		if f(e) {
			output = append(output, e)
		}
	}
	return output
}

func Map[T, U any](input []T, f func(T) U) []U {
	output := make([]U, 0, len(input))
	for _, e := range input {
		output = append(output, f(e))
	}
	return output
}
