// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package ssh

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/template"

	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/models"
	"github.com/dcos/dcos-launch/pkg/utils"
	"github.com/dcos/dcos-launch/pkg/ux"
	"golang.org/x/exp/maps"
)

const integrationTestScript = "shell/integrationTest.sh"

type scriptInputs struct {
	Env    []string
	Runner string
	Args   []string
}

//go:embed shell/*.sh
var script embed.FS

// scriptLog formats the given line of a script log with the provided host.
func scriptLog(host string, line string) string {
	return fmt.Sprintf("[%s] %s", host, line)
}

// renderScript renders an embedded script template into a single command line.
func renderScript(scriptDesc, scriptPath string, templateVars scriptInputs) (string, error) {
	shellScript, err := script.ReadFile(scriptPath)
	if err != nil {
		return "", err
	}
	var rendered bytes.Buffer
	t, err := template.New(scriptDesc).Parse(string(shellScript))
	if err != nil {
		return "", err
	}
	if err := t.Execute(&rendered, templateVars); err != nil {
		return "", err
	}
	return strings.TrimSpace(rendered.String()), nil
}

// RunOverSSH runs the provided command over ssh, streaming its output, and returns the
// remote exit code.
func RunOverSSH(
	ctx context.Context,
	scriptDesc string,
	host *models.Host,
	command string,
	stdout io.Writer,
	stderr io.Writer,
) (int, error) {
	ux.Logger.PrintToUser("%s", scriptLog(host.IP, scriptDesc))
	if err := host.Connect(ctx); err != nil {
		return -1, err
	}
	defer host.Disconnect()
	return host.StreamCommand(ctx, command, stdout, stderr)
}

// IntegrationTestCommand builds the remote command running py.test inside the newest
// dcos-integration-test directory. Values containing spaces are single quoted.
func IntegrationTestCommand(env map[string]string, args []string) (string, error) {
	keys := maps.Keys(env)
	slices.Sort(keys)
	envPairs := utils.Map(keys, func(key string) string {
		return key + "=" + utils.QuoteIfSpaced(env[key])
	})
	return renderScript("integration test", integrationTestScript, scriptInputs{
		Env:    envPairs,
		Runner: constants.IntegrationTestRunner,
		Args:   args,
	})
}

// RunIntegrationTest runs the DC/OS integration tests on host and returns their exit code.
func RunIntegrationTest(
	ctx context.Context,
	host *models.Host,
	env map[string]string,
	args []string,
	stdout io.Writer,
	stderr io.Writer,
) (int, error) {
	command, err := IntegrationTestCommand(env, args)
	if err != nil {
		return -1, err
	}
	return RunOverSSH(ctx, "Running integration test", host, command, stdout, stderr)
}
