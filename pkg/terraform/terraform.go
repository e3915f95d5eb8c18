// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package terraform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/dcos/dcos-launch/pkg/utils"
	"go.uber.org/zap"
)

// ProcessError is returned when a terraform invocation exits unsuccessfully.
type ProcessError struct {
	Args     []string
	ExitCode int
	Output   string
	Err      error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", strings.Join(e.Args, " "), e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Tool is the terraform CLI surface driven by the launcher.
type Tool interface {
	Version(ctx context.Context) (string, error)
	Init(ctx context.Context, dir, module string) error
	Apply(ctx context.Context, dir, varFile string, env utils.Env) error
	Destroy(ctx context.Context, dir, varFile string, env utils.Env) error
	Output(ctx context.Context, dir string) (string, error)
}

// Runner invokes a terraform binary as a subprocess.
// Init, Apply and Destroy stream their output to Stdout and Stderr when set.
type Runner struct {
	Binary string
	Env    utils.Env
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger
}

func NewRunner(binary string, env utils.Env, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Binary: binary,
		Env:    env,
		Logger: logger,
	}
}

func (r *Runner) Version(ctx context.Context) (string, error) {
	return r.run(ctx, "", r.Env, false, "version")
}

func (r *Runner) Init(ctx context.Context, dir, module string) error {
	_, err := r.run(ctx, dir, r.Env, true, "init", "-from-module", module)
	return err
}

// Apply runs "apply -auto-approve" against varFile. env replaces the runner environment.
func (r *Runner) Apply(ctx context.Context, dir, varFile string, env utils.Env) error {
	if env == nil {
		env = r.Env
	}
	_, err := r.run(ctx, dir, env, true, "apply", "-auto-approve", "-var-file", varFile)
	return err
}

func (r *Runner) Destroy(ctx context.Context, dir, varFile string, env utils.Env) error {
	if env == nil {
		env = r.Env
	}
	_, err := r.run(ctx, dir, env, true, "destroy", "-force", "-var-file", varFile)
	return err
}

// Output returns the raw "terraform output" text for the workspace.
func (r *Runner) Output(ctx context.Context, dir string) (string, error) {
	return r.run(ctx, dir, r.Env, false, "output")
}

func (r *Runner) run(ctx context.Context, dir string, env utils.Env, stream bool, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.Binary, args...) //nolint:gosec
	cmd.Dir = dir
	cmd.Env = env.Slice()
	var stdout, stderr io.Writer
	if stream {
		stdout, stderr = r.Stdout, r.Stderr
	}
	outBuf, errBuf := utils.SetupRealtimeCLIOutput(cmd, stdout, stderr)
	r.Logger.Debug("running terraform", zap.Strings("args", args), zap.String("dir", dir))
	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		r.Logger.Error("terraform failed", zap.Strings("args", args), zap.Int("exit-code", exitCode), zap.Error(err))
		return outBuf.String(), &ProcessError{
			Args:     append([]string{r.Binary}, args...),
			ExitCode: exitCode,
			Output:   outBuf.String() + errBuf.String(),
			Err:      err,
		}
	}
	return outBuf.String(), nil
}
