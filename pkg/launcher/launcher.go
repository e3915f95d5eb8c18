// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/dcos/dcos-launch/pkg/binutils"
	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/models"
	"github.com/dcos/dcos-launch/pkg/ssh"
	"github.com/dcos/dcos-launch/pkg/sshagent"
	"github.com/dcos/dcos-launch/pkg/terraform"
	"github.com/dcos/dcos-launch/pkg/utils"
	"github.com/dcos/dcos-launch/pkg/version"
	"github.com/dcos/dcos-launch/pkg/workspace"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// TerraformEnsurer locates or installs the terraform binary.
type TerraformEnsurer interface {
	EnsureTerraform(ctx context.Context, toolRoot, tarballURL string) (string, string, error)
}

// KeyAgent loads the cluster key into an ssh-agent for the duration of apply.
type KeyAgent interface {
	Load(ctx context.Context, privateKeyPEM []byte) (*sshagent.Session, error)
	Remove(privateKeyPEM []byte) error
}

// TestRunner runs the integration tests on host and returns their exit code.
type TestRunner func(
	ctx context.Context,
	host *models.Host,
	env map[string]string,
	args []string,
	stdout io.Writer,
	stderr io.Writer,
) (int, error)

// Launcher drives the lifecycle of one terraform backed cluster. The workspace
// directory named by the config's init_dir is the cluster's identity.
type Launcher struct {
	Config    *models.ClusterConfig
	Workspace *workspace.Workspace
	Provider  Provider
	Installer TerraformEnsurer
	// NewTool wraps the binary returned by Installer.
	NewTool func(binary string) terraform.Tool
	Agent   KeyAgent
	RunTest TestRunner
	FS      afero.Fs
	Env     utils.Env
	Logger  *zap.Logger
	Stdout  io.Writer
	Stderr  io.Writer

	tool terraform.Tool
}

// New builds a launcher for cfg working against the local filesystem and binaries.
func New(cfg *models.ClusterConfig, env utils.Env, logger *zap.Logger) (*Launcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fs := afero.NewOsFs()
	provider, err := NewProvider(cfg, env, fs, logger)
	if err != nil {
		return nil, err
	}
	l := &Launcher{
		Config:    cfg,
		Workspace: workspace.New(fs, cfg.InitDir),
		Provider:  provider,
		Installer: binutils.NewTerraformInstaller(binutils.NewInstaller(os.Stdout), env, logger),
		Agent:     sshagent.NewManager(env, logger),
		RunTest:   ssh.RunIntegrationTest,
		FS:        fs,
		Env:       env,
		Logger:    logger,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
	l.NewTool = func(binary string) terraform.Tool {
		runner := terraform.NewRunner(binary, l.Env, l.Logger)
		runner.Stdout = l.Stdout
		runner.Stderr = l.Stderr
		return runner
	}
	return l, nil
}

func (l *Launcher) terraformTool(ctx context.Context) (terraform.Tool, error) {
	if l.tool != nil {
		return l.tool, nil
	}
	binary, tfVersion, err := l.Installer.EnsureTerraform(ctx, l.Workspace.ToolRoot(), l.Config.TerraformTarballURL)
	if err != nil {
		return nil, err
	}
	l.Logger.Info("using terraform", zap.String("binary", binary), zap.String("version", tfVersion))
	if err := version.CheckTerraformVersion(tfVersion, constants.MinTerraformVersion); err != nil {
		l.Logger.Warn("terraform may not support the dcos modules", zap.Error(err))
	}
	l.tool = l.NewTool(binary)
	return l.tool, nil
}

// Create provisions the cluster and returns the config updated with generated keys and
// resolved defaults. A failed create leaves the workspace in place.
func (l *Launcher) Create(ctx context.Context) (*models.ClusterConfig, error) {
	cfg := l.Config
	if err := l.Provider.ApplyDefaults(ctx); err != nil {
		return nil, err
	}
	if err := l.Workspace.Prepare(); err != nil {
		return nil, err
	}
	tool, err := l.terraformTool(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.KeyHelper {
		if err := l.ensureKeyMaterial(ctx); err != nil {
			return nil, err
		}
	}
	module := terraform.ModuleRef(cfg)
	varFile, err := l.Workspace.WriteVariables(cfg.TerraformConfig)
	if err != nil {
		return nil, fmt.Errorf("failed writing terraform variables: %w", err)
	}
	l.Logger.Info("initializing terraform module", zap.String("module", module), zap.String("dir", l.Workspace.Dir()))
	if err := tool.Init(ctx, l.Workspace.Dir(), module); err != nil {
		return nil, err
	}
	env := l.Env
	if cfg.KeyHelper {
		key, err := l.agentKey()
		if err != nil {
			return nil, err
		}
		session, err := l.Agent.Load(ctx, key)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := session.Close(); err != nil {
				l.Logger.Warn("failed stopping ssh-agent", zap.Error(err))
			}
		}()
		env = session.Env
	}
	if err := tool.Apply(ctx, l.Workspace.Dir(), varFile, env); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Launcher) ensureKeyMaterial(ctx context.Context) error {
	cfg := l.Config
	if !hasKeyMaterial(cfg, l.Provider) {
		return l.Provider.InjectKeyMaterial(ctx, l.Workspace)
	}
	l.Logger.Info("reusing cluster ssh key", zap.String("path", cfg.SSHPrivateKeyFilename))
	return nil
}

// agentKey returns the key handed to ssh-agent. A reused key that the config does not
// carry is read from ssh_private_key_filename.
func (l *Launcher) agentKey() ([]byte, error) {
	if l.Config.CanTestKey() {
		return []byte(l.Config.SSHPrivateKey), nil
	}
	key, err := afero.ReadFile(l.FS, l.Config.SSHPrivateKeyFilename)
	if err != nil {
		return nil, fmt.Errorf("failed reading ssh_private_key_filename: %w", err)
	}
	return key, nil
}

// Wait returns immediately: apply only returns once the cluster is up.
func (*Launcher) Wait(context.Context) error {
	return nil
}

// Describe reads the cluster topology from terraform output and records its SSH user.
func (l *Launcher) Describe(ctx context.Context) (*models.ClusterTopology, error) {
	tool, err := l.terraformTool(ctx)
	if err != nil {
		return nil, err
	}
	out, err := tool.Output(ctx, l.Workspace.Dir())
	if err != nil {
		return nil, err
	}
	topology, err := terraform.ParseTopology(out)
	if err != nil {
		return nil, err
	}
	if extra := terraform.UnmatchedGPUIPs(out, topology); len(extra) > 0 {
		l.Logger.Warn("more gpu addresses than private agents, ignoring extras", zap.Strings("ips", extra))
	}
	l.Config.SSHUser = topology.SSHUser
	return topology, nil
}

// Delete destroys the cluster and removes its workspace. Once destroy succeeds, cleanup
// failures are logged and never stop the workspace removal.
func (l *Launcher) Delete(ctx context.Context) error {
	tool, err := l.terraformTool(ctx)
	if err != nil {
		return err
	}
	if err := tool.Destroy(ctx, l.Workspace.Dir(), l.Workspace.VariablesPath(), l.Env); err != nil {
		return err
	}
	if l.Config.KeyHelper && (l.Config.CanTestKey() || l.Config.SSHPrivateKeyFilename != "") {
		l.removeAgentKey()
	}
	if err := l.Provider.Cleanup(ctx); err != nil {
		l.Logger.Warn("provider cleanup failed", zap.String("platform", string(l.Provider.Platform())), zap.Error(err))
	}
	return l.Workspace.Remove()
}

func (l *Launcher) removeAgentKey() {
	key, err := l.agentKey()
	if err != nil {
		l.Logger.Warn("skipping ssh-agent key removal", zap.Error(err))
		return
	}
	switch err := l.Agent.Remove(key); {
	case errors.Is(err, sshagent.ErrNoAgent):
		l.Logger.Info("no ssh-agent running, skipping key removal")
	case err != nil:
		l.Logger.Warn("failed removing key from ssh-agent", zap.Error(err))
	}
}

// Test runs the integration tests on host, or on the first master when host is empty,
// and returns the remote exit code.
func (l *Launcher) Test(ctx context.Context, args []string, env map[string]string, host string) (int, error) {
	cfg := l.Config
	keyPath := ""
	if !cfg.CanTestKey() {
		if !cfg.KeyHelper || cfg.SSHPrivateKeyFilename == "" {
			return -1, fmt.Errorf("%w: a private ssh key is required to run tests", ErrMissingInput)
		}
		keyPath = cfg.SSHPrivateKeyFilename
	}
	if host == "" {
		topology, err := l.Describe(ctx)
		if err != nil {
			return -1, err
		}
		if len(topology.Masters) == 0 || topology.Masters[0].PublicIP == "" {
			return -1, ErrNoMasters
		}
		host = topology.Masters[0].PublicIP
	}
	if cfg.SSHUser == "" {
		return -1, fmt.Errorf("%w: ssh_user is required to run tests", ErrMissingInput)
	}
	ip, port, err := splitHost(host)
	if err != nil {
		return -1, err
	}
	testEnv := maps.Clone(env)
	if testEnv == nil {
		testEnv = map[string]string{}
	}
	if _, ok := testEnv[constants.DCOSDNSAddressEnvVar]; !ok {
		testEnv[constants.DCOSDNSAddressEnvVar] = "http://" + ip
	}
	target := &models.Host{
		IP:            ip,
		Port:          port,
		SSHUser:       cfg.SSHUser,
		SSHPrivateKey: cfg.SSHPrivateKey,
	}
	if keyPath != "" {
		target.SSHPrivateKey = ""
		target.SSHPrivateKeyPath = keyPath
	}
	return l.RunTest(ctx, target, testEnv, args, l.Stdout, l.Stderr)
}

// splitHost accepts "ip" or "ip:port".
func splitHost(host string) (string, uint, error) {
	if !strings.Contains(host, ":") {
		return host, constants.SSHTCPPort, nil
	}
	ip, portStr, err := net.SplitHostPort(host)
	if err != nil {
		return "", 0, fmt.Errorf("invalid host %q: %w", host, err)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in host %q: %w", host, err)
	}
	return ip, uint(port), nil
}
