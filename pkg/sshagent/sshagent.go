// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package sshagent

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/exec"
	"regexp"

	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

const keyComment = "dcos-launch"

var (
	ErrNoAgent = errors.New("no ssh-agent available")

	agentVarRegex = regexp.MustCompile(`(SSH_AUTH_SOCK|SSH_AGENT_PID)=([^;\s]+);`)
)

// Starter launches a private ssh-agent. It returns the variables pointing at the agent
// and a function stopping it.
type Starter func(ctx context.Context, env utils.Env) (map[string]string, func() error, error)

type Manager struct {
	Env    utils.Env
	Start  Starter
	Logger *zap.Logger
}

func NewManager(env utils.Env, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		Env:    env,
		Start:  StartSystemAgent,
		Logger: logger,
	}
}

// Session is an ssh-agent holding the cluster key.
type Session struct {
	// Env is the manager environment pointed at the agent.
	Env  utils.Env
	stop func() error
}

// Close stops the agent if the session started it.
func (s *Session) Close() error {
	if s == nil || s.stop == nil {
		return nil
	}
	stop := s.stop
	s.stop = nil
	return stop()
}

// Load adds the private key to the agent named by SSH_AUTH_SOCK. When no agent is
// configured a new one is started and stopped again by Session.Close.
func (m *Manager) Load(ctx context.Context, privateKeyPEM []byte) (*Session, error) {
	key, err := ssh.ParseRawPrivateKey(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed parsing private key for ssh-agent: %w", err)
	}
	session := &Session{Env: m.Env}
	if m.Env.Get(constants.SSHAuthSockEnvVar) == "" {
		m.Logger.Info("no ssh-agent running, starting one")
		overrides, stop, err := m.Start(ctx, m.Env)
		if err != nil {
			return nil, fmt.Errorf("failed starting ssh-agent: %w", err)
		}
		session.Env = m.Env.With(overrides)
		session.stop = stop
	}
	err = withAgent(session.Env, func(client agent.ExtendedAgent) error {
		return client.Add(agent.AddedKey{PrivateKey: key, Comment: keyComment})
	})
	if err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed adding key to ssh-agent: %w", err)
	}
	return session, nil
}

// Remove deletes the key from the agent named by SSH_AUTH_SOCK.
func (m *Manager) Remove(privateKeyPEM []byte) error {
	signer, err := ssh.ParsePrivateKey(privateKeyPEM)
	if err != nil {
		return err
	}
	return withAgent(m.Env, func(client agent.ExtendedAgent) error {
		return client.Remove(signer.PublicKey())
	})
}

func withAgent(env utils.Env, f func(agent.ExtendedAgent) error) error {
	sock := env.Get(constants.SSHAuthSockEnvVar)
	if sock == "" {
		return ErrNoAgent
	}
	conn, err := net.Dial("unix", sock)
	if err != nil {
		return fmt.Errorf("failed connecting to ssh-agent at %s: %w", sock, err)
	}
	defer conn.Close()
	return f(agent.NewClient(conn))
}

// StartSystemAgent runs "ssh-agent -s" and stops it with "ssh-agent -k".
func StartSystemAgent(ctx context.Context, env utils.Env) (map[string]string, func() error, error) {
	cmd := exec.CommandContext(ctx, "ssh-agent", "-s")
	cmd.Env = env.Slice()
	out, err := cmd.Output()
	if err != nil {
		return nil, nil, err
	}
	vars, err := ParseAgentOutput(string(out))
	if err != nil {
		return nil, nil, err
	}
	stop := func() error {
		kill := exec.Command("ssh-agent", "-k")
		kill.Env = env.With(vars).Slice()
		return kill.Run()
	}
	return vars, stop, nil
}

// ParseAgentOutput extracts SSH_AUTH_SOCK and SSH_AGENT_PID from "ssh-agent -s" output.
func ParseAgentOutput(out string) (map[string]string, error) {
	vars := map[string]string{}
	for _, m := range agentVarRegex.FindAllStringSubmatch(out, -1) {
		vars[m[1]] = m[2]
	}
	if vars[constants.SSHAuthSockEnvVar] == "" || vars[constants.SSHAgentPIDEnvVar] == "" {
		return nil, fmt.Errorf("unexpected ssh-agent output: %q", out)
	}
	return vars, nil
}
