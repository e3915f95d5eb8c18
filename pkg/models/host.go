// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/melbahja/goph"
	"golang.org/x/crypto/ssh"
)

// Host is a cluster machine reachable over SSH.
type Host struct {
	IP      string
	Port    uint
	SSHUser string
	// SSHPrivateKey holds PEM key material; it takes precedence over SSHPrivateKeyPath.
	SSHPrivateKey     string
	SSHPrivateKeyPath string
	Connection        *goph.Client
}

func NewHostConnection(h *Host, port uint) (*goph.Client, error) {
	if port == 0 {
		port = constants.SSHTCPPort
	}
	var (
		auth goph.Auth
		err  error
	)
	switch {
	case h.SSHPrivateKey != "":
		auth, err = goph.RawKey(h.SSHPrivateKey, "")
	case h.SSHPrivateKeyPath != "":
		auth, err = goph.Key(h.SSHPrivateKeyPath, "")
	default:
		auth, err = goph.UseAgent()
	}
	if err != nil {
		return nil, err
	}
	cl, err := goph.NewConn(&goph.Config{
		User:    h.SSHUser,
		Addr:    h.IP,
		Port:    port,
		Auth:    auth,
		Timeout: constants.SSHConnectionTimeout,
		// #nosec G106
		Callback: ssh.InsecureIgnoreHostKey(), // cluster hosts are freshly provisioned, nothing to pin against
	})
	if err != nil {
		return nil, err
	}
	return cl, nil
}

// Connect starts a new SSH connection, retrying a few times while the host comes up.
func (h *Host) Connect(ctx context.Context) error {
	if h.Connection != nil {
		return nil
	}
	var err error
	for i := 0; h.Connection == nil && i < constants.SSHConnectionRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(constants.SSHSleepBetweenRetries):
			}
		}
		h.Connection, err = NewHostConnection(h, h.Port)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to host %s: %w", h.IP, err)
	}
	return nil
}

func (h *Host) Connected() bool {
	return h.Connection != nil
}

func (h *Host) Disconnect() error {
	if h.Connection == nil {
		return nil
	}
	err := h.Connection.Close()
	h.Connection = nil
	return err
}

// StreamCommand runs command on the host, copying its output to stdout and stderr as it
// arrives, and returns the remote exit status. A non-zero status is not an error.
func (h *Host) StreamCommand(ctx context.Context, command string, stdout, stderr io.Writer) (int, error) {
	if !h.Connected() {
		if err := h.Connect(ctx); err != nil {
			return -1, err
		}
	}
	session, err := h.Connection.NewSession()
	if err != nil {
		return -1, err
	}
	defer session.Close()
	session.Stdout = stdout
	session.Stderr = stderr

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = session.Close()
		case <-done:
		}
	}()

	err = session.Run(command)
	var exitErr *ssh.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		return exitErr.ExitStatus(), nil
	case ctx.Err() != nil:
		return -1, ctx.Err()
	}
	return -1, fmt.Errorf("failed to run command on host %s: %w", h.IP, err)
}

// WaitForPort waits for the SSH port to become available on the host.
func (h *Host) WaitForPort(ctx context.Context, timeout time.Duration) error {
	port := h.Port
	if port == 0 {
		port = constants.SSHTCPPort
	}
	deadline := time.Now().Add(timeout)
	addr := net.JoinHostPort(h.IP, fmt.Sprint(port))
	for {
		if time.Now().After(deadline) {
			return fmt.Errorf("timeout: SSH port %d on host %s is not available after %vs", port, h.IP, timeout.Seconds())
		}
		conn, err := net.DialTimeout("tcp", addr, time.Second)
		if err == nil {
			return conn.Close()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(constants.SSHSleepBetweenRetries):
		}
	}
}
