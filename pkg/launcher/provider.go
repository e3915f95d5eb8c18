// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package launcher

import (
	"context"
	"fmt"

	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/keygen"
	"github.com/dcos/dcos-launch/pkg/models"
	"github.com/dcos/dcos-launch/pkg/utils"
	"github.com/dcos/dcos-launch/pkg/workspace"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Provider holds the cloud specific parts of the cluster lifecycle.
type Provider interface {
	Platform() models.Platform
	// ApplyDefaults fills cloud settings from the environment into the config.
	ApplyDefaults(ctx context.Context) error
	// IdentityVariable is the terraform variable naming the cluster SSH key.
	IdentityVariable() string
	// InjectKeyMaterial creates the cluster SSH key and records it in the config.
	InjectKeyMaterial(ctx context.Context, ws *workspace.Workspace) error
	// Cleanup releases what the provider created outside the workspace.
	Cleanup(ctx context.Context) error
}

// NewProvider returns the provider matching cfg.Platform.
func NewProvider(cfg *models.ClusterConfig, env utils.Env, fs afero.Fs, logger *zap.Logger) (Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Platform {
	case models.PlatformAWS:
		return NewAWSProvider(cfg, env, logger), nil
	case models.PlatformGCP:
		return NewGCPProvider(cfg, env, fs, logger), nil
	case models.PlatformAzure:
		return NewAzureProvider(cfg, env, logger), nil
	}
	return nil, cfg.Platform.Validate()
}

// hasKeyMaterial reports whether a previous run already provisioned the cluster key.
func hasKeyMaterial(cfg *models.ClusterConfig, p Provider) bool {
	return cfg.HasTFVar(p.IdentityVariable()) && cfg.SSHPrivateKeyFilename != ""
}

// generateKeyPair writes a fresh private key into the workspace, records it in cfg and
// returns the matching public key.
func generateKeyPair(cfg *models.ClusterConfig, ws *workspace.Workspace) ([]byte, error) {
	keys, err := keygen.GenerateRSAKeyPair(constants.RSAKeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed generating ssh key: %w", err)
	}
	path, err := ws.WritePrivateKey(keys.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed writing ssh key: %w", err)
	}
	cfg.SSHPrivateKey = string(keys.PrivateKey)
	cfg.SSHPrivateKeyFilename = path
	return keys.PublicKey, nil
}
