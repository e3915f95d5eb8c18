// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package launcher

import (
	"context"
	"fmt"

	"github.com/dcos/dcos-launch/pkg/cloud/gcp"
	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/models"
	"github.com/dcos/dcos-launch/pkg/utils"
	"github.com/dcos/dcos-launch/pkg/workspace"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type GCPProvider struct {
	cfg    *models.ClusterConfig
	env    utils.Env
	fs     afero.Fs
	logger *zap.Logger
	// TempDir receives credentials written from GCE_CREDENTIALS.
	TempDir string
}

func NewGCPProvider(cfg *models.ClusterConfig, env utils.Env, fs afero.Fs, logger *zap.Logger) *GCPProvider {
	return &GCPProvider{
		cfg:     cfg,
		env:     env,
		fs:      fs,
		logger:  logger,
		TempDir: gcp.DefaultTempDir(),
	}
}

func (*GCPProvider) Platform() models.Platform {
	return models.PlatformGCP
}

func (*GCPProvider) IdentityVariable() string {
	return constants.TFVarGCPSSHPubKeyFile
}

func (p *GCPProvider) ApplyDefaults(ctx context.Context) error {
	if !p.cfg.HasTFVar(constants.TFVarGCPZone) {
		if zone := p.env.Get(constants.GCPZoneEnvVar); zone != "" {
			p.cfg.SetTFVar(constants.TFVarGCPZone, zone)
		}
	}
	if !p.cfg.HasTFVar(constants.TFVarGCPCredentialsFile) {
		creds, err := gcp.ResolveCredentials(ctx, p.fs, p.env, p.TempDir)
		if err != nil {
			return err
		}
		if creds.Generated {
			p.logger.Info("wrote gcp credentials from environment", zap.String("path", creds.Path))
		}
		p.cfg.SetTFVar(constants.TFVarGCPCredentialsFile, creds.Path)
		if !p.cfg.HasTFVar(constants.TFVarGCPProject) {
			p.cfg.SetTFVar(constants.TFVarGCPProject, creds.ProjectID)
		}
		return nil
	}
	if p.cfg.HasTFVar(constants.TFVarGCPProject) {
		return nil
	}
	path := p.cfg.TFVar(constants.TFVarGCPCredentialsFile)
	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return fmt.Errorf("failed reading %s: %w", constants.TFVarGCPCredentialsFile, err)
	}
	project, err := gcp.ProjectID(ctx, data)
	if err != nil {
		return err
	}
	p.cfg.SetTFVar(constants.TFVarGCPProject, project)
	return nil
}

// InjectKeyMaterial generates the cluster key and writes its public half next to it.
func (p *GCPProvider) InjectKeyMaterial(_ context.Context, ws *workspace.Workspace) error {
	pub, err := generateKeyPair(p.cfg, ws)
	if err != nil {
		return err
	}
	path, err := ws.WritePublicKey(pub)
	if err != nil {
		return err
	}
	p.cfg.SetTFVar(constants.TFVarGCPSSHPubKeyFile, path)
	return nil
}

// Cleanup removes credentials written from GCE_CREDENTIALS. Destroy reads them, so
// they live until the cluster is deleted.
func (p *GCPProvider) Cleanup(context.Context) error {
	path := p.cfg.TFVar(constants.TFVarGCPCredentialsFile)
	if !gcp.IsGenerated(path, p.TempDir) {
		return nil
	}
	if err := p.fs.Remove(path); err != nil {
		return fmt.Errorf("failed removing gcp credentials %s: %w", path, err)
	}
	return nil
}
