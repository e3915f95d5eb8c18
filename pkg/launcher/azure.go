// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package launcher

import (
	"context"

	"github.com/dcos/dcos-launch/pkg/cloud/azure"
	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/models"
	"github.com/dcos/dcos-launch/pkg/utils"
	"github.com/dcos/dcos-launch/pkg/workspace"
	"go.uber.org/zap"
)

type AzureProvider struct {
	cfg    *models.ClusterConfig
	env    utils.Env
	logger *zap.Logger
}

func NewAzureProvider(cfg *models.ClusterConfig, env utils.Env, logger *zap.Logger) *AzureProvider {
	return &AzureProvider{cfg: cfg, env: env, logger: logger}
}

func (*AzureProvider) Platform() models.Platform {
	return models.PlatformAzure
}

func (*AzureProvider) IdentityVariable() string {
	return constants.TFVarAzureSSHPubKey
}

func (p *AzureProvider) ApplyDefaults(context.Context) error {
	if err := azure.ValidateEnv(p.env); err != nil {
		return err
	}
	if !p.cfg.HasTFVar(constants.TFVarAzureRegion) {
		if location := azure.Location(p.env); location != "" {
			p.cfg.SetTFVar(constants.TFVarAzureRegion, location)
		}
	}
	return nil
}

func (p *AzureProvider) InjectKeyMaterial(_ context.Context, ws *workspace.Workspace) error {
	pub, err := generateKeyPair(p.cfg, ws)
	if err != nil {
		return err
	}
	p.cfg.SetTFVar(constants.TFVarAzureSSHPubKey, string(pub))
	return nil
}

func (*AzureProvider) Cleanup(context.Context) error {
	return nil
}
