// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package launcher

import (
	"context"
	"fmt"

	"github.com/dcos/dcos-launch/pkg/cloud/aws"
	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/models"
	"github.com/dcos/dcos-launch/pkg/utils"
	"github.com/dcos/dcos-launch/pkg/workspace"
	"go.uber.org/zap"
)

const awsRegionVar = "aws_region"

// KeyPairRegistrar registers SSH key pairs with EC2.
type KeyPairRegistrar interface {
	CreateKeyPair(ctx context.Context, name string) (string, error)
	DeleteKeyPair(ctx context.Context, name string) error
	CheckKeyPairExists(ctx context.Context, name string) (bool, error)
}

type AWSProvider struct {
	cfg    *models.ClusterConfig
	env    utils.Env
	logger *zap.Logger
	// NewRegistrar connects to EC2 in region.
	NewRegistrar func(ctx context.Context, env utils.Env, region string) (KeyPairRegistrar, error)
}

func NewAWSProvider(cfg *models.ClusterConfig, env utils.Env, logger *zap.Logger) *AWSProvider {
	return &AWSProvider{
		cfg:    cfg,
		env:    env,
		logger: logger,
		NewRegistrar: func(ctx context.Context, env utils.Env, region string) (KeyPairRegistrar, error) {
			return aws.NewAwsCloud(ctx, env, region)
		},
	}
}

func (*AWSProvider) Platform() models.Platform {
	return models.PlatformAWS
}

func (*AWSProvider) IdentityVariable() string {
	return constants.TFVarAWSSSHKeyName
}

// ApplyDefaults resolves the region from the config, the terraform variables or AWS_REGION.
func (p *AWSProvider) ApplyDefaults(context.Context) error {
	if p.cfg.AWSRegion == "" {
		p.cfg.AWSRegion = p.cfg.TFVar(awsRegionVar)
	}
	if p.cfg.AWSRegion == "" {
		p.cfg.AWSRegion = p.env.Get(constants.AWSRegionEnvVar)
	}
	if p.cfg.AWSRegion != "" && !p.cfg.HasTFVar(awsRegionVar) {
		p.cfg.SetTFVar(awsRegionVar, p.cfg.AWSRegion)
	}
	return nil
}

// InjectKeyMaterial registers a new EC2 key pair and stores its private key in the workspace.
func (p *AWSProvider) InjectKeyMaterial(ctx context.Context, ws *workspace.Workspace) error {
	if p.cfg.AWSRegion == "" {
		return fmt.Errorf("%w: aws_region or %s is required to register a key pair", ErrMissingInput, constants.AWSRegionEnvVar)
	}
	registrar, err := p.NewRegistrar(ctx, p.env, p.cfg.AWSRegion)
	if err != nil {
		return err
	}
	name := aws.NewKeyPairName()
	material, err := registrar.CreateKeyPair(ctx, name)
	if err != nil {
		return fmt.Errorf("failed creating key pair %s: %w", name, err)
	}
	p.cfg.AWSKeyPairName = name
	p.logger.Info("registered aws key pair", zap.String("name", name), zap.String("region", p.cfg.AWSRegion))
	path, err := ws.WritePrivateKey([]byte(material))
	if err != nil {
		return err
	}
	p.cfg.SSHPrivateKey = material
	p.cfg.SSHPrivateKeyFilename = path
	p.cfg.SetTFVar(constants.TFVarAWSSSHKeyName, name)
	return nil
}

// Cleanup deletes the key pair registered by InjectKeyMaterial, if it still exists.
func (p *AWSProvider) Cleanup(ctx context.Context) error {
	if p.cfg.AWSKeyPairName == "" {
		return nil
	}
	registrar, err := p.NewRegistrar(ctx, p.env, p.cfg.AWSRegion)
	if err != nil {
		return err
	}
	exists, err := registrar.CheckKeyPairExists(ctx, p.cfg.AWSKeyPairName)
	if err != nil {
		return fmt.Errorf("failed looking up key pair %s: %w", p.cfg.AWSKeyPairName, err)
	}
	if !exists {
		p.logger.Info("aws key pair already deleted", zap.String("name", p.cfg.AWSKeyPairName))
		return nil
	}
	if err := registrar.DeleteKeyPair(ctx, p.cfg.AWSKeyPairName); err != nil {
		return fmt.Errorf("failed deleting key pair %s: %w", p.cfg.AWSKeyPairName, err)
	}
	p.logger.Info("deleted aws key pair", zap.String("name", p.cfg.AWSKeyPairName))
	return nil
}
