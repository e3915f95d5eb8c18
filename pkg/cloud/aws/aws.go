// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/utils"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

var ErrNoKeyMaterial = errors.New("aws returned no key material")

// EC2API is the part of the EC2 client used to manage key pairs.
type EC2API interface {
	CreateKeyPair(ctx context.Context, params *ec2.CreateKeyPairInput, optFns ...func(*ec2.Options)) (*ec2.CreateKeyPairOutput, error)
	DeleteKeyPair(ctx context.Context, params *ec2.DeleteKeyPairInput, optFns ...func(*ec2.Options)) (*ec2.DeleteKeyPairOutput, error)
	DescribeKeyPairs(ctx context.Context, params *ec2.DescribeKeyPairsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeKeyPairsOutput, error)
}

type AwsCloud struct {
	ec2Client EC2API
}

// NewAwsCloud creates an AWS cloud client for region. Static credentials in env win
// over the shared config profile.
func NewAwsCloud(ctx context.Context, env utils.Env, region string) (*AwsCloud, error) {
	var (
		cfg aws.Config
		err error
	)
	if env.Get(constants.AWSAccessKeyEnvVar) != "" || env.Get(constants.AWSProfileEnvVar) == "" {
		// Load session from env variables
		cfg, err = config.LoadDefaultConfig(
			ctx,
			config.WithRegion(region),
		)
	} else {
		// Load session from profile in config file
		cfg, err = config.LoadDefaultConfig(
			ctx,
			config.WithRegion(region),
			config.WithSharedConfigProfile(env.Get(constants.AWSProfileEnvVar)),
		)
	}
	if err != nil {
		return nil, err
	}
	return &AwsCloud{
		ec2Client: ec2.NewFromConfig(cfg),
	}, nil
}

// NewAwsCloudWithClient wraps an existing EC2 client.
func NewAwsCloudWithClient(client EC2API) *AwsCloud {
	return &AwsCloud{ec2Client: client}
}

// NewKeyPairName returns a unique name for a launcher managed key pair.
func NewKeyPairName() string {
	return constants.AWSKeyPairPrefix + uuid.NewString()
}

// CreateKeyPair registers a new key pair and returns its PEM private key material.
func (c *AwsCloud) CreateKeyPair(ctx context.Context, keyName string) (string, error) {
	createKeyPairOutput, err := c.ec2Client.CreateKeyPair(ctx, &ec2.CreateKeyPairInput{
		KeyName: aws.String(keyName),
	})
	if err != nil {
		return "", fmt.Errorf("failed creating key pair %s: %w", keyName, err)
	}
	if createKeyPairOutput.KeyMaterial == nil {
		return "", fmt.Errorf("%w for key pair %s", ErrNoKeyMaterial, keyName)
	}
	return aws.ToString(createKeyPairOutput.KeyMaterial), nil
}

// DeleteKeyPair removes a key pair. Deleting a missing key pair succeeds.
func (c *AwsCloud) DeleteKeyPair(ctx context.Context, keyName string) error {
	_, err := c.ec2Client.DeleteKeyPair(ctx, &ec2.DeleteKeyPairInput{
		KeyName: aws.String(keyName),
	})
	if err != nil {
		return fmt.Errorf("failed deleting key pair %s: %w", keyName, err)
	}
	return nil
}

// CheckKeyPairExists checks if the specified key pair exists in the AWS Cloud.
func (c *AwsCloud) CheckKeyPairExists(ctx context.Context, kpName string) (bool, error) {
	keyPairInput := &ec2.DescribeKeyPairsInput{
		KeyNames: []string{kpName},
	}
	_, err := c.ec2Client.DescribeKeyPairs(ctx, keyPairInput)
	if err != nil {
		if strings.Contains(err.Error(), "InvalidKeyPair.NotFound") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
