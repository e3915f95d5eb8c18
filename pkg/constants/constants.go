// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "time"

const (
	DefaultPerms755    = 0o755
	WriteReadReadPerms = 0o644
	UserOnlyWritePerms = 0o600
	UserOnlyExecPerms  = 0o100

	BaseDirName = ".dcos-launch"
	LogDir      = "logs"
	LogFileName = "dcos-launch.log"

	ConfigFileName         = "config.json"
	DefaultClusterConfig   = "config.yaml"
	DefaultClusterInfoPath = "cluster_info.json"

	// log rotation
	MaxLogFileSize   = 4 // MB
	MaxNumOfLogFiles = 5
	RetainOldFiles   = 0 // days

	Terraform               = "terraform"
	TerraformArchiveName    = "terraform.zip"
	TerraformVarsFile       = "desired_cluster_profile.tfvars"
	TerraformProvider       = "terraform"
	TerraformDCOSOrg        = "dcos"
	TerraformDCOSRepo       = "terraform-dcos"
	TerraformDCOSEntRepo    = "terraform-dcos-enterprise"
	TerraformVersionPrefix  = "Terraform "
	DefaultTerraformVersion = "0.11.14"
	MinTerraformVersion     = "0.11.0"

	// version, GOOS, GOARCH
	TerraformReleaseURLFormat = "https://releases.hashicorp.com/terraform/%[1]s/terraform_%[1]s_%[2]s_%[3]s.zip"

	PrivateKeyFileName = "key.pem"
	PublicKeyFileName  = "key.pub"
	RSAKeyBits         = 2048

	AWSKeyPairPrefix = "terraform-dcos-launch-"

	// placeholder stored instead of a private key when the cluster cannot be tested over SSH
	NoTestFlag = "NO PRIVATE SSH KEY PROVIDED - CANNOT TEST"

	SSHTCPPort             = 22
	SSHConnectionTimeout   = 10 * time.Second
	SSHConnectionRetries   = 5
	SSHSleepBetweenRetries = 2 * time.Second

	IntegrationTestRunner = "py.test"
	DCOSDNSAddressEnvVar  = "DCOS_DNS_ADDRESS"
)

// environment variables
const (
	SSHAuthSockEnvVar      = "SSH_AUTH_SOCK"
	SSHAgentPIDEnvVar      = "SSH_AGENT_PID"
	AWSRegionEnvVar        = "AWS_REGION"
	AWSAccessKeyEnvVar     = "AWS_ACCESS_KEY_ID"
	AWSProfileEnvVar       = "AWS_PROFILE"
	GCPZoneEnvVar          = "GCE_ZONE"
	GCPCredentialsEnvVar   = "GCE_CREDENTIALS"
	GCPCredentialsPathVar  = "GOOGLE_APPLICATION_CREDENTIALS"
	AzureLocationEnvVar    = "AZURE_LOCATION"
	AzureSubscriptionIDVar = "ARM_SUBSCRIPTION_ID"
	AzureClientIDVar       = "ARM_CLIENT_ID"
	AzureClientSecretVar   = "ARM_CLIENT_SECRET"
	AzureTenantIDVar       = "ARM_TENANT_ID"
	EnvPrefix              = "DCOS_LAUNCH"
)

// settings keys
const (
	ConfigLogLevelKey            = "log-level"
	ConfigTerraformTarballURLKey = "terraform-tarball-url"
	ConfigInfoPathKey            = "info-path"
)

// terraform variables written by the provider launchers
const (
	TFVarGCPZone            = "gcp_zone"
	TFVarGCPCredentialsFile = "gcp_credentials_key_file"
	TFVarGCPProject         = "gcp_project"
	TFVarGCPSSHPubKeyFile   = "gcp_ssh_pub_key_file"
	TFVarAzureRegion        = "azure_region"
	TFVarAzureSSHPubKey     = "ssh_pub_key"
	TFVarAWSSSHKeyName      = "ssh_key_name"
)
