// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package launcher_test

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/launcher"
	"github.com/dcos/dcos-launch/pkg/models"
	"github.com/dcos/dcos-launch/pkg/sshagent"
	"github.com/dcos/dcos-launch/pkg/terraform"
	"github.com/dcos/dcos-launch/pkg/utils"
	"github.com/spf13/afero"

	ginkgo "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

const clusterOutput = `Bootstrap Host Public IP = 34.1.1.1
GPU Public IPs = [
    35.0.0.1,
    35.0.0.2
]
Master ELB Public IP = 52.1.1.1
Master Public IPs = [
    52.0.0.1,
    52.0.0.2
]
Private Agent Public IPs = [
    10.0.0.1
]
Public Agent ELB Public IP = 52.1.1.2
Public Agent Public IPs = [
    54.0.0.1
]
ssh_user = core
`

var _ = ginkgo.Describe("[Launcher]", func() {
	ctx := context.Background()

	ginkgo.Context("create", func() {
		ginkgo.It("writes variables, initializes the module and applies", func() {
			cfg := newConfig(models.PlatformAWS, false)
			cfg.SetTFVar("num_masters", 3)
			h := newHarness(cfg, utils.Env{"AWS_REGION": "us-west-2"})

			out, err := h.launcher.Create(ctx)
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(out).Should(gomega.BeIdenticalTo(cfg))
			gomega.Expect(h.tool.names()).Should(gomega.Equal([]string{"init", "apply"}))
			gomega.Expect(h.tool.calls[0].Arg).Should(gomega.Equal("github.com/dcos/terraform-dcos?ref=master/aws"))
			gomega.Expect(h.tool.calls[1].Arg).Should(gomega.Equal("/launch/cluster-a/desired_cluster_profile.tfvars"))
			gomega.Expect(h.tool.calls[1].AuthSock).Should(gomega.BeEmpty())
			gomega.Expect(h.ensurer.roots).Should(gomega.Equal([]string{"/launch"}))
			gomega.Expect(h.agent.loaded).Should(gomega.BeEmpty())

			vars := readVariables(h.fs, "/launch/cluster-a/desired_cluster_profile.tfvars")
			gomega.Expect(vars).Should(gomega.HaveKeyWithValue("aws_region", "us-west-2"))
			gomega.Expect(vars).Should(gomega.HaveKeyWithValue("num_masters", "3"))
		})

		ginkgo.It("refuses an init_dir that is already in use", func() {
			cfg := newConfig(models.PlatformAWS, false)
			h := newHarness(cfg, utils.Env{})
			gomega.Expect(h.fs.MkdirAll(cfg.InitDir, 0o755)).Should(gomega.Succeed())

			_, err := h.launcher.Create(ctx)
			gomega.Expect(errors.Is(err, launcher.ErrClusterAlreadyExists)).Should(gomega.BeTrue())
			gomega.Expect(h.tool.calls).Should(gomega.BeEmpty())
		})

		ginkgo.It("keeps the workspace when apply fails", func() {
			cfg := newConfig(models.PlatformAWS, false)
			h := newHarness(cfg, utils.Env{})
			h.tool.applyErr = &terraform.ProcessError{Args: []string{"apply"}, ExitCode: 1}

			_, err := h.launcher.Create(ctx)
			var procErr *terraform.ProcessError
			gomega.Expect(errors.As(err, &procErr)).Should(gomega.BeTrue())
			gomega.Expect(procErr.ExitCode).Should(gomega.Equal(1))
			exists, _ := afero.DirExists(h.fs, cfg.InitDir)
			gomega.Expect(exists).Should(gomega.BeTrue())

			_, err = h.launcher.Create(ctx)
			gomega.Expect(errors.Is(err, launcher.ErrClusterAlreadyExists)).Should(gomega.BeTrue())
		})

		ginkgo.It("registers an aws key pair and loads it into the agent", func() {
			cfg := newConfig(models.PlatformAWS, true)
			h := newHarness(cfg, utils.Env{"AWS_REGION": "us-east-1"})
			registrar := &fakeRegistrar{}
			h.launcher.Provider.(*launcher.AWSProvider).NewRegistrar = func(_ context.Context, _ utils.Env, region string) (launcher.KeyPairRegistrar, error) {
				gomega.Expect(region).Should(gomega.Equal("us-east-1"))
				return registrar, nil
			}

			_, err := h.launcher.Create(ctx)
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(registrar.created).Should(gomega.HaveLen(1))
			name := registrar.created[0]
			gomega.Expect(strings.HasPrefix(name, constants.AWSKeyPairPrefix)).Should(gomega.BeTrue())
			gomega.Expect(cfg.TFVar(constants.TFVarAWSSSHKeyName)).Should(gomega.Equal(name))
			gomega.Expect(cfg.AWSKeyPairName).Should(gomega.Equal(name))
			gomega.Expect(cfg.SSHPrivateKeyFilename).Should(gomega.Equal("/launch/cluster-a/key.pem"))
			gomega.Expect(cfg.SSHPrivateKey).Should(gomega.Equal("PRIVATE KEY FOR " + name))

			info, err := h.fs.Stat(cfg.SSHPrivateKeyFilename)
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(info.Mode().Perm()).Should(gomega.Equal(os.FileMode(constants.UserOnlyWritePerms)))

			gomega.Expect(h.agent.loaded).Should(gomega.Equal([][]byte{[]byte(cfg.SSHPrivateKey)}))
			gomega.Expect(h.tool.calls[1].AuthSock).Should(gomega.Equal("/tmp/agent.sock"))
		})

		ginkgo.It("reuses key material already recorded in the config", func() {
			cfg := newConfig(models.PlatformAWS, true)
			cfg.SetTFVar(constants.TFVarAWSSSHKeyName, "existing")
			cfg.SSHPrivateKeyFilename = "/keys/existing.pem"
			h := newHarness(cfg, utils.Env{})
			gomega.Expect(afero.WriteFile(h.fs, "/keys/existing.pem", []byte("EXISTING"), 0o600)).Should(gomega.Succeed())
			h.launcher.Provider.(*launcher.AWSProvider).NewRegistrar = func(context.Context, utils.Env, string) (launcher.KeyPairRegistrar, error) {
				ginkgo.Fail("no key pair should be registered")
				return nil, nil
			}

			before := cfg.SSHPrivateKey

			_, err := h.launcher.Create(ctx)
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(cfg.SSHPrivateKey).Should(gomega.Equal(before))
			gomega.Expect(cfg.SSHPrivateKeyFilename).Should(gomega.Equal("/keys/existing.pem"))
			gomega.Expect(cfg.TFVar(constants.TFVarAWSSSHKeyName)).Should(gomega.Equal("existing"))
			gomega.Expect(h.agent.loaded).Should(gomega.Equal([][]byte{[]byte("EXISTING")}))
		})

		ginkgo.It("writes a gcp public key and zone", func() {
			cfg := newConfig(models.PlatformGCP, true)
			cfg.SetTFVar(constants.TFVarGCPCredentialsFile, "/creds.json")
			cfg.SetTFVar(constants.TFVarGCPProject, "my-project")
			h := newHarness(cfg, utils.Env{"GCE_ZONE": "us-west1-a"})

			_, err := h.launcher.Create(ctx)
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(cfg.TFVar(constants.TFVarGCPZone)).Should(gomega.Equal("us-west1-a"))
			gomega.Expect(cfg.TFVar(constants.TFVarGCPSSHPubKeyFile)).Should(gomega.Equal("/launch/cluster-a/key.pub"))
			pub, err := afero.ReadFile(h.fs, "/launch/cluster-a/key.pub")
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(string(pub)).Should(gomega.HavePrefix("ssh-rsa "))
			gomega.Expect(cfg.SSHPrivateKey).Should(gomega.ContainSubstring("PRIVATE KEY"))
		})

		ginkgo.It("requires the azure credentials before touching the workspace", func() {
			cfg := newConfig(models.PlatformAzure, true)
			h := newHarness(cfg, utils.Env{"ARM_CLIENT_ID": "id"})

			_, err := h.launcher.Create(ctx)
			gomega.Expect(errors.Is(err, launcher.ErrMissingInput)).Should(gomega.BeTrue())
			exists, _ := afero.DirExists(h.fs, cfg.InitDir)
			gomega.Expect(exists).Should(gomega.BeFalse())
		})

		ginkgo.It("puts the azure public key and region into the variables", func() {
			cfg := newConfig(models.PlatformAzure, true)
			h := newHarness(cfg, utils.Env{
				"ARM_SUBSCRIPTION_ID": "sub",
				"ARM_CLIENT_ID":       "client",
				"ARM_CLIENT_SECRET":   "secret",
				"ARM_TENANT_ID":       "tenant",
				"AZURE_LOCATION":      "westus",
			})

			_, err := h.launcher.Create(ctx)
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(cfg.TFVar(constants.TFVarAzureRegion)).Should(gomega.Equal("westus"))
			gomega.Expect(cfg.TFVar(constants.TFVarAzureSSHPubKey)).Should(gomega.HavePrefix("ssh-rsa "))
		})
	})

	ginkgo.Context("describe", func() {
		ginkgo.It("parses the terraform output into a topology", func() {
			cfg := newConfig(models.PlatformGCP, false)
			h := newHarness(cfg, utils.Env{})
			h.tool.output = clusterOutput

			topology, err := h.launcher.Describe(ctx)
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(topology.BootstrapHost).Should(gomega.HaveLen(1))
			gomega.Expect(topology.Masters[1].PublicIP).Should(gomega.Equal("52.0.0.2"))
			gomega.Expect(topology.Masters[1].PrivateIP).Should(gomega.BeNil())
			gomega.Expect(topology.PrivateAgents).Should(gomega.HaveLen(1))
			gomega.Expect(topology.PrivateAgents[0].GPUPublicIP).Should(gomega.Equal("35.0.0.1"))
			gomega.Expect(topology.MasterELBPublicIP).Should(gomega.Equal("52.1.1.1"))
			gomega.Expect(topology.PublicAgentELBPublicIP).Should(gomega.Equal("52.1.1.2"))
			gomega.Expect(cfg.SSHUser).Should(gomega.Equal("core"))
		})

		ginkgo.It("fails without an ssh_user output", func() {
			cfg := newConfig(models.PlatformGCP, false)
			h := newHarness(cfg, utils.Env{})
			h.tool.output = "Master Public IPs = [\n 1.2.3.4\n]\n"

			_, err := h.launcher.Describe(ctx)
			gomega.Expect(errors.Is(err, terraform.ErrOutputFieldNotFound)).Should(gomega.BeTrue())
		})
	})

	ginkgo.Context("delete", func() {
		ginkgo.It("keeps the workspace when destroy fails", func() {
			cfg := newConfig(models.PlatformAWS, true)
			cfg.AWSKeyPairName = "kp"
			h := newHarness(cfg, utils.Env{})
			registrar := &fakeRegistrar{}
			h.launcher.Provider.(*launcher.AWSProvider).NewRegistrar = func(context.Context, utils.Env, string) (launcher.KeyPairRegistrar, error) {
				return registrar, nil
			}
			gomega.Expect(h.fs.MkdirAll(cfg.InitDir, 0o755)).Should(gomega.Succeed())
			h.tool.destroyErr = &terraform.ProcessError{Args: []string{"destroy"}, ExitCode: 1}

			gomega.Expect(h.launcher.Delete(ctx)).ShouldNot(gomega.Succeed())
			exists, _ := afero.DirExists(h.fs, cfg.InitDir)
			gomega.Expect(exists).Should(gomega.BeTrue())
			gomega.Expect(registrar.deleted).Should(gomega.BeEmpty())
			gomega.Expect(h.agent.removed).Should(gomega.BeEmpty())
		})

		ginkgo.It("removes the workspace even when cleanup fails", func() {
			cfg := newConfig(models.PlatformAWS, true)
			cfg.AWSKeyPairName = "kp"
			cfg.SSHPrivateKey = "KEY"
			h := newHarness(cfg, utils.Env{})
			h.agent.removeErr = sshagent.ErrNoAgent
			registrar := &fakeRegistrar{deleteErr: errors.New("throttled")}
			h.launcher.Provider.(*launcher.AWSProvider).NewRegistrar = func(context.Context, utils.Env, string) (launcher.KeyPairRegistrar, error) {
				return registrar, nil
			}
			gomega.Expect(h.fs.MkdirAll(cfg.InitDir, 0o755)).Should(gomega.Succeed())

			gomega.Expect(h.launcher.Delete(ctx)).Should(gomega.Succeed())
			gomega.Expect(h.tool.names()).Should(gomega.Equal([]string{"destroy"}))
			gomega.Expect(h.tool.calls[0].Arg).Should(gomega.Equal("/launch/cluster-a/desired_cluster_profile.tfvars"))
			gomega.Expect(registrar.deleted).Should(gomega.Equal([]string{"kp"}))
			gomega.Expect(h.agent.removed).Should(gomega.Equal([][]byte{[]byte("KEY")}))
			exists, _ := afero.DirExists(h.fs, cfg.InitDir)
			gomega.Expect(exists).Should(gomega.BeFalse())
		})

		ginkgo.It("unloads a reused key file from the agent", func() {
			cfg := newConfig(models.PlatformAzure, true)
			cfg.SSHPrivateKeyFilename = "/keys/existing.pem"
			h := newHarness(cfg, utils.Env{})
			gomega.Expect(afero.WriteFile(h.fs, "/keys/existing.pem", []byte("EXISTING"), 0o600)).Should(gomega.Succeed())
			gomega.Expect(h.fs.MkdirAll(cfg.InitDir, 0o755)).Should(gomega.Succeed())

			gomega.Expect(h.launcher.Delete(ctx)).Should(gomega.Succeed())
			gomega.Expect(h.agent.removed).Should(gomega.Equal([][]byte{[]byte("EXISTING")}))
		})

		ginkgo.It("skips a key pair that is already gone", func() {
			cfg := newConfig(models.PlatformAWS, false)
			cfg.AWSKeyPairName = "kp"
			h := newHarness(cfg, utils.Env{})
			registrar := &fakeRegistrar{gone: true}
			h.launcher.Provider.(*launcher.AWSProvider).NewRegistrar = func(context.Context, utils.Env, string) (launcher.KeyPairRegistrar, error) {
				return registrar, nil
			}
			gomega.Expect(h.fs.MkdirAll(cfg.InitDir, 0o755)).Should(gomega.Succeed())

			gomega.Expect(h.launcher.Delete(ctx)).Should(gomega.Succeed())
			gomega.Expect(registrar.deleted).Should(gomega.BeEmpty())
			exists, _ := afero.DirExists(h.fs, cfg.InitDir)
			gomega.Expect(exists).Should(gomega.BeFalse())
		})

		ginkgo.It("removes generated gcp credentials", func() {
			cfg := newConfig(models.PlatformGCP, false)
			cfg.SetTFVar(constants.TFVarGCPCredentialsFile, "/tmp/dcos-launch-gcp-credentials-123.json")
			h := newHarness(cfg, utils.Env{})
			h.launcher.Provider.(*launcher.GCPProvider).TempDir = "/tmp"
			gomega.Expect(afero.WriteFile(h.fs, "/tmp/dcos-launch-gcp-credentials-123.json", []byte("{}"), 0o600)).Should(gomega.Succeed())

			gomega.Expect(h.launcher.Delete(ctx)).Should(gomega.Succeed())
			exists, _ := afero.Exists(h.fs, "/tmp/dcos-launch-gcp-credentials-123.json")
			gomega.Expect(exists).Should(gomega.BeFalse())
		})
	})

	ginkgo.Context("test", func() {
		ginkgo.It("needs a private key", func() {
			cfg := newConfig(models.PlatformAWS, false)
			cfg.SSHUser = "core"
			h := newHarness(cfg, utils.Env{})

			_, err := h.launcher.Test(ctx, nil, nil, "1.2.3.4")
			gomega.Expect(errors.Is(err, launcher.ErrMissingInput)).Should(gomega.BeTrue())
			gomega.Expect(h.runs).Should(gomega.BeEmpty())
		})

		ginkgo.It("defaults to the first master and returns the remote exit code", func() {
			cfg := newConfig(models.PlatformAWS, false)
			cfg.SSHPrivateKey = "KEY"
			h := newHarness(cfg, utils.Env{})
			h.tool.output = clusterOutput
			h.exitCode = 4

			code, err := h.launcher.Test(ctx, []string{"-k", "test_auth"}, map[string]string{"FOO": "bar"}, "")
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(code).Should(gomega.Equal(4))
			gomega.Expect(h.runs).Should(gomega.HaveLen(1))
			run := h.runs[0]
			gomega.Expect(run.Host.IP).Should(gomega.Equal("52.0.0.1"))
			gomega.Expect(run.Host.Port).Should(gomega.Equal(uint(22)))
			gomega.Expect(run.Host.SSHUser).Should(gomega.Equal("core"))
			gomega.Expect(run.Env).Should(gomega.Equal(map[string]string{
				"FOO":              "bar",
				"DCOS_DNS_ADDRESS": "http://52.0.0.1",
			}))
			gomega.Expect(run.Args).Should(gomega.Equal([]string{"-k", "test_auth"}))
		})

		ginkgo.It("connects with a reused key file", func() {
			cfg := newConfig(models.PlatformAWS, true)
			cfg.SSHUser = "core"
			cfg.SSHPrivateKeyFilename = "/keys/existing.pem"
			h := newHarness(cfg, utils.Env{})

			_, err := h.launcher.Test(ctx, nil, nil, "10.1.1.1")
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(h.runs[0].Host.SSHPrivateKey).Should(gomega.BeEmpty())
			gomega.Expect(h.runs[0].Host.SSHPrivateKeyPath).Should(gomega.Equal("/keys/existing.pem"))
		})

		ginkgo.It("splits host and port and keeps a supplied dns address", func() {
			cfg := newConfig(models.PlatformAWS, false)
			cfg.SSHPrivateKey = "KEY"
			cfg.SSHUser = "centos"
			h := newHarness(cfg, utils.Env{})
			env := map[string]string{"DCOS_DNS_ADDRESS": "http://leader.mesos"}

			_, err := h.launcher.Test(ctx, nil, env, "10.1.1.1:2222")
			gomega.Expect(err).Should(gomega.BeNil())
			gomega.Expect(h.tool.calls).Should(gomega.BeEmpty())
			gomega.Expect(h.runs[0].Host.IP).Should(gomega.Equal("10.1.1.1"))
			gomega.Expect(h.runs[0].Host.Port).Should(gomega.Equal(uint(2222)))
			gomega.Expect(h.runs[0].Env["DCOS_DNS_ADDRESS"]).Should(gomega.Equal("http://leader.mesos"))
			gomega.Expect(env).Should(gomega.HaveLen(1))
		})

		ginkgo.It("rejects a malformed port", func() {
			cfg := newConfig(models.PlatformAWS, false)
			cfg.SSHPrivateKey = "KEY"
			cfg.SSHUser = "centos"
			h := newHarness(cfg, utils.Env{})

			_, err := h.launcher.Test(ctx, nil, nil, "10.1.1.1:ssh")
			gomega.Expect(err).Should(gomega.HaveOccurred())
		})
	})

	ginkgo.It("waits without doing anything", func() {
		h := newHarness(newConfig(models.PlatformAWS, false), utils.Env{})
		gomega.Expect(h.launcher.Wait(ctx)).Should(gomega.Succeed())
		gomega.Expect(h.tool.calls).Should(gomega.BeEmpty())
	})
})
