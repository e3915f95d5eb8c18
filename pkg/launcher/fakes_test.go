// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package launcher_test

import (
	"context"
	"io"

	"github.com/dcos/dcos-launch/pkg/launcher"
	"github.com/dcos/dcos-launch/pkg/models"
	"github.com/dcos/dcos-launch/pkg/sshagent"
	"github.com/dcos/dcos-launch/pkg/terraform"
	"github.com/dcos/dcos-launch/pkg/utils"
	"github.com/dcos/dcos-launch/pkg/workspace"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/onsi/gomega"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// readVariables parses a written tfvars file into its string values.
func readVariables(fs afero.Fs, path string) map[string]string {
	data, err := afero.ReadFile(fs, path)
	gomega.Expect(err).Should(gomega.BeNil())
	file, diags := hclparse.NewParser().ParseHCL(data, path)
	gomega.Expect(diags.HasErrors()).Should(gomega.BeFalse(), diags.Error())
	attrs, diags := file.Body.JustAttributes()
	gomega.Expect(diags.HasErrors()).Should(gomega.BeFalse(), diags.Error())
	out := map[string]string{}
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(&hcl.EvalContext{})
		gomega.Expect(diags.HasErrors()).Should(gomega.BeFalse(), diags.Error())
		out[name] = val.AsString()
	}
	return out
}

type toolCall struct {
	Name     string
	Dir      string
	Arg      string
	AuthSock string
}

type fakeTool struct {
	calls      []toolCall
	output     string
	applyErr   error
	destroyErr error
}

func (*fakeTool) Version(context.Context) (string, error) {
	return "Terraform v0.11.14", nil
}

func (f *fakeTool) Init(_ context.Context, dir, module string) error {
	f.calls = append(f.calls, toolCall{Name: "init", Dir: dir, Arg: module})
	return nil
}

func (f *fakeTool) Apply(_ context.Context, dir, varFile string, env utils.Env) error {
	f.calls = append(f.calls, toolCall{Name: "apply", Dir: dir, Arg: varFile, AuthSock: env.Get("SSH_AUTH_SOCK")})
	return f.applyErr
}

func (f *fakeTool) Destroy(_ context.Context, dir, varFile string, _ utils.Env) error {
	f.calls = append(f.calls, toolCall{Name: "destroy", Dir: dir, Arg: varFile})
	return f.destroyErr
}

func (f *fakeTool) Output(_ context.Context, dir string) (string, error) {
	f.calls = append(f.calls, toolCall{Name: "output", Dir: dir})
	return f.output, nil
}

func (f *fakeTool) names() []string {
	names := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		names = append(names, c.Name)
	}
	return names
}

type fakeEnsurer struct {
	roots []string
}

func (f *fakeEnsurer) EnsureTerraform(_ context.Context, toolRoot, _ string) (string, string, error) {
	f.roots = append(f.roots, toolRoot)
	return toolRoot + "/terraform", "v0.11.14", nil
}

type fakeAgent struct {
	loaded    [][]byte
	removed   [][]byte
	removeErr error
}

func (f *fakeAgent) Load(_ context.Context, key []byte) (*sshagent.Session, error) {
	f.loaded = append(f.loaded, key)
	return &sshagent.Session{Env: utils.Env{"SSH_AUTH_SOCK": "/tmp/agent.sock"}}, nil
}

func (f *fakeAgent) Remove(key []byte) error {
	f.removed = append(f.removed, key)
	return f.removeErr
}

type fakeRegistrar struct {
	created   []string
	deleted   []string
	deleteErr error
	gone      bool
}

func (f *fakeRegistrar) CreateKeyPair(_ context.Context, name string) (string, error) {
	f.created = append(f.created, name)
	return "PRIVATE KEY FOR " + name, nil
}

func (f *fakeRegistrar) DeleteKeyPair(_ context.Context, name string) error {
	f.deleted = append(f.deleted, name)
	return f.deleteErr
}

func (f *fakeRegistrar) CheckKeyPairExists(context.Context, string) (bool, error) {
	return !f.gone, nil
}

type testRun struct {
	Host *models.Host
	Env  map[string]string
	Args []string
}

type harness struct {
	launcher *launcher.Launcher
	fs       afero.Fs
	tool     *fakeTool
	ensurer  *fakeEnsurer
	agent    *fakeAgent
	runs     []testRun
	exitCode int
}

func newHarness(cfg *models.ClusterConfig, env utils.Env) *harness {
	fs := afero.NewMemMapFs()
	provider, err := launcher.NewProvider(cfg, env, fs, zap.NewNop())
	if err != nil {
		panic(err)
	}
	h := &harness{
		fs:      fs,
		tool:    &fakeTool{},
		ensurer: &fakeEnsurer{},
		agent:   &fakeAgent{},
	}
	h.launcher = &launcher.Launcher{
		Config:    cfg,
		Workspace: workspace.New(fs, cfg.InitDir),
		Provider:  provider,
		Installer: h.ensurer,
		NewTool:   func(string) terraform.Tool { return h.tool },
		Agent:     h.agent,
		RunTest: func(_ context.Context, host *models.Host, env map[string]string, args []string, _, _ io.Writer) (int, error) {
			h.runs = append(h.runs, testRun{Host: host, Env: env, Args: args})
			return h.exitCode, nil
		},
		FS:     fs,
		Env:    env,
		Logger: zap.NewNop(),
		Stdout: io.Discard,
		Stderr: io.Discard,
	}
	return h
}

func newConfig(platform models.Platform, keyHelper bool) *models.ClusterConfig {
	cfg := &models.ClusterConfig{Platform: platform, InitDir: "/launch/cluster-a", KeyHelper: keyHelper}
	if err := cfg.SetDefaults("/launch"); err != nil {
		panic(err)
	}
	return cfg
}
