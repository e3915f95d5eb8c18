// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package workspace

import (
	"fmt"
	"path/filepath"

	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/terraform"
	"github.com/spf13/afero"
)

// Workspace is the per-cluster terraform directory. Its existence marks the cluster as
// created or being created.
type Workspace struct {
	fs  afero.Fs
	dir string
}

func New(fs afero.Fs, dir string) *Workspace {
	return &Workspace{fs: fs, dir: filepath.Clean(dir)}
}

func (w *Workspace) Dir() string {
	return w.dir
}

// ToolRoot is the parent directory shared by every workspace, where terraform is installed.
func (w *Workspace) ToolRoot() string {
	return filepath.Dir(w.dir)
}

func (w *Workspace) VariablesPath() string {
	return filepath.Join(w.dir, constants.TerraformVarsFile)
}

func (w *Workspace) PrivateKeyPath() string {
	return filepath.Join(w.dir, constants.PrivateKeyFileName)
}

func (w *Workspace) PublicKeyPath() string {
	return filepath.Join(w.dir, constants.PublicKeyFileName)
}

func (w *Workspace) Exists() (bool, error) {
	return afero.DirExists(w.fs, w.dir)
}

// Prepare creates the workspace directory, failing if it is already present.
func (w *Workspace) Prepare() error {
	exists, err := afero.Exists(w.fs, w.dir)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s is already used by another cluster", constants.ErrClusterAlreadyExists, w.dir)
	}
	return w.fs.MkdirAll(w.dir, constants.DefaultPerms755)
}

// WritePrivateKey stores key material readable only by the owner and returns its path.
func (w *Workspace) WritePrivateKey(key []byte) (string, error) {
	path := w.PrivateKeyPath()
	if err := afero.WriteFile(w.fs, path, key, constants.UserOnlyWritePerms); err != nil {
		return "", err
	}
	// WriteFile keeps the mode of an existing file
	return path, w.fs.Chmod(path, constants.UserOnlyWritePerms)
}

func (w *Workspace) WritePublicKey(key []byte) (string, error) {
	path := w.PublicKeyPath()
	return path, afero.WriteFile(w.fs, path, key, constants.WriteReadReadPerms)
}

// WriteVariables renders vars into the tfvars file and returns its path.
func (w *Workspace) WriteVariables(vars map[string]any) (string, error) {
	data, err := terraform.RenderVariables(vars)
	if err != nil {
		return "", err
	}
	path := w.VariablesPath()
	return path, afero.WriteFile(w.fs, path, data, constants.WriteReadReadPerms)
}

func (w *Workspace) Remove() error {
	return w.fs.RemoveAll(w.dir)
}
