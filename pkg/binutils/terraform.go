// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package binutils

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/terraform"
	"github.com/dcos/dcos-launch/pkg/utils"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/mod/semver"
)

// VersionProbe runs "<binary> version" and returns its output.
type VersionProbe func(ctx context.Context, binary string) (string, error)

// TerraformInstaller makes sure a terraform binary is available under a tool root.
// Concurrent installs into the same root are not coordinated.
type TerraformInstaller struct {
	FS        afero.Fs
	Installer Installer
	Probe     VersionProbe
	Logger    *zap.Logger
}

func NewTerraformInstaller(installer Installer, env utils.Env, logger *zap.Logger) *TerraformInstaller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TerraformInstaller{
		FS:        afero.NewOsFs(),
		Installer: installer,
		Probe: func(ctx context.Context, binary string) (string, error) {
			return terraform.NewRunner(binary, env, logger).Version(ctx)
		},
		Logger: logger,
	}
}

// EnsureTerraform returns the terraform binary to use and its version. It prefers
// <toolRoot>/terraform, then terraform on PATH, and downloads tarballURL into toolRoot
// when neither answers.
func (ti *TerraformInstaller) EnsureTerraform(ctx context.Context, toolRoot, tarballURL string) (string, string, error) {
	local := filepath.Join(toolRoot, constants.Terraform)
	for _, binary := range []string{local, constants.Terraform} {
		if out, err := ti.Probe(ctx, binary); err == nil {
			return binary, ti.parseVersion(out), nil
		}
	}
	ti.Logger.Info("no terraform installation detected, installing", zap.String("url", tarballURL), zap.String("root", toolRoot))
	if err := ti.install(ctx, toolRoot, tarballURL); err != nil {
		return "", "", fmt.Errorf("failed installing terraform: %w", err)
	}
	out, err := ti.Probe(ctx, local)
	if err != nil {
		return "", "", fmt.Errorf("installed terraform does not run: %w", err)
	}
	ti.Logger.Info("terraform installation complete", zap.String("binary", local))
	return local, ti.parseVersion(out), nil
}

func (ti *TerraformInstaller) install(ctx context.Context, toolRoot, tarballURL string) error {
	if err := ti.FS.MkdirAll(toolRoot, constants.DefaultPerms755); err != nil {
		return err
	}
	archivePath := filepath.Join(toolRoot, constants.TerraformArchiveName)
	defer func() {
		if err := ti.FS.Remove(archivePath); err != nil {
			ti.Logger.Debug("failed removing terraform archive", zap.Error(err))
		}
	}()
	archive, err := ti.FS.Create(archivePath)
	if err != nil {
		return err
	}
	if err := ti.Installer.DownloadRelease(ctx, tarballURL, archive); err != nil {
		_ = archive.Close()
		return err
	}
	if err := archive.Close(); err != nil {
		return err
	}
	if err := extractZipArchive(ti.FS, archivePath, toolRoot); err != nil {
		return err
	}
	return ti.FS.Chmod(filepath.Join(toolRoot, constants.Terraform), constants.UserOnlyExecPerms)
}

// parseVersion extracts "vX.Y.Z" from "Terraform vX.Y.Z" output. Unparseable output is logged and returned trimmed.
func (ti *TerraformInstaller) parseVersion(out string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	version := strings.TrimSpace(strings.TrimPrefix(line, constants.TerraformVersionPrefix))
	if !semver.IsValid(version) {
		ti.Logger.Warn("unrecognized terraform version output", zap.String("output", line))
		return version
	}
	return semver.Canonical(version)
}
