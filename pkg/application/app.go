// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dcos/dcos-launch/pkg/config"
	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/models"
	"github.com/dcos/dcos-launch/pkg/prompts"
	"github.com/dcos/dcos-launch/pkg/utils"
	"go.uber.org/zap"
)

var ErrNoClusterInfo = errors.New("no cluster info found, run create first or pass --info-path")

type App struct {
	Log     *zap.Logger
	baseDir string
	Conf    *config.Config
	Prompt  prompts.Prompter
	Env     utils.Env
}

func New() *App {
	return &App{}
}

func (app *App) Setup(baseDir string, log *zap.Logger, conf *config.Config) {
	app.baseDir = baseDir
	app.Log = log
	app.Conf = conf
	app.Prompt = prompts.NewPrompter()
	app.Env = utils.EnvFromOS()
}

func (app *App) GetBaseDir() string {
	return app.baseDir
}

func (app *App) GetLogDir() string {
	return filepath.Join(app.baseDir, constants.LogDir)
}

func (app *App) GetSettingsPath() string {
	return filepath.Join(app.baseDir, constants.ConfigFileName)
}

// GetInfoPath returns the cluster info file. Relative settings resolve against the working directory.
func (app *App) GetInfoPath() string {
	path := constants.DefaultClusterInfoPath
	if app.Conf != nil && app.Conf.InfoPath() != "" {
		path = app.Conf.InfoPath()
	}
	if abs, err := utils.AbsPath(path); err == nil {
		return abs
	}
	return path
}

// LoadClusterConfig reads a cluster config file. The terraform mirror setting replaces
// the download URL only when the file left it at the default.
func (app *App) LoadClusterConfig(path string) (*models.ClusterConfig, error) {
	cfg, err := models.LoadClusterConfig(utils.ExpandHome(path))
	if err != nil {
		return nil, err
	}
	if app.Conf != nil && app.Conf.TerraformTarballURL() != "" && cfg.TerraformTarballURL == models.DefaultTerraformURL() {
		cfg.TerraformTarballURL = app.Conf.TerraformTarballURL()
	}
	return cfg, nil
}

func (app *App) ClusterInfoExists() bool {
	return utils.FileExists(app.GetInfoPath())
}

func (app *App) WriteClusterInfo(cfg *models.ClusterConfig) error {
	path := app.GetInfoPath()
	if err := os.MkdirAll(filepath.Dir(path), constants.DefaultPerms755); err != nil {
		return err
	}
	return models.WriteClusterInfo(path, cfg)
}

func (app *App) LoadClusterInfo() (*models.ClusterConfig, error) {
	if !app.ClusterInfoExists() {
		return nil, fmt.Errorf("%w: %s", ErrNoClusterInfo, app.GetInfoPath())
	}
	return models.LoadClusterInfo(app.GetInfoPath())
}

func (app *App) RemoveClusterInfo() error {
	err := os.Remove(app.GetInfoPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
