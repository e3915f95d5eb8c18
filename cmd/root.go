// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"

	"github.com/dcos/dcos-launch/cmd/clustercmd"
	"github.com/dcos/dcos-launch/cmd/configcmd"
	"github.com/dcos/dcos-launch/pkg/application"
	"github.com/dcos/dcos-launch/pkg/cobrautils"
	"github.com/dcos/dcos-launch/pkg/config"
	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/ux"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	app *application.App

	logLevel     string
	settingsFile string
	infoPath     string

	Version = ""
)

func NewRootCmd() *cobra.Command {
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use: "dcos-launch",
		Long: `dcos-launch provisions DC/OS clusters on AWS, GCP and Azure with terraform.

Write a cluster config, then run dcos-launch create -c config.yaml. The other
commands find the cluster through the cluster info file written by create.`,
		PersistentPreRunE: createApp,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	settingsFlags := newSettingsFlagSet()
	rootCmd.PersistentFlags().AddFlagSet(settingsFlags)
	cobra.CheckErr(viper.BindPFlag(constants.ConfigLogLevelKey, settingsFlags.Lookup(constants.ConfigLogLevelKey)))
	cobra.CheckErr(viper.BindPFlag(constants.ConfigInfoPathKey, settingsFlags.Lookup(constants.ConfigInfoPathKey)))

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobrautils.ConfigureRootCmd(rootCmd)

	app = application.New()
	rootCmd.AddCommand(clustercmd.NewCmds(app)...)
	rootCmd.AddCommand(configcmd.NewCmd(app))
	return rootCmd
}

// newSettingsFlagSet holds the flags overriding the settings file.
func newSettingsFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("settings", pflag.ContinueOnError)
	fs.StringVar(&settingsFile, "settings", "", "settings file (default is $HOME/.dcos-launch/config.json)")
	fs.StringVar(&logLevel, constants.ConfigLogLevelKey, "", "log level for the application (default info)")
	fs.StringVarP(&infoPath, constants.ConfigInfoPathKey, "i", "", "cluster info file (default cluster_info.json)")
	return fs
}

func createApp(cmd *cobra.Command, _ []string) error {
	baseDir, err := setupEnv()
	if err != nil {
		return err
	}
	if settingsFile == "" {
		settingsFile = filepath.Join(baseDir, constants.ConfigFileName)
	}
	cf := config.New()
	// settings are read before the log file exists, so startup messages are dropped
	cf.SetConfig(zap.NewNop(), settingsFile)
	log, err := newLogger(filepath.Join(baseDir, constants.LogDir), cf.LogLevel())
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true
	// create the user facing logger as a global var
	ux.NewUserLog(log, os.Stdout)
	app.Setup(baseDir, log, cf)
	log.Info("command", zap.String("name", cmd.CommandPath()), zap.String("settings", settingsFile))
	return nil
}

func setupEnv() (string, error) {
	// Set base dir
	usr, err := user.Current()
	if err != nil {
		// no logger here yet
		fmt.Printf("unable to get system user %s\n", err)
		return "", err
	}
	baseDir := filepath.Join(usr.HomeDir, constants.BaseDirName)

	// Create base dir if it doesn't exist
	err = os.MkdirAll(baseDir, os.ModePerm)
	if err != nil {
		// no logger here yet
		fmt.Printf("failed creating the basedir %s: %s\n", baseDir, err)
		return "", err
	}
	return baseDir, nil
}

// newLogger writes JSON logs to a rotating file under logDir.
func newLogger(logDir, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level configured: %s", level)
	}
	if err := os.MkdirAll(logDir, constants.DefaultPerms755); err != nil {
		return nil, fmt.Errorf("failed creating log directory: %w", err)
	}
	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.LogFileName),
		MaxSize:    constants.MaxLogFileSize,
		MaxBackups: constants.MaxNumOfLogFiles,
		MaxAge:     constants.RetainOldFiles,
	})
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), writer, lvl)
	return zap.New(core, zap.AddCaller()), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	err := NewRootCmd().ExecuteContext(ctx)
	if app != nil && app.Log != nil {
		_ = app.Log.Sync()
	}
	cobrautils.HandleErrors(err)
}
