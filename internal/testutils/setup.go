// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"io"
	"testing"

	"github.com/dcos/dcos-launch/pkg/application"
	"github.com/dcos/dcos-launch/pkg/config"
	"github.com/dcos/dcos-launch/pkg/ux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func SetupTest(t *testing.T) *require.Assertions {
	// use io.Discard to not print anything
	ux.NewUserLog(zap.NewNop(), io.Discard)
	return require.New(t)
}

func SetupTestInTempDir(t *testing.T) *application.App {
	testDir := t.TempDir()
	ux.NewUserLog(zap.NewNop(), io.Discard)
	app := application.New()
	app.Setup(testDir, zap.NewNop(), config.New())
	return app
}
