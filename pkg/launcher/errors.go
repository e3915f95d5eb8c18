// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package launcher

import (
	"errors"

	"github.com/dcos/dcos-launch/pkg/constants"
)

var (
	ErrClusterAlreadyExists = constants.ErrClusterAlreadyExists
	ErrMissingInput         = constants.ErrMissingInput
	ErrNoMasters            = errors.New("cluster has no master with a public ip")
)
