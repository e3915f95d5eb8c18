// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "errors"

var (
	ErrClusterAlreadyExists = errors.New("either the cluster you are trying to create is already running or the init_dir you specified in your config is already used by another active cluster")
	ErrMissingInput         = errors.New("missing input")
)
