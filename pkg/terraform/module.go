// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package terraform

import (
	"fmt"

	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/models"
)

// ModuleRef returns the terraform-dcos module source for "terraform init -from-module".
func ModuleRef(cfg *models.ClusterConfig) string {
	repo := constants.TerraformDCOSRepo
	if cfg.Enterprise {
		repo = constants.TerraformDCOSEntRepo
	}
	return fmt.Sprintf("github.com/%s/%s?ref=%s/%s", constants.TerraformDCOSOrg, repo, cfg.ModuleVersion(), cfg.Platform)
}
