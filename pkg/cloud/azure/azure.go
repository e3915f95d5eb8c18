// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package azure

import (
	"fmt"
	"strings"

	"github.com/dcos/dcos-launch/pkg/constants"
	"github.com/dcos/dcos-launch/pkg/utils"
)

// RequiredEnv lists the service principal variables the azurerm terraform provider reads.
var RequiredEnv = []string{
	constants.AzureSubscriptionIDVar,
	constants.AzureClientIDVar,
	constants.AzureClientSecretVar,
	constants.AzureTenantIDVar,
}

// ValidateEnv fails with ErrMissingInput naming every unset ARM variable.
func ValidateEnv(env utils.Env) error {
	missing := utils.Filter(RequiredEnv, func(key string) bool {
		return env.Get(key) == ""
	})
	if len(missing) > 0 {
		return fmt.Errorf("%w: azure requires %s to be set", constants.ErrMissingInput, strings.Join(missing, ", "))
	}
	return nil
}

// Location returns the region from AZURE_LOCATION, if set.
func Location(env utils.Env) string {
	return env.Get(constants.AzureLocationEnvVar)
}
