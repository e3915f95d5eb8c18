// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// CheckTerraformVersion fails when version is older than minVersion. Both may omit the
// leading "v".
func CheckTerraformVersion(version, minVersion string) error {
	// Add 'v' prefix if missing
	if !strings.HasPrefix(minVersion, "v") {
		minVersion = "v" + minVersion
	}
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semver.IsValid(version) {
		return fmt.Errorf("unable to parse terraform version %q", version)
	}
	if semver.Compare(version, minVersion) < 0 {
		return fmt.Errorf("terraform version is required to be at least %s, current terraform version is %s", minVersion, version)
	}
	return nil
}
