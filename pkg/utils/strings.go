// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import (
	"strings"
)

// QuoteIfSpaced wraps the value in single quotes when it contains a space.
func QuoteIfSpaced(s string) string {
	if strings.Contains(s, " ") {
		return "'" + s + "'"
	}
	return s
}

// CleanupString trims surrounding whitespace, quotes and trailing commas from a terraform list item.
func CleanupString(s string) string {
	return strings.Trim(strings.TrimSpace(s), `",`)
}
