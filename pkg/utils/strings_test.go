// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuoteIfSpaced(t *testing.T) {
	require.Equal(t, "plain", QuoteIfSpaced("plain"))
	require.Equal(t, "'two words'", QuoteIfSpaced("two words"))
}

func TestCleanupString(t *testing.T) {
	require.Equal(t, "10.0.0.1", CleanupString("  \"10.0.0.1\",\n"))
	require.Equal(t, "10.0.0.2", CleanupString("10.0.0.2"))
}
