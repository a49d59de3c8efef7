// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

package sec_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhammad/atmos/internal/platform/sec"
)

/*
TestGenerateSecureToken verifies entropy length, encoding, and per-call
uniqueness of reset tokens.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(20)
	require.NoError(t, err)

	// 20 bytes of entropy hex-encode to 40 characters.
	assert.Len(t, first, 40)
	_, err = hex.DecodeString(first)
	assert.NoError(t, err)

	second, err := sec.GenerateSecureToken(20)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
