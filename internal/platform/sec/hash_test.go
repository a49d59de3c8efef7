// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhammad/atmos/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies that a hashed password verifies against
its original plain text.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("secret123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, sec.CheckPasswordHash("secret123", hash))
	assert.False(t, sec.CheckPasswordHash("secret124", hash))
}

/*
TestHashPassword_SaltedPerCall verifies that two hashes of the same input
differ (random salt) but both verify.
*/
func TestHashPassword_SaltedPerCall(t *testing.T) {
	first, err := sec.HashPassword("secret123")
	require.NoError(t, err)

	second, err := sec.HashPassword("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, sec.CheckPasswordHash("secret123", first))
	assert.True(t, sec.CheckPasswordHash("secret123", second))
}

/*
TestCheckPasswordHash_MalformedHash verifies the comparison never panics or
errors on garbage input — it simply fails.
*/
func TestCheckPasswordHash_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not_bcrypt", "plaintext-leak"},
		{"truncated", "$2a$10$abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, sec.CheckPasswordHash("secret123", tt.hash))
		})
	}
}
