// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhammad/atmos/internal/platform/sec"
)

func newTestTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("unit-test-signing-secret", "atmos.test")
	require.NoError(t, err)
	return service
}

/*
TestTokenService_IssueVerify_RoundTrip verifies that an issued token carries
the embedded identity back through Verify.
*/
func TestTokenService_IssueVerify_RoundTrip(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.Issue("user-123", "admin", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "user-123", claims.Subject)
}

/*
TestTokenService_Verify_BearerPrefix verifies that exactly one scheme marker
is stripped before parsing.
*/
func TestTokenService_Verify_BearerPrefix(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.Issue("user-123", "user", time.Hour)
	require.NoError(t, err)

	// With prefix and surrounding whitespace.
	claims, err := service.Verify("  Bearer " + token + "  ")
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)

	// A doubled prefix must NOT verify: only one marker is stripped.
	_, err = service.Verify("Bearer Bearer " + token)
	assert.ErrorIs(t, err, sec.ErrTokenMalformed)
}

/*
TestTokenService_Verify_Expired verifies expiry classification. Verification
itself is idempotent and side-effect free, so the check is repeated.
*/
func TestTokenService_Verify_Expired(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.Issue("user-123", "user", -time.Minute)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = service.Verify(token)
		assert.ErrorIs(t, err, sec.ErrTokenExpired)
	}
}

/*
TestTokenService_Verify_BadSignature verifies that a token signed with a
different secret is rejected as a signature failure.
*/
func TestTokenService_Verify_BadSignature(t *testing.T) {
	service := newTestTokenService(t)

	other, err := sec.NewTokenService("a-completely-different-secret", "atmos.test")
	require.NoError(t, err)

	token, err := other.Issue("user-123", "user", time.Hour)
	require.NoError(t, err)

	_, err = service.Verify(token)
	assert.ErrorIs(t, err, sec.ErrTokenSignature)
}

/*
TestTokenService_Verify_Malformed verifies garbage input classification.
*/
func TestTokenService_Verify_Malformed(t *testing.T) {
	service := newTestTokenService(t)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"single_segment", "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Verify(tt.token)
			assert.ErrorIs(t, err, sec.ErrTokenMalformed)
		})
	}
}

/*
TestNewTokenService_EmptySecret verifies construction is refused without a
signing secret (startup-fatal condition, never a per-request failure).
*/
func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenService("", "atmos.test")
	assert.Error(t, err)
}

/*
TestStripBearer covers the scheme-marker stripping contract.
*/
func TestStripBearer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no_prefix", "abc.def.ghi", "abc.def.ghi"},
		{"with_prefix", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"surrounding_whitespace", "  Bearer abc.def.ghi  ", "abc.def.ghi"},
		{"only_one_stripped", "Bearer Bearer abc", "Bearer abc"},
		{"lowercase_scheme_kept", "bearer abc", "bearer abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sec.StripBearer(tt.input))
		})
	}
}
