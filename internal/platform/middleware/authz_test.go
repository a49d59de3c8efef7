// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhammad/atmos/internal/auth"
	"github.com/devhammad/atmos/internal/platform/apperr"
	"github.com/devhammad/atmos/internal/platform/middleware"
	"github.com/devhammad/atmos/internal/platform/sec"
)

// stubVerifier maps raw header values to claims, mimicking the token service.
type stubVerifier struct {
	claims map[string]*sec.SessionClaims
	err    error
}

func (verifier *stubVerifier) Verify(tokenString string) (*sec.SessionClaims, error) {
	if verifier.err != nil {
		return nil, verifier.err
	}
	claims, ok := verifier.claims[tokenString]
	if !ok {
		return nil, sec.ErrTokenMalformed
	}
	return claims, nil
}

// stubAccounts serves accounts by ID.
type stubAccounts struct {
	users map[string]*auth.User
}

func (accounts *stubAccounts) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := accounts.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

// captureHandler records the user seen by the innermost handler.
func captureHandler(seen **auth.User) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*seen = auth.FromContext(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

/*
TestAuthenticate_AnonymousPassThrough checks that a request without an
Authorization header reaches the handler unauthenticated rather than being
rejected.
*/
func TestAuthenticate_AnonymousPassThrough(t *testing.T) {
	verifier := &stubVerifier{claims: map[string]*sec.SessionClaims{}}
	accounts := &stubAccounts{users: map[string]*auth.User{}}

	var seen *auth.User
	handler := middleware.Authenticate(verifier, accounts)(captureHandler(&seen))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, seen)
}

/*
TestAuthenticate_ValidToken verifies the full hydration path: the claims map
to an account and the account lands in the request context.
*/
func TestAuthenticate_ValidToken(t *testing.T) {
	claims := &sec.SessionClaims{UserID: "user-1", Role: string(auth.RoleAdmin)}
	verifier := &stubVerifier{claims: map[string]*sec.SessionClaims{"Bearer good": claims}}
	accounts := &stubAccounts{users: map[string]*auth.User{
		"user-1": {ID: "user-1", Role: auth.RoleAdmin},
	}}

	var seen *auth.User
	handler := middleware.Authenticate(verifier, accounts)(captureHandler(&seen))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer good")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.ID)
	assert.Equal(t, auth.RoleAdmin, seen.Role)
}

/*
TestAuthenticate_UniformRejection asserts that every failure mode produces
the same HTTP 401 body, so callers cannot distinguish an expired token from
a forged one or from a deleted account.
*/
func TestAuthenticate_UniformRejection(t *testing.T) {
	orphanClaims := &sec.SessionClaims{UserID: "ghost", Role: string(auth.RoleUser)}

	tests := []struct {
		name     string
		verifier *stubVerifier
		header   string
	}{
		{"expired_token", &stubVerifier{err: sec.ErrTokenExpired}, "Bearer expired"},
		{"bad_signature", &stubVerifier{err: sec.ErrTokenSignature}, "Bearer forged"},
		{"malformed_token", &stubVerifier{err: sec.ErrTokenMalformed}, "garbage"},
		{"deleted_account", &stubVerifier{claims: map[string]*sec.SessionClaims{"Bearer orphan": orphanClaims}}, "Bearer orphan"},
	}

	accounts := &stubAccounts{users: map[string]*auth.User{}}
	bodies := make(map[string]bool)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *auth.User
			handler := middleware.Authenticate(tt.verifier, accounts)(captureHandler(&seen))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set("Authorization", tt.header)

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Nil(t, seen, "handler must not run on rejection")
			bodies[recorder.Body.String()] = true
		})
	}

	assert.Len(t, bodies, 1, "all rejection responses must be byte-identical")
}

/*
TestRequireAuth covers the authenticated-only gate.
*/
func TestRequireAuth(t *testing.T) {
	var seen *auth.User
	handler := middleware.RequireAuth(captureHandler(&seen))

	// Anonymous request is blocked.
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// Authenticated request passes.
	user := &auth.User{ID: "user-2", Role: auth.RoleUser}
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(auth.NewContext(request.Context(), user))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "user-2", seen.ID)
}

/*
TestRequireRole exercises the role gate across the full matrix.
*/
func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		user       *auth.User
		required   auth.Role
		wantStatus int
	}{
		{"anonymous_blocked", nil, auth.RoleUser, http.StatusUnauthorized},
		{"user_meets_user", &auth.User{ID: "u", Role: auth.RoleUser}, auth.RoleUser, http.StatusOK},
		{"user_below_admin", &auth.User{ID: "u", Role: auth.RoleUser}, auth.RoleAdmin, http.StatusForbidden},
		{"admin_meets_admin", &auth.User{ID: "a", Role: auth.RoleAdmin}, auth.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *auth.User
			handler := middleware.RequireRole(tt.required)(captureHandler(&seen))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				request = request.WithContext(auth.NewContext(request.Context(), tt.user))
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)
			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}
