// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/devhammad/atmos/internal/auth"
	"github.com/devhammad/atmos/internal/platform/apperr"
	"github.com/devhammad/atmos/internal/platform/constants"
	"github.com/devhammad/atmos/internal/platform/ctxutil"
	"github.com/devhammad/atmos/internal/platform/respond"
	"github.com/devhammad/atmos/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify session tokens.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the concrete
// [sec.TokenService], allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.SessionClaims, error)
}

// AccountSource loads the full account record for a verified token.
//
// Hydrating the account on every authenticated request means role changes
// take effect immediately instead of waiting for the token to expire.
type AccountSource interface {
	FindByID(ctx context.Context, id string) (*auth.User, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, verify the signature and expiry via [TokenVerifier].
//  4. Load the account behind the claims via [AccountSource].
//  5. Inject the [*auth.User] into the request context for downstream use.
//
// Every failure mode collapses into the same HTTP 401 response. The precise
// cause (expired, bad signature, deleted account) is only logged server-side.
func Authenticate(verifier TokenVerifier, accounts AccountSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.Verify(authHeader)
			if err != nil {
				logAuthFailure(request, err)
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 3. Account Hydration ──────────────────────────────────────────
			user, err := accounts.FindByID(request.Context(), claims.UserID)
			if err != nil {
				logAuthFailure(request, err)
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := auth.NewContext(request.Context(), user)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// logAuthFailure records why authentication was refused without leaking the
// reason to the client.
func logAuthFailure(request *http.Request, err error) {
	reason := "account_lookup_failed"
	switch {
	case errors.Is(err, sec.ErrTokenExpired):
		reason = "token_expired"
	case errors.Is(err, sec.ErrTokenSignature):
		reason = "token_signature_invalid"
	case errors.Is(err, sec.ErrTokenMalformed):
		reason = "token_malformed"
	}

	ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "authentication_rejected",
		slog.String("reason", reason),
		slog.String("ip", RealIP(request)),
	)
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if auth.FromContext(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated user doesn't hold the
// required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies [RequireAuth] so you don't need to mount both.
//
// # Flow
//  1. Check if an [*auth.User] exists in context (implies AuthN).
//  2. Check the user's role meets or exceeds the target via [auth.Role.AtLeast].
//  3. If insufficient, abort with HTTP 403 Forbidden.
func RequireRole(role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			user := auth.FromContext(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if user == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !user.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
