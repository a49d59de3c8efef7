// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces.
package sec

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Classified verification failures. Callers use these for server-side
// diagnostics only; the client-facing response is always uniform.
var (
	// ErrTokenMalformed indicates the token string could not be parsed at all.
	ErrTokenMalformed = errors.New("sec: token is malformed")

	// ErrTokenExpired indicates the token parsed but its expiry has passed.
	ErrTokenExpired = errors.New("sec: token is expired")

	// ErrTokenSignature indicates the signature does not match the signing key.
	ErrTokenSignature = errors.New("sec: token signature is invalid")
)

// SessionClaims represents the payload embedded inside a session token.
//
// # Why custom claims?
//
// The UserID and Role travel inside the JWT so validity can be proven by the
// signature alone, without a server-side session table. The authentication
// middleware still resolves the account afterwards so that tokens for deleted
// principals are rejected.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID string `json:"uid"`
	Role   string `json:"rol"`
}

// TokenService handles generation and verification of session tokens using HS256.
//
// The signing secret is process-wide configuration injected once at
// construction. It must never be logged.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService from the configured signing secret.
//
// An empty secret is a programming/configuration error and is rejected here so
// a misconfigured process fails at startup rather than per request.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: signing secret must not be empty")
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// Issue creates a new signed session token for an account.
func (service *TokenService) Issue(userID, role string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID: userID,
		Role:   role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity of a session token string.
//
// # Flow
//  1. Strip a single "Bearer " scheme prefix, if present.
//  2. Parse and verify the signature (HS256 only).
//  3. Classify failures as malformed / expired / bad-signature.
//
// Verification is a pure computation: no storage access, no side effects.
func (service *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	tokenString = StripBearer(tokenString)

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// StripBearer removes exactly one "Bearer " scheme marker from a credential
// string, trimming surrounding whitespace. A token without the marker is
// returned trimmed but otherwise untouched.
func StripBearer(raw string) string {
	raw = strings.TrimSpace(raw)
	if rest, found := strings.CutPrefix(raw, "Bearer "); found {
		return strings.TrimSpace(rest)
	}
	return raw
}

// classifyParseError maps golang-jwt parse failures onto the package's
// sentinel errors, preserving the original cause for logging.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrTokenSignature, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}
