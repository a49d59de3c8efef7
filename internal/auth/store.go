// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

package auth

import (
	"context"
	"time"
)

// UserRepository defines the data access contract for user accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently by the team.
//
// # Implementations
//
// The canonical implementation for Atmos is PostgreSQL (store_postgres.go).
// Tests use an in-memory fake with the same concurrency guarantees.
type UserRepository interface {
	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email (case-sensitive).
	//
	// Returns [apperr.NotFound] if no account is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a brand-new account to storage.
	//
	// Email uniqueness is enforced by the store itself, so two concurrent
	// registrations with the same email cannot both succeed. Returns
	// [apperr.Conflict] on a duplicate.
	Create(ctx context.Context, user *User) error

	// Update persists the recognized mutable fields (Name, Email,
	// PasswordHash, Role). Email uniqueness is re-checked on every mutation.
	//
	// Returns [apperr.Conflict] if the new email is taken, or
	// [apperr.NotFound] if the account no longer exists.
	Update(ctx context.Context, user *User) error

	// SetResetToken stores a reset token and its expiry on the account row,
	// replacing any previous token.
	SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error

	// ConsumeResetToken atomically finds the account whose reset token equals
	// token AND whose expiry is still in the future, swaps in the new
	// password hash, and clears the token — all in one operation, so the
	// token is single-use even under concurrent calls.
	//
	// Returns [apperr.NotFound] whether the token is wrong or expired; the
	// two cases are deliberately indistinguishable to the caller.
	ConsumeResetToken(ctx context.Context, token, newPasswordHash string) (*User, error)
}
