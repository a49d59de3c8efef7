// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

// Package auth implements the identity and access-control core of Atmos.
//
// # Architecture
//
// Entities in this file represent the "Truth" of the system. They have no
// dependencies on outer layers (databases, APIs) beyond context plumbing.
// This makes the core logic highly testable and resilient to technology changes.
package auth

import (
	"context"
	"time"

	"github.com/devhammad/atmos/internal/platform/ctxkey"
)

// Role represents the authorization level granted to an account.
//
// # Usage
//
// Used by [middleware.RequireRole] to enforce access control on API endpoints
// and by [User.CanAccess] for per-resource ownership decisions.
type Role string

const (
	RoleAdmin Role = "admin" // Unrestricted access, sees every record.
	RoleUser  Role = "user"  // Default role, restricted to own records.
)

// level maps a role to a numeric hierarchy level to easily check permissions.
func (r Role) level() int {
	switch r {
	case RoleAdmin:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}

// AtLeast checks if the current role meets or exceeds the required target role.
//
// # Why numeric mapping?
//
// Using numeric levels allows simple >= comparisons instead of nested
// IF/SWITCH statements if intermediate roles are ever introduced.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// User represents a registered account of the Atmos platform.
//
// # Rules
//   - Name is at least 5 characters.
//   - Email is unique (case-sensitive, matching historical behavior) and validated.
//   - PasswordHash is generated via bcrypt exclusively by the auth [Service].
//   - ResetToken/ResetTokenExpiry are present only between a password-reset
//     request and its single consumption.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Reset-token state, persisted on the account row. Never serialized.
	ResetToken       *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
}

// IsAdmin reports whether the account holds the elevated role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAccess is the ownership guard applied by every resource handler.
//
// It allows the action iff the account owns the resource or holds the admin
// role. Pure function: no I/O, no side effects.
func (u *User) CanAccess(ownerID string) bool {
	return u.ID == ownerID || u.IsAdmin()
}

// # Context Plumbing

// NewContext returns a new context with the authenticated account attached.
// Called by the authentication middleware only.
func NewContext(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, user)
}

// FromContext retrieves the authenticated [*User] from the context.
//
// # Returns
//   - The account attached by the authentication middleware.
//   - nil if the request is anonymous.
func FromContext(ctx context.Context) *User {
	user, ok := ctx.Value(ctxkey.KeyUser).(*User)
	if !ok {
		return nil
	}
	return user
}
