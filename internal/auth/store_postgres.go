// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devhammad/atmos/internal/platform/database/schema"
	"github.com/devhammad/atmos/internal/platform/dberr"
)

const duplicateEmailMessage = "Email is already registered"

// errNoRowsUpdated reuses pgx.ErrNoRows so dberr maps a zero-row UPDATE to NOT_FOUND.
var errNoRowsUpdated = pgx.ErrNoRows

// PostgresUserRepository implements the UserRepository interface using pgx.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, unique violations) are mapped to
// domain-friendly [apperr.AppError] values via the dberr package, so no
// storage detail leaks past this file.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// accountColumns is the canonical SELECT list for users.account scans. Its
// order must match scanAccount.
var accountColumns = strings.Join(schema.UsersAccount.Columns(), ", ")

// scanner matches both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.ResetToken,
		&user.ResetTokenExpiry,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create persists a new account record into the users.account table.
//
// The unique index on email is the authoritative duplicate check: a violation
// surfaces as [apperr.Conflict] even when two registrations race.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, name, email, passwordhash, role, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return dberr.Wrap(err, "Account", duplicateEmailMessage)
}

// FindByEmail retrieves an account record by its unique email address.
//
// The comparison is case-sensitive, matching historical platform behavior.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE email = $1`

	user, err := scanAccount(repository.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "Account", duplicateEmailMessage)
	}

	return user, nil
}

// FindByID retrieves an account record by its unique ID.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE id = $1`

	user, err := scanAccount(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Account", duplicateEmailMessage)
	}

	return user, nil
}

// Update persists the recognized mutable fields of an account.
//
// Only {name, email, passwordhash, role} are writable; everything else on the
// row is owned by other operations. Email uniqueness is re-enforced by the
// same index that guards Create.
func (repository *PostgresUserRepository) Update(ctx context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET name = $2, email = $3, passwordhash = $4, role = $5, updatedat = $6
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Account", duplicateEmailMessage)
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(errNoRowsUpdated, "Account", duplicateEmailMessage)
	}

	return nil
}

// SetResetToken stores a reset token and expiry on the account row.
func (repository *PostgresUserRepository) SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	const query = `
		UPDATE users.account
		SET resettoken = $2, resettokenexpiry = $3, updatedat = $4
		WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, userID, token, expiresAt, time.Now())
	if err != nil {
		return dberr.Wrap(err, "Account", duplicateEmailMessage)
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(errNoRowsUpdated, "Account", duplicateEmailMessage)
	}

	return nil
}

// ConsumeResetToken swaps the password hash and clears the reset token in a
// single UPDATE, making the token single-use even under concurrent calls:
// the row predicate can only match once.
//
// Wrong token and expired token both fall through to [apperr.NotFound] —
// callers cannot distinguish the two.
func (repository *PostgresUserRepository) ConsumeResetToken(ctx context.Context, token, newPasswordHash string) (*User, error) {
	query := `
		UPDATE users.account
		SET passwordhash = $2, resettoken = NULL, resettokenexpiry = NULL, updatedat = NOW()
		WHERE resettoken = $1 AND resettokenexpiry > NOW()
		RETURNING ` + accountColumns

	user, err := scanAccount(repository.pool.QueryRow(ctx, query, token, newPasswordHash))
	if err != nil {
		return nil, dberr.Wrap(err, "Reset token", duplicateEmailMessage)
	}

	return user, nil
}
