// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/devhammad/atmos/internal/platform/apperr"
)

// Wrap inspects a database error and maps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the
// error type.
//
// # Parameters
//   - err: The raw pgx error.
//   - resource: Client-facing resource name used for NOT_FOUND messages.
//   - conflictMessage: Client-facing message for unique-constraint violations.
func Wrap(err error, resource, conflictMessage string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// Unique-constraint violations (SQLSTATE 23505) surface as client-safe
	// conflicts. The store relies on the index itself for atomicity: two
	// concurrent inserts of the same email cannot both succeed.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return apperr.Conflict(conflictMessage)
	}

	return apperr.Internal(err)
}
