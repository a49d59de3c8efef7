// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

package auth

import "time"

// # Authentication Constraints

const (
	// SessionTokenTTL is the duration a session token remains valid.
	// There is no refresh mechanism: after an hour the client logs in again.
	SessionTokenTTL = 1 * time.Hour

	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (1 hour) for security.
	ResetTokenTTL = 1 * time.Hour

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 20

	// MinNameLength is the minimum account display-name length.
	MinNameLength = 5

	// MinPasswordLength is the minimum password length.
	MinPasswordLength = 6
)
