// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devhammad/atmos/internal/platform/apperr"
	"github.com/devhammad/atmos/internal/platform/sec"
	"github.com/devhammad/atmos/internal/platform/validate"
	"github.com/devhammad/atmos/pkg/uuidv7"
)

// TokenIssuer defines the contract for generating session tokens.
//
// # Why an interface?
//
// Decoupling the service from the concrete [sec.TokenService] lets tests
// inject a deterministic issuer.
type TokenIssuer interface {
	// Issue creates a signed session token embedding the account identity.
	Issue(userID, role string, timeToLive time.Duration) (string, error)
}

// Service implements account authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// login, or reset logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenIssuer    TokenIssuer
	logger         *slog.Logger
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(userRepo UserRepository, issuer TokenIssuer, logger *slog.Logger) *Service {
	return &Service{
		userRepository: userRepo,
		tokenIssuer:    issuer,
		logger:         logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register validates, hashes, and persists a brand new account.
//
// # Business Rules
//   - Name is at least 5 characters.
//   - Email must be syntactically valid and unique.
//   - Password is at least 6 characters, letters and digits only.
//   - Default role is always 'user'. Admins are seeded out-of-band; no
//     endpoint elevates a role.
//
// # Returns
//   - The newly created [*User] (hash never serialized).
//   - [apperr.ValidationError] on rule failures, [apperr.Conflict] on a
//     duplicate email — the store's uniqueness guarantee holds even when two
//     registrations race.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	validator := &validate.Validator{}
	validator.
		Required("name", input.Name).
		MinLen("name", input.Name, MinNameLength).
		Email("email", input.Email).
		MinLen("password", input.Password, MinPasswordLength).
		Alphanumeric("password", input.Password)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuidv7.New(), // Time-sortable ID to prevent PG index fragmentation.
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         RoleUser, // Rule: default role is always user
	}

	// The store owns email uniqueness; a duplicate comes back as Conflict.
	if err := service.userRepository.Create(ctx, user); err != nil {
		return nil, err
	}

	service.logger.Info("account_registered", slog.String("user_id", user.ID))
	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the issued session token back to the transport layer.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// Login validates account credentials and issues a session token.
//
// # Flow
//  1. Look up the account by email.
//  2. Verify the password hash using bcrypt.
//  3. Issue a signed session token valid for [SessionTokenTTL].
//
// Unknown email and wrong password produce the same generic Unauthorized
// error to prevent account enumeration.
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := service.userRepository.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// bcrypt performs the comparison in constant time.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	token, err := service.tokenIssuer.Issue(user.ID, string(user.Role), SessionTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: time.Now().Add(SessionTokenTTL),
		User:      user,
	}, nil
}

// # Profile Management

// Profile returns the account for an authenticated user ID.
func (service *Service) Profile(ctx context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(ctx, userID)
}

// UpdateProfileInput enumerates exactly the mutable profile fields.
//
// Nil means "leave unchanged". Unknown payload keys are rejected at the
// transport boundary before this struct is ever populated.
type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UpdateProfile applies a partial, allow-listed update to the caller's own
// account. Every supplied field is re-validated with registration-grade
// rules; a supplied password is re-hashed before storage.
func (service *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*User, error) {
	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required("name", *input.Name).MinLen("name", *input.Name, MinNameLength)
	}
	if input.Email != nil {
		validator.Email("email", *input.Email)
	}
	if input.Password != nil {
		validator.MinLen("password", *input.Password, MinPasswordLength).
			Alphanumeric("password", *input.Password)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Password != nil {
		hashedPassword, err := sec.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("auth_service_update_hash_failed: %w", err)
		}
		user.PasswordHash = hashedPassword
	}

	// Email uniqueness is re-checked by the store on every mutation, not
	// only on creation.
	if err := service.userRepository.Update(ctx, user); err != nil {
		return nil, err
	}

	service.logger.Info("profile_updated", slog.String("user_id", user.ID))
	return user, nil
}

// # Password Recovery

// RequestPasswordReset initiates the forgot-password flow.
//
// The response is uniform whether or not the email exists — an unknown email
// is NOT an error, to prevent account enumeration. Delivery of the token is
// out of scope; it is written to the server log only.
func (service *Service) RequestPasswordReset(ctx context.Context, email string) error {
	validator := &validate.Validator{}
	if err := validator.Email("email", email).Err(); err != nil {
		return err
	}

	user, err := service.userRepository.FindByEmail(ctx, email)
	if err != nil {
		// Swallow the miss: the caller sees the same success-shaped response.
		return nil
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	expiresAt := time.Now().Add(ResetTokenTTL)
	if err := service.userRepository.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	// No email delivery exists yet; the log is the delivery channel.
	service.logger.Info("reset_token_generated",
		slog.String("user_id", user.ID),
		slog.String("token", token),
	)

	return nil
}

// ResetPassword completes the forgot-password flow.
//
// The store consumes the token and swaps the password hash in one atomic
// operation, so a token is accepted exactly once. Wrong and expired tokens
// produce the same NotFound error.
func (service *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	validator := &validate.Validator{}
	validator.
		Required("token", token).
		MinLen("password", newPassword, MinPasswordLength).
		Alphanumeric("password", newPassword)

	if err := validator.Err(); err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_hash_failed: %w", err)
	}

	user, err := service.userRepository.ConsumeResetToken(ctx, token, hashedPassword)
	if err != nil {
		return err
	}

	service.logger.Info("password_reset_completed", slog.String("user_id", user.ID))
	return nil
}
