// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devhammad/atmos/internal/platform/apperr"
	"github.com/devhammad/atmos/internal/platform/respond"
	"github.com/devhammad/atmos/internal/platform/validate"
)

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the account lifecycle entry
// points (registration, login, password reset, profile). It contains NO
// business logic or database queries.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] with the public authentication endpoints.
//
// # Endpoints
//   - POST /register        : Creates a new account (no token issued).
//   - POST /login           : Authenticates and returns a session token.
//   - POST /forgot-password : Starts the reset flow (uniform response).
//   - POST /reset-password  : Consumes a reset token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	return router
}

// ProfileRoutes returns a [chi.Router] with the authenticated profile
// endpoints. The caller mounts it behind the RequireAuth middleware.
func (handler *Handler) ProfileRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/profile", handler.getProfile)
	router.Patch("/profile", handler.updateProfile)

	return router
}

// registerRequest represents the JSON payload expected for account creation.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// register handles POST /api/v1/auth/register requests.
//
// # Returns
//   - HTTP 201 Created on success with the account profile (no token: the
//     client logs in separately).
//   - HTTP 400 Bad Request if validation rules fail.
//   - HTTP 409 Conflict if the email is taken.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles POST /api/v1/auth/login requests.
//
// # Returns
//   - HTTP 200 OK with the session token and its expiry.
//   - HTTP 401 Unauthorized for bad credentials, without leaking whether the
//     email or the password was wrong.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Email == "" || input.Password == "" {
		respond.Error(writer, request, validate.RequiredError("email/password", "are required"))
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
	})
}

// forgotPasswordRequest represents the JSON payload for the reset request.
type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// forgotPassword handles POST /api/v1/auth/forgot-password requests.
//
// The response shape is identical whether or not the email exists, so the
// endpoint cannot be used to enumerate accounts.
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		"message": "If the email is registered, a reset token has been generated",
	})
}

// resetPasswordRequest represents the JSON payload for token consumption.
type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// resetPassword handles POST /api/v1/auth/reset-password requests.
//
// # Returns
//   - HTTP 200 OK when the password was rotated.
//   - HTTP 404 Not Found for an invalid or expired token (uniform).
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"message": "Password reset successfully"})
}

// getProfile handles GET /api/v1/users/profile requests.
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	current := FromContext(request.Context())
	if current == nil {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	user, err := handler.authService.Profile(request.Context(), current.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateProfileRequest enumerates exactly the mutable profile fields.
type updateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// updateProfile handles PATCH /api/v1/users/profile requests.
//
// Unknown payload keys are rejected outright: updates are allow-listed, not
// merged dynamically.
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	current := FromContext(request.Context())
	if current == nil {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()

	var input updateProfileRequest
	if err := decoder.Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.authService.UpdateProfile(request.Context(), current.ID, UpdateProfileInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
