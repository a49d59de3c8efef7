// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

package weather

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/devhammad/atmos/internal/auth"
	"github.com/devhammad/atmos/internal/platform/apperr"
	"github.com/devhammad/atmos/internal/platform/respond"
	"github.com/devhammad/atmos/internal/platform/validate"
	"github.com/devhammad/atmos/pkg/pagination"
)

// Handler implements the observation HTTP endpoints.
type Handler struct {
	weatherService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{weatherService: service}
}

// Routes returns a [chi.Router] with the observation endpoints.
//
// The caller mounts it behind the RequireAuth middleware; every endpoint
// assumes an authenticated account in the request context.
//
// # Endpoints
//   - GET    /         : Lists the caller's observations (paginated).
//   - POST   /         : Records a new observation.
//   - GET    /current  : Latest reading for a city (?city=).
//   - GET    /{id}     : Fetches a single observation.
//   - PATCH  /{id}     : Partially updates an observation.
//   - DELETE /{id}     : Removes an observation.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.record)
	router.Get("/current", handler.current)
	router.Get("/{id}", handler.get)
	router.Patch("/{id}", handler.update)
	router.Delete("/{id}", handler.remove)

	return router
}

// actor pulls the authenticated account out of the context. The auth
// middleware guarantees it exists on these routes; the nil check guards
// against misconfigured mounts.
func actor(request *http.Request) (*auth.User, error) {
	user := auth.FromContext(request.Context())
	if user == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return user, nil
}

// recordRequest represents the JSON payload for a new observation.
type recordRequest struct {
	City        string     `json:"city"`
	Temperature *float64   `json:"temperature"`
	Condition   string     `json:"condition"`
	RecordedAt  *time.Time `json:"recorded_at"`
}

// record handles POST /api/v1/weather requests.
func (handler *Handler) record(writer http.ResponseWriter, request *http.Request) {
	user, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input recordRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Temperature == nil {
		respond.Error(writer, request, validate.RequiredError("temperature", "is required"))
		return
	}

	recordInput := RecordInput{
		City:        input.City,
		Temperature: *input.Temperature,
		Condition:   input.Condition,
	}
	if input.RecordedAt != nil {
		recordInput.RecordedAt = *input.RecordedAt
	}

	observation, err := handler.weatherService.Record(request.Context(), user, recordInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, observation)
}

// list handles GET /api/v1/weather requests.
//
// Supported query parameters: city, owner_id (admin only), page, limit.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	user, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := Filter{
		City:    request.URL.Query().Get("city"),
		OwnerID: request.URL.Query().Get("owner_id"),
	}
	params := pagination.FromRequest(request)

	observations, meta, err := handler.weatherService.List(request.Context(), user, filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, observations, meta)
}

// current handles GET /api/v1/weather/current requests.
func (handler *Handler) current(writer http.ResponseWriter, request *http.Request) {
	user, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	city := request.URL.Query().Get("city")

	observation, err := handler.weatherService.Current(request.Context(), user, city)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, observation)
}

// get handles GET /api/v1/weather/{id} requests.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	user, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	observation, err := handler.weatherService.Get(request.Context(), user, chi.URLParam(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, observation)
}

// updateRequest represents the JSON payload for a partial observation update.
type updateRequest struct {
	City        *string    `json:"city"`
	Temperature *float64   `json:"temperature"`
	Condition   *string    `json:"condition"`
	RecordedAt  *time.Time `json:"recorded_at"`
}

// update handles PATCH /api/v1/weather/{id} requests.
//
// Unknown payload keys are rejected outright; updates are allow-listed.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	user, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()

	var input updateRequest
	if err := decoder.Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	observation, err := handler.weatherService.Update(request.Context(), user, chi.URLParam(request, "id"), UpdateInput{
		City:        input.City,
		Temperature: input.Temperature,
		Condition:   input.Condition,
		RecordedAt:  input.RecordedAt,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, observation)
}

// remove handles DELETE /api/v1/weather/{id} requests.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	user, err := actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.weatherService.Delete(request.Context(), user, chi.URLParam(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
