// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

package weather

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devhammad/atmos/internal/auth"
	"github.com/devhammad/atmos/internal/platform/apperr"
	"github.com/devhammad/atmos/internal/platform/validate"
	"github.com/devhammad/atmos/pkg/pagination"
	"github.com/devhammad/atmos/pkg/uuidv7"
)

// currentCacheTTL bounds how stale the current-conditions endpoint may be.
const currentCacheTTL = 5 * time.Minute

// Service implements the weather domain business rules.
//
// # Responsibilities
//
//   - Validation of observation payloads before any storage work.
//   - Ownership enforcement: who may read, change, or delete a reading.
//   - The read-through cache for current conditions.
//
// Persistence and caching are reached only through the [Repository] and
// [LatestCache] interfaces.
type Service struct {
	repository Repository
	cache      LatestCache
	logger     *slog.Logger
}

// NewService constructs a new weather [Service] with necessary dependencies.
func NewService(repository Repository, cache LatestCache, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		cache:      cache,
		logger:     logger,
	}
}

// RecordInput carries the fields for a new observation.
type RecordInput struct {
	City        string
	Temperature float64
	Condition   string
	RecordedAt  time.Time
}

// validateReading applies the shared field rules for create and update.
func validateReading(city, condition string) *validate.Validator {
	v := &validate.Validator{}
	v.Required("city", city).MaxLen("city", city, MaxCityLength)
	v.Required("condition", condition).MaxLen("condition", condition, MaxConditionLength)
	return v
}

// Record validates and persists a new observation owned by the actor.
//
// A zero RecordedAt defaults to the moment of recording, so clients that
// report live readings can omit the field.
func (service *Service) Record(ctx context.Context, actor *auth.User, input RecordInput) (*Observation, error) {
	if err := validateReading(input.City, input.Condition).Err(); err != nil {
		return nil, err
	}

	if input.RecordedAt.IsZero() {
		input.RecordedAt = time.Now()
	}

	observation := &Observation{
		ID:          uuidv7.New(),
		City:        input.City,
		Temperature: input.Temperature,
		Condition:   input.Condition,
		RecordedAt:  input.RecordedAt,
		OwnerID:     actor.ID,
	}

	if err := service.repository.Create(ctx, observation); err != nil {
		return nil, fmt.Errorf("weather_service_create_failed: %w", err)
	}

	service.invalidateCache(ctx, observation)

	service.logger.Info("observation_recorded",
		slog.String("observation_id", observation.ID),
		slog.String("user_id", actor.ID),
	)
	return observation, nil
}

// Get returns a single observation if the actor may see it.
//
// A malformed ID fails validation before any storage work, and is therefore
// distinguishable from a well-formed ID that matches nothing.
func (service *Service) Get(ctx context.Context, actor *auth.User, id string) (*Observation, error) {
	v := &validate.Validator{}
	if err := v.UUID("id", id).Err(); err != nil {
		return nil, err
	}

	observation, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanAccess(observation.OwnerID) {
		return nil, apperr.Forbidden("You do not have access to this observation")
	}

	return observation, nil
}

// UpdateInput carries the mutable observation fields. Nil means "leave as is".
type UpdateInput struct {
	City        *string
	Temperature *float64
	Condition   *string
	RecordedAt  *time.Time
}

// Update applies a partial update to an observation the actor controls.
func (service *Service) Update(ctx context.Context, actor *auth.User, id string, input UpdateInput) (*Observation, error) {
	observation, err := service.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	previousCity := observation.City

	if input.City != nil {
		observation.City = *input.City
	}
	if input.Temperature != nil {
		observation.Temperature = *input.Temperature
	}
	if input.Condition != nil {
		observation.Condition = *input.Condition
	}
	if input.RecordedAt != nil {
		observation.RecordedAt = *input.RecordedAt
	}

	if err := validateReading(observation.City, observation.Condition).Err(); err != nil {
		return nil, err
	}

	if err := service.repository.Update(ctx, observation); err != nil {
		return nil, fmt.Errorf("weather_service_update_failed: %w", err)
	}

	service.invalidateCache(ctx, observation)
	if previousCity != observation.City {
		// The reading moved cities; the old city's cache entry is stale too.
		ghost := *observation
		ghost.City = previousCity
		service.invalidateCache(ctx, &ghost)
	}

	service.logger.Info("observation_updated",
		slog.String("observation_id", observation.ID),
		slog.String("user_id", actor.ID),
	)
	return observation, nil
}

// Delete removes an observation the actor controls.
func (service *Service) Delete(ctx context.Context, actor *auth.User, id string) error {
	observation, err := service.Get(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := service.repository.Delete(ctx, observation.ID); err != nil {
		return fmt.Errorf("weather_service_delete_failed: %w", err)
	}

	service.invalidateCache(ctx, observation)

	service.logger.Info("observation_deleted",
		slog.String("observation_id", observation.ID),
		slog.String("user_id", actor.ID),
	)
	return nil
}

// List returns a page of observations visible to the actor.
//
// Regular accounts are pinned to their own readings regardless of the filter
// they send. Admins see everything and may narrow by owner.
func (service *Service) List(ctx context.Context, actor *auth.User, filter Filter, params pagination.Params) ([]*Observation, pagination.Meta, error) {
	if !actor.IsAdmin() {
		filter.OwnerID = actor.ID
	}

	observations, total, err := service.repository.List(ctx, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("weather_service_list_failed: %w", err)
	}

	return observations, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// Current returns the most recent reading for a city, serving from the cache
// when possible.
//
// The answer is owner-scoped for regular accounts and global for admins,
// mirroring the visibility rules of List.
func (service *Service) Current(ctx context.Context, actor *auth.User, city string) (*Observation, error) {
	v := &validate.Validator{}
	if err := v.Required("city", city).MaxLen("city", city, MaxCityLength).Err(); err != nil {
		return nil, err
	}

	ownerScope := actor.ID
	if actor.IsAdmin() {
		ownerScope = ""
	}

	if cached, err := service.cache.GetLatest(ctx, city, ownerScope); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		// The cache is an accelerator, not a dependency.
		service.logger.Warn("latest_cache_read_failed", slog.String("error", err.Error()))
	}

	observation, err := service.repository.LatestByCity(ctx, city, ownerScope)
	if err != nil {
		return nil, err
	}

	if err := service.cache.SetLatest(ctx, city, ownerScope, observation, currentCacheTTL); err != nil {
		service.logger.Warn("latest_cache_write_failed", slog.String("error", err.Error()))
	}

	return observation, nil
}

// invalidateCache drops cache entries made stale by a write. Failures are
// logged and swallowed.
func (service *Service) invalidateCache(ctx context.Context, observation *Observation) {
	if err := service.cache.Invalidate(ctx, observation.City, observation.OwnerID); err != nil {
		service.logger.Warn("latest_cache_invalidate_failed", slog.String("error", err.Error()))
	}
}
