// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

package weather

import (
	"context"
	"time"
)

// Repository defines the data access contract for the weather domain.
//
// # Architecture
//
// The interface lives in the domain package because the service layer (the
// consumer) defines what it needs. The Postgres implementation lives next to
// it in store_postgres.go.
type Repository interface {
	// List returns a filtered, paginated slice of observations and the total count.
	//
	// Filtering happens inside the SQL query, never in application memory, so
	// an account's listing cost scales with its own data and not the table.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Observation, int, error)

	// FindByID returns the observation with the given ID.
	//
	// It returns a not-found error if the observation is absent. Ownership is
	// NOT checked here; the service layer decides who may see the row.
	FindByID(ctx context.Context, id string) (*Observation, error)

	// Create persists a new observation.
	//
	// The caller is responsible for generating and setting the ID before
	// calling this method.
	Create(ctx context.Context, observation *Observation) error

	// Update persists changes to an existing observation's mutable fields.
	Update(ctx context.Context, observation *Observation) error

	// Delete removes an observation permanently.
	Delete(ctx context.Context, id string) error

	// LatestByCity returns the most recent observation for a city, scoped to
	// an owner when ownerID is non-empty.
	LatestByCity(ctx context.Context, city, ownerID string) (*Observation, error)
}

// LatestCache caches the most recent observation per city so the current
// conditions endpoint does not hit Postgres on every read.
//
// A cache failure is never fatal: implementations return misses as
// (nil, nil) and callers fall through to the repository.
type LatestCache interface {
	// GetLatest returns the cached observation for the city, or nil on a miss.
	GetLatest(ctx context.Context, city, ownerID string) (*Observation, error)

	// SetLatest stores the observation under the city/scope key with a TTL.
	// An empty ownerID writes the global entry.
	SetLatest(ctx context.Context, city, ownerID string, observation *Observation, ttl time.Duration) error

	// Invalidate drops the cached entry for a city after a write.
	Invalidate(ctx context.Context, city, ownerID string) error
}
