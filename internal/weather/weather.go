// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

/*
Package weather implements the observation recording domain.

An observation is a single weather reading (city, temperature, condition)
reported by an authenticated account at a point in time. Every observation is
owned by the account that recorded it; ownership drives all read and write
authorization for the resource.

The package follows the standard entity layout: HTTP handlers in http.go,
business rules in service.go, persistence contracts in store.go with the
Postgres implementation in store_postgres.go, and the Redis read cache in
cache_redis.go.
*/
package weather

import "time"

// Observation represents a single recorded weather reading.
type Observation struct {
	ID          string    `json:"id"`
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"` // Degrees Celsius.
	Condition   string    `json:"condition"`   // Free-form description (e.g. "overcast").
	RecordedAt  time.Time `json:"recorded_at"` // When the reading was taken, not when it was stored.
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter holds the parameters for a filtered observation list query.
//
// An empty field means "do not filter on this dimension". The service layer
// forces OwnerID for non-admin callers, so regular accounts can never list
// readings other than their own.
type Filter struct {
	OwnerID string
	City    string
}

// # Field Limits

const (
	// MaxCityLength bounds the city name column.
	MaxCityLength = 120

	// MaxConditionLength bounds the condition description column.
	MaxConditionLength = 200
)
