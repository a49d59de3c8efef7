// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

package weather

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devhammad/atmos/internal/platform/database/schema"
	"github.com/devhammad/atmos/internal/platform/dberr"
)

// errNoRowsUpdated reuses pgx.ErrNoRows so dberr maps a zero-row write to NOT_FOUND.
var errNoRowsUpdated = pgx.ErrNoRows

// PostgresRepository implements the Repository interface using pgx.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] values via the dberr package, so no storage detail leaks
// past this file.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// observationColumns is the canonical SELECT list for weather.observation
// scans. Its order must match scanObservation.
var observationColumns = strings.Join(schema.WeatherObservation.Columns(), ", ")

// scanner matches both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanObservation(row scanner) (*Observation, error) {
	observation := &Observation{}
	err := row.Scan(
		&observation.ID,
		&observation.City,
		&observation.Temperature,
		&observation.Condition,
		&observation.RecordedAt,
		&observation.OwnerID,
		&observation.CreatedAt,
		&observation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return observation, nil
}

// Create persists a new observation row.
func (repository *PostgresRepository) Create(ctx context.Context, observation *Observation) error {
	const query = `
		INSERT INTO weather.observation (
			id, city, temperature, condition, recordedat, ownerid, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	if observation.CreatedAt.IsZero() {
		observation.CreatedAt = now
	}
	observation.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		observation.ID,
		observation.City,
		observation.Temperature,
		observation.Condition,
		observation.RecordedAt,
		observation.OwnerID,
		observation.CreatedAt,
		observation.UpdatedAt,
	)

	return dberr.Wrap(err, "Observation", "")
}

// FindByID retrieves an observation by its unique ID.
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Observation, error) {
	query := `
		SELECT ` + observationColumns + `
		FROM weather.observation
		WHERE id = $1`

	observation, err := scanObservation(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Observation", "")
	}

	return observation, nil
}

// List returns a filtered page of observations plus the unpaginated total.
//
// The WHERE clause is assembled from the filter so the database does the
// narrowing; regular accounts therefore never pull rows they do not own.
func (repository *PostgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Observation, int, error) {
	conditions := []string{"TRUE"}
	args := []any{}

	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", schema.WeatherObservation.OwnerID, len(args)))
	}
	if filter.City != "" {
		args = append(args, filter.City)
		conditions = append(conditions, fmt.Sprintf("LOWER(%s) = LOWER($%d)", schema.WeatherObservation.City, len(args)))
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", schema.WeatherObservation.Table, whereClause)

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Observation", "")
	}

	args = append(args, limit, offset)
	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY recordedat DESC, id DESC
		LIMIT $%d OFFSET $%d`,
		observationColumns, schema.WeatherObservation.Table, whereClause, len(args)-1, len(args))

	rows, err := repository.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Observation", "")
	}
	defer rows.Close()

	observations := make([]*Observation, 0, limit)
	for rows.Next() {
		observation, err := scanObservation(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Observation", "")
		}
		observations = append(observations, observation)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Observation", "")
	}

	return observations, total, nil
}

// Update persists changes to an existing observation's mutable fields.
func (repository *PostgresRepository) Update(ctx context.Context, observation *Observation) error {
	const query = `
		UPDATE weather.observation
		SET city = $2, temperature = $3, condition = $4, recordedat = $5, updatedat = NOW()
		WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query,
		observation.ID,
		observation.City,
		observation.Temperature,
		observation.Condition,
		observation.RecordedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Observation", "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(errNoRowsUpdated, "Observation", "")
	}

	return nil
}

// Delete removes an observation row permanently.
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM weather.observation WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "Observation", "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(errNoRowsUpdated, "Observation", "")
	}

	return nil
}

// LatestByCity returns the most recent reading for a city, optionally scoped
// to a single owner.
func (repository *PostgresRepository) LatestByCity(ctx context.Context, city, ownerID string) (*Observation, error) {
	conditions := []string{"LOWER(city) = LOWER($1)"}
	args := []any{city}

	if ownerID != "" {
		args = append(args, ownerID)
		conditions = append(conditions, "ownerid = $2")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY recordedat DESC, id DESC
		LIMIT 1`,
		observationColumns, schema.WeatherObservation.Table, strings.Join(conditions, " AND "))

	observation, err := scanObservation(repository.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, dberr.Wrap(err, "Observation", "")
	}

	return observation, nil
}
