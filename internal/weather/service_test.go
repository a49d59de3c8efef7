// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

package weather_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhammad/atmos/internal/auth"
	"github.com/devhammad/atmos/internal/platform/apperr"
	"github.com/devhammad/atmos/internal/weather"
	"github.com/devhammad/atmos/pkg/pagination"
	"github.com/devhammad/atmos/pkg/pointer"
)

// memoryRepository is an in-memory [weather.Repository] used by the service
// tests. It applies the filter the same way the SQL store does, so the
// owner-pinning tests exercise real narrowing.
type memoryRepository struct {
	mu           sync.Mutex
	observations map[string]*weather.Observation
	findCalls    int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{observations: make(map[string]*weather.Observation)}
}

func (repo *memoryRepository) matches(observation *weather.Observation, filter weather.Filter) bool {
	if filter.OwnerID != "" && observation.OwnerID != filter.OwnerID {
		return false
	}
	if filter.City != "" && !strings.EqualFold(observation.City, filter.City) {
		return false
	}
	return true
}

func (repo *memoryRepository) List(_ context.Context, filter weather.Filter, limit, offset int) ([]*weather.Observation, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	matched := []*weather.Observation{}
	for _, observation := range repo.observations {
		if repo.matches(observation, filter) {
			clone := *observation
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].RecordedAt.After(matched[j].RecordedAt)
	})

	total := len(matched)
	if offset > total {
		return []*weather.Observation{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*weather.Observation, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.findCalls++
	observation, ok := repo.observations[id]
	if !ok {
		return nil, apperr.NotFound("Observation")
	}
	clone := *observation
	return &clone, nil
}

func (repo *memoryRepository) Create(_ context.Context, observation *weather.Observation) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	clone := *observation
	repo.observations[observation.ID] = &clone
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, observation *weather.Observation) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.observations[observation.ID]; !ok {
		return apperr.NotFound("Observation")
	}
	clone := *observation
	repo.observations[observation.ID] = &clone
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.observations[id]; !ok {
		return apperr.NotFound("Observation")
	}
	delete(repo.observations, id)
	return nil
}

func (repo *memoryRepository) LatestByCity(_ context.Context, city, ownerID string) (*weather.Observation, error) {
	matched, _, err := repo.List(context.Background(), weather.Filter{City: city, OwnerID: ownerID}, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, apperr.NotFound("Observation")
	}
	return matched[0], nil
}

// memoryCache is a map-backed [weather.LatestCache] that counts traffic.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*weather.Observation
	hits    int
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*weather.Observation)}
}

func (cache *memoryCache) key(city, ownerID string) string {
	return city + "|" + ownerID
}

func (cache *memoryCache) GetLatest(_ context.Context, city, ownerID string) (*weather.Observation, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	observation, ok := cache.entries[cache.key(city, ownerID)]
	if !ok {
		return nil, nil
	}
	cache.hits++
	clone := *observation
	return &clone, nil
}

func (cache *memoryCache) SetLatest(_ context.Context, city, ownerID string, observation *weather.Observation, _ time.Duration) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	cache.sets++
	clone := *observation
	cache.entries[cache.key(city, ownerID)] = &clone
	return nil
}

func (cache *memoryCache) Invalidate(_ context.Context, city, ownerID string) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	delete(cache.entries, cache.key(city, ""))
	if ownerID != "" {
		delete(cache.entries, cache.key(city, ownerID))
	}
	return nil
}

func newTestService(repo weather.Repository, cache weather.LatestCache) *weather.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return weather.NewService(repo, cache, logger)
}

var (
	alice = &auth.User{ID: "0198c5e8-0000-7000-8000-000000000001", Role: auth.RoleUser}
	bob   = &auth.User{ID: "0198c5e8-0000-7000-8000-000000000002", Role: auth.RoleUser}
	root  = &auth.User{ID: "0198c5e8-0000-7000-8000-0000000000aa", Role: auth.RoleAdmin}
)

/*
TestService_Record persists a valid reading with the actor as owner and
defaults RecordedAt when the client omits it.
*/
func TestService_Record(t *testing.T) {
	repo := newMemoryRepository()
	service := newTestService(repo, newMemoryCache())

	observation, err := service.Record(context.Background(), alice, weather.RecordInput{
		City:        "Karachi",
		Temperature: 33.5,
		Condition:   "sunny",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, observation.ID)
	assert.Equal(t, alice.ID, observation.OwnerID)
	assert.False(t, observation.RecordedAt.IsZero())
}

/*
TestService_Record_Validation rejects incomplete readings before any storage
work happens.
*/
func TestService_Record_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input weather.RecordInput
	}{
		{"missing_city", weather.RecordInput{Condition: "cloudy", Temperature: 20}},
		{"missing_condition", weather.RecordInput{City: "Lahore", Temperature: 20}},
	}

	service := newTestService(newMemoryRepository(), newMemoryCache())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Record(context.Background(), alice, tt.input)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		})
	}
}

/*
TestService_Get_OwnershipMatrix covers who may read a single observation:
the owner and any admin, nobody else.
*/
func TestService_Get_OwnershipMatrix(t *testing.T) {
	repo := newMemoryRepository()
	service := newTestService(repo, newMemoryCache())

	observation, err := service.Record(context.Background(), alice, weather.RecordInput{
		City:        "Istanbul",
		Temperature: 18,
		Condition:   "rainy",
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		actor    *auth.User
		wantCode string
	}{
		{"owner_reads_own", alice, ""},
		{"stranger_forbidden", bob, "FORBIDDEN"},
		{"admin_reads_any", root, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.Get(context.Background(), tt.actor, observation.ID)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, observation.ID, got.ID)
				return
			}

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantCode, ae.Code)
		})
	}
}

/*
TestService_Get_MalformedID asserts that a syntactically invalid ID fails
validation without touching the repository, and is reported differently from
a valid ID that matches nothing.
*/
func TestService_Get_MalformedID(t *testing.T) {
	repo := newMemoryRepository()
	service := newTestService(repo, newMemoryCache())

	_, err := service.Get(context.Background(), alice, "not-a-uuid")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Zero(t, repo.findCalls, "malformed IDs must never reach storage")

	_, err = service.Get(context.Background(), alice, "0198c5e8-0000-7000-8000-00000000dead")
	require.Error(t, err)
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
	assert.Equal(t, 1, repo.findCalls)
}

/*
TestService_List_OwnerPinning checks that regular accounts only ever see
their own readings, even when they ask for someone else's, while admins may
browse and narrow freely.
*/
func TestService_List_OwnerPinning(t *testing.T) {
	repo := newMemoryRepository()
	service := newTestService(repo, newMemoryCache())
	ctx := context.Background()

	_, err := service.Record(ctx, alice, weather.RecordInput{City: "Tokyo", Temperature: 21, Condition: "clear"})
	require.NoError(t, err)
	_, err = service.Record(ctx, alice, weather.RecordInput{City: "Osaka", Temperature: 23, Condition: "clear"})
	require.NoError(t, err)
	_, err = service.Record(ctx, bob, weather.RecordInput{City: "Tokyo", Temperature: 20, Condition: "foggy"})
	require.NoError(t, err)

	params := pagination.Params{Page: 1, Limit: 10}

	// Alice asking for Bob's data still gets only her own.
	observations, meta, err := service.List(ctx, alice, weather.Filter{OwnerID: bob.ID}, params)
	require.NoError(t, err)
	assert.Equal(t, 2, meta.Total)
	for _, observation := range observations {
		assert.Equal(t, alice.ID, observation.OwnerID)
	}

	// Admin sees everything.
	_, meta, err = service.List(ctx, root, weather.Filter{}, params)
	require.NoError(t, err)
	assert.Equal(t, 3, meta.Total)

	// Admin can narrow by owner.
	observations, meta, err = service.List(ctx, root, weather.Filter{OwnerID: bob.ID}, params)
	require.NoError(t, err)
	require.Equal(t, 1, meta.Total)
	assert.Equal(t, bob.ID, observations[0].OwnerID)
}

/*
TestService_Update_Ownership verifies writes run through the same guard as
reads and that partial updates leave omitted fields untouched.
*/
func TestService_Update_Ownership(t *testing.T) {
	repo := newMemoryRepository()
	service := newTestService(repo, newMemoryCache())
	ctx := context.Background()

	observation, err := service.Record(ctx, alice, weather.RecordInput{
		City:        "Berlin",
		Temperature: 5,
		Condition:   "snow",
	})
	require.NoError(t, err)

	_, err = service.Update(ctx, bob, observation.ID, weather.UpdateInput{Temperature: pointer.To(7.5)})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "FORBIDDEN", ae.Code)

	updated, err := service.Update(ctx, alice, observation.ID, weather.UpdateInput{Temperature: pointer.To(7.5)})
	require.NoError(t, err)
	assert.Equal(t, 7.5, updated.Temperature)
	assert.Equal(t, "Berlin", updated.City, "omitted fields must not change")
	assert.Equal(t, "snow", updated.Condition)
}

/*
TestService_Delete_Ownership verifies deletion respects the guard and
actually removes the row.
*/
func TestService_Delete_Ownership(t *testing.T) {
	repo := newMemoryRepository()
	service := newTestService(repo, newMemoryCache())
	ctx := context.Background()

	observation, err := service.Record(ctx, alice, weather.RecordInput{
		City:        "Madrid",
		Temperature: 28,
		Condition:   "sunny",
	})
	require.NoError(t, err)

	err = service.Delete(ctx, bob, observation.ID)
	require.Error(t, err)

	require.NoError(t, service.Delete(ctx, root, observation.ID))

	_, err = service.Get(ctx, alice, observation.ID)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

/*
TestService_Current_CacheReadThrough checks the cache path: the first read
populates the cache, a repeat read is served from it, and a new recording
invalidates it.
*/
func TestService_Current_CacheReadThrough(t *testing.T) {
	repo := newMemoryRepository()
	cache := newMemoryCache()
	service := newTestService(repo, cache)
	ctx := context.Background()

	_, err := service.Record(ctx, alice, weather.RecordInput{
		City:        "Paris",
		Temperature: 15,
		Condition:   "cloudy",
	})
	require.NoError(t, err)

	first, err := service.Current(ctx, alice, "Paris")
	require.NoError(t, err)
	assert.Equal(t, 15.0, first.Temperature)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 0, cache.hits)

	second, err := service.Current(ctx, alice, "Paris")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, cache.hits, "repeat read must be served from cache")

	// A newer reading invalidates the entry; the next read reloads.
	_, err = service.Record(ctx, alice, weather.RecordInput{
		City:        "Paris",
		Temperature: 17,
		Condition:   "clear",
	})
	require.NoError(t, err)

	third, err := service.Current(ctx, alice, "Paris")
	require.NoError(t, err)
	assert.Equal(t, 17.0, third.Temperature)
}

/*
TestService_Current_Scope pins regular accounts to their own readings while
admins get the global latest.
*/
func TestService_Current_Scope(t *testing.T) {
	repo := newMemoryRepository()
	service := newTestService(repo, newMemoryCache())
	ctx := context.Background()

	older := time.Now().Add(-time.Hour)
	_, err := service.Record(ctx, alice, weather.RecordInput{
		City: "Cairo", Temperature: 30, Condition: "sunny", RecordedAt: older,
	})
	require.NoError(t, err)
	_, err = service.Record(ctx, bob, weather.RecordInput{
		City: "Cairo", Temperature: 34, Condition: "dusty",
	})
	require.NoError(t, err)

	mine, err := service.Current(ctx, alice, "Cairo")
	require.NoError(t, err)
	assert.Equal(t, 30.0, mine.Temperature, "regular accounts see their own latest")

	global, err := service.Current(ctx, root, "Cairo")
	require.NoError(t, err)
	assert.Equal(t, 34.0, global.Temperature, "admins see the global latest")

	// No readings at all for the city is a plain not-found.
	_, err = service.Current(ctx, alice, "Atlantis")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}
