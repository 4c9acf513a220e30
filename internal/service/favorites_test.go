package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/globoclima/internal/apperror"
	"github.com/sakif/globoclima/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeFavoritesRepo is an in-memory FavoritesRepository with the same
// whole-record semantics as the real store: Get returns a copy, Save
// overwrites unconditionally. Guarded by a mutex so the concurrency test
// below exercises the service's keyed lock, not data races in the fake.
type fakeFavoritesRepo struct {
	mu      sync.Mutex
	records map[string][]model.FavoriteCity

	getErr  error
	saveErr error
}

func newFakeFavoritesRepo() *fakeFavoritesRepo {
	return &fakeFavoritesRepo{records: make(map[string][]model.FavoriteCity)}
}

func (f *fakeFavoritesRepo) Get(_ context.Context, email string) (*model.UserFavorites, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	cities, ok := f.records[email]
	if !ok {
		return nil, apperror.NotFound("favorites", email)
	}
	copied := make([]model.FavoriteCity, len(cities))
	copy(copied, cities)
	return &model.UserFavorites{Email: email, Cities: copied}, nil
}

func (f *fakeFavoritesRepo) Save(_ context.Context, favorites *model.UserFavorites) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	copied := make([]model.FavoriteCity, len(favorites.Cities))
	copy(copied, favorites.Cities)
	f.records[favorites.Email] = copied
	return nil
}

func (f *fakeFavoritesRepo) Delete(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, email)
	return nil
}

func newTestFavoritesService(repo *fakeFavoritesRepo) *FavoritesService {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewFavoritesService(repo, logger)
}

func paris() model.FavoriteCity {
	return model.FavoriteCity{CityName: "Paris", Country: "FR"}
}

// =========================================================================
// ADD TESTS
// =========================================================================

func TestAdd_FirstCityCreatesRecord(t *testing.T) {
	repo := newFakeFavoritesRepo()
	svc := newTestFavoritesService(repo)

	result, err := svc.Add(context.Background(), "a@x.com", paris())
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, MsgCityAdded, result.Message)

	assert.Equal(t, []model.FavoriteCity{paris()}, repo.records["a@x.com"])
}

func TestAdd_DuplicateIsConflictAndWritesNothing(t *testing.T) {
	repo := newFakeFavoritesRepo()
	svc := newTestFavoritesService(repo)
	ctx := context.Background()

	first, err := svc.Add(ctx, "a@x.com", paris())
	require.NoError(t, err)
	require.True(t, first.Success)

	second, err := svc.Add(ctx, "a@x.com", paris())
	require.NoError(t, err, "a duplicate add is a soft failure, not an error")
	assert.False(t, second.Success)
	assert.Equal(t, MsgCityAlreadyFavorite, second.Message)

	// Exactly one Paris, no duplicate entry
	assert.Len(t, repo.records["a@x.com"], 1)
}

func TestAdd_SameNameDifferentAttributesIsStillDuplicate(t *testing.T) {
	repo := newFakeFavoritesRepo()
	svc := newTestFavoritesService(repo)
	ctx := context.Background()

	_, err := svc.Add(ctx, "a@x.com", paris())
	require.NoError(t, err)

	// Identity is the city name; the attributes don't make it a new city
	result, err := svc.Add(ctx, "a@x.com", model.FavoriteCity{CityName: "Paris", Country: "US"})
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestAdd_CityNamesAreCaseSensitive(t *testing.T) {
	repo := newFakeFavoritesRepo()
	svc := newTestFavoritesService(repo)
	ctx := context.Background()

	_, err := svc.Add(ctx, "a@x.com", model.FavoriteCity{CityName: "Paris"})
	require.NoError(t, err)

	result, err := svc.Add(ctx, "a@x.com", model.FavoriteCity{CityName: "paris"})
	require.NoError(t, err)
	assert.True(t, result.Success, "a differently-cased name is a different favorite")
	assert.Len(t, repo.records["a@x.com"], 2)
}

func TestAdd_ValidationFailures(t *testing.T) {
	repo := newFakeFavoritesRepo()
	svc := newTestFavoritesService(repo)
	ctx := context.Background()

	result, err := svc.Add(ctx, "", paris())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgInvalidInput, result.Message)

	result, err = svc.Add(ctx, "a@x.com", model.FavoriteCity{})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgCityNameRequired, result.Message)

	assert.Empty(t, repo.records, "validation failures must not touch the store")
}

func TestAdd_BackendFailurePropagates(t *testing.T) {
	repo := newFakeFavoritesRepo()
	repo.getErr = apperror.Storage("getting favorites", fmt.Errorf("connection refused"))
	svc := newTestFavoritesService(repo)

	_, err := svc.Add(context.Background(), "a@x.com", paris())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrStorage)
}

// =========================================================================
// REMOVE TESTS
// =========================================================================

func TestRemove_ExistingCity(t *testing.T) {
	repo := newFakeFavoritesRepo()
	svc := newTestFavoritesService(repo)
	ctx := context.Background()

	_, err := svc.Add(ctx, "a@x.com", model.FavoriteCity{CityName: "Paris"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "a@x.com", model.FavoriteCity{CityName: "Tokyo"})
	require.NoError(t, err)

	result, err := svc.Remove(ctx, "a@x.com", "Paris")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, MsgCityRemoved, result.Message)

	// Only the named entry goes; the rest stays
	assert.Equal(t, []model.FavoriteCity{{CityName: "Tokyo"}}, repo.records["a@x.com"])
}

func TestRemove_NoRecordIsSoftFailure(t *testing.T) {
	repo := newFakeFavoritesRepo()
	svc := newTestFavoritesService(repo)

	result, err := svc.Remove(context.Background(), "a@x.com", "Paris")
	require.NoError(t, err, "an absent record never errors the backend")
	assert.False(t, result.Success)
	assert.Equal(t, MsgNoFavorites, result.Message)
}

func TestRemove_AbsentCityLeavesListUnchanged(t *testing.T) {
	repo := newFakeFavoritesRepo()
	svc := newTestFavoritesService(repo)
	ctx := context.Background()

	_, err := svc.Add(ctx, "a@x.com", paris())
	require.NoError(t, err)

	result, err := svc.Remove(ctx, "a@x.com", "Atlantis")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgCityNotFound, result.Message)

	assert.Equal(t, []model.FavoriteCity{paris()}, repo.records["a@x.com"])
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestList_NoRecordIsEmptyNotError(t *testing.T) {
	repo := newFakeFavoritesRepo()
	svc := newTestFavoritesService(repo)

	cities, err := svc.List(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, cities)
	assert.Empty(t, cities)
}

func TestList_PreservesInsertionOrder(t *testing.T) {
	repo := newFakeFavoritesRepo()
	svc := newTestFavoritesService(repo)
	ctx := context.Background()

	for _, name := range []string{"Paris", "Tokyo", "Lima"} {
		_, err := svc.Add(ctx, "a@x.com", model.FavoriteCity{CityName: name})
		require.NoError(t, err)
	}

	cities, err := svc.List(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, cities, 3)
	assert.Equal(t, "Paris", cities[0].CityName)
	assert.Equal(t, "Tokyo", cities[1].CityName)
	assert.Equal(t, "Lima", cities[2].CityName)
}

// =========================================================================
// SCENARIO AND CONCURRENCY
// =========================================================================

func TestFavorites_FullScenario(t *testing.T) {
	repo := newFakeFavoritesRepo()
	svc := newTestFavoritesService(repo)
	ctx := context.Background()
	email := "a@x.com"

	add1, err := svc.Add(ctx, email, model.FavoriteCity{CityName: "Paris"})
	require.NoError(t, err)
	assert.True(t, add1.Success)

	add2, err := svc.Add(ctx, email, model.FavoriteCity{CityName: "Paris"})
	require.NoError(t, err)
	assert.False(t, add2.Success)

	cities, err := svc.List(ctx, email)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Paris", cities[0].CityName)

	removed, err := svc.Remove(ctx, email, "Paris")
	require.NoError(t, err)
	assert.True(t, removed.Success)

	cities, err = svc.List(ctx, email)
	require.NoError(t, err)
	assert.Empty(t, cities)
}

// TestAdd_ConcurrentDistinctCitiesLoseNothing pins down the reason the
// keyed mutex exists: without it, concurrent read-modify-write cycles for
// the same user overwrite each other and adds vanish.
func TestAdd_ConcurrentDistinctCitiesLoseNothing(t *testing.T) {
	repo := newFakeFavoritesRepo()
	svc := newTestFavoritesService(repo)
	ctx := context.Background()
	email := "a@x.com"

	const n = 32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			city := model.FavoriteCity{CityName: fmt.Sprintf("City-%02d", i)}
			result, err := svc.Add(ctx, email, city)
			if err != nil {
				t.Errorf("Add() error = %v", err)
				return
			}
			if !result.Success {
				t.Errorf("Add(%s) soft-failed: %s", city.CityName, result.Message)
			}
		}(i)
	}
	wg.Wait()

	cities, err := svc.List(ctx, email)
	require.NoError(t, err)
	assert.Len(t, cities, n, "every concurrent add must survive")

	seen := make(map[string]bool, len(cities))
	for _, c := range cities {
		assert.False(t, seen[c.CityName], "duplicate entry %s", c.CityName)
		seen[c.CityName] = true
	}
}

// TestMutations_ConcurrentAddRemoveStaysConsistent interleaves adds and
// removes on one key; the per-email serialization means the final state
// must reflect every completed operation.
func TestMutations_ConcurrentAddRemoveStaysConsistent(t *testing.T) {
	repo := newFakeFavoritesRepo()
	svc := newTestFavoritesService(repo)
	ctx := context.Background()
	email := "a@x.com"

	// Seed half the cities, then concurrently remove those while adding
	// the other half.
	const n = 16
	for i := 0; i < n; i++ {
		_, err := svc.Add(ctx, email, model.FavoriteCity{CityName: fmt.Sprintf("Old-%02d", i)})
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			if _, err := svc.Remove(ctx, email, fmt.Sprintf("Old-%02d", i)); err != nil {
				t.Errorf("Remove() error = %v", err)
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.Add(ctx, email, model.FavoriteCity{CityName: fmt.Sprintf("New-%02d", i)}); err != nil {
				t.Errorf("Add() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	cities, err := svc.List(ctx, email)
	require.NoError(t, err)
	require.Len(t, cities, n)
	for _, c := range cities {
		assert.Contains(t, c.CityName, "New-", "all Old- cities were removed")
	}
}
