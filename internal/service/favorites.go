package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/globoclima/internal/model"
	"github.com/sakif/globoclima/internal/repository"
)

// FavoritesService owns the per-user favorite-city list.
//
// Every mutation is a whole-record load-mutate-save cycle: the store keeps
// one record per email and has no single-element list updates. To keep a
// concurrent Add and Remove for the same user from overwriting each
// other's stale read, mutations are serialized per email through a keyed
// mutex — different users never wait on each other, two requests for the
// same user queue up. List takes no lock; a racing read just sees the list
// before or after a concurrent mutation, both valid states.
type FavoritesService struct {
	favorites repository.FavoritesRepository
	byEmail   *keyedMutex
	logger    *slog.Logger
}

// NewFavoritesService creates a FavoritesService.
func NewFavoritesService(favorites repository.FavoritesRepository, logger *slog.Logger) *FavoritesService {
	return &FavoritesService{
		favorites: favorites,
		byEmail:   newKeyedMutex(),
		logger:    logger,
	}
}

// Add appends a city to the user's favorites.
//
// The record is created lazily on the first add. Adding a city whose name
// is already present is a soft failure and writes nothing, so a doubled
// request can never produce a duplicate entry. City names compare
// case-sensitively — "paris" and "Paris" are different favorites.
func (s *FavoritesService) Add(ctx context.Context, email string, city model.FavoriteCity) (*model.OperationResult, error) {
	if email == "" {
		return model.Fail(MsgInvalidInput), nil
	}
	if city.CityName == "" {
		return model.Fail(MsgCityNameRequired), nil
	}

	unlock := s.byEmail.Lock(email)
	defer unlock()

	favorites, err := s.favorites.Get(ctx, email)
	if err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("service/favorites: loading favorites for %s: %w", email, err)
		}
		// First add for this user — start an empty record.
		favorites = &model.UserFavorites{Email: email, Cities: []model.FavoriteCity{}}
	}

	for _, c := range favorites.Cities {
		if c.CityName == city.CityName {
			return model.Fail(MsgCityAlreadyFavorite), nil
		}
	}

	favorites.Cities = append(favorites.Cities, city)

	if err := s.favorites.Save(ctx, favorites); err != nil {
		return nil, fmt.Errorf("service/favorites: saving favorites for %s: %w", email, err)
	}

	s.logger.Info("favorite added",
		slog.String("email", email),
		slog.String("city", city.CityName),
	)

	return model.OK(MsgCityAdded, city), nil
}

// Remove deletes the named city from the user's favorites.
//
// An absent record and an absent city are both soft failures, not backend
// errors; the list is left untouched in either case. By the uniqueness
// invariant there is at most one matching entry to remove.
func (s *FavoritesService) Remove(ctx context.Context, email, cityName string) (*model.OperationResult, error) {
	if email == "" {
		return model.Fail(MsgInvalidInput), nil
	}
	if cityName == "" {
		return model.Fail(MsgCityNameRequired), nil
	}

	unlock := s.byEmail.Lock(email)
	defer unlock()

	favorites, err := s.favorites.Get(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return model.Fail(MsgNoFavorites), nil
		}
		return nil, fmt.Errorf("service/favorites: loading favorites for %s: %w", email, err)
	}

	found := -1
	for i, c := range favorites.Cities {
		if c.CityName == cityName {
			found = i
			break
		}
	}
	if found < 0 {
		return model.Fail(MsgCityNotFound), nil
	}

	favorites.Cities = append(favorites.Cities[:found], favorites.Cities[found+1:]...)

	if err := s.favorites.Save(ctx, favorites); err != nil {
		return nil, fmt.Errorf("service/favorites: saving favorites for %s: %w", email, err)
	}

	s.logger.Info("favorite removed",
		slog.String("email", email),
		slog.String("city", cityName),
	)

	return model.OK(MsgCityRemoved, nil), nil
}

// List returns the user's favorite cities.
//
// Having no favorites is a valid state, not an error: both "no record yet"
// and "record with zero cities" come back as an empty, non-nil slice.
func (s *FavoritesService) List(ctx context.Context, email string) ([]model.FavoriteCity, error) {
	favorites, err := s.favorites.Get(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return []model.FavoriteCity{}, nil
		}
		return nil, fmt.Errorf("service/favorites: loading favorites for %s: %w", email, err)
	}

	return favorites.Cities, nil
}
