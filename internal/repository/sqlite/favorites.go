package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/globoclima/internal/apperror"
	"github.com/sakif/globoclima/internal/model"
	"github.com/sakif/globoclima/internal/repository"
)

// compile-time check that *DB implements repository.FavoritesRepository
var _ repository.FavoritesRepository = (*DB)(nil)

// Get loads a user's whole favorites record.
//
// Returns apperror.ErrNotFound when the user has never saved favorites —
// the record's absence and an existing-but-empty record are distinct
// states, and callers map them differently (List treats both as empty,
// Remove treats absence as a soft failure).
func (db *DB) Get(ctx context.Context, email string) (*model.UserFavorites, error) {
	var raw string

	err := db.conn.QueryRowContext(ctx,
		`SELECT cities FROM favorites WHERE email = ?`, email,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("favorites", email)
		}
		return nil, apperror.Storage(fmt.Sprintf("getting favorites for %s", email), err)
	}

	favorites := &model.UserFavorites{Email: email}
	if err := json.Unmarshal([]byte(raw), &favorites.Cities); err != nil {
		return nil, apperror.Storage(fmt.Sprintf("decoding favorites for %s", email), err)
	}
	if favorites.Cities == nil {
		favorites.Cities = []model.FavoriteCity{}
	}

	return favorites, nil
}

// Save writes the whole record back, creating it on first save.
//
// This is an unconditional overwrite — last writer wins at the store
// level. The service layer serializes mutations per email, so two writers
// for the same key never race through here concurrently.
func (db *DB) Save(ctx context.Context, favorites *model.UserFavorites) error {
	cities := favorites.Cities
	if cities == nil {
		cities = []model.FavoriteCity{}
	}

	raw, err := json.Marshal(cities)
	if err != nil {
		return fmt.Errorf("sqlite: encoding favorites for %s: %w", favorites.Email, err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO favorites (email, cities, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET cities = excluded.cities, updated_at = excluded.updated_at`,
		favorites.Email,
		string(raw),
		time.Now().UTC(),
	)
	if err != nil {
		return apperror.Storage(fmt.Sprintf("saving favorites for %s", favorites.Email), err)
	}

	return nil
}

// Delete removes a user's favorites record entirely. Deleting an absent
// record is a no-op, matching KV delete semantics.
func (db *DB) Delete(ctx context.Context, email string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM favorites WHERE email = ?`, email,
	)
	if err != nil {
		return apperror.Storage(fmt.Sprintf("deleting favorites for %s", email), err)
	}
	return nil
}
