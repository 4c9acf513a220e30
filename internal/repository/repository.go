// Package repository defines the storage interfaces the service layer
// depends on. Concrete implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/sakif/globoclima/internal/model"
)

// UserRepository owns account records, keyed by email.
//
// Create must enforce email uniqueness at the store level (a UNIQUE
// constraint or equivalent) and return apperror.ErrConflict when a second
// account races in with the same email — the service's existence check
// alone cannot close that window.
//
// GetByEmail returns apperror.ErrNotFound for an unknown email. A backend
// failure is a different error (apperror.ErrStorage) — implementations
// must never collapse the two.
type UserRepository interface {
	Exists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// FavoritesRepository owns the per-user favorites record, keyed by email.
//
// The record is read and written whole — the backing model is a KV store
// with no single-element list updates, so every mutation upstream is a
// load-mutate-save cycle. Get returns apperror.ErrNotFound when the user
// has no record yet; callers decide whether that's an error (Remove) or a
// valid empty state (List, Add).
//
// Delete removes a user's whole record. Nothing in the request flows calls
// it today; it exists for account cleanup tooling.
type FavoritesRepository interface {
	Get(ctx context.Context, email string) (*model.UserFavorites, error)
	Save(ctx context.Context, favorites *model.UserFavorites) error
	Delete(ctx context.Context, email string) error
}
