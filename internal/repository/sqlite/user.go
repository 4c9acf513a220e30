package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/globoclima/internal/apperror"
	"github.com/sakif/globoclima/internal/model"
	"github.com/sakif/globoclima/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Exists reports whether an account with the given email exists.
// A backend failure is surfaced as a storage error, never as "false".
func (db *DB) Exists(ctx context.Context, email string) (bool, error) {
	var one int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE email = ?`, email,
	).Scan(&one)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperror.Storage("user existence check", err)
	}
	return true, nil
}

// Create persists a new account, generating the internal ID here.
//
// The PRIMARY KEY on email is the store-level uniqueness guard: when two
// registrations race past the service's existence check, the second INSERT
// fails here and is reported as a conflict rather than producing a second
// account.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (email, id, password_hash, password_salt, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.Email,
		user.ID,
		user.PasswordHash,
		user.PasswordSalt,
		time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Email)
		}
		return apperror.Storage(fmt.Sprintf("inserting user %s", user.Email), err)
	}

	return nil
}

// GetByEmail retrieves an account by its email (the primary key).
// Returns apperror.ErrNotFound for an unknown email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT email, id, password_hash, password_salt FROM users WHERE email = ?`,
		email,
	).Scan(&u.Email, &u.ID, &u.PasswordHash, &u.PasswordSalt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, apperror.Storage(fmt.Sprintf("getting user %s", email), err)
	}

	return &u, nil
}

// GetByID retrieves an account through the secondary id index.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT email, id, password_hash, password_salt FROM users WHERE id = ?`,
		id,
	).Scan(&u.Email, &u.ID, &u.PasswordHash, &u.PasswordSalt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, apperror.Storage(fmt.Sprintf("getting user by id %s", id), err)
	}

	return &u, nil
}
