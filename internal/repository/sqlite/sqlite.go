// Package sqlite implements the repository interfaces on SQLite.
//
// The original deployment of this system kept accounts and favorites in a
// remote key-value store: one record per email, loaded and saved whole.
// This package keeps that shape — two tables keyed by email, the favorites
// list stored as a single JSON document per row — while running on an
// embedded database that needs no infrastructure.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which drags in a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation
// of SQLite — works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces. New creates it, Close destroys it; the server owns the
// lifecycle.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath (":memory:" for tests) and provisions
// the schema.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One connection for the whole pool. SQLite allows a single writer at
	// a time anyway, and the PRAGMAs below plus ":memory:" databases are
	// per-connection — a second pooled connection would see neither.
	conn.SetMaxOpenConns(1)

	// Force an immediate connection so a bad path surfaces here, not on
	// the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode lets reads proceed concurrently with a write — important
	// for a web server where many requests share this pool.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate provisions the two tables.
//
// users: email is the primary key (the natural key everything looks up
// by); id carries a UNIQUE index so it works as a secondary lookup key.
// The PRIMARY KEY on email is what closes the concurrent-registration
// race — two racing INSERTs for the same email cannot both succeed.
//
// favorites: one row per email holding the whole city list as JSON. The
// store has no per-element list operations; mutations upstream are
// load-mutate-save against this single column.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			email         TEXT PRIMARY KEY,
			id            TEXT NOT NULL UNIQUE,
			password_hash BLOB NOT NULL,
			password_salt BLOB NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS favorites (
			email      TEXT PRIMARY KEY,
			cities     TEXT NOT NULL DEFAULT '[]',
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating favorites table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE/PRIMARY KEY constraint
// failure. The driver doesn't export a stable typed error for this, so we
// match the SQLite message text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
