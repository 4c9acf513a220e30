// Package model defines the data structures used throughout the application.
package model

// User represents a registered account.
//
// Email is the natural key — it's what the user logs in with, what the
// favorites record is keyed by, and what ends up in the token's Subject
// claim. The internal ID (xid) exists so nothing outside the auth flow has
// to carry the email around as a primary key.
//
// WHY []byte FOR HASH AND SALT?
// The password digest and its salt are raw key material, not text. Keeping
// them as byte slices avoids accidental logging as strings and makes the
// constant-time comparison in the auth package operate on exactly what was
// stored. They are never serialized to JSON ("-" tag).
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash []byte `json:"-"`
	PasswordSalt []byte `json:"-"`
}

// FavoriteCity is one entry in a user's favorites list.
//
// CityName is the identity within a list — comparisons are case-sensitive
// exact matches on it. The remaining fields are descriptive attributes the
// core carries opaquely; only the name is ever inspected.
type FavoriteCity struct {
	CityName   string  `json:"cityName"`
	Country    string  `json:"country,omitempty"`
	Latitude   float64 `json:"latitude,omitempty"`
	Longitude  float64 `json:"longitude,omitempty"`
	Population int64   `json:"population,omitempty"`
}

// UserFavorites is the per-user favorites record, keyed by the account's
// email. The record either doesn't exist (user never added anything) or
// holds a non-nil, possibly empty, list of cities.
type UserFavorites struct {
	Email  string         `json:"email"`
	Cities []FavoriteCity `json:"cities"`
}
