// Package auth provides password hashing and JWT issuance/validation for
// the API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. POST /api/auth/register → account created with a salted password digest
// 2. POST /api/auth/login → credentials verified, server issues a JWT
// 3. Client sends "Authorization: Bearer <token>" on protected requests
// 4. Middleware validates the JWT and puts the identity in the request context
//
// The token is stateless: everything needed to authenticate a request
// (subject email, account id, expiry) is inside the signed token, so no
// session store is consulted. The signature ensures nobody can tamper with
// it without the secret key.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

// TokenTTL is the fixed lifetime of issued tokens. There is no refresh or
// revocation flow — after two hours the client logs in again.
const TokenTTL = 2 * time.Hour

// TokenService issues and validates JWT access tokens.
//
// It holds the HMAC secret used for both signing and verification, plus
// the issuer name. Issuer and audience are the same configured string —
// tokens minted by one deployment are rejected by another.
type TokenService struct {
	key    []byte
	issuer string
}

// Claims is the token payload. Subject carries the account email (the key
// every downstream lookup uses) and UserID the internal account id, so the
// boundary can propagate both without a directory round trip.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// NewTokenService creates a TokenService.
//
// An absent or empty signing key is a configuration error and is rejected
// here, once, at process start — not rediscovered on every login.
func NewTokenService(key, issuer string) (*TokenService, error) {
	if key == "" {
		return nil, errors.New("auth: JWT signing key must not be empty")
	}
	if issuer == "" {
		return nil, errors.New("auth: JWT issuer must not be empty")
	}
	return &TokenService{key: []byte(key), issuer: issuer}, nil
}

// Issue creates and signs a token asserting the given identity.
//
// Claims: sub = email, jti = fresh random id, uid = account id,
// iat = now, exp = now + 2h, iss = aud = configured issuer.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies. Fine for a single deployment holding one secret.
func (s *TokenService) Issue(email, userID string) (string, error) {
	return s.issueWithTTL(email, userID, TokenTTL)
}

// issueWithTTL lets the tests in this package mint already-expired tokens.
func (s *TokenService) issueWithTTL(email, userID string, ttl time.Duration) (string, error) {
	now := time.Now()

	c := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        xid.New().String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.issuer},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns its claims.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (token wasn't tampered with)
//   - Token is not expired, and an expiry is present
//   - Issuer and audience match the configured issuer
//   - Algorithm is HS256 — jwt.WithValidMethods closes the algorithm
//     confusion hole where an attacker submits an unsigned ("none") token
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.key, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}

	return c, nil
}
