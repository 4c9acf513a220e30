// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes the store
//
// Services accept primitives and model types, never HTTP types, and depend
// on repository interfaces, never concrete stores — tests swap in fakes.
//
// SOFT VS HARD FAILURES:
// Operations here return (*model.OperationResult, error). Expected
// outcomes the caller must relay — duplicate registration, wrong password,
// unknown user, absent favorite — come back as an unsuccessful result with
// a message. The error return is reserved for backend failures (store
// unreachable, hashing failure); those are logged with context and
// propagated, never folded into "not found".
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/globoclima/internal/auth"
	"github.com/sakif/globoclima/internal/model"
	"github.com/sakif/globoclima/internal/repository"
)

// AuthService orchestrates registration and login.
//
// It deliberately does NOT mint tokens: login verifies credentials and
// returns the account, and the HTTP boundary layers token issuance on top.
// That keeps this service focused on the directory and the credential
// check, and testable without a signing key.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with its dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new account.
//
// Flow: validate inputs → existence check → hash password → create.
//
// The existence check gives the common case a friendly result; the store's
// uniqueness constraint is what actually guarantees one account per email
// when two registrations race past the check simultaneously — that path
// also lands in the "already exists" result.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.OperationResult, error) {
	if email == "" || password == "" {
		return model.Fail(MsgInvalidInput), nil
	}

	exists, err := s.users.Exists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: checking existence of %s: %w", email, err)
	}
	if exists {
		return model.Fail(MsgUserExists), nil
	}

	digest, salt, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: digest,
		PasswordSalt: salt,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if isConflict(err) {
			// Lost a registration race — same outcome as the fast path.
			return model.Fail(MsgUserExists), nil
		}
		return nil, fmt.Errorf("service/auth: creating user %s: %w", email, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return model.OK(MsgUserRegistered, user), nil
}

// Login verifies credentials and returns the account on success.
//
// "User not found" and "incorrect password" are distinct results here —
// the distinction is useful to tests and internal callers. The HTTP
// boundary collapses both into one 401 so responses don't reveal which
// emails have accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.OperationResult, error) {
	if email == "" || password == "" {
		return model.Fail(MsgInvalidInput), nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return model.Fail(MsgUserNotFound), nil
		}
		return nil, fmt.Errorf("service/auth: looking up user %s: %w", email, err)
	}

	if !s.passwords.Verify(password, user.PasswordHash, user.PasswordSalt) {
		s.logger.Info("login rejected: password mismatch", slog.String("email", email))
		return model.Fail(MsgIncorrectPassword), nil
	}

	return model.OK(MsgLoginSucceeded, user), nil
}
