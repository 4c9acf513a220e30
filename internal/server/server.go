// Package server wires handlers, middleware, and routes, and owns the
// HTTP server lifecycle.
//
// This is the composition root: New assembles the whole dependency chain
// (store → services → handlers) in one place, so the rest of the codebase
// only ever receives its dependencies, never constructs them.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/globoclima/internal/auth"
	"github.com/sakif/globoclima/internal/handler"
	"github.com/sakif/globoclima/internal/middleware"
	sqliteRepo "github.com/sakif/globoclima/internal/repository/sqlite"
	"github.com/sakif/globoclima/internal/service"
)

// Config holds server configuration, populated from the environment in
// cmd/server.
type Config struct {
	Port      int
	DBPath    string
	JWTKey    string // HMAC signing key; empty is a startup error
	JWTIssuer string // issuer and audience for issued tokens
}

// Server is the HTTP server and the resources it owns. The database
// connection is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the full dependency graph and the route table.
//
// The signing-key check happens inside auth.NewTokenService — a missing
// key fails here, once, instead of on the first login.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTKey, cfg.JWTIssuer)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("configuring tokens: %w", err)
	}

	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(db, passwords, logger)
	favoritesService := service.NewFavoritesService(db, logger)

	authHandler := handler.NewAuthHandler(authService, tokens, logger)
	favoritesHandler := handler.NewFavoritesHandler(favoritesService, logger)

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	s.setupRoutes(tokens, authHandler, favoritesHandler)

	return s, nil
}

// setupRoutes configures middleware and the route table.
//
// ROUTES:
//
//	POST   /api/auth/register              → create account
//	POST   /api/auth/login                 → verify credentials, issue token
//	POST   /api/cities/favorites           → add favorite        (bearer)
//	GET    /api/cities/favorites           → list favorites      (bearer)
//	DELETE /api/cities/favorites/{cityName} → remove favorite    (bearer)
//
// Middleware order: request ID and real IP first so the logger sees them,
// recoverer before anything that can panic, then our structured logger.
func (s *Server) setupRoutes(tokens *auth.TokenService, authHandler *handler.AuthHandler, favoritesHandler *handler.FavoritesHandler) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Post("/cities/favorites", favoritesHandler.HandleAdd)
			r.Get("/cities/favorites", favoritesHandler.HandleList)
			r.Delete("/cities/favorites/{cityName}", favoritesHandler.HandleRemove)
		})
	})
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// in-flight requests get up to 10 seconds to finish, then the database is
// closed.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		s.db.Close()
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		s.logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.db.Close()
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
