// Package main is the entry point for the globoclima API server.
//
// Its job is deliberately small: read configuration from the environment,
// build the logger, hand both to the server package, and exit non-zero on
// failure. All actual behavior lives in internal/.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sakif/globoclima/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// DB_PATH overrides the default for production deployments,
	// e.g. DB_PATH=/var/lib/globoclima/prod.db
	dbPath := "data/globoclima.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// JWT_KEY must be a long random string:
	//   JWT_KEY=$(openssl rand -hex 32)
	// An empty key is rejected by server.New at startup — the process
	// refuses to run rather than discovering the problem on first login.
	jwtKey := os.Getenv("JWT_KEY")

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "globoclima"
	}

	cfg := server.Config{
		Port:      port,
		DBPath:    dbPath,
		JWTKey:    jwtKey,
		JWTIssuer: jwtIssuer,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
