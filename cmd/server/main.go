// Command server runs the catalog HTTP API. Configuration comes from
// the environment; everything else lives in internal packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sheepbooru/catalog/internal/server"
)

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
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

	dbPath := "data/catalog.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	uploadDir := "data/uploads"
	if envDir := os.Getenv("UPLOAD_DIR"); envDir != "" {
		uploadDir = envDir
	}

	// SESSION_SECRET must be long random data, e.g. $(openssl rand -hex 32).
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		logger.Error("SESSION_SECRET not set")
		os.Exit(1)
	}

	sessionTTL := 24 * time.Hour
	if envTTL := os.Getenv("SESSION_TTL"); envTTL != "" {
		d, err := time.ParseDuration(envTTL)
		if err != nil {
			logger.Error("invalid SESSION_TTL value", slog.String("value", envTTL))
			os.Exit(1)
		}
		sessionTTL = d
	}

	cfg := server.Config{
		Port:          port,
		DBPath:        dbPath,
		UploadDir:     uploadDir,
		SessionSecret: sessionSecret,
		SessionTTL:    sessionTTL,
		CORSOrigin:    os.Getenv("CORS_ORIGIN"),
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
