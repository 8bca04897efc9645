// Package main is the entry point for the user API server.
//
// MAIN PACKAGE IN GO:
// Every Go program starts execution in the main() function of the "main" package.
// The main package should be kept minimal — its job is to:
// 1. Read configuration (from env vars or a .env file)
// 2. Create dependencies (logger, etc.)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
// This separation makes the app testable and its components reusable.
//
// WHY cmd/server/?
// The cmd/ directory is a Go convention for executable entry points.
// A project might have multiple executables (e.g., cmd/server, cmd/migrate).
// Each gets its own directory with its own main.go.
package main

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/nahid/user-auth-api/internal/server"
)

func main() {
	// === 1. LOAD .env (IF PRESENT) ===
	// godotenv copies KEY=VALUE lines from a local .env file into the
	// process environment. Real environment variables win over the file,
	// and a missing file is fine — production sets env vars directly.
	_ = godotenv.Load()

	// === 2. SET UP LOGGING ===
	// slog.New creates a structured logger. slog.NewTextHandler outputs
	// human-readable logs to the terminal.
	//
	// Log levels (from least to most severe): Debug → Info → Warn → Error
	// In production, you'd use LevelInfo or LevelWarn to reduce noise.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// === 3. READ CONFIGURATION ===
	// os.Getenv returns "" if the variable isn't set, so we check and
	// provide defaults where a default makes sense. For a handful of keys,
	// plain env vars beat pulling in a config framework.
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "userauth"
	}

	// JWT_SECRET must be a long random string. Generate one with:
	//   JWT_SECRET=$(openssl rand -hex 32)
	// Unlike optional integrations, there is no degraded mode without it —
	// login and /me ARE the app — so a missing secret is fatal.
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET is not set — refusing to start")
		os.Exit(1)
	}

	// TOKEN_TTL accepts Go duration syntax ("30m", "2h"). Zero means the
	// built-in 1-hour default.
	var tokenTTL time.Duration
	if ttlStr := os.Getenv("TOKEN_TTL"); ttlStr != "" {
		var err error
		tokenTTL, err = time.ParseDuration(ttlStr)
		if err != nil {
			logger.Error("invalid TOKEN_TTL value", slog.String("value", ttlStr))
			os.Exit(1)
		}
	}

	// === 4. CREATE AND START THE SERVER ===
	cfg := server.Config{
		Port:      port,
		MongoURI:  mongoURI,
		MongoDB:   mongoDB,
		JWTSecret: jwtSecret,
		TokenTTL:  tokenTTL,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
