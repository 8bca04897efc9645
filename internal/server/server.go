// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it:
// - Testable (we can create a test server without running main)
// - Reusable (multiple entry points could use the same server config)
// - Clean (main.go stays minimal — just "read config, start the server")
//
// DEPENDENCY INJECTION FLOW:
// main.go reads config → Server.New() creates:
//
//	mongo.Store → AuthService (+ TokenService, PasswordService) → AuthHandler
//	            ↘ UserHandler
//
// This is the "composition root" pattern — all dependencies are wired in one
// place rather than scattered across the codebase.
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

	"github.com/nahid/user-auth-api/internal/auth"
	"github.com/nahid/user-auth-api/internal/handler"
	"github.com/nahid/user-auth-api/internal/middleware"
	mongoRepo "github.com/nahid/user-auth-api/internal/repository/mongo"
	"github.com/nahid/user-auth-api/internal/service"
)

// Config holds server configuration.
// Using a struct for config (instead of individual parameters) makes it easy to:
// - Add new config options without changing function signatures
// - Pass config around as a single value
// - Load config from env vars in one place (main.go)
//
// Everything here is fixed at process start. In particular the JWT secret
// is never rotated while the process runs — rotation means a restart, which
// also invalidates all outstanding tokens.
type Config struct {
	Port      int
	MongoURI  string        // e.g. "mongodb://localhost:27017"
	MongoDB   string        // database name, e.g. "userauth"
	JWTSecret string        // HMAC signing secret, required
	TokenTTL  time.Duration // access-token lifetime; 0 = 1 hour default
}

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the MongoDB client (via store). When the server shuts
// down, we must disconnect it to let in-flight operations finish and
// release pooled sockets. This is handled in Start() during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	store  *mongoRepo.Store // owned by the server, closed on shutdown
}

// New creates a new Server with the given config.
//
// This is where the entire dependency chain is assembled:
//  1. Connect to MongoDB (mongoRepo.New)
//  2. Create the auth primitives (TokenService, PasswordService)
//  3. Create the service layer with the repository interface
//  4. Create the handlers with the service
//  5. Wire handlers to routes
//
// Each layer only receives what it needs: the service gets the repository
// INTERFACE (not *mongoRepo.Store), the handlers get the service. The
// import alias `mongoRepo` avoids clashing with the driver package name.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	store, err := mongoRepo.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("connecting to store: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	if err := s.setupRoutes(); err != nil {
		_ = store.Close(context.Background())
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET  /            → hello (liveness)
// POST /auth        → register a new user
// POST /login       → verify credentials, issue a JWT
// GET  /me          → current user's profile      [auth required]
// GET  /users       → list users (bounded)
// GET  /users/{id}  → fetch one user
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added. Our order:
// 1. RequestID — assigns unique ID to each request (for tracing)
// 2. RealIP — extracts real client IP from proxy headers
// 3. Recoverer — catches panics and returns 500 instead of crashing
// 4. Logger — logs each request with timing info
//
// RequireAuth is NOT global — it guards only /me. Registration and login
// must obviously work without a token.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.store, tokens, passwords, s.logger, s.config.TokenTTL)
	authHandler := handler.NewAuthHandler(authService, s.logger)
	userHandler := handler.NewUserHandler(s.store, s.logger)

	// === Global Middleware ===
	s.router.Use(chimiddleware.RequestID) // Adds X-Request-ID header
	s.router.Use(chimiddleware.RealIP)    // Extracts real IP from X-Forwarded-For
	s.router.Use(chimiddleware.Recoverer) // Recovers from panics, returns 500
	s.router.Use(middleware.Logger(s.logger))

	// === Routes ===
	s.router.Get("/", handler.HandleHello)

	s.router.Post("/auth", authHandler.HandleRegister)
	s.router.Post("/login", authHandler.HandleLogin)

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens, s.store, s.logger))
		r.Get("/me", authHandler.HandleMe)
	})

	s.router.Get("/users", userHandler.HandleList)
	s.router.Get("/users/{id}", userHandler.HandleGetByID)

	return nil
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Disconnect the MongoDB client
//
// If we skip step 3, pooled connections are dropped mid-operation.
// The `defer` ensures the disconnect happens even if something panics.
func (s *Server) Start() error {
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.store.Close(ctx); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	// Create the HTTP server with sensible timeouts
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to receive OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Channel to receive server errors
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine (so it doesn't block)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.MongoDB),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give in-flight requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
