// Package handler contains the HTTP layer: request decoding, response
// encoding, and nothing else. Business rules live in internal/service.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nahid/user-auth-api/internal/auth"
	"github.com/nahid/user-auth-api/internal/model"
	"github.com/nahid/user-auth-api/internal/service"
)

// AuthHandler exposes registration, login, and the current-user endpoint.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister → POST /auth   — create an account
//   - HandleLogin    → POST /login  — verify credentials, return a JWT
//   - HandleMe       → GET  /me     — echo the authenticated user's profile
//
// The handler decodes JSON, calls the service, and encodes the result.
// It never touches the repository or bcrypt directly.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected here;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		logger: logger,
	}
}

// registerRequest is the expected body of POST /auth.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerResponse mirrors the original API's registration response:
//
//	{"message": "User created successfully", "user": {"name": ..., "email": ...}}
type registerResponse struct {
	Message string             `json:"message"`
	User    *model.UserSummary `json:"user"`
}

// loginRequest is the expected body of POST /login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse follows the OAuth2-style bearer token shape most HTTP
// clients already know how to consume.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // always "bearer"
}

// HandleRegister creates a new user account.
//
// HTTP: POST /auth
// Body: {"name": ..., "email": ..., "password": ...}
//
// 200 → {"message": "User created successfully", "user": {name, email}}
// 400 → email already registered
// 500 → store failure
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "request body must be valid JSON",
		})
		return
	}

	summary, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.logger.Warn("registration failed",
			slog.String("email", req.Email),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, registerResponse{
		Message: "User created successfully",
		User:    summary,
	})
}

// HandleLogin verifies credentials and returns an access token.
//
// HTTP: POST /login
// Body: {"email": ..., "password": ...}
//
// 200 → {"access_token": <jwt>, "token_type": "bearer"}
// 401 → invalid credentials (unknown email and wrong password are
// indistinguishable — see AuthService.Login)
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "request body must be valid JSON",
		})
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// The service already collapsed the cause; don't log the password,
		// and don't add detail the response must not carry.
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /me
// Auth: Required (RequireAuth middleware resolves the user into context)
//
// The middleware has already validated the token AND confirmed the claims
// match a stored record, so this handler only has to echo the summary.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		// Should never happen on a RequireAuth-protected route, but be safe.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	writeJSON(w, http.StatusOK, user.Summary())
}
