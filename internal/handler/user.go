package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nahid/user-auth-api/internal/repository"
)

// UserHandler exposes read-only user listing and lookup.
//
//   - HandleList    → GET /users       — list users (bounded)
//   - HandleGetByID → GET /users/{id}  — fetch one user by store ID
//
// These routes predate the auth flow and are kept public and read-only.
// The responses go through User's JSON tags, so the password hash is
// stripped automatically (json:"-").
type UserHandler struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler with its dependencies.
func NewUserHandler(users repository.UserRepository, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// HandleList returns all users, capped at the repository's default limit.
//
// HTTP: GET /users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context(), repository.ListOptions{})
	if err != nil {
		h.logger.Error("listing users failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// HandleGetByID returns a single user by its store-assigned ID.
//
// HTTP: GET /users/{id}
//
// chi.URLParam extracts the {id} path segment the router matched.
// An unknown or malformed ID is a plain 404.
func (h *UserHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
