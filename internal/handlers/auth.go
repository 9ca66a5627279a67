package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pawbase/pawbase/internal/auth"
	"github.com/pawbase/pawbase/internal/repo"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	UserRepo  *repo.UserRepo
	TokenRepo *repo.TokenRepo
}

// ==========================
// Login (HTTP Basic; issues a persisted opaque bearer token)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username, password, ok := r.BasicAuth()
	if !ok || username == "" {
		w.Header().Set("WWW-Authenticate", `Basic realm="pawbase"`)
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	user, err := h.UserRepo.GetByUsername(r.Context(), username)
	if err == sql.ErrNoRows {
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	value, err := auth.GenerateToken()
	if err != nil {
		slog.Error("login: generate token", "error", err)
		JSONError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	token, err := h.TokenRepo.Create(r.Context(), value, user.ID)
	if err != nil {
		slog.Error("login: persist token", "error", err)
		JSONError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(token)
}
