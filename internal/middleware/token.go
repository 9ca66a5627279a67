package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pawbase/pawbase/internal/models"
	"github.com/pawbase/pawbase/internal/repo"
)

type key string

const userKey key = "user"

// GetUser returns the authenticated user set by TokenAuth.
func GetUser(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}

// GetUserID returns the authenticated user's id set by TokenAuth. 0 if not set.
func GetUserID(ctx context.Context) (int, bool) {
	u, ok := GetUser(ctx)
	return u.ID, ok
}

// WithUser returns a context carrying the authenticated user. Exported for handler tests.
func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// TokenAuth authenticates requests by the opaque bearer token in the
// Authorization header. The token is resolved to its user through the tokens
// table; unknown or missing tokens get 401 before any business logic runs.
func TokenAuth(tokens *repo.TokenRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "missing authorization header")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader || token == "" {
				unauthorized(w, "invalid authorization header")
				return
			}

			user, err := tokens.GetUser(r.Context(), token)
			if err == sql.ErrNoRows {
				unauthorized(w, "invalid token")
				return
			}
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireUser is the guard behind TokenAuth: authenticated requests that still
// resolve no principal get 403 instead of running the handler.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
