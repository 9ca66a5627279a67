package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/lib/pq"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// Postgres error codes used for client-facing mapping.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// JSONValidationError sends a JSON error response with "error" and optional "fields" for field-level details.
// status is typically http.StatusBadRequest (400).
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	out := map[string]interface{}{"error": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	json.NewEncoder(w).Encode(out)
}

// JSONStoreError maps store errors to client responses: missing rows become
// 404 with notFoundMsg, uniqueness violations 400, foreign-key violations 409
// (e.g. deleting a user who still owns pets). Anything else is a 500.
func JSONStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	if err == sql.ErrNoRows {
		JSONError(w, notFoundMsg, http.StatusNotFound)
		return
	}
	if e, ok := err.(*pq.Error); ok {
		switch string(e.Code) {
		case pqUniqueViolation:
			field := e.Constraint
			if field == "" {
				field = "unique"
			}
			JSONValidationError(w, "validation failed", map[string]string{field: "already taken"}, http.StatusBadRequest)
			return
		case pqForeignKeyViolation:
			JSONError(w, "conflict: dependent records exist", http.StatusConflict)
			return
		}
	}
	JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
}
