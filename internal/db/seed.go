package db

import (
	"database/sql"
	"fmt"

	"github.com/pawbase/pawbase/internal/auth"
)

// SeedAdmin inserts the administrative user (admin/password) if it does not
// exist yet. The hash is computed at seed time so no plaintext or fixed hash
// lives in the schema.
func SeedAdmin(database *sql.DB) error {
	hash, err := auth.HashPassword("password")
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	_, err = database.Exec(
		`INSERT INTO users (name, username, password_hash)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (username) DO NOTHING`,
		"Admin", "admin", hash,
	)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
