package repo

import (
	"context"
	"database/sql"

	"github.com/pawbase/pawbase/internal/models"
)

// ==========================
// TokenRepo
// ==========================
type TokenRepo struct {
	DB *sql.DB
}

func NewTokenRepo(db *sql.DB) *TokenRepo {
	return &TokenRepo{DB: db}
}

// ==========================
// Create Token
// ==========================
func (r *TokenRepo) Create(ctx context.Context, token string, userID int) (models.Token, error) {
	var t models.Token
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO tokens (token, user_id)
		VALUES ($1, $2)
		RETURNING id, token, user_id
	`, token, userID).
		Scan(&t.ID, &t.Token, &t.UserID)
	return t, err
}

// ==========================
// Resolve a bearer token to its user
// ==========================
func (r *TokenRepo) GetUser(ctx context.Context, token string) (models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT u.id, u.name, u.username, u.password_hash
		FROM users u
		JOIN tokens t ON t.user_id = u.id
		WHERE t.token = $1
	`, token).
		Scan(&user.ID, &user.Name, &user.Username, &user.PasswordHash)
	return user, err
}

// ==========================
// Revoke all tokens for a user
// ==========================
func (r *TokenRepo) DeleteForUser(ctx context.Context, userID int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM tokens WHERE user_id = $1`, userID)
	return err
}
