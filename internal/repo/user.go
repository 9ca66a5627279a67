package repo

import (
	"context"
	"database/sql"

	"github.com/pawbase/pawbase/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, name, username, passwordHash string) (models.User, error) {
	query := `
		INSERT INTO users (name, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, username, password_hash
	`

	var user models.User
	err := r.DB.QueryRowContext(ctx, query, name, username, passwordHash).
		Scan(&user.ID, &user.Name, &user.Username, &user.PasswordHash)
	return user, err
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (models.User, error) {
	query := `
		SELECT id, name, username, password_hash
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Name, &user.Username, &user.PasswordHash)
	return user, err
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	query := `
		SELECT id, name, username, password_hash
		FROM users
		WHERE username = $1
	`

	var user models.User
	err := r.DB.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Name, &user.Username, &user.PasswordHash)
	return user, err
}

// ==========================
// Update User
// ==========================

// Update replaces name and username. passwordHash is only written when
// non-empty, so an edit without a password change keeps the stored hash.
func (r *UserRepo) Update(ctx context.Context, id int, name, username, passwordHash string) (models.User, error) {
	var user models.User
	var err error
	if passwordHash == "" {
		err = r.DB.QueryRowContext(ctx, `
			UPDATE users
			SET name = $1, username = $2
			WHERE id = $3
			RETURNING id, name, username, password_hash
		`, name, username, id).
			Scan(&user.ID, &user.Name, &user.Username, &user.PasswordHash)
	} else {
		err = r.DB.QueryRowContext(ctx, `
			UPDATE users
			SET name = $1, username = $2, password_hash = $3
			WHERE id = $4
			RETURNING id, name, username, password_hash
		`, name, username, passwordHash, id).
			Scan(&user.ID, &user.Name, &user.Username, &user.PasswordHash)
	}
	return user, err
}

// ==========================
// Delete User
// ==========================
func (r *UserRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ==========================
// List Users
// ==========================
func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, username, password_hash FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.PasswordHash); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// ==========================
// Pets owned by a user
// ==========================
func (r *UserRepo) Pets(ctx context.Context, userID int) ([]models.Pet, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, age, user_id FROM pets WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pets []models.Pet
	for rows.Next() {
		var p models.Pet
		if err := rows.Scan(&p.ID, &p.Name, &p.Age, &p.UserID); err != nil {
			return nil, err
		}
		pets = append(pets, p)
	}

	return pets, rows.Err()
}
