package repo

import (
	"context"
	"database/sql"

	"github.com/pawbase/pawbase/internal/models"
)

// ==========================
// PetRepo
// ==========================
type PetRepo struct {
	DB *sql.DB
}

func NewPetRepo(db *sql.DB) *PetRepo {
	return &PetRepo{DB: db}
}

// ==========================
// Create Pet
// ==========================
func (r *PetRepo) Create(ctx context.Context, name string, age, userID int) (models.Pet, error) {
	var pet models.Pet
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO pets (name, age, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, age, user_id
	`, name, age, userID).
		Scan(&pet.ID, &pet.Name, &pet.Age, &pet.UserID)
	return pet, err
}

// ==========================
// Get By ID
// ==========================
func (r *PetRepo) GetByID(ctx context.Context, id int) (models.Pet, error) {
	var pet models.Pet
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, age, user_id
		FROM pets
		WHERE id = $1
	`, id).
		Scan(&pet.ID, &pet.Name, &pet.Age, &pet.UserID)
	return pet, err
}

// ==========================
// Update Pet
// ==========================
func (r *PetRepo) Update(ctx context.Context, id int, name string, age, userID int) (models.Pet, error) {
	var pet models.Pet
	err := r.DB.QueryRowContext(ctx, `
		UPDATE pets
		SET name = $1, age = $2, user_id = $3
		WHERE id = $4
		RETURNING id, name, age, user_id
	`, name, age, userID, id).
		Scan(&pet.ID, &pet.Name, &pet.Age, &pet.UserID)
	return pet, err
}

// ==========================
// Delete Pet
// ==========================
func (r *PetRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
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
// List Pets
// ==========================
func (r *PetRepo) List(ctx context.Context) ([]models.Pet, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, age, user_id FROM pets ORDER BY id`)
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

// ==========================
// Owner of a pet
// ==========================
func (r *PetRepo) Owner(ctx context.Context, petID int) (models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT u.id, u.name, u.username, u.password_hash
		FROM users u
		JOIN pets p ON p.user_id = u.id
		WHERE p.id = $1
	`, petID).
		Scan(&user.ID, &user.Name, &user.Username, &user.PasswordHash)
	return user, err
}

// ==========================
// Pivot: attach / detach / list categories
// ==========================

// AttachCategory links a pet to a category. Attaching an already-attached
// category is a no-op (the pivot pair is unique).
func (r *PetRepo) AttachCategory(ctx context.Context, petID, categoryID int) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO pet_categories (pet_id, category_id)
		VALUES ($1, $2)
		ON CONFLICT (pet_id, category_id) DO NOTHING
	`, petID, categoryID)
	return err
}

// DetachCategory removes the pivot row linking a pet to a category. The
// category row itself is kept.
func (r *PetRepo) DetachCategory(ctx context.Context, petID, categoryID int) error {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM pet_categories WHERE pet_id = $1 AND category_id = $2`,
		petID, categoryID)
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

// Categories returns the categories attached to a pet in id order.
func (r *PetRepo) Categories(ctx context.Context, petID int) ([]models.Category, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.id, c.name
		FROM categories c
		JOIN pet_categories pc ON pc.category_id = c.id
		WHERE pc.pet_id = $1
		ORDER BY c.id
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}
