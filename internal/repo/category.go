package repo

import (
	"context"
	"database/sql"

	"github.com/pawbase/pawbase/internal/models"
)

// ==========================
// CategoryRepo
// ==========================
type CategoryRepo struct {
	DB *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{DB: db}
}

// ==========================
// Create Category
// ==========================
func (r *CategoryRepo) Create(ctx context.Context, name string) (models.Category, error) {
	var category models.Category
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO categories (name)
		VALUES ($1)
		RETURNING id, name
	`, name).
		Scan(&category.ID, &category.Name)
	return category, err
}

// ==========================
// Get By ID
// ==========================
func (r *CategoryRepo) GetByID(ctx context.Context, id int) (models.Category, error) {
	var category models.Category
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name
		FROM categories
		WHERE id = $1
	`, id).
		Scan(&category.ID, &category.Name)
	return category, err
}

// ==========================
// Get By Name (exact match)
// ==========================
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (models.Category, error) {
	var category models.Category
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name
		FROM categories
		WHERE name = $1
	`, name).
		Scan(&category.ID, &category.Name)
	return category, err
}

// ==========================
// Update Category
// ==========================
func (r *CategoryRepo) Update(ctx context.Context, id int, name string) (models.Category, error) {
	var category models.Category
	err := r.DB.QueryRowContext(ctx, `
		UPDATE categories
		SET name = $1
		WHERE id = $2
		RETURNING id, name
	`, name, id).
		Scan(&category.ID, &category.Name)
	return category, err
}

// ==========================
// Delete Category
// ==========================
func (r *CategoryRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
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
// List Categories
// ==========================
func (r *CategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
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

// ==========================
// Pets attached to a category
// ==========================
func (r *CategoryRepo) Pets(ctx context.Context, categoryID int) ([]models.Pet, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT p.id, p.name, p.age, p.user_id
		FROM pets p
		JOIN pet_categories pc ON pc.pet_id = p.id
		WHERE pc.category_id = $1
		ORDER BY p.id
	`, categoryID)
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
