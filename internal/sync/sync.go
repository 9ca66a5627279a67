// Package sync reconciles a pet's attached categories against a desired set
// of category names.
package sync

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/pawbase/pawbase/internal/metrics"
)

// Synchronizer applies set-difference edits to the pet_categories pivot.
//
// Each call runs in a single transaction: either every attach and detach in
// the batch is applied, or none are. Two concurrent calls for the same pet are
// not coordinated beyond that; the last committed transaction wins.
type Synchronizer struct {
	DB *sql.DB
}

func New(db *sql.DB) *Synchronizer {
	return &Synchronizer{DB: db}
}

// Result reports what one synchronization call changed.
type Result struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// Sync reconciles the pet's attached categories with desiredNames.
//
// Names missing from the pet are attached, creating the category row first if
// no category with that exact name exists. Names attached to the pet but not
// desired are detached; the category rows are kept. Duplicate desired names
// collapse, an empty desired set detaches everything, and matching is
// exact-string. Returns sql.ErrNoRows when the pet does not exist.
func (s *Synchronizer) Sync(ctx context.Context, petID int, desiredNames []string) (Result, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("sync begin: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT id FROM pets WHERE id = $1`, petID).Scan(&exists); err != nil {
		return Result{}, err
	}

	existing := make(map[string]int) // name -> category id
	rows, err := tx.QueryContext(ctx, `
		SELECT c.id, c.name
		FROM categories c
		JOIN pet_categories pc ON pc.category_id = c.id
		WHERE pc.pet_id = $1
	`, petID)
	if err != nil {
		return Result{}, fmt.Errorf("sync load existing: %w", err)
	}
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return Result{}, err
		}
		existing[name] = id
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Result{}, err
	}

	desired := make(map[string]bool, len(desiredNames))
	for _, name := range desiredNames {
		desired[name] = true
	}

	var toAdd, toRemove []string
	for name := range desired {
		if _, ok := existing[name]; !ok {
			toAdd = append(toAdd, name)
		}
	}
	for name := range existing {
		if !desired[name] {
			toRemove = append(toRemove, name)
		}
	}
	sort.Strings(toAdd)
	sort.Strings(toRemove)

	for _, name := range toAdd {
		categoryID, err := findOrCreateCategory(ctx, tx, name)
		if err != nil {
			return Result{}, fmt.Errorf("sync attach %q: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pet_categories (pet_id, category_id)
			VALUES ($1, $2)
			ON CONFLICT (pet_id, category_id) DO NOTHING
		`, petID, categoryID); err != nil {
			return Result{}, fmt.Errorf("sync attach %q: %w", name, err)
		}
	}

	for _, name := range toRemove {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM pet_categories WHERE pet_id = $1 AND category_id = $2`,
			petID, existing[name]); err != nil {
			return Result{}, fmt.Errorf("sync detach %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("sync commit: %w", err)
	}

	metrics.AddCategorySync("attach", len(toAdd))
	metrics.AddCategorySync("detach", len(toRemove))

	return Result{Added: toAdd, Removed: toRemove}, nil
}

// findOrCreateCategory looks a category up by exact name, creating it when
// absent so repeated tag text never produces duplicate rows.
func findOrCreateCategory(ctx context.Context, tx *sql.Tx, name string) (int, error) {
	var id int
	err := tx.QueryRowContext(ctx, `SELECT id FROM categories WHERE name = $1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	err = tx.QueryRowContext(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	return id, err
}
