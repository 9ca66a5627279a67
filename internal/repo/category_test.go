package repo

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCategoryRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO categories \(name\)`).
		WithArgs("Mammal").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Mammal"))

	repo := NewCategoryRepo(db)
	category, err := repo.Create(context.Background(), "Mammal")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if category.ID != 1 || category.Name != "Mammal" {
		t.Errorf("unexpected category: %+v", category)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCategoryRepo_GetByName_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name`).
		WithArgs("Reptile").
		WillReturnError(sql.ErrNoRows)

	repo := NewCategoryRepo(db)
	_, err = repo.GetByName(context.Background(), "Reptile")
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCategoryRepo_Pets(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT p.id, p.name, p.age, p.user_id`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "age", "user_id"}).
			AddRow(1, "Rex", 3, 1))

	repo := NewCategoryRepo(db)
	pets, err := repo.Pets(context.Background(), 1)
	if err != nil {
		t.Fatalf("Pets: %v", err)
	}
	if len(pets) != 1 || pets[0].Name != "Rex" {
		t.Errorf("unexpected pets: %+v", pets)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCategoryRepo_Delete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).
		WithArgs(999).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewCategoryRepo(db)
	if err := repo.Delete(context.Background(), 999); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
