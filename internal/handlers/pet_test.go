package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pawbase/pawbase/internal/middleware"
	"github.com/pawbase/pawbase/internal/models"
	"github.com/pawbase/pawbase/internal/repo"
	"github.com/pawbase/pawbase/internal/sync"
)

func TestPetHandler_CreatePet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO pets \(name, age, user_id\)`).
		WithArgs("Rex", 3, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "age", "user_id"}).
			AddRow(1, "Rex", 3, 1))

	h := &PetHandler{Repo: repo.NewPetRepo(db)}

	body, _ := json.Marshal(map[string]interface{}{"name": "Rex", "age": 3, "user_id": 1})
	req := httptest.NewRequest("POST", "/api/pets", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.CreatePet(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("CreatePet status: got %d, want 201", rr.Code)
	}
	var pet struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Age    int    `json:"age"`
		UserID int    `json:"user_id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&pet); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if pet.ID != 1 || pet.Name != "Rex" || pet.UserID != 1 {
		t.Errorf("unexpected pet: %+v", pet)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPetHandler_CreatePet_MissingAge(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &PetHandler{Repo: repo.NewPetRepo(db)}

	body, _ := json.Marshal(map[string]interface{}{"name": "Rex", "user_id": 1})
	req := httptest.NewRequest("POST", "/api/pets", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.CreatePet(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("CreatePet status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPetHandler_CreatePet_NegativeAge(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &PetHandler{Repo: repo.NewPetRepo(db)}

	body, _ := json.Marshal(map[string]interface{}{"name": "Rex", "age": -1, "user_id": 1})
	req := httptest.NewRequest("POST", "/api/pets", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.CreatePet(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("CreatePet status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPetHandler_CreatePet_SelfAssignsOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// user_id omitted: the authenticated caller becomes the owner.
	mock.ExpectQuery(`INSERT INTO pets \(name, age, user_id\)`).
		WithArgs("Rex", 3, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "age", "user_id"}).
			AddRow(1, "Rex", 3, 7))

	h := &PetHandler{Repo: repo.NewPetRepo(db)}

	body, _ := json.Marshal(map[string]interface{}{"name": "Rex", "age": 3})
	req := httptest.NewRequest("POST", "/api/pets", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUser(req.Context(), models.User{ID: 7, Username: "alice"}))
	rr := httptest.NewRecorder()
	h.CreatePet(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("CreatePet status: got %d, want 201", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPetHandler_GetPet_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, age, user_id`).
		WithArgs(999).
		WillReturnError(sql.ErrNoRows)

	h := &PetHandler{Repo: repo.NewPetRepo(db)}

	req := requestWithChiURLParams("GET", "/api/pets/999", nil, map[string]string{"id": "999"})
	rr := httptest.NewRecorder()
	h.GetPet(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("GetPet status: got %d, want 404", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPetHandler_GetPetUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT u.id, u.name, u.username, u.password_hash`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "password_hash"}).
			AddRow(7, "Alice Smith", "alice", "hashed"))

	h := &PetHandler{Repo: repo.NewPetRepo(db)}

	req := requestWithChiURLParams("GET", "/api/pets/1/user", nil, map[string]string{"id": "1"})
	rr := httptest.NewRecorder()
	h.GetPetUser(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("GetPetUser status: got %d, want 200", rr.Code)
	}
	var out map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["username"] != "alice" {
		t.Errorf("unexpected owner: %+v", out)
	}
	if _, ok := out["password_hash"]; ok {
		t.Error("owner response contains password_hash field")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPetHandler_GetPetCategories_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, age, user_id`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "age", "user_id"}).
			AddRow(1, "Rex", 3, 1))
	mock.ExpectQuery(`SELECT c.id, c.name`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	h := &PetHandler{Repo: repo.NewPetRepo(db)}

	req := requestWithChiURLParams("GET", "/api/pets/1/categories", nil, map[string]string{"id": "1"})
	rr := httptest.NewRecorder()
	h.GetPetCategories(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("GetPetCategories status: got %d, want 200", rr.Code)
	}
	if body := rr.Body.String(); body != "[]\n" {
		t.Errorf("unexpected body: %q", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPetHandler_AttachCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, age, user_id`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "age", "user_id"}).
			AddRow(1, "Rex", 3, 1))
	mock.ExpectQuery(`SELECT id, name`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "Mammal"))
	mock.ExpectExec(`INSERT INTO pet_categories \(pet_id, category_id\)`).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := &PetHandler{Repo: repo.NewPetRepo(db), CategoryRepo: repo.NewCategoryRepo(db)}

	req := requestWithChiURLParams("POST", "/api/pets/1/categories/2", nil,
		map[string]string{"id": "1", "categoryID": "2"})
	rr := httptest.NewRecorder()
	h.AttachCategory(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("AttachCategory status: got %d, want 201", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPetHandler_DetachCategory_NotAttached(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM pet_categories WHERE pet_id = \$1 AND category_id = \$2`).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	h := &PetHandler{Repo: repo.NewPetRepo(db)}

	req := requestWithChiURLParams("DELETE", "/api/pets/1/categories/2", nil,
		map[string]string{"id": "1", "categoryID": "2"})
	rr := httptest.NewRecorder()
	h.DetachCategory(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("DetachCategory status: got %d, want 404", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPetHandler_SyncCategories(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM pets WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`SELECT c.id, c.name`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(5, "Dog"))
	// "Cat" does not exist yet: find misses, create runs.
	mock.ExpectQuery(`SELECT id FROM categories WHERE name = \$1`).
		WithArgs("Cat").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO categories \(name\)`).
		WithArgs("Cat").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectExec(`INSERT INTO pet_categories \(pet_id, category_id\)`).
		WithArgs(1, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	h := &PetHandler{Repo: repo.NewPetRepo(db), Synchronizer: sync.New(db)}

	body, _ := json.Marshal(map[string][]string{"categories": {"Dog", "Cat"}})
	req := requestWithChiURLParams("PUT", "/api/pets/1/categories", body, map[string]string{"id": "1"})
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.SyncCategories(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("SyncCategories status: got %d, want 200", rr.Code)
	}
	var result struct {
		Added   []string `json:"added"`
		Removed []string `json:"removed"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.Added) != 1 || result.Added[0] != "Cat" || len(result.Removed) != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPetHandler_SyncCategories_BlankName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &PetHandler{Repo: repo.NewPetRepo(db), Synchronizer: sync.New(db)}

	body, _ := json.Marshal(map[string][]string{"categories": {"Dog", "  "}})
	req := requestWithChiURLParams("PUT", "/api/pets/1/categories", body, map[string]string{"id": "1"})
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.SyncCategories(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("SyncCategories status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
